package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alparslanahmed/pixoo"
	"github.com/alparslanahmed/pixoo/internal/config"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [flags] <Pixoo address> <command> <argument(s)>

Commands:
  upload <gallery 1-3> <files...>   upload up to 16 pictures/GIFs to a gallery
  setgallery <gallery 1-3>          show a gallery
  deletegallery <gallery 1-3>       erase a gallery
  draw <file>                       draw a picture or GIF now
  brightness <0-100>                set brightness, 0 turns the screen off
  mode <0-7>                        switch box mode
  color <r> <g> <b>                 fill the light with a color

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	var (
		configPath = flag.String("config", "pixoo.yaml", "path to config file")
		network    = flag.String("network", "rfcomm", "transport: rfcomm | serial | tcp")
		channel    = flag.Int("channel", 1, "rfcomm channel")
		baud       = flag.Int("baud", 115200, "serial baud rate")
		frameDelay = flag.Duration("frame-delay", 10*time.Millisecond, "pause after each frame; increase if uploads fail")
		filter     = flag.String("filter", "nearest", "resize filter: nearest | box | linear | cubic | lanczos")
		dryRun     = flag.Bool("dry-run", false, "print frames as hex instead of sending them")
		verbose    = flag.Bool("v", false, "verbose output (frame dumps)")
	)
	flag.Usage = usage
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ---- Config file (optional), explicit flags win ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		}
	} else {
		cfg = c
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "network":
			cfg.Transport.Network = *network
		case "channel":
			cfg.Transport.Channel = *channel
		case "baud":
			cfg.Transport.BaudRate = *baud
		case "frame-delay":
			cfg.Pacing.FrameDelay = *frameDelay
		case "filter":
			cfg.Encoder.ResizeFilter = *filter
		}
	})

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if *verbose {
		level = zerolog.TraceLevel
	}
	zerolog.SetGlobalLevel(level)

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	address, command, rest := args[0], args[1], args[2:]

	resize, err := pixoo.ParseResizeFilter(cfg.Encoder.ResizeFilter)
	if err != nil {
		log.Fatal().Err(err).Msg("bad resize filter")
	}

	opts := []pixoo.DeviceOption{
		pixoo.WithTimeout(cfg.Transport.Timeout),
		pixoo.WithChannel(cfg.Transport.Channel),
		pixoo.WithBaudRate(cfg.Transport.BaudRate),
		pixoo.WithFrameDelay(cfg.Pacing.FrameDelay),
		pixoo.WithSettleDelay(cfg.Pacing.SettleDelay),
		pixoo.WithResizeFilter(resize),
		pixoo.WithLogger(log.Logger),
		pixoo.WithProgressCallback(printProgress),
	}
	if cfg.Gallery.ChunkHeader == "continuation" {
		opts = append(opts, pixoo.WithGalleryChunkHeader(pixoo.ContinuationHeader))
	}

	// ---- Device ----
	var dev *pixoo.Device
	if *dryRun {
		dev = pixoo.NewDeviceWithTransport(&pixoo.HexDumper{W: os.Stdout}, append(opts, pixoo.WithFrameDelay(0))...)
	} else {
		dev = pixoo.NewDevice(cfg.Transport.Network, address, opts...)
		if err := dev.Connect(); err != nil {
			log.Fatal().Err(err).Str("address", address).Msg("connect failed")
		}
	}
	defer dev.Close()

	if err := run(dev, command, rest); err != nil {
		dev.Close()
		log.Fatal().Err(err).Str("command", command).Msg("command failed")
	}
}

func run(dev *pixoo.Device, command string, args []string) error {
	switch command {
	case "upload":
		if len(args) < 2 {
			return fmt.Errorf("usage: upload <gallery 1-3> <files...>")
		}
		slot, err := gallerySlot(args[0])
		if err != nil {
			return err
		}
		var files []string
		for _, f := range args[1:] {
			if st, err := os.Stat(f); err != nil || st.IsDir() {
				log.Warn().Str("file", f).Msg("file does not exist, skipping")
				continue
			}
			files = append(files, f)
		}
		report, err := dev.UploadGallery(slot, files)
		if report != nil {
			for _, s := range report.Skipped {
				log.Warn().Str("file", s.Path).Err(s.Err).Msg("not uploaded")
			}
		}
		if err != nil {
			return err
		}
		log.Info().Int("gallery", slot+1).Int("images", len(report.Uploaded)).Int("bytes", report.Bytes).Msg("upload complete")
		return nil

	case "setgallery":
		slot, err := gallerySlot(arg(args, 0))
		if err != nil {
			return err
		}
		return dev.SetGallery(slot)

	case "deletegallery":
		slot, err := gallerySlot(arg(args, 0))
		if err != nil {
			return err
		}
		return dev.DeleteGallery(slot)

	case "draw":
		path := arg(args, 0)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("file %q does not exist", path)
		}
		return dev.DrawFile(path)

	case "brightness":
		v, err := strconv.Atoi(arg(args, 0))
		if err != nil {
			return fmt.Errorf("brightness must be a number 0-100: %w", err)
		}
		return dev.SetBrightness(v)

	case "mode":
		v, err := strconv.Atoi(arg(args, 0))
		if err != nil || v < 0 || v > int(pixoo.BoxModeScore) {
			return fmt.Errorf("mode must be a number 0-%d", int(pixoo.BoxModeScore))
		}
		return dev.SetBoxMode(pixoo.BoxMode(v), 0, 0)

	case "color":
		if len(args) != 3 {
			return fmt.Errorf("usage: color <r> <g> <b>")
		}
		var c [3]uint8
		for i, s := range args {
			v, err := strconv.ParseUint(s, 10, 8)
			if err != nil {
				return fmt.Errorf("color component %q: %w", s, err)
			}
			c[i] = uint8(v)
		}
		return dev.SetColor(pixoo.RGB{R: c[0], G: c[1], B: c[2]})

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// gallerySlot parses a 1-based gallery number into a slot index.
func gallerySlot(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > pixoo.GalleryCount {
		return 0, fmt.Errorf("Pixoo only has galleries 1, 2 and 3")
	}
	return n - 1, nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func printProgress(p pixoo.UploadProgress) {
	switch {
	case p.Finalized:
		fmt.Printf("Finished uploading to gallery %d (%d images, %d bytes)\n", p.Slot+1, p.Total, p.Bytes)
	case p.Err != nil:
		fmt.Printf("[!] %s: %v\n", p.FileName, p.Err)
	default:
		fmt.Printf("[%d] %s\n", p.Index+1, p.FileName)
	}
}
