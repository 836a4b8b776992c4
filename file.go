package pixoo

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ─── File Formats ───────────────────────────────────────────────────────────────

// Format is a picture file format understood by the encoder.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
)

// String returns the usual extension-less name of the format.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	default:
		return "unknown"
	}
}

// SupportedFormat detects the format from the file extension.
func SupportedFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, true
	case ".jpg", ".jpeg":
		return FormatJPEG, true
	case ".gif":
		return FormatGIF, true
	default:
		return FormatUnknown, false
	}
}

// ─── Decoding ───────────────────────────────────────────────────────────────────

// DecodeFile reads a picture file. A still picture yields one frame with no
// declared duration; a GIF yields one frame per GIF frame.
//
//	frames, err := pixoo.DecodeFile("nyan.gif")
func DecodeFile(path string) ([]RawFrame, error) {
	format, ok := SupportedFormat(path)
	if !ok {
		return nil, &DecodeError{Path: path, Err: ErrUnsupportedFormat}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	frames, err := DecodeFrames(f, format)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return frames, nil
}

// DecodeFrames decodes a picture of the given format from r.
func DecodeFrames(r io.Reader, format Format) ([]RawFrame, error) {
	switch format {
	case FormatPNG:
		img, err := png.Decode(r)
		if err != nil {
			return nil, err
		}
		return []RawFrame{{Image: img}}, nil

	case FormatJPEG:
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, err
		}
		return []RawFrame{{Image: img}}, nil

	case FormatGIF:
		g, err := gif.DecodeAll(r)
		if err != nil {
			return nil, err
		}
		return gifFrames(g)

	default:
		return nil, ErrUnsupportedFormat
	}
}

// gifFrames renders every GIF frame onto the full logical screen. GIF frames
// may cover only part of the screen and rely on what the previous frame left
// behind, according to its disposal method.
func gifFrames(g *gif.GIF) ([]RawFrame, error) {
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	canvas := image.NewNRGBA(bounds)
	frames := make([]RawFrame, 0, len(g.Image))

	for i, src := range g.Image {
		var saved *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = cloneNRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		frames = append(frames, RawFrame{
			Image:       cloneNRGBA(canvas),
			DurationMs:  delay * 10,
			HasDuration: true,
		})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}

	return frames, nil
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
