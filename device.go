package pixoo

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Device is the handle of one Pixoo. Every command goes through it; there
// is no package-level connection.
//
// Usage:
//
//	dev := pixoo.NewDevice("rfcomm", "11:75:58:AA:BB:CC")
//	err := dev.Connect()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	err = dev.SetBrightness(80)
type Device struct {
	// network is the transport kind ("rfcomm", "serial", "tcp").
	network string

	// address is the Bluetooth address, tty path or host:port.
	address string

	// transport is the open link, nil before Connect.
	transport Transport

	// opts holds the device options.
	opts deviceOptions

	// encoder is shared by every picture sent through this device.
	encoder *PaletteEncoder

	// writeMu keeps the bytes of one frame together.
	writeMu sync.Mutex

	// sleep is time.Sleep, replaceable in tests.
	sleep func(time.Duration)
}

// NewDevice creates a Device. The link is not opened until Connect.
//
//	// Simple
//	dev := pixoo.NewDevice("rfcomm", "11:75:58:AA:BB:CC")
//
//	// With options
//	dev := pixoo.NewDevice("serial", "/dev/rfcomm0",
//	    pixoo.WithFrameDelay(20*time.Millisecond),
//	    pixoo.WithLogger(zerolog.New(os.Stderr)),
//	)
func NewDevice(network, address string, options ...DeviceOption) *Device {
	opts := defaultDeviceOptions()
	for _, opt := range options {
		opt(&opts)
	}

	return &Device{
		network: network,
		address: address,
		opts:    opts,
		encoder: NewPaletteEncoder(opts.resizeFilter),
		sleep:   time.Sleep,
	}
}

// NewDeviceWithTransport creates a Device on an already open transport,
// such as a Recorder or a HexDumper. No settle delay is applied.
func NewDeviceWithTransport(t Transport, options ...DeviceOption) *Device {
	d := NewDevice("", "", options...)
	d.transport = t
	return d
}

// Connect opens the transport and waits for the link to settle.
// An already open transport is closed first.
func (d *Device) Connect() error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if d.transport != nil {
		d.transport.Close()
		d.transport = nil
	}

	log := d.log()
	log.Info().Str("network", d.network).Str("address", d.address).Msg("connecting")

	t, err := Dial(d.network, d.address, TransportOptions{
		Timeout:  d.opts.timeout,
		Channel:  d.opts.channel,
		BaudRate: d.opts.baudRate,
	})
	if err != nil {
		return err
	}
	d.transport = t

	if d.opts.settleDelay > 0 {
		d.sleep(d.opts.settleDelay)
	}

	log.Info().Str("address", d.address).Msg("connected")
	return nil
}

// Close closes the link.
func (d *Device) Close() error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if d.transport == nil {
		return nil
	}
	err := d.transport.Close()
	d.transport = nil
	return err
}

// IsConnected reports whether a transport is open.
func (d *Device) IsConnected() bool {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.transport != nil
}

// Network returns the transport kind.
func (d *Device) Network() string {
	return d.network
}

// Address returns the device address.
func (d *Device) Address() string {
	return d.address
}

// ─── Sending ────────────────────────────────────────────────────────────────────

// Send encodes one frame, writes it and waits the frame delay.
func (d *Device) Send(cmd Command, args []byte) error {
	frame, err := EncodeFrame(cmd, args)
	if err != nil {
		return err
	}
	return d.sendRaw(cmd, frame)
}

// sendRaw writes an encoded frame to the transport.
func (d *Device) sendRaw(cmd Command, frame []byte) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if d.transport == nil {
		return ErrNotConnected
	}

	d.opts.logger.Trace().
		Stringer("cmd", cmd).
		Int("len", len(frame)).
		Hex("frame", frame).
		Msg("send")

	if err := d.transport.Write(frame); err != nil {
		return err
	}

	if d.opts.frameDelay > 0 {
		d.sleep(d.opts.frameDelay)
	}
	return nil
}

// sendChunks splits payload with header and sends every chunk as its own
// cmd frame. It returns the number of chunks sent.
func (d *Device) sendChunks(cmd Command, payload []byte, header ChunkHeader) (int, error) {
	chunks, err := ChunkPayload(payload, MaxChunkSize, header)
	if err != nil {
		return 0, err
	}
	for _, c := range chunks {
		if err := d.Send(cmd, c.Bytes()); err != nil {
			return c.Index, err
		}
	}
	return len(chunks), nil
}

// ─── Internal Helpers ───────────────────────────────────────────────────────────

// log returns the configured logger with the device address attached.
func (d *Device) log() *zerolog.Logger {
	l := d.opts.logger.With().Str("device", d.address).Logger()
	return &l
}
