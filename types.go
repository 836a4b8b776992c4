package pixoo

import (
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"
)

// ─── Protocol Constants ─────────────────────────────────────────────────────────

const (
	// DefaultFrameDelay is the pause after every transmitted frame. The
	// firmware drops data when frames arrive faster than it consumes them.
	DefaultFrameDelay = 10 * time.Millisecond

	// DefaultSettleDelay is the pause between opening the link and sending
	// the first frame. 40ms has proven to be enough.
	DefaultSettleDelay = 40 * time.Millisecond

	// DefaultTimeout bounds connection setup.
	DefaultTimeout = 10 * time.Second

	// ScreenSize is the logical width and height of the display in pixels.
	ScreenSize = 16

	// MaxChunkSize is the number of payload bytes carried by one chunk frame.
	MaxChunkSize = 200

	// GalleryCount is the number of gallery slots on the device.
	GalleryCount = 3

	// MaxGalleryImages is the number of images or animations a slot holds.
	MaxGalleryImages = 16

	// MaxGalleryPayload is the largest gallery upload the device has been
	// seen to accept. Bigger uploads make it abort and fall back to the
	// first gallery; much bigger ones reboot it.
	MaxGalleryPayload = 28608

	// MinTickMs is the fastest playback the device supports, per frame.
	MinTickMs = 25

	// BaseDurationTag is the duration assigned to frames that declare none.
	// Gallery images add their position to it (see DurationTag).
	BaseDurationTag = 100

	frameStart      = 0x01
	frameEnd        = 0x02
	frameOverhead   = 3 // length field counts cmd + checksum on top of the args
	maxFrameLength  = 0xFFFF
	subFrameTag     = 0xAA
	subFrameHeadLen = 7
)

// ─── Commands ───────────────────────────────────────────────────────────────────

// Command is the command byte of a protocol frame.
type Command byte

const (
	// CmdSetBoxColor draws a single still picture.
	CmdSetBoxColor Command = 0x44

	// CmdSetBoxMode switches the display mode (clock, lights, gallery...).
	CmdSetBoxMode Command = 0x45

	// CmdSetMulBoxColor draws an animation, sent in chunks.
	CmdSetMulBoxColor Command = 0x49

	// CmdDrawingEncodePic sends an encoded picture to the drawing pad.
	CmdDrawingEncodePic Command = 0x5B

	// CmdSetColor fills the lights with a solid color.
	CmdSetColor Command = 0x6F

	// CmdSetSystemBrightness sets the global brightness (0-100).
	CmdSetSystemBrightness Command = 0x74

	// CmdSetUserGIF carries every phase of a gallery upload:
	// prepare, chunk, finalize.
	CmdSetUserGIF Command = 0xB1

	// CmdMisc prefixes the MiscCommand sub-commands.
	CmdMisc Command = 0xBD
)

var commandNames = map[Command]string{
	CmdSetBoxColor:         "SetBoxColor",
	CmdSetBoxMode:          "SetBoxMode",
	CmdSetMulBoxColor:      "SetMulBoxColor",
	CmdDrawingEncodePic:    "DrawingEncodePic",
	CmdSetColor:            "SetColor",
	CmdSetSystemBrightness: "SetSystemBrightness",
	CmdSetUserGIF:          "SetUserGIF",
	CmdMisc:                "Misc",
}

// String returns the symbolic name of the command.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%02x)", byte(c))
}

// Valid reports whether c is a command known to the device.
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

// MiscCommand is the first argument byte of a CmdMisc frame.
type MiscCommand byte

const (
	// MiscDeleteGallery erases an entire gallery slot.
	MiscDeleteGallery MiscCommand = 0x16

	// MiscSetGallery switches the display to a gallery slot.
	MiscSetGallery MiscCommand = 0x17
)

var miscNames = map[MiscCommand]string{
	MiscDeleteGallery: "DeleteGallery",
	MiscSetGallery:    "SetGallery",
}

// String returns the symbolic name of the sub-command.
func (m MiscCommand) String() string {
	if name, ok := miscNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%02x)", byte(m))
}

// Valid reports whether m is a sub-command known to the device.
func (m MiscCommand) Valid() bool {
	_, ok := miscNames[m]
	return ok
}

// Upload phases of CmdSetUserGIF, first argument byte.
const (
	uploadPhasePrepare  = 0x00
	uploadPhaseChunk    = 0x01
	uploadPhaseFinalize = 0x02
)

// drawPicturePrefix precedes the sub-frame of a CmdSetBoxColor frame.
var drawPicturePrefix = []byte{0x00, 0x0A, 0x0A, 0x04}

func init() {
	// Duplicate opcode bytes are rejected by the compiler (constant map
	// keys). Names must be unique across both tables.
	seen := make(map[string]bool)
	for c, name := range commandNames {
		if name == "" || seen[name] {
			panic(fmt.Sprintf("pixoo: bad command table entry 0x%02x", byte(c)))
		}
		seen[name] = true
	}
	for m, name := range miscNames {
		if name == "" || seen[name] {
			panic(fmt.Sprintf("pixoo: bad misc command table entry 0x%02x", byte(m)))
		}
		seen[name] = true
	}
}

// ─── Box Modes ──────────────────────────────────────────────────────────────────

// BoxMode selects what the device shows when idle.
type BoxMode int

const (
	BoxModeClock       BoxMode = 0 // Clock
	BoxModeColor       BoxMode = 1 // Ambient light
	BoxModeHot         BoxMode = 2 // Temperature
	BoxModeSpecial     BoxMode = 3 // Special effects / gallery
	BoxModeMusic       BoxMode = 4 // Music visualizer
	BoxModeUserDefined BoxMode = 5 // User drawing
	BoxModeWatch       BoxMode = 6 // Stopwatch
	BoxModeScore       BoxMode = 7 // Scoreboard
)

// String returns a readable name of the mode.
func (m BoxMode) String() string {
	names := map[BoxMode]string{
		BoxModeClock:       "clock",
		BoxModeColor:       "color",
		BoxModeHot:         "hot",
		BoxModeSpecial:     "special",
		BoxModeMusic:       "music",
		BoxModeUserDefined: "user-defined",
		BoxModeWatch:       "watch",
		BoxModeScore:       "score",
	}
	if name, ok := names[m]; ok {
		return name
	}
	return fmt.Sprintf("BoxMode(%d)", int(m))
}

// ─── Data Structures ────────────────────────────────────────────────────────────

// RGB is one palette entry.
type RGB struct {
	R, G, B uint8
}

// RawFrame is a decoded picture, or one frame of an animation.
type RawFrame struct {
	Image       image.Image // Square source image, any size
	DurationMs  int         // Declared display duration, valid when HasDuration
	HasDuration bool        // False for still pictures and frames without timing
}

// UploadProgress reports the progress of a gallery upload. It is emitted
// once per processed image and once when the upload is finalized.
type UploadProgress struct {
	UploadID  string // Correlation id of the upload
	Slot      int    // Gallery slot (0-2)
	FileName  string // Processed image, empty for the final report
	Index     int    // Position of the image in the gallery
	Total     int    // Number of images accepted for the upload
	Bytes     int    // Payload bytes accumulated so far
	Finalized bool   // True for the final report
	Err       error  // Set when the image was skipped
}

// ─── Option Structures ──────────────────────────────────────────────────────────

// DeviceOption configures a Device.
// Functional Options pattern.
type DeviceOption func(*deviceOptions)

type deviceOptions struct {
	timeout      time.Duration
	frameDelay   time.Duration
	settleDelay  time.Duration
	channel      int
	baudRate     int
	resizeFilter ResizeFilter
	galleryHead  ChunkHeader
	logger       zerolog.Logger
	onProgress   func(UploadProgress)
}

func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		timeout:      DefaultTimeout,
		frameDelay:   DefaultFrameDelay,
		settleDelay:  DefaultSettleDelay,
		channel:      DefaultRFCOMMChannel,
		baudRate:     DefaultBaudRate,
		resizeFilter: FilterNearest,
		galleryHead:  TotalSizeHeader,
		logger:       zerolog.Nop(),
		onProgress:   nil,
	}
}

// WithTimeout sets the connection timeout.
//
//	dev := pixoo.NewDevice("tcp", "10.0.0.7:7777",
//	    pixoo.WithTimeout(5 * time.Second),
//	)
func WithTimeout(d time.Duration) DeviceOption {
	return func(o *deviceOptions) {
		o.timeout = d
	}
}

// WithFrameDelay sets the pause inserted after every transmitted frame.
// Increase it if uploads fail; zero disables pacing.
func WithFrameDelay(d time.Duration) DeviceOption {
	return func(o *deviceOptions) {
		o.frameDelay = d
	}
}

// WithSettleDelay sets the pause between connecting and the first frame.
func WithSettleDelay(d time.Duration) DeviceOption {
	return func(o *deviceOptions) {
		o.settleDelay = d
	}
}

// WithChannel sets the RFCOMM channel (default 1).
func WithChannel(ch int) DeviceOption {
	return func(o *deviceOptions) {
		o.channel = ch
	}
}

// WithBaudRate sets the baud rate of the serial transport.
func WithBaudRate(baud int) DeviceOption {
	return func(o *deviceOptions) {
		o.baudRate = baud
	}
}

// WithResizeFilter selects the resampling filter used to bring pictures
// down (or up) to 16x16.
func WithResizeFilter(f ResizeFilter) DeviceOption {
	return func(o *deviceOptions) {
		o.resizeFilter = f
	}
}

// WithGalleryChunkHeader selects the chunk header layout of gallery
// uploads. TotalSizeHeader is the default.
func WithGalleryChunkHeader(h ChunkHeader) DeviceOption {
	return func(o *deviceOptions) {
		o.galleryHead = h
	}
}

// WithLogger sets the logger. Logging is disabled by default.
func WithLogger(l zerolog.Logger) DeviceOption {
	return func(o *deviceOptions) {
		o.logger = l
	}
}

// WithProgressCallback sets the gallery upload progress callback.
func WithProgressCallback(fn func(UploadProgress)) DeviceOption {
	return func(o *deviceOptions) {
		o.onProgress = fn
	}
}
