package pixoo

import (
	"errors"
	"fmt"
)

// ─── Errors ─────────────────────────────────────────────────────────────────────

var (
	// ErrUnsupportedFormat is returned for files whose extension is not a
	// picture format the encoder understands.
	ErrUnsupportedFormat = errors.New("pixoo: unsupported file format")

	// ErrGalleryFull is returned when more than MaxGalleryImages images are
	// added to one gallery upload.
	ErrGalleryFull = errors.New("pixoo: gallery holds at most 16 images")

	// ErrNoImages is returned when a gallery upload has nothing to send.
	ErrNoImages = errors.New("pixoo: no images to upload")

	// ErrNotConnected is returned when a command is sent before Connect.
	ErrNotConnected = errors.New("pixoo: device not connected, call Connect() first")

	// ErrUploadState is returned when a gallery upload step is called out
	// of order.
	ErrUploadState = errors.New("pixoo: invalid gallery upload state")
)

// ImageShapeError reports a picture that is not square.
type ImageShapeError struct {
	Width  int
	Height int
}

func (e *ImageShapeError) Error() string {
	return fmt.Sprintf("pixoo: image must be square, got %dx%d", e.Width, e.Height)
}

// DecodeError reports a file that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("pixoo: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TransportError reports a failure of the underlying link. It aborts any
// upload in progress; there is no resume.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pixoo: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports data that cannot be represented on the wire, such
// as a frame longer than the 16-bit length field. It always indicates a bug
// in the caller, not a runtime condition.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return "pixoo: protocol: " + e.Msg
}

func protocolErrorf(format string, v ...interface{}) error {
	return &ProtocolError{Msg: fmt.Sprintf(format, v...)}
}

// isPerImageError reports whether err only concerns one image of a batch,
// so the batch may continue.
func isPerImageError(err error) bool {
	var shape *ImageShapeError
	var decode *DecodeError
	return errors.As(err, &shape) || errors.As(err, &decode) || errors.Is(err, ErrUnsupportedFormat)
}
