package pixoo

import (
	"fmt"
)

// ─── Settings Commands ──────────────────────────────────────────────────────────

// SetBrightness sets the system brightness. 1-100 dims the display, 0
// turns it off. Values are taken modulo 101.
//
//	err := dev.SetBrightness(50)
func (d *Device) SetBrightness(percent int) error {
	percent %= 101
	if percent < 0 {
		percent += 101
	}
	return d.Send(CmdSetSystemBrightness, []byte{byte(percent)})
}

// SetBoxMode switches the display mode. visual and sub select variants
// inside a mode (clock face, light effect...) and are usually 0.
func (d *Device) SetBoxMode(mode BoxMode, visual, sub int) error {
	return d.Send(CmdSetBoxMode, []byte{byte(mode), byte(visual), byte(sub)})
}

// SetColor fills the ambient light with one color.
func (d *Device) SetColor(c RGB) error {
	return d.Send(CmdSetColor, []byte{c.R, c.G, c.B})
}

// ─── Gallery Commands ───────────────────────────────────────────────────────────

// SetGallery switches the display to a gallery slot (0-2, taken modulo 3).
func (d *Device) SetGallery(slot int) error {
	return d.sendMisc(MiscSetGallery, byte(normalizeSlot(slot)))
}

// DeleteGallery erases a gallery slot (0-2, taken modulo 3).
func (d *Device) DeleteGallery(slot int) error {
	return d.sendMisc(MiscDeleteGallery, byte(normalizeSlot(slot)))
}

func (d *Device) sendMisc(sub MiscCommand, args ...byte) error {
	return d.Send(CmdMisc, append([]byte{byte(sub)}, args...))
}

// ─── Drawing Commands ───────────────────────────────────────────────────────────

// DrawImage shows a still picture immediately. Nothing is stored on the
// device.
//
// Frame arguments:
//
//	[4B] 00 0A 0A 04
//	[7B] sub-frame header, duration 0
//	[NB] palette + packed pixels
func (d *Device) DrawImage(frame RawFrame) error {
	img, err := d.encoder.Encode(frame)
	if err != nil {
		return err
	}

	sf := EncodeSubFrame(img, 0, false)
	args := make([]byte, 0, len(drawPicturePrefix)+len(sf))
	args = append(args, drawPicturePrefix...)
	args = append(args, sf...)

	d.log().Debug().Int("colors", img.ColorCount).Int("bytes", len(args)).Msg("drawing picture")
	return d.Send(CmdSetBoxColor, args)
}

// DrawAnimation plays an animation immediately. The sub-frame stream is
// sent in chunks, each with a {chunk size, index} header.
func (d *Device) DrawAnimation(frames []RawFrame) error {
	payload, err := NewAssembler(d.encoder).Assemble(frames, BaseDurationTag)
	if err != nil {
		return err
	}

	n, err := d.sendChunks(CmdSetMulBoxColor, payload, ChunkSizeHeader)
	if err != nil {
		return err
	}

	d.log().Debug().Int("frames", len(frames)).Int("chunks", n).Int("bytes", len(payload)).Msg("drawing animation")
	return nil
}

// DrawFile draws a picture file: GIFs as animations, PNG and JPEG as still
// pictures.
//
//	err := dev.DrawFile("heart.png")
func (d *Device) DrawFile(path string) error {
	format, ok := SupportedFormat(path)
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	frames, err := DecodeFile(path)
	if err != nil {
		return err
	}

	if format == FormatGIF {
		d.log().Info().Str("file", path).Msg("drawing animation")
		return d.DrawAnimation(frames)
	}

	d.log().Info().Str("file", path).Msg("drawing picture")
	return d.DrawImage(frames[0])
}
