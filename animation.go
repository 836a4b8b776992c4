package pixoo

import (
	"encoding/binary"
	"fmt"
)

// ─── Sub-frames ─────────────────────────────────────────────────────────────────

// EncodeSubFrame builds one playable sub-frame.
//
// Sub-frame layout (7 + N byte):
//
//	[1B] tag = 0xAA
//	[2B] size = 7 + len(palette) + len(pixels) (LE)
//	[2B] duration in ms (LE)
//	[1B] palette reuse flag
//	[1B] color count, 0 meaning 256
//	[NB] palette (3 bytes per color) + packed pixels
//
// Palette reuse (sending the palette only with the first frame) is not
// known to work on real devices, so callers pass false.
func EncodeSubFrame(img *EncodedImage, tickMs int, reusePalette bool) []byte {
	size := subFrameHeadLen + len(img.Palette) + len(img.Pixels)

	sf := make([]byte, subFrameHeadLen, size)
	sf[0] = subFrameTag
	binary.LittleEndian.PutUint16(sf[1:3], uint16(size))
	binary.LittleEndian.PutUint16(sf[3:5], uint16(tickMs))
	if reusePalette {
		sf[5] = 0x01
	}
	sf[6] = byte(img.ColorCount % 256)

	sf = append(sf, img.Palette...)
	return append(sf, img.Pixels...)
}

// ─── Animation Assembly ─────────────────────────────────────────────────────────

// Assembler turns a sequence of frames into the flat sub-frame stream sent
// to the device.
type Assembler struct {
	enc *PaletteEncoder
}

// NewAssembler returns an assembler using enc for every frame.
func NewAssembler(enc *PaletteEncoder) *Assembler {
	if enc == nil {
		enc = NewPaletteEncoder(FilterNearest)
	}
	return &Assembler{enc: enc}
}

// Assemble encodes frames into one payload. Frames without a declared
// duration use baseDurationTag. All sub-frames carry the normalized tick;
// each is repeated by its repeat factor, in source order.
//
//	3 frames, 100/200/100ms  ->  F0 F1 F1 F2   (tick 100)
func (a *Assembler) Assemble(frames []RawFrame, baseDurationTag int) ([]byte, error) {
	durations := make([]int, len(frames))
	for i, f := range frames {
		if f.HasDuration {
			durations[i] = f.DurationMs
		} else {
			durations[i] = baseDurationTag
		}
	}

	tick, factors := Normalize(durations)

	var out []byte
	for i, f := range frames {
		img, err := a.enc.Encode(f)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		sf := EncodeSubFrame(img, tick, false)
		for r := 0; r < factors[i]; r++ {
			out = append(out, sf...)
		}
	}

	return out, nil
}
