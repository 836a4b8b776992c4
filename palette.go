package pixoo

import (
	"fmt"
	"image"
	"image/color"
	"math/bits"
	"strings"

	"github.com/disintegration/gift"
)

// ─── Resize Filters ─────────────────────────────────────────────────────────────

// ResizeFilter names the resampling filter used to fit pictures to 16x16.
type ResizeFilter string

const (
	FilterNearest ResizeFilter = "nearest" // Nearest neighbour, keeps pixel art crisp
	FilterBox     ResizeFilter = "box"     // Box averaging
	FilterLinear  ResizeFilter = "linear"  // Bilinear
	FilterCubic   ResizeFilter = "cubic"   // Bicubic
	FilterLanczos ResizeFilter = "lanczos" // Lanczos-3
)

// ParseResizeFilter parses a filter name, case-insensitively. The empty
// string selects FilterNearest.
func ParseResizeFilter(s string) (ResizeFilter, error) {
	switch f := ResizeFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterNearest, nil
	case FilterNearest, FilterBox, FilterLinear, FilterCubic, FilterLanczos:
		return f, nil
	default:
		return "", fmt.Errorf("unknown resize filter %q", s)
	}
}

func (f ResizeFilter) resampling() gift.Resampling {
	switch f {
	case FilterBox:
		return gift.BoxResampling
	case FilterLinear:
		return gift.LinearResampling
	case FilterCubic:
		return gift.CubicResampling
	case FilterLanczos:
		return gift.LanczosResampling
	default:
		return gift.NearestNeighborResampling
	}
}

// ─── Palette Encoding ───────────────────────────────────────────────────────────

// EncodedImage is a 16x16 picture in device format.
type EncodedImage struct {
	ColorCount int    // Palette entries, 1-256
	BitWidth   int    // Bits per packed pixel index
	Palette    []byte // R,G,B per entry, first-seen order
	Pixels     []byte // Packed index stream, ceil(256*BitWidth/8) bytes
}

// PaletteEncoder turns pictures into palette + index stream form.
type PaletteEncoder struct {
	filter ResizeFilter
}

// NewPaletteEncoder returns an encoder resizing with the given filter.
func NewPaletteEncoder(filter ResizeFilter) *PaletteEncoder {
	if filter == "" {
		filter = FilterNearest
	}
	return &PaletteEncoder{filter: filter}
}

// Encode converts one frame. The picture must be square; it is resized to
// 16x16 when it has any other size.
//
// Pixels are scanned row by row. Each color gets the next palette index the
// first time it is seen, so identical pictures always produce identical
// bytes.
func (e *PaletteEncoder) Encode(frame RawFrame) (*EncodedImage, error) {
	if frame.Image == nil {
		return nil, &ImageShapeError{}
	}

	img, err := e.normalize(frame.Image)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	lookup := make(map[RGB]byte, 16)
	palette := make([]byte, 0, 3*16)
	indices := make([]byte, 0, ScreenSize*ScreenSize)

	for y := b.Min.Y; y < b.Min.Y+ScreenSize; y++ {
		for x := b.Min.X; x < b.Min.X+ScreenSize; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			key := RGB{R: c.R, G: c.G, B: c.B}

			idx, ok := lookup[key]
			if !ok {
				// 256 pixels can never yield more than 256 colors,
				// so the index always fits in a byte.
				idx = byte(len(lookup))
				lookup[key] = idx
				palette = append(palette, key.R, key.G, key.B)
			}
			indices = append(indices, idx)
		}
	}

	width := BitWidth(len(lookup))
	return &EncodedImage{
		ColorCount: len(lookup),
		BitWidth:   width,
		Palette:    palette,
		Pixels:     PackIndices(indices, width),
	}, nil
}

// normalize checks the shape and brings the picture to 16x16.
func (e *PaletteEncoder) normalize(src image.Image) (image.Image, error) {
	b := src.Bounds()
	if b.Dx() != b.Dy() || b.Dx() == 0 {
		return nil, &ImageShapeError{Width: b.Dx(), Height: b.Dy()}
	}
	if b.Dx() == ScreenSize {
		return src, nil
	}

	g := gift.New(gift.Resize(ScreenSize, ScreenSize, e.filter.resampling()))
	dst := image.NewNRGBA(g.Bounds(b))
	g.Draw(dst, src)
	return dst, nil
}

// ─── Bit Packing ────────────────────────────────────────────────────────────────

// BitWidth returns the bits needed per index for a palette of n colors.
// A single color still takes one bit; a zero-width stream would be empty
// and the firmware expects 32 bytes for a one-color picture.
func BitWidth(n int) int {
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// PackIndices packs indices at bitwidth bits each, least significant bits
// first. The first index lands in the low bits of the first byte; once a
// byte is full the remaining bits spill into the next one.
//
// Example, bitwidth 3, indices 1,2,3:
//
//	acc = 001 | 010<<3 | 011<<6  ->  0xD1, 0x00
func PackIndices(indices []byte, bitwidth int) []byte {
	out := make([]byte, 0, (len(indices)*bitwidth+7)/8)
	mask := uint32(1)<<uint(bitwidth) - 1

	var acc uint32
	var n int
	for _, idx := range indices {
		acc |= (uint32(idx) & mask) << uint(n)
		n += bitwidth
		for n >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			n -= 8
		}
	}
	if n > 0 {
		out = append(out, byte(acc))
	}
	return out
}

// UnpackIndices reverses PackIndices, returning count indices.
func UnpackIndices(data []byte, bitwidth, count int) []byte {
	out := make([]byte, 0, count)
	mask := uint32(1)<<uint(bitwidth) - 1

	var acc uint32
	var n int
	pos := 0
	for len(out) < count {
		for n < bitwidth {
			if pos >= len(data) {
				return out
			}
			acc |= uint32(data[pos]) << uint(n)
			pos++
			n += 8
		}
		out = append(out, byte(acc&mask))
		acc >>= uint(bitwidth)
		n -= bitwidth
	}
	return out
}
