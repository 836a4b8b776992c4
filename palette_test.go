package pixoo

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCheckerboard(t *testing.T) {
	enc := NewPaletteEncoder(FilterNearest)
	img, err := enc.Encode(RawFrame{Image: checkerboard(16, 1, black, white)})
	require.NoError(t, err)

	assert.Equal(t, 2, img.ColorCount)
	assert.Equal(t, 1, img.BitWidth)
	assert.Equal(t, []byte{0, 0, 0, 0xFF, 0xFF, 0xFF}, img.Palette)
	require.Len(t, img.Pixels, 32)

	// Row 0 is 0,1,0,1... -> 0b10101010, row 1 is 1,0,1,0... -> 0b01010101.
	assert.Equal(t, byte(0xAA), img.Pixels[0])
	assert.Equal(t, byte(0xAA), img.Pixels[1])
	assert.Equal(t, byte(0x55), img.Pixels[2])
	assert.Equal(t, byte(0x55), img.Pixels[3])
}

func TestEncodeSingleColor(t *testing.T) {
	img, err := NewPaletteEncoder("").Encode(RawFrame{Image: solid(16, 16, red)})
	require.NoError(t, err)

	assert.Equal(t, 1, img.ColorCount)
	assert.Equal(t, 1, img.BitWidth)
	assert.Equal(t, []byte{0xFF, 0, 0}, img.Palette)
	assert.Equal(t, make([]byte, 32), img.Pixels)
}

func TestEncode256Colors(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), A: 0xFF})
		}
	}

	img, err := NewPaletteEncoder(FilterNearest).Encode(RawFrame{Image: src})
	require.NoError(t, err)
	assert.Equal(t, 256, img.ColorCount)
	assert.Equal(t, 8, img.BitWidth)
	assert.Len(t, img.Palette, 768)
	require.Len(t, img.Pixels, 256)
	for i, p := range img.Pixels {
		require.Equal(t, byte(i), p)
	}

	sf := EncodeSubFrame(img, 100, false)
	assert.Equal(t, byte(0), sf[6], "256 colors wraps to 0")
	assert.Len(t, sf, 7+768+256)
}

func TestEncodeDeterministic(t *testing.T) {
	src := checkerboard(16, 3, red, blue)
	enc := NewPaletteEncoder(FilterNearest)

	a, err := enc.Encode(RawFrame{Image: src})
	require.NoError(t, err)
	b, err := enc.Encode(RawFrame{Image: src})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeFirstSeenOrder(t *testing.T) {
	src := solid(16, 16, blue)
	src.Set(15, 15, red)

	img, err := NewPaletteEncoder(FilterNearest).Encode(RawFrame{Image: src})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0xFF, 0xFF, 0, 0}, img.Palette)
	assert.Equal(t, byte(0x80), img.Pixels[31])
}

func TestEncodeRejectsNonSquare(t *testing.T) {
	_, err := NewPaletteEncoder(FilterNearest).Encode(RawFrame{Image: solid(16, 8, red)})

	var shape *ImageShapeError
	require.True(t, errors.As(err, &shape), "got %v", err)
	assert.Equal(t, 16, shape.Width)
	assert.Equal(t, 8, shape.Height)

	_, err = NewPaletteEncoder(FilterNearest).Encode(RawFrame{})
	assert.True(t, errors.As(err, &shape))
}

func TestEncodeResizes(t *testing.T) {
	img, err := NewPaletteEncoder(FilterNearest).Encode(RawFrame{Image: checkerboard(32, 2, black, white)})
	require.NoError(t, err)
	assert.Equal(t, 2, img.ColorCount)
	assert.Len(t, img.Pixels, 32)

	img, err = NewPaletteEncoder(FilterNearest).Encode(RawFrame{Image: solid(8, 8, red)})
	require.NoError(t, err)
	assert.Equal(t, 1, img.ColorCount)
	assert.Len(t, img.Pixels, 32)

	img, err = NewPaletteEncoder(FilterLanczos).Encode(RawFrame{Image: checkerboard(64, 5, red, blue)})
	require.NoError(t, err)
	assert.Len(t, img.Pixels, (256*img.BitWidth+7)/8)
}

func TestBitWidth(t *testing.T) {
	tests := map[int]int{0: 1, 1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4, 16: 4, 17: 5, 128: 7, 129: 8, 256: 8}
	for n, want := range tests {
		assert.Equal(t, want, BitWidth(n), "n=%d", n)
	}
}

func TestPackIndices(t *testing.T) {
	assert.Equal(t, []byte{0xD1, 0x00}, PackIndices([]byte{1, 2, 3}, 3))
	assert.Equal(t, []byte{0x21, 0x43}, PackIndices([]byte{1, 2, 3, 4}, 4))
	assert.Equal(t, []byte{0x05}, PackIndices([]byte{1, 0, 1}, 1))
	assert.Empty(t, PackIndices(nil, 4))
}

func TestPackUnpackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for width := 1; width <= 8; width++ {
		indices := make([]byte, 256)
		for i := range indices {
			indices[i] = byte(rng.Intn(1 << uint(width)))
		}

		packed := PackIndices(indices, width)
		assert.Len(t, packed, (256*width+7)/8, "width %d", width)
		assert.Equal(t, indices, UnpackIndices(packed, width, len(indices)), "width %d", width)
	}
}

func TestParseResizeFilter(t *testing.T) {
	f, err := ParseResizeFilter(" Lanczos ")
	require.NoError(t, err)
	assert.Equal(t, FilterLanczos, f)

	f, err = ParseResizeFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterNearest, f)

	_, err = ParseResizeFilter("sinc")
	assert.Error(t, err)
}
