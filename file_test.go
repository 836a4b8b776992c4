package pixoo

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedFormat(t *testing.T) {
	tests := map[string]Format{
		"a.png":           FormatPNG,
		"dir/B.JPG":       FormatJPEG,
		"c.jpeg":          FormatJPEG,
		"anim.Gif":        FormatGIF,
		"notes.txt":       FormatUnknown,
		"no-ext":          FormatUnknown,
		"archive.gif.zip": FormatUnknown,
	}
	for path, want := range tests {
		got, ok := SupportedFormat(path)
		assert.Equal(t, want, got, path)
		assert.Equal(t, want != FormatUnknown, ok, path)
	}
	assert.Equal(t, "gif", FormatGIF.String())
}

func TestDecodeFramesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(16, 16, red)))

	frames, err := DecodeFrames(&buf, FormatPNG)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.False(t, frames[0].HasDuration)
	assert.Equal(t, image.Rect(0, 0, 16, 16), frames[0].Image.Bounds())
}

func TestDecodeFramesJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(16, 16, red), nil))

	frames, err := DecodeFrames(&buf, FormatJPEG)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.False(t, frames[0].HasDuration)
}

func TestDecodeFramesGIFDelays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, twoFrameGIF(5, 7)))

	frames, err := DecodeFrames(&buf, FormatGIF)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.True(t, frames[0].HasDuration)
	assert.Equal(t, 50, frames[0].DurationMs)
	assert.Equal(t, 70, frames[1].DurationMs)

	assert.Equal(t, red, color.NRGBAModel.Convert(frames[0].Image.At(3, 3)))
	assert.Equal(t, blue, color.NRGBAModel.Convert(frames[1].Image.At(3, 3)))
}

func TestDecodeFramesGIFCompositing(t *testing.T) {
	pal := color.Palette{red, blue}
	full := image.NewPaletted(image.Rect(0, 0, 16, 16), pal)
	patch := image.NewPaletted(image.Rect(0, 0, 8, 8), pal)
	for i := range patch.Pix {
		patch.Pix[i] = 1
	}
	g := &gif.GIF{
		Image:    []*image.Paletted{full, patch},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{ColorModel: pal, Width: 16, Height: 16},
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))

	frames, err := DecodeFrames(&buf, FormatGIF)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	second := frames[1].Image
	assert.Equal(t, image.Rect(0, 0, 16, 16), second.Bounds())
	assert.Equal(t, blue, color.NRGBAModel.Convert(second.At(2, 2)))
	assert.Equal(t, red, color.NRGBAModel.Convert(second.At(12, 12)), "previous frame shows through")

	// The first frame is not changed by drawing the second.
	assert.Equal(t, red, color.NRGBAModel.Convert(frames[0].Image.At(2, 2)))
}

func TestDecodeFramesGIFDisposalBackground(t *testing.T) {
	pal := color.Palette{red, blue}
	first := image.NewPaletted(image.Rect(0, 0, 8, 8), pal)
	second := image.NewPaletted(image.Rect(8, 8, 16, 16), pal)
	for i := range second.Pix {
		second.Pix[i] = 1
	}
	g := &gif.GIF{
		Image:    []*image.Paletted{first, second},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
		Config:   image.Config{ColorModel: pal, Width: 16, Height: 16},
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))

	frames, err := DecodeFrames(&buf, FormatGIF)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, red, color.NRGBAModel.Convert(frames[0].Image.At(2, 2)))
	_, _, _, a := frames[1].Image.At(2, 2).RGBA()
	assert.Zero(t, a, "disposed area is cleared")
	assert.Equal(t, blue, color.NRGBAModel.Convert(frames[1].Image.At(12, 12)))
}

func TestDecodeFileErrors(t *testing.T) {
	_, err := DecodeFile("picture.bmp")
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.png"))
	require.True(t, errors.As(err, &decodeErr))
	assert.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(broken, []byte{0xFF, 0xD8, 0x00}, 0644))
	_, err = DecodeFile(broken)
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, broken, decodeErr.Path)
}
