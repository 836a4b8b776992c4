package pixoo

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{A: 0xFF}
	white = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	red   = color.NRGBA{R: 0xFF, A: 0xFF}
	blue  = color.NRGBA{B: 0xFF, A: 0xFF}
)

// checkerboard returns a size x size picture alternating a and b in blocks
// of block pixels.
func checkerboard(size, block int, a, b color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/block+y/block)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// twoFrameGIF is a 16x16 GIF: a red frame then a blue one, with the given
// delays in hundredths of a second.
func twoFrameGIF(d0, d1 int) *gif.GIF {
	pal := color.Palette{red, blue}
	f0 := image.NewPaletted(image.Rect(0, 0, 16, 16), pal)
	f1 := image.NewPaletted(image.Rect(0, 0, 16, 16), pal)
	for i := range f1.Pix {
		f1.Pix[i] = 1
	}
	return &gif.GIF{
		Image:    []*image.Paletted{f0, f1},
		Delay:    []int{d0, d1},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{ColorModel: pal, Width: 16, Height: 16},
	}
}

func writeGIF(t *testing.T, dir, name string, g *gif.GIF) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gif.EncodeAll(f, g))
	return path
}

func newTestDevice(options ...DeviceOption) (*Device, *Recorder) {
	rec := &Recorder{}
	dev := NewDeviceWithTransport(rec, append([]DeviceOption{WithFrameDelay(0)}, options...)...)
	return dev, rec
}

// decodeAll decodes recorded frames, failing on the first invalid one.
func decodeAll(t *testing.T, frames [][]byte) (cmds []Command, args [][]byte) {
	t.Helper()
	for i, f := range frames {
		cmd, a, err := DecodeFrame(f)
		require.NoError(t, err, "frame %d", i)
		cmds = append(cmds, cmd)
		args = append(args, a)
	}
	return cmds, args
}

type subFrameInfo struct {
	Tick       int
	ColorCount byte
	Size       int
}

// walkSubFrames splits a sub-frame stream using the size fields.
func walkSubFrames(t *testing.T, payload []byte) []subFrameInfo {
	t.Helper()
	var out []subFrameInfo
	for len(payload) > 0 {
		require.GreaterOrEqual(t, len(payload), subFrameHeadLen)
		require.Equal(t, byte(subFrameTag), payload[0])
		size := int(payload[1]) | int(payload[2])<<8
		require.LessOrEqual(t, size, len(payload))
		out = append(out, subFrameInfo{
			Tick:       int(payload[3]) | int(payload[4])<<8,
			ColorCount: payload[6],
			Size:       size,
		})
		payload = payload[size:]
	}
	return out
}
