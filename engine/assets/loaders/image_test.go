package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 2, color.NRGBA{B: 255, A: 128})
	return img
}

func TestDecodeImagePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	data, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(2), data.Width)
	assert.Equal(t, uint32(3), data.Height)
	assert.Equal(t, uint8(4), data.ChannelCount)
	assert.Len(t, data.Pixels, 2*3*4)
	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[0:4])
	// last pixel keeps straight alpha
	assert.Equal(t, []uint8{0, 0, 255, 128}, data.Pixels[20:24])
}

func TestDecodeImageBMP(t *testing.T) {
	opaque := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			opaque.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	opaque.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, opaque))

	data, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(2), data.Width)
	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[0:4])
	assert.Equal(t, []uint8{0, 255, 0, 255}, data.Pixels[12:16])
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	_, err := DecodeImage([]byte("definitely not an image"))
	assert.True(t, errors.Is(err, core.ErrTextureDecode))
}

func TestImageLoaderLoadsFromDisk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	path := filepath.Join(t.TempDir(), "sprite.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	res, err := (&ImageLoader{}).Load(path, metadata.ResourceTypeImage, nil)
	require.NoError(t, err)
	data, ok := res.Data.(*metadata.ImageResourceData)
	require.True(t, ok)
	assert.Equal(t, uint32(3), data.Height)
	assert.Equal(t, uint64(buf.Len()), res.DataSize)
}
