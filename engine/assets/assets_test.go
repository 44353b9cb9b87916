package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func newManager(t *testing.T, dir string) *AssetManager {
	t.Helper()
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir))
	t.Cleanup(func() { _ = am.Shutdown() })
	return am
}

func TestAssetManagerIndexesImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "textures", "tree.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	am := newManager(t, dir)

	assert.Equal(t, []string{"textures/tree.png"}, am.Names())

	byPath, err := am.LoadAsset("textures/tree.png", metadata.ResourceTypeImage, nil)
	require.NoError(t, err)
	byAlias, err := am.LoadAsset("tree", metadata.ResourceTypeImage, nil)
	require.NoError(t, err)
	assert.Equal(t, byPath.FullPath, byAlias.FullPath)

	data, ok := byPath.Data.(*metadata.ImageResourceData)
	require.True(t, ok)
	assert.Equal(t, uint32(4), data.Width)

	info, ok := am.Lookup("tree")
	require.True(t, ok)
	assert.False(t, info.LastLoaded.IsZero())
}

func TestAssetManagerMissingAsset(t *testing.T) {
	am := newManager(t, t.TempDir())
	_, err := am.LoadAsset("pika", metadata.ResourceTypeImage, nil)
	assert.True(t, errors.Is(err, core.ErrAssetNotFound))
}

func TestAssetManagerMissingDirectory(t *testing.T) {
	am := newManager(t, filepath.Join(t.TempDir(), "absent"))
	assert.Zero(t, am.Count())
}

func TestAssetManagerPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	am := newManager(t, dir)

	writePNG(t, filepath.Join(dir, "pika.png"))

	assert.Eventually(t, func() bool {
		_, ok := am.Lookup("pika")
		return ok
	}, 5*time.Second, 20*time.Millisecond)
}
