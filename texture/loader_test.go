package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "img.png", 3, 2)

	img, err := decodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	_, err = decodeFile(filepath.Join(dir, "nope.png"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "nope.png")
}

func TestLoadAllPropagatesDecodeErrors(t *testing.T) {
	l := NewLoader(WithWorkers(2))
	missing := filepath.Join(t.TempDir(), "missing.png")

	// The decode phase fails before any GPU work, so no device is needed.
	_, err := l.LoadAll(nil, nil, []string{missing})
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing.png")
}

func TestLoaderServesCachedTextures(t *testing.T) {
	pre := &Texture{label: "procedural", width: 4, height: 4}
	l := NewLoader(WithTexture("procedural", pre))

	tex, err := l.Load(nil, nil, "procedural")
	require.NoError(t, err)
	assert.Same(t, pre, tex)

	out, err := l.LoadAll(nil, nil, []string{"procedural"})
	require.NoError(t, err)
	assert.Same(t, pre, out["procedural"])
}

func TestReleaseAllEmptiesCache(t *testing.T) {
	pre := &Texture{label: "procedural"}
	l := NewLoader(WithTexture("procedural", pre))

	l.ReleaseAll()
	assert.Empty(t, l.(*loader).cache)
}
