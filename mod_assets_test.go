package sylva

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetServer_LoadImageCachesByPath(t *testing.T) {
	s := NewAssetServer(fstest.MapFS{"a.png": {Data: pngBytes(t, 4, 2)}})

	a, err := s.LoadImage(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "png", a.Format)
	assert.Equal(t, image.Rect(0, 0, 4, 2), a.RGBA.Bounds())
	assert.NotEmpty(t, a.Id)

	b, err := s.LoadImage(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, s.Cached())

	s.Purge()
	assert.Zero(t, s.Cached())
	c, err := s.LoadImage(context.Background(), "a.png")
	require.NoError(t, err)
	assert.NotEqual(t, a.Id, c.Id)
}

func TestAssetServer_DownscalesLargeImages(t *testing.T) {
	s := NewAssetServer(fstest.MapFS{
		"wide.png": {Data: pngBytes(t, 64, 16)},
		"tall.png": {Data: pngBytes(t, 10, 40)},
	})
	s.SetMaxTextureSize(32)

	wide, err := s.LoadImage(context.Background(), "wide.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 8), wide.RGBA.Bounds())

	tall, err := s.LoadImage(context.Background(), "tall.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 32), tall.RGBA.Bounds())
}

func TestAssetServer_DecodesJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 5, 3)), nil))
	s := NewAssetServer(fstest.MapFS{"g.jpg": {Data: buf.Bytes()}})

	img, err := s.LoadImage(context.Background(), "g.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", img.Format)
	assert.Equal(t, image.Rect(0, 0, 5, 3), img.RGBA.Bounds())
}

func TestAssetServer_LoadImageErrors(t *testing.T) {
	s := NewAssetServer(fstest.MapFS{"bad.png": {Data: []byte("not an image")}})

	_, err := s.LoadImage(context.Background(), "missing.png")
	assert.Error(t, err)
	_, err = s.LoadImage(context.Background(), "bad.png")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.LoadImage(ctx, "bad.png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Cached())
}

func TestAssetServer_LoadTreePositions(t *testing.T) {
	s := NewAssetServer(fstest.MapFS{
		"trees.json": {Data: []byte(`[[2600000.5, 1200000], [2600010, 1200020.25]]`)},
		"short.json": {Data: []byte(`[[1, 2], [3]]`)},
	})

	trees, err := s.LoadTreePositions(context.Background(), "trees.json")
	require.NoError(t, err)
	assert.Equal(t, []mgl64.Vec2{{2600000.5, 1200000}, {2600010, 1200020.25}}, trees)

	_, err = s.LoadTreePositions(context.Background(), "short.json")
	assert.ErrorContains(t, err, "entry 1")
}

func TestAssetServer_LoadRings(t *testing.T) {
	s := NewAssetServer(fstest.MapFS{
		"lake.json": {Data: []byte(`{"feature": {"geometry": {"rings": [
			[[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]],
			[[3, 3], [7, 3], [7, 7], [3, 7]]
		]}}}`)},
		"empty.json": {Data: []byte(`{"feature": {"geometry": {"rings": []}}}`)},
	})

	rings, err := s.LoadRings(context.Background(), "lake.json")
	require.NoError(t, err)
	require.Len(t, rings, 2)
	assert.Len(t, rings[0], 5)
	assert.Equal(t, mgl64.Vec2{7, 7}, rings[1][2])

	_, err = s.LoadRings(context.Background(), "empty.json")
	assert.Error(t, err)
}
