package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestLocalStoreSaveDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	p, err := store.Save(ctx, "members/member_1_100.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/members/member_1_100.jpg", p)

	content, err := os.ReadFile(filepath.Join(root, "members", "member_1_100.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	require.NoError(t, store.Delete(ctx, p))
	_, err = os.Stat(filepath.Join(root, "members", "member_1_100.jpg"))
	assert.True(t, os.IsNotExist(err))

	// already gone
	require.NoError(t, store.Delete(ctx, p))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../../etc/passwd", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)

	err = store.Delete(context.Background(), "/uploads/../secret")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = store.Save(context.Background(), "", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor()

	assert.NoError(t, p.ValidateImage(pngBytes(t, 10, 10)))
	assert.ErrorIs(t, p.ValidateImage([]byte("definitely not an image")), ErrImageUndecodable)

	p.MaxSize = 10
	assert.ErrorIs(t, p.ValidateImage(pngBytes(t, 10, 10)), ErrImageTooLarge)
}

func TestNormalizeResizesLargeImages(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.Normalize(pngBytes(t, 1024, 256))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 128, cfg.Height)

	out, err = p.Normalize(pngBytes(t, 40, 30))
	require.NoError(t, err)
	cfg, err = jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}
