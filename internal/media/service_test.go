package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichigoapp/ichigo-server/internal/config"
	"github.com/ichigoapp/ichigo-server/internal/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 5), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func setupMediaService(t *testing.T, maxBytes int64) *Service {
	t.Helper()

	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := config.MediaConfig{
		PublicBaseURL:  "/media",
		MaxUploadBytes: maxBytes,
	}
	return NewService(storage, cfg, slog.New(slog.DiscardHandler))
}

func TestUploadImage(t *testing.T) {
	svc := setupMediaService(t, 5*1024*1024)

	res, err := svc.UploadImage(context.Background(), "leaf.png", bytes.NewReader(pngBytes(t, 32, 24)))
	require.NoError(t, err)

	assert.NotEmpty(t, res.BlurHash)
	assert.Contains(t, res.URL, "/media/")
	assert.Greater(t, res.Size, int64(0))

	rc, err := svc.Open(context.Background(), res.Path)
	require.NoError(t, err)
	defer rc.Close()

	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t, 32, 24), stored)
}

func TestUploadImage_SizeCap(t *testing.T) {
	svc := setupMediaService(t, 64)

	_, err := svc.UploadImage(context.Background(), "big.png", bytes.NewReader(pngBytes(t, 200, 200)))
	assert.ErrorIs(t, err, errors.ErrPayloadTooLarge)
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	svc := setupMediaService(t, 5*1024*1024)

	_, err := svc.UploadImage(context.Background(), "notes.txt", bytes.NewReader([]byte("just text")))
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestUploadImage_RejectsEmpty(t *testing.T) {
	svc := setupMediaService(t, 5*1024*1024)

	_, err := svc.UploadImage(context.Background(), "empty.png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestComputeBlurHash_Stable(t *testing.T) {
	data := pngBytes(t, 64, 48)

	first, err := ComputeBlurHash(data)
	require.NoError(t, err)
	second, err := ComputeBlurHash(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
