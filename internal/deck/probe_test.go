package deck

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/zjrosen/posters/internal/cachemanager"
)

func writeImage(t *testing.T, path string, w, h int, enc func(io.Writer, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, enc(f, img))
	require.NoError(t, f.Close())
}

func TestProber_Formats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file   string
		enc    func(io.Writer, image.Image) error
		format string
	}{
		{file: "a.png", enc: png.Encode, format: "png"},
		{file: "b.gif", enc: func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) }, format: "gif"},
		{file: "c.bmp", enc: bmp.Encode, format: "bmp"},
		{file: "d.tiff", enc: func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }, format: "tiff"},
	}
	p := NewProber()
	for i, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeImage(t, path, 40+i, 60, tt.enc)

			m, err := p.Probe(context.Background(), path)
			require.NoError(t, err)
			require.Equal(t, Metrics{Width: 40 + i, Height: 60, Format: tt.format}, m)
		})
	}
}

func TestProber_DecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	_, err := NewProber().Probe(context.Background(), path)
	require.ErrorIs(t, err, ErrImageDecode)
	require.ErrorContains(t, err, "broken.png")
}

func TestProber_MissingFile(t *testing.T) {
	_, err := NewProber().Probe(context.Background(), filepath.Join(t.TempDir(), "gone.png"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProber_CachedUntilFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poster.png")
	writeImage(t, path, 10, 10, png.Encode)

	store := cachemanager.NewInMemoryCacheManager[metricsKey, Metrics]("test", time.Hour, time.Hour)
	p := newProber(store)

	_, err := p.Probe(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	_, err = p.Probe(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len(), "second probe is a cache hit")

	writeImage(t, path, 30, 10, png.Encode)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	m, err := p.Probe(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 30, m.Width, "rewritten file is probed again")
	require.Equal(t, 2, store.Len())
}

func TestProber_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poster.png")
	writeImage(t, path, 10, 10, png.Encode)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProber().Probe(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadiness(t *testing.T) {
	r := NewReadiness(3)
	require.False(t, r.Settle(0, nil))
	require.False(t, r.Settle(0, nil), "repeat report ignored")
	require.False(t, r.Settle(7, nil), "out of range ignored")
	require.False(t, r.Settle(2, ErrImageDecode))

	settled, total := r.Progress()
	require.Equal(t, 2, settled)
	require.Equal(t, 3, total)
	require.False(t, r.Done())

	require.True(t, r.Settle(1, nil))
	require.True(t, r.Done())
	require.Equal(t, 1, r.Failed())
	require.False(t, r.Settle(1, nil), "fires once")
}
