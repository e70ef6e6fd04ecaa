package deck

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"
	"time"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP

	"github.com/zjrosen/posters/internal/cachemanager"
	"github.com/zjrosen/posters/internal/log"
)

// ErrImageDecode is returned when an image header cannot be decoded.
var ErrImageDecode = errors.New("image decode failed")

// Metrics are the natural dimensions of an image.
type Metrics struct {
	Width  int
	Height int
	Format string
}

type metricsKey string

// Prober reads image headers. Results are cached by path, size and
// modification time, so a rewritten file is probed again.
type Prober struct {
	cache *cachemanager.ReadThroughCache[metricsKey, Metrics, string]
	ttl   time.Duration
}

// NewProber creates a prober over an in-memory cache.
func NewProber() *Prober {
	store := cachemanager.NewInMemoryCacheManager[metricsKey, Metrics](
		"image-metrics", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return newProber(store)
}

// newProber creates a prober over cache.
func newProber(cache cachemanager.CacheManager[metricsKey, Metrics]) *Prober {
	return &Prober{
		cache: cachemanager.NewReadThroughCache[metricsKey, Metrics, string](cache, decodeConfig, false),
		ttl:   cachemanager.DefaultExpiration,
	}
}

// Probe returns the metrics of the image at path.
func (p *Prober) Probe(ctx context.Context, path string) (Metrics, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metrics{}, fmt.Errorf("probing image: %w", err)
	}
	key := metricsKey(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()))
	m, err := p.cache.GetWithRefresh(ctx, key, path, p.ttl)
	if err != nil {
		log.Warn(log.CatDeck, "Image probe failed", "path", path, "error", err)
		return Metrics{}, err
	}
	return m, nil
}

func decodeConfig(ctx context.Context, path string) (Metrics, error) {
	if err := ctx.Err(); err != nil {
		return Metrics{}, err
	}
	f, err := os.Open(path) // #nosec G304 -- deck image
	if err != nil {
		return Metrics{}, fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Metrics{}, fmt.Errorf("%w: %s: %v", ErrImageDecode, path, err)
	}
	log.Debug(log.CatDeck, "Probed image", "path", path, "format", format, "width", cfg.Width, "height", cfg.Height)
	return Metrics{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
