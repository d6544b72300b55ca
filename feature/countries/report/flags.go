package report

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register gif
	_ "image/jpeg" // register jpeg
	_ "image/png"  // register png
	"io"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// FlagLoader returns a flag thumbnail for url, or nil when none can be drawn.
type FlagLoader interface {
	Load(ctx context.Context, url string) image.Image
}

// HTTPFlagLoader downloads raster flags. Vector (SVG) flags cannot be decoded
// and are skipped.
type HTTPFlagLoader struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTPFlagLoader creates a loader using client for downloads.
func NewHTTPFlagLoader(client *http.Client, logger *zap.Logger) *HTTPFlagLoader {
	return &HTTPFlagLoader{client: client, logger: logger}
}

// Load implements FlagLoader.
func (l *HTTPFlagLoader) Load(ctx context.Context, url string) image.Image {
	if url == "" {
		return nil
	}
	img, err := l.fetch(ctx, url)
	if err != nil {
		l.logger.Debug("Flag unavailable", zap.String("url", url), zap.Error(err))
		return nil
	}
	return thumbnail(img)
}

func (l *HTTPFlagLoader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to decode flag: %w", err)
	}
	return img, nil
}

// thumbnail scales img to the flag box.
func thumbnail(img image.Image) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, flagWidth, flagHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
