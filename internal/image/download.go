package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/youruser/cardapp/internal/util"
)

// Fetcher loads a remote image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// HTTPFetcher downloads and decodes images over HTTP.
type HTTPFetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}, Timeout: timeout}
}

// Fetch downloads url and returns the decoded image.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	body, err := util.GetBytes(ctx, f.Client, url, nil)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// LoadImage reads src from disk, or over HTTP when it is an http(s) URL.
func LoadImage(ctx context.Context, f Fetcher, src string) (image.Image, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return f.Fetch(ctx, src)
	}
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	return img, nil
}
