package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/youruser/cardapp/internal/card"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Artifact is an encoded card ready to be downloaded.
type Artifact struct {
	Filename    string
	ContentType string
	Bytes       []byte
	Width       int
	Height      int
}

// Renderer draws card data over the background template and encodes it.
type Renderer struct {
	Background image.Image
	QR         image.Image
	Theme      Theme
	Scale      int
	Quality    int
	Prefix     string
	Fetcher    Fetcher
	Log        *zap.Logger
}

// Render fetches both avatars, composes the card and encodes it as JPEG.
// Avatar fetch failures fall back to placeholder discs; only a failure to
// produce the final image, or ctx ending before it is drawn, is returned.
func (r *Renderer) Render(ctx context.Context, data card.Data) (Artifact, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	scene := Scene{Card: data, Background: r.Background, QR: r.QR}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scene.ReceiverAvatar = r.fetch(gctx, log, data.ReceiverAvatarURL)
		return ctx.Err()
	})
	g.Go(func() error {
		scene.SenderAvatar = r.fetch(gctx, log, data.SenderAvatarURL)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Artifact{}, fmt.Errorf("render card: %w", err)
	}

	img, err := ComposeCard(scene, r.Theme, r.Scale)
	if err != nil {
		return Artifact{}, fmt.Errorf("compose card: %w", err)
	}

	quality := r.Quality
	if quality <= 0 {
		quality = 92
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Artifact{}, fmt.Errorf("encode card: %w", err)
	}

	b := img.Bounds()
	return Artifact{
		Filename:    card.Filename(r.Prefix, data.RawReceiverName),
		ContentType: "image/jpeg",
		Bytes:       buf.Bytes(),
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}

func (r *Renderer) fetch(ctx context.Context, log *zap.Logger, url string) image.Image {
	if url == "" || r.Fetcher == nil {
		return nil
	}
	img, err := r.Fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("avatar image unavailable, drawing placeholder", zap.String("url", url), zap.Error(err))
		return nil
	}
	return img
}
