package avatar

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	avatars "github.com/lafriks/go-avatars"
)

// RenderIdenticon draws the self-hosted placeholder avatar for seed as PNG.
func RenderIdenticon(seed string, size int) ([]byte, error) {
	a, err := avatars.Generate(seed)
	if err != nil {
		return nil, fmt.Errorf("generate identicon: %w", err)
	}
	img, err := a.Image(avatars.RenderSize(size))
	if err != nil {
		return nil, fmt.Errorf("render identicon: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode identicon: %w", err)
	}
	return buf.Bytes(), nil
}
