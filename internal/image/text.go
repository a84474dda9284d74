package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type fontStyle int

const (
	styleRegular fontStyle = iota
	styleBold
	styleItalic
)

var (
	fontsOnce sync.Once
	fonts     map[fontStyle]*opentype.Font
	fontsErr  error
)

func loadFonts() (map[fontStyle]*opentype.Font, error) {
	fontsOnce.Do(func() {
		fonts = map[fontStyle]*opentype.Font{}
		for style, ttf := range map[fontStyle][]byte{
			styleRegular: goregular.TTF,
			styleBold:    gobold.TTF,
			styleItalic:  goitalic.TTF,
		} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				fontsErr = fmt.Errorf("parse font: %w", err)
				return
			}
			fonts[style] = f
		}
	})
	return fonts, fontsErr
}

// faceSet hands out font faces for a single render. Faces are not safe for
// concurrent use, so every render owns its own set.
type faceSet struct {
	scale float64
	faces map[faceKey]font.Face
}

type faceKey struct {
	style fontStyle
	size  float64
}

func newFaceSet(scale float64) *faceSet {
	return &faceSet{scale: scale, faces: map[faceKey]font.Face{}}
}

// face returns a face for size given in design points.
func (s *faceSet) face(style fontStyle, size float64) (font.Face, error) {
	k := faceKey{style, size}
	if f, ok := s.faces[k]; ok {
		return f, nil
	}
	all, err := loadFonts()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(all[style], &opentype.FaceOptions{
		Size:    size * s.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	s.faces[k] = f
	return f, nil
}

// fit returns the largest face from size down to minSize whose rendering of text
// is no wider than maxWidth pixels.
func (s *faceSet) fit(style fontStyle, size, minSize float64, text string, maxWidth int) (font.Face, error) {
	for ; size > minSize; size-- {
		f, err := s.face(style, size)
		if err != nil {
			return nil, err
		}
		if font.MeasureString(f, text).Ceil() <= maxWidth {
			return f, nil
		}
	}
	return s.face(style, minSize)
}

func (s *faceSet) Close() {
	for _, f := range s.faces {
		f.Close()
	}
}

// MessageFontSize picks the message point size from its length in characters.
func MessageFontSize(n int) int {
	switch {
	case n <= 40:
		return 24
	case n <= 80:
		return 20
	case n <= 120:
		return 18
	case n <= 160:
		return 16
	default:
		return 14
	}
}

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// drawText draws s with its baseline at y; x is the left edge, center or right
// edge depending on a.
func drawText(dst draw.Image, face font.Face, col color.Color, x, y int, s string, a align) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(s)
	dot := fixed.I(x)
	switch a {
	case alignCenter:
		dot -= w / 2
	case alignRight:
		dot -= w
	}
	d.Dot = fixed.Point26_6{X: dot, Y: fixed.I(y)}
	d.DrawString(s)
}

// WrapText breaks text into lines no wider than maxWidth pixels. Explicit
// newlines are kept; words wider than a line are split by character.
func WrapText(face font.Face, text string, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if font.MeasureString(face, candidate) <= limit {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			for font.MeasureString(face, w) > limit && utf8.RuneCountInString(w) > 1 {
				head, tail := splitToWidth(face, w, limit)
				lines = append(lines, head)
				w = tail
			}
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}

func splitToWidth(face font.Face, w string, limit fixed.Int26_6) (string, string) {
	cut := 0
	for i := range w {
		if i > 0 && font.MeasureString(face, w[:i]) > limit {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(w)
		cut = size
	}
	return w[:cut], w[cut:]
}
