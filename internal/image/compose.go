package imagepkg

import (
	"image"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/youruser/cardapp/internal/card"
)

// DesignSize is the side of the square layout space; every coordinate below is
// in design units and scaled to the output density.
const DesignSize = 540

// Theme holds the static captions and palette of a card.
type Theme struct {
	Heading  string
	Subtitle string
	Footer   string

	Backdrop    color.NRGBA
	Ink         color.NRGBA
	MessageInk  color.NRGBA
	Ring        color.NRGBA
	Placeholder color.NRGBA
}

// DefaultTheme is the stock valentine palette.
func DefaultTheme() Theme {
	return Theme{
		Heading:     "Happy Valentine's Day",
		Subtitle:    "a little note from the community",
		Footer:      "made with love",
		Backdrop:    color.NRGBA{R: 0xfb, G: 0xcf, B: 0xe8, A: 0xff},
		Ink:         color.NRGBA{R: 0x9f, G: 0x12, B: 0x39, A: 0xff},
		MessageInk:  color.NRGBA{R: 0x3f, G: 0x1d, B: 0x2b, A: 0xff},
		Ring:        color.NRGBA{R: 0xe1, G: 0x1d, B: 0x48, A: 0xff},
		Placeholder: color.NRGBA{R: 0xf9, G: 0xa8, B: 0xd4, A: 0xff},
	}
}

// Scene is one card and the images it is drawn with. Any image may be nil.
type Scene struct {
	Card           card.Data
	Background     image.Image
	ReceiverAvatar image.Image
	SenderAvatar   image.Image
	QR             image.Image
}

// layout in design units
const (
	marginX = 30.0

	headingY     = 44.0
	headingSize  = 15.0
	subtitleY    = 62.0
	subtitleSize = 11.0

	receiverAvatarX = 58.0
	receiverAvatarY = 128.0
	receiverAvatarR = 18.0
	salutationX     = 86.0
	salutationY     = 136.0
	salutationSize  = 22.0

	messageX     = 40.0
	messageTop   = 176.0
	messageWidth = 300.0
	lineSpacing  = 1.3

	senderAvatarX = 380.0
	senderAvatarY = 350.0
	senderAvatarR = 40.0
	signOffY      = 418.0
	signOffSize   = 18.0
	signOffWidth  = 300.0

	footerY    = 524.0
	footerSize = 12.0

	qrX    = 20.0
	qrY    = 456.0
	qrSize = 64.0

	ringWidth = 3.0
	minText   = 10.0
)

// ComposeCard rasterizes the scene at scale pixels per design unit. The result
// is exactly DesignSize*scale pixels square.
func ComposeCard(s Scene, t Theme, scale int) (*image.NRGBA, error) {
	if scale < 1 {
		scale = 1
	}
	k := float64(scale)
	px := func(v float64) int { return int(math.Round(v * k)) }
	size := DesignSize * scale

	var canvas *image.NRGBA
	if s.Background != nil {
		canvas = imaging.Fill(s.Background, size, size, imaging.Center, imaging.Lanczos)
	} else {
		canvas = imaging.New(size, size, t.Backdrop)
	}

	faces := newFaceSet(k)
	defer faces.Close()

	// caption, top right
	heading, err := faces.face(styleBold, headingSize)
	if err != nil {
		return nil, err
	}
	drawText(canvas, heading, t.Ink, size-px(marginX), px(headingY), strings.ToUpper(t.Heading), alignRight)
	subtitle, err := faces.face(styleItalic, subtitleSize)
	if err != nil {
		return nil, err
	}
	drawText(canvas, subtitle, t.Ink, size-px(marginX), px(subtitleY), t.Subtitle, alignRight)

	// letter
	DrawCircularAvatar(canvas, s.ReceiverAvatar, image.Pt(px(receiverAvatarX), px(receiverAvatarY)),
		px(receiverAvatarR), px(ringWidth), t.Ring, t.Placeholder)
	salutation := "Dear " + s.Card.ReceiverName + ","
	face, err := faces.fit(styleBold, salutationSize, minText, salutation, size-px(salutationX)-px(marginX))
	if err != nil {
		return nil, err
	}
	drawText(canvas, face, t.Ink, px(salutationX), px(salutationY), salutation, alignLeft)

	if s.Card.Message != "" {
		pt := float64(MessageFontSize(utf8.RuneCountInString(s.Card.Message)))
		face, err := faces.face(styleRegular, pt)
		if err != nil {
			return nil, err
		}
		step := pt * lineSpacing
		y := messageTop + pt
		for _, line := range WrapText(face, s.Card.Message, px(messageWidth)) {
			drawText(canvas, face, t.MessageInk, px(messageX), px(y), line, alignLeft)
			y += step
		}
	}

	// sender
	DrawCircularAvatar(canvas, s.SenderAvatar, image.Pt(px(senderAvatarX), px(senderAvatarY)),
		px(senderAvatarR), px(ringWidth), t.Ring, t.Placeholder)
	signOff := "With love, " + s.Card.SenderName + " ♥"
	face, err = faces.fit(styleBold, signOffSize, minText, signOff, px(signOffWidth))
	if err != nil {
		return nil, err
	}
	drawText(canvas, face, t.Ink, px(senderAvatarX), px(signOffY), signOff, alignCenter)

	// closing caption
	footer, err := faces.face(styleItalic, footerSize)
	if err != nil {
		return nil, err
	}
	drawText(canvas, footer, t.Ink, size/2, px(footerY), t.Footer, alignCenter)

	if s.QR != nil {
		q := imaging.Resize(s.QR, px(qrSize), px(qrSize), imaging.NearestNeighbor)
		canvas = imaging.Paste(canvas, q, image.Pt(px(qrX), px(qrY)))
	}

	return canvas, nil
}
