package imagepkg

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// circle is an alpha mask for a filled disc, in destination coordinates.
type circle struct {
	c image.Point
	r int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.c.X-c.r, c.c.Y-c.r, c.c.X+c.r, c.c.Y+c.r)
}

func (c *circle) At(x, y int) color.Color {
	dx := float64(x-c.c.X) + 0.5
	dy := float64(y-c.c.Y) + 0.5
	r := float64(c.r)
	if dx*dx+dy*dy < r*r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

func fillCircle(dst draw.Image, center image.Point, r int, src image.Image, sp image.Point) {
	m := &circle{c: center, r: r}
	b := m.Bounds()
	draw.DrawMask(dst, b, src, sp, m, b.Min, draw.Over)
}

// DrawCircularAvatar draws avatar clipped to a disc of radius r around center,
// inside a ring of the given width. A nil avatar is drawn as a solid
// placeholder disc.
func DrawCircularAvatar(dst draw.Image, avatar image.Image, center image.Point, r, ring int, ringColor, placeholder color.Color) {
	if ring > 0 {
		fillCircle(dst, center, r+ring, image.NewUniform(ringColor), image.Point{})
	}
	if avatar == nil {
		fillCircle(dst, center, r, image.NewUniform(placeholder), image.Point{})
		return
	}
	fitted := imaging.Fill(avatar, 2*r, 2*r, imaging.Center, imaging.Lanczos)
	fillCircle(dst, center, r, fitted, image.Point{})
}
