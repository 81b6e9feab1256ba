// Package raster holds the pixel-level helpers shared by the emoji codec,
// the built-in filters and the overlay assets. All helpers work on
// *image.RGBA canvases anchored at the origin and never mutate their input.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// NewCanvas creates a w x h canvas filled with bg.
func NewCanvas(w, h int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return dst
}

// Clone copies src into a new RGBA canvas whose bounds start at the origin.
func Clone(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// ToSquare pads the shorter side of src with transparent pixels so the result
// is max(w, h) on each side. The original content is centered, rounding the
// leading padding down.
func ToSquare(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return Clone(src)
	}

	side := max(w, h)
	left, top := 0, 0
	if w > h {
		top = (w - h) / 2
	} else {
		left = (h - w) / 2
	}

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, image.Rect(left, top, left+w, top+h), src, b.Min, draw.Src)
	return dst
}

// Translate moves the content of src by (dx, dy) on a canvas of the same size.
// Pixels shifted past an edge are dropped and uncovered pixels are transparent.
func Translate(src *image.RGBA, dx, dy int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	target := image.Rect(dx, dy, dx+b.Dx(), dy+b.Dy()).Intersect(dst.Bounds())
	if target.Empty() {
		return dst
	}
	sp := image.Pt(b.Min.X+target.Min.X-dx, b.Min.Y+target.Min.Y-dy)
	draw.Draw(dst, target, src, sp, draw.Src)
	return dst
}

// Crop copies the rectangle r (relative to the origin of src) into a new canvas.
func Crop(src *image.RGBA, r image.Rectangle) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min.Add(r.Min), draw.Src)
	return dst
}

// FitInside returns the largest size with the aspect ratio of w x h that fits
// inside maxW x maxH. Images smaller than the box are enlarged.
func FitInside(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	aspect := float64(w) / float64(h)
	boxAspect := float64(maxW) / float64(maxH)
	if aspect > boxAspect {
		fh := int(float64(maxW)/aspect + 0.5)
		return maxW, max(1, fh)
	}
	fw := int(float64(maxH)*aspect + 0.5)
	return max(1, fw), maxH
}

// Scale resamples src to exactly w x h.
func Scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
