package filters

import (
	"fmt"
	"image"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

// Mirror flips every frame horizontally.
var Mirror = filterstructure.Framewise("mirror", emoji.Lift(FlipHorizontal))

// MirrorV flips every frame vertically.
var MirrorV = filterstructure.Framewise("mirrorV", emoji.Lift(FlipVertical))

// FlipHorizontal mirrors src along its vertical axis.
func FlipHorizontal(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	raster.ParallelFor(h, func(y int) {
		srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			s := x * 4
			d := (w - 1 - x) * 4
			copy(dstRow[d:d+4], srcRow[s:s+4])
		}
	})
	return dst
}

// FlipVertical mirrors src along its horizontal axis.
func FlipVertical(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	raster.ParallelFor(h, func(y int) {
		o := src.PixOffset(b.Min.X, b.Min.Y+y)
		srcRow := src.Pix[o : o+w*4]
		d := (h - 1 - y) * dst.Stride
		copy(dst.Pix[d:d+w*4], srcRow)
	})
	return dst
}

func init() {
	for _, f := range []*filterstructure.Filter{Mirror, MirrorV} {
		if err := filterstructure.DefaultRegistry.Register(f); err != nil {
			panic(fmt.Sprintf("failed to register %s: %v", f.Name, err))
		}
	}
}
