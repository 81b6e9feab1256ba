package filters

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

// Pixelate replaces every block x block cell of each frame with the color of
// the cell's center pixel.
var Pixelate = &filterstructure.Filter{
	Name:      "pixelate",
	Arguments: []filterstructure.ArgKind{filterstructure.ArgNumber},
	Validate: func(args filterstructure.Args) error {
		block := args.NumberAt(0)
		if block < 1 || math.IsInf(block, 0) {
			return filterstructure.TypeError("`pixelate` expects a block size of at least 1, but got %v", block)
		}
		return nil
	},
	Apply: func(ctx context.Context, _ *filterstructure.Env, e emoji.Emoji, args filterstructure.Args) (emoji.Emoji, error) {
		block := int(math.Round(args.NumberAt(0)))
		return emoji.Framewise(ctx, e, emoji.Lift(func(img *image.RGBA) *image.RGBA {
			return PixelateImage(img, block)
		}))
	},
}

// PixelateImage samples src with nearest-neighbor lookups on a block grid.
func PixelateImage(src *image.RGBA, block int) *image.RGBA {
	if block <= 1 {
		return raster.Clone(src)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	raster.ParallelFor(h, func(y int) {
		sy := min(y/block*block+block/2, h-1)
		srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+sy):]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			sx := min(x/block*block+block/2, w-1)
			copy(dstRow[x*4:x*4+4], srcRow[sx*4:sx*4+4])
		}
	})
	return dst
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(Pixelate); err != nil {
		panic(fmt.Sprintf("failed to register pixelate: %v", err))
	}
}
