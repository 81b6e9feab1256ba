package filters

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

// Trim crops the borders whose pixels differ from the top-left pixel by at
// most threshold in every channel. All frames of an animated emoji are
// cropped to the union of their content boxes so the canvas stays uniform.
var Trim = &filterstructure.Filter{
	Name:      "trim",
	Arguments: []filterstructure.ArgKind{filterstructure.ArgNumber},
	Apply: func(ctx context.Context, _ *filterstructure.Env, e emoji.Emoji, args filterstructure.Args) (emoji.Emoji, error) {
		threshold := args.NumberAt(0)

		var box image.Rectangle
		switch v := e.(type) {
		case *emoji.Static:
			box = ContentBounds(v.Image, threshold)
		case *emoji.Animated:
			for _, f := range v.Frames {
				box = box.Union(ContentBounds(f.Image, threshold))
			}
		default:
			return nil, fmt.Errorf("unsupported emoji variant %T", e)
		}

		if box.Empty() {
			return e, nil
		}
		return emoji.Framewise(ctx, e, emoji.Lift(func(img *image.RGBA) *image.RGBA {
			return raster.Crop(img, box)
		}))
	},
}

// ContentBounds returns the smallest rectangle, relative to the origin of
// img, holding every pixel that differs from the top-left background color
// by more than threshold. The result is empty when the whole image matches.
func ContentBounds(img *image.RGBA, threshold float64) image.Rectangle {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.Rectangle{}
	}
	bg := img.Pix[img.PixOffset(b.Min.X, b.Min.Y):][:4]

	var mu sync.Mutex
	box := image.Rectangle{}
	raster.ParallelFor(h, func(y int) {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		minX, maxX := -1, -1
		for x := 0; x < w; x++ {
			if differs(row[x*4:x*4+4], bg, threshold) {
				if minX < 0 {
					minX = x
				}
				maxX = x
			}
		}
		if minX < 0 {
			return
		}
		mu.Lock()
		box = box.Union(image.Rect(minX, y, maxX+1, y+1))
		mu.Unlock()
	})
	return box
}

func differs(p, bg []uint8, threshold float64) bool {
	for c := 0; c < 4; c++ {
		d := int(p[c]) - int(bg[c])
		if d < 0 {
			d = -d
		}
		if float64(d) > threshold {
			return true
		}
	}
	return false
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(Trim); err != nil {
		panic(fmt.Sprintf("failed to register trim: %v", err))
	}
}
