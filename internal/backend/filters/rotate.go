package filters

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

// Rotation is a quarter turn count accepted by rotate.
type Rotation string

const (
	Clockwise        Rotation = "cw"
	CounterClockwise Rotation = "ccw"
	HalfTurn         Rotation = "180"
)

// Rotate turns every frame by a multiple of 90 degrees.
var Rotate = &filterstructure.Filter{
	Name:      "rotate",
	Arguments: []filterstructure.ArgKind{filterstructure.ArgString},
	Apply: func(ctx context.Context, _ *filterstructure.Env, e emoji.Emoji, args filterstructure.Args) (emoji.Emoji, error) {
		rotation := Rotation(args.StringAt(0))
		var fn func(*image.RGBA) *image.RGBA
		switch rotation {
		case Clockwise:
			fn = func(src *image.RGBA) *image.RGBA { return RotateQuarter(src, true) }
		case CounterClockwise:
			fn = func(src *image.RGBA) *image.RGBA { return RotateQuarter(src, false) }
		case HalfTurn:
			fn = func(src *image.RGBA) *image.RGBA { return FlipVertical(FlipHorizontal(src)) }
		default:
			return nil, filterstructure.RuntimeError("rotate: expected rotation (cw | ccw | 180)")
		}

		slog.Debug("rotate: rotating frames", "rotation", string(rotation), "frames", e.FrameCount())
		return emoji.Framewise(ctx, e, emoji.Lift(fn))
	},
}

// RotateQuarter turns src by 90 degrees. Width and height swap.
func RotateQuarter(src *image.RGBA, clockwise bool) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	raster.ParallelFor(h, func(y int) {
		srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			var d int
			if clockwise {
				// (x,y) -> (h-1-y, x)
				d = dst.PixOffset(h-1-y, x)
			} else {
				// (x,y) -> (y, w-1-x)
				d = dst.PixOffset(y, w-1-x)
			}
			copy(dst.Pix[d:d+4], srcRow[x*4:x*4+4])
		}
	})
	return dst
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(Rotate); err != nil {
		panic(fmt.Sprintf("failed to register rotate: %v", err))
	}
}
