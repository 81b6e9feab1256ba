package filters

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

// Think puts the thinking hand in front of every square-padded frame.
var Think = &filterstructure.Filter{
	Name: "think",
	Apply: func(ctx context.Context, env *filterstructure.Env, e emoji.Emoji, _ filterstructure.Args) (emoji.Emoji, error) {
		if env == nil || env.Think == nil {
			return nil, fmt.Errorf("think: no overlay asset configured")
		}

		// every frame of one emoji pads to the same side
		side := max(e.Size().X, e.Size().Y)
		hand, err := env.Think.Render(side)
		if err != nil {
			return nil, fmt.Errorf("think: %w", err)
		}

		return emoji.Framewise(ctx, e, emoji.Lift(func(img *image.RGBA) *image.RGBA {
			dst := raster.ToSquare(img)
			draw.Draw(dst, dst.Bounds(), hand, hand.Bounds().Min, draw.Over)
			return dst
		}))
	},
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(Think); err != nil {
		panic(fmt.Sprintf("failed to register think: %v", err))
	}
}
