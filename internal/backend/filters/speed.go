package filters

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
)

// SpeedTimes divides every frame delay of an animated emoji by the given
// ratio. Delays never drop below emoji.MinDelay. Static emoji pass through.
var SpeedTimes = &filterstructure.Filter{
	Name:      "speedTimes",
	Arguments: []filterstructure.ArgKind{filterstructure.ArgNumber},
	Apply:     speedTimes,
	Validate: func(args filterstructure.Args) error {
		ratio := args.NumberAt(0)
		if ratio <= 0 || math.IsInf(ratio, 0) {
			return filterstructure.TypeError("`speedTimes` expects a positive finite ratio, but got %v", ratio)
		}
		return nil
	},
}

func speedTimes(_ context.Context, _ *filterstructure.Env, e emoji.Emoji, args filterstructure.Args) (emoji.Emoji, error) {
	ratio := args.NumberAt(0)

	anim, ok := e.(*emoji.Animated)
	if !ok {
		slog.Debug("speedTimes: static emoji, nothing to do")
		return e, nil
	}

	frames := make([]emoji.Frame, len(anim.Frames))
	for i, f := range anim.Frames {
		frames[i] = emoji.Frame{
			Image: f.Image,
			Delay: ScaleDelay(f.Delay, ratio),
		}
	}

	return &emoji.Animated{
		Frames:    frames,
		LoopCount: anim.LoopCount,
		MaxColors: anim.MaxColors,
	}, nil
}

// ScaleDelay returns max(MinDelay, delay/ratio) rounded to whole centiseconds.
func ScaleDelay(delay int, ratio float64) int {
	scaled := math.Max(emoji.MinDelay, float64(delay)/ratio)
	return int(math.Round(scaled))
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(SpeedTimes); err != nil {
		panic(fmt.Sprintf("failed to register speedTimes: %v", err))
	}
}
