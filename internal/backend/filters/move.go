package filters

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

const (
	// MoveFrames is the number of frames of a move transition.
	MoveFrames = 12
	// MoveDelay is the delay of every transition frame in centiseconds.
	MoveDelay = 6
)

// Direction is an edge of the canvas.
type Direction string

const (
	Top    Direction = "top"
	Bottom Direction = "bottom"
	Left   Direction = "left"
	Right  Direction = "right"
)

var opposites = map[Direction]Direction{
	Top:    Bottom,
	Bottom: Top,
	Left:   Right,
	Right:  Left,
}

// ParseDirection reports whether s names a direction.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(s)
	_, ok := opposites[d]
	return d, ok
}

// Opposite returns the edge facing d.
func (d Direction) Opposite() Direction {
	return opposites[d]
}

// offset returns the translation that moves content step pixels toward d.
func (d Direction) offset(step int) (dx, dy int) {
	switch d {
	case Top:
		return 0, -step
	case Bottom:
		return 0, step
	case Left:
		return -step, 0
	case Right:
		return step, 0
	}
	return 0, 0
}

// Move turns a static emoji into a looping slide transition: the emoji
// leaves toward `to` while its next copy enters from `from`.
var Move = &filterstructure.Filter{
	Name:      "move",
	Arguments: []filterstructure.ArgKind{filterstructure.ArgString, filterstructure.ArgString},
	Apply: func(ctx context.Context, _ *filterstructure.Env, e emoji.Emoji, args filterstructure.Args) (emoji.Emoji, error) {
		if _, ok := e.(*emoji.Animated); ok {
			return nil, filterstructure.RuntimeError("move accepts only static emoji")
		}
		from, fromOk := ParseDirection(args.StringAt(0))
		to, toOk := ParseDirection(args.StringAt(1))
		if !fromOk || !toOk {
			return nil, filterstructure.RuntimeError("move: expected direction (top | bottom | left | right)")
		}
		return moveFromTo(ctx, e, from, to)
	},
}

// Go is move with the entry edge opposite to the exit edge.
var Go = &filterstructure.Filter{
	Name:      "go",
	Arguments: []filterstructure.ArgKind{filterstructure.ArgString},
	Apply: func(ctx context.Context, _ *filterstructure.Env, e emoji.Emoji, args filterstructure.Args) (emoji.Emoji, error) {
		to, ok := ParseDirection(args.StringAt(0))
		if !ok {
			return nil, filterstructure.RuntimeError("go: expected direction (top | bottom | left | right)")
		}
		if _, animated := e.(*emoji.Animated); animated {
			return nil, filterstructure.RuntimeError("move accepts only static emoji")
		}
		return moveFromTo(ctx, e, to.Opposite(), to)
	},
}

func moveFromTo(ctx context.Context, e emoji.Emoji, from, to Direction) (emoji.Emoji, error) {
	static, ok := e.(*emoji.Static)
	if !ok {
		return nil, filterstructure.RuntimeError("move accepts only static emoji")
	}

	square := raster.ToSquare(static.Image)
	side := square.Bounds().Dx()

	frames := make([]emoji.Frame, MoveFrames)
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		going := shift(square, to, i, side)
		coming := shift(square, from, MoveFrames-i, side)
		draw.Draw(going, going.Bounds(), coming, image.Point{}, draw.Over)
		frames[i] = emoji.Frame{Image: going, Delay: MoveDelay}
	}

	return emoji.NewAnimated(frames), nil
}

// shift moves img toward d by frame twelfths of side.
func shift(img *image.RGBA, d Direction, frame, side int) *image.RGBA {
	step := int(math.Round(float64(frame*side) / MoveFrames))
	dx, dy := d.offset(step)
	return raster.Translate(img, dx, dy)
}

func init() {
	for _, f := range []*filterstructure.Filter{Move, Go} {
		if err := filterstructure.DefaultRegistry.Register(f); err != nil {
			panic(fmt.Sprintf("failed to register %s: %v", f.Name, err))
		}
	}
}
