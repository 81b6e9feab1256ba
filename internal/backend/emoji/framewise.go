package emoji

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FrameFunc transforms the pixels of one frame. Implementations must not
// mutate their input and must not depend on other frames.
type FrameFunc func(img *image.RGBA) (*image.RGBA, error)

// Lift adapts an infallible per-frame function to a FrameFunc.
func Lift(fn func(img *image.RGBA) *image.RGBA) FrameFunc {
	return func(img *image.RGBA) (*image.RGBA, error) {
		return fn(img), nil
	}
}

// Framewise applies fn to the single frame of a Static value, or to every
// frame of an Animated value. Animated frames are processed concurrently and
// reassembled in their original order with their delays and the container
// metadata untouched. The first frame error aborts the whole application.
func Framewise(ctx context.Context, e Emoji, fn FrameFunc) (Emoji, error) {
	switch v := e.(type) {
	case *Static:
		img, err := fn(v.Image)
		if err != nil {
			return nil, err
		}
		return NewStatic(img), nil
	case *Animated:
		frames, err := mapFrames(ctx, v.Frames, fn)
		if err != nil {
			return nil, err
		}
		return v.withFrames(frames), nil
	default:
		return nil, fmt.Errorf("unsupported emoji variant %T", e)
	}
}

func mapFrames(ctx context.Context, in []Frame, fn FrameFunc) ([]Frame, error) {
	out := make([]Frame, len(in))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, frame := range in {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := fn(frame.Image)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			out[i] = Frame{Image: img, Delay: frame.Delay}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
