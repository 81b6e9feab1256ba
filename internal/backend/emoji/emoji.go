// Package emoji models the image value a transformation works on: either a
// single still frame or an ordered sequence of animated frames.
package emoji

import (
	"image"
)

// Kind tags the two variants of an Emoji.
type Kind int

const (
	KindStatic Kind = iota
	KindAnimated
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindAnimated:
		return "animated"
	default:
		return "unknown"
	}
}

const (
	// DefaultMaxColors is the palette size limit of an animated container.
	DefaultMaxColors = 256
	// MinDelay is the smallest frame delay (in 1/100 s) browsers honor.
	MinDelay = 2
)

// Emoji is the closed union of Static and Animated. Code that needs
// representation specific behavior switches on the concrete type.
type Emoji interface {
	Kind() Kind
	// Size reports the canvas dimensions.
	Size() image.Point
	// FrameCount is 1 for a Static value.
	FrameCount() int

	sealed()
}

// Static is a single still raster.
type Static struct {
	Image *image.RGBA
}

// Frame is one animated raster plus its display delay in hundredths of a second.
type Frame struct {
	Image *image.RGBA
	Delay int
}

// Animated is an ordered frame sequence. Frame order is display order.
type Animated struct {
	Frames []Frame
	// LoopCount follows image/gif semantics: 0 loops forever.
	LoopCount int
	// MaxColors bounds the per-frame palette when the value is encoded.
	MaxColors int
}

// NewStatic wraps img as a Static value.
func NewStatic(img *image.RGBA) *Static {
	return &Static{Image: img}
}

// NewAnimated builds an Animated value looping forever with the default palette limit.
func NewAnimated(frames []Frame) *Animated {
	return &Animated{
		Frames:    frames,
		LoopCount: 0,
		MaxColors: DefaultMaxColors,
	}
}

func (s *Static) Kind() Kind { return KindStatic }

func (s *Static) Size() image.Point {
	return s.Image.Bounds().Size()
}

func (s *Static) FrameCount() int { return 1 }

func (s *Static) sealed() {}

func (a *Animated) Kind() Kind { return KindAnimated }

func (a *Animated) Size() image.Point {
	if len(a.Frames) == 0 {
		return image.Point{}
	}
	return a.Frames[0].Image.Bounds().Size()
}

func (a *Animated) FrameCount() int { return len(a.Frames) }

func (a *Animated) sealed() {}

// Delays returns the per-frame delays in display order.
func (a *Animated) Delays() []int {
	delays := make([]int, len(a.Frames))
	for i, f := range a.Frames {
		delays[i] = f.Delay
	}
	return delays
}

// withFrames returns a copy of a carrying the container metadata and the given frames.
func (a *Animated) withFrames(frames []Frame) *Animated {
	return &Animated{
		Frames:    frames,
		LoopCount: a.LoopCount,
		MaxColors: a.MaxColors,
	}
}
