package filterstructure

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

// ArgKind is the declared type of a filter argument.
type ArgKind int

const (
	ArgNumber ArgKind = iota
	ArgString
)

func (k ArgKind) String() string {
	switch k {
	case ArgNumber:
		return "number"
	case ArgString:
		return "string"
	default:
		return "unknown"
	}
}

// Arg is one coerced argument value.
type Arg struct {
	Kind   ArgKind
	Number float64
	String string
}

// Args holds the coerced arguments of one filter call in declaration order.
type Args []Arg

// NumberAt returns the i-th argument as a number.
func (a Args) NumberAt(i int) float64 {
	return a[i].Number
}

// StringAt returns the i-th argument as a string.
func (a Args) StringAt(i int) string {
	return a[i].String
}

// TextRenderer produces SVG path data for text set in a named font with its
// baseline origin at (x, y).
type TextRenderer interface {
	PathData(ctx context.Context, fontName, text string, x, y, size float64) (string, error)
}

// Overlay provides an auxiliary image rendered at side x side pixels.
type Overlay interface {
	Render(side int) (*image.RGBA, error)
}

// Env carries the collaborators filters may call. It is built once at
// startup and only read afterwards.
type Env struct {
	Text  TextRenderer
	Think Overlay
	Now   func() time.Time
}

// Clock returns the current time of the environment.
func (e *Env) Clock() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// FilterFunc transforms an emoji with already coerced arguments.
type FilterFunc func(ctx context.Context, env *Env, e emoji.Emoji, args Args) (emoji.Emoji, error)

// Filter describes a named transformation and its argument signature.
type Filter struct {
	Name      string
	Arguments []ArgKind
	Apply     FilterFunc
	// Validate optionally rejects coerced arguments before anything executes.
	Validate func(args Args) error
}

// Framewise builds an argument-less filter applying fn to every frame.
func Framewise(name string, fn emoji.FrameFunc) *Filter {
	return &Filter{
		Name: name,
		Apply: func(ctx context.Context, _ *Env, e emoji.Emoji, _ Args) (emoji.Emoji, error) {
			return emoji.Framewise(ctx, e, fn)
		},
	}
}

// Signature renders the argument kinds for listings, e.g. "move string string".
func (f *Filter) Signature() string {
	s := f.Name
	for _, k := range f.Arguments {
		s += " " + k.String()
	}
	return s
}

// BoundFilter is a filter call whose arguments passed type checking.
type BoundFilter struct {
	filter *Filter
	args   Args
	env    *Env
}

// Name returns the name of the underlying filter.
func (b *BoundFilter) Name() string {
	return b.filter.Name
}

// Apply runs the filter on e.
func (b *BoundFilter) Apply(ctx context.Context, e emoji.Emoji) (emoji.Emoji, error) {
	if b.filter.Apply == nil {
		return nil, fmt.Errorf("filter %s has no implementation", b.filter.Name)
	}
	return b.filter.Apply(ctx, b.env, e, b.args)
}

// FilterCall is one parsed filter invocation with raw string arguments.
type FilterCall struct {
	Name string
	Args []string
}

// Transformation is a parsed command: the emoji to load and the filters to apply.
type Transformation struct {
	EmojiName string
	Filters   []FilterCall
}
