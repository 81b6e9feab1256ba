package filterstructure

import (
	"context"
	"image"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

// mockStep is a pipeline step recording whether it ran.
type mockStep struct {
	name    string
	applyFn func(emoji.Emoji) (emoji.Emoji, error)
	calls   int
}

func (m *mockStep) Name() string {
	return m.name
}

func (m *mockStep) Apply(_ context.Context, e emoji.Emoji) (emoji.Emoji, error) {
	m.calls++
	if m.applyFn != nil {
		return m.applyFn(e)
	}
	return e, nil
}

func newMockStep(name string) *mockStep {
	return &mockStep{name: name}
}

func newMockStepWithError(name string, err error) *mockStep {
	return &mockStep{
		name: name,
		applyFn: func(emoji.Emoji) (emoji.Emoji, error) {
			return nil, err
		},
	}
}

func newTestInvoker(steps ...Applier) *FilterInvoker {
	return &FilterInvoker{filters: steps}
}

func newTestEmoji(w, h int) *emoji.Static {
	return emoji.NewStatic(image.NewRGBA(image.Rect(0, 0, w, h)))
}

// identityFilter returns a descriptor passing its input through.
func identityFilter(name string, kinds ...ArgKind) *Filter {
	return &Filter{
		Name:      name,
		Arguments: kinds,
		Apply: func(_ context.Context, _ *Env, e emoji.Emoji, _ Args) (emoji.Emoji, error) {
			return e, nil
		},
	}
}
