package filterstructure

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

func newDispatchRegistry() *FilterRegistry {
	registry := NewFilterRegistry()
	registry.MustRegister(identityFilter("mirror"))
	registry.MustRegister(identityFilter("move", ArgString, ArgString))
	registry.MustRegister(&Filter{
		Name:      "speedTimes",
		Arguments: []ArgKind{ArgNumber},
		Apply: func(_ context.Context, _ *Env, e emoji.Emoji, _ Args) (emoji.Emoji, error) {
			return e, nil
		},
		Validate: func(args Args) error {
			if args.NumberAt(0) <= 0 {
				return errors.New("ratio must be positive")
			}
			return nil
		},
	})
	return registry
}

func TestBind_Success(t *testing.T) {
	registry := newDispatchRegistry()
	bound, err := registry.Bind([]FilterCall{
		{Name: "mirror"},
		{Name: "move", Args: []string{"left", "right"}},
		{Name: "speedTimes", Args: []string{"2"}},
	}, &Env{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(bound) != 3 {
		t.Fatalf("Expected 3 bound filters, got %d", len(bound))
	}
	if bound[1].Name() != "move" {
		t.Errorf("Expected move, got %s", bound[1].Name())
	}
	if bound[2].args.NumberAt(0) != 2 {
		t.Errorf("Expected ratio 2, got %v", bound[2].args.NumberAt(0))
	}
}

func TestBind_EmptyPipeline(t *testing.T) {
	bound, err := newDispatchRegistry().Bind(nil, &Env{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(bound) != 0 {
		t.Errorf("Expected no bound filters, got %d", len(bound))
	}
}

func TestBind_UnknownFilter(t *testing.T) {
	_, err := newDispatchRegistry().Bind([]FilterCall{
		{Name: "mirror"},
		{Name: "unknownFilter"},
	}, &Env{})
	e := AsError(err)
	if e == nil || e.Kind != KindName {
		t.Fatalf("Expected NameError, got %v", err)
	}
	if !strings.Contains(e.Message, "unknownFilter") {
		t.Errorf("Expected message to name the filter, got %q", e.Message)
	}
}

func TestBind_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		call FilterCall
	}{
		{"missing argument", FilterCall{Name: "speedTimes"}},
		{"not a number", FilterCall{Name: "speedTimes", Args: []string{"fast"}}},
		{"rejected by validation", FilterCall{Name: "speedTimes", Args: []string{"0"}}},
		{"extra argument", FilterCall{Name: "mirror", Args: []string{"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDispatchRegistry().Bind([]FilterCall{tt.call}, &Env{})
			if KindOf(err) != KindType {
				t.Errorf("Expected TypeError, got %v", err)
			}
		})
	}
}

func TestBoundFilter_ApplyPassesArguments(t *testing.T) {
	var got Args
	registry := NewFilterRegistry()
	registry.MustRegister(&Filter{
		Name:      "record",
		Arguments: []ArgKind{ArgString, ArgNumber},
		Apply: func(_ context.Context, _ *Env, e emoji.Emoji, args Args) (emoji.Emoji, error) {
			got = args
			return e, nil
		},
	})

	bound, err := registry.Bind([]FilterCall{{Name: "record", Args: []string{"top", "3"}}}, &Env{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := bound[0].Apply(context.Background(), newTestEmoji(2, 2)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.StringAt(0) != "top" || got.NumberAt(1) != 3 {
		t.Errorf("Unexpected arguments %+v", got)
	}
}
