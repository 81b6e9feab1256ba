package filterstructure

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{ParseError("empty filter"), "ParseError: empty filter"},
		{NameError("`:%s:` : No such emoji", "x"), "NameError: `:x:` : No such emoji"},
		{TypeError("`%s` is not a number", "a"), "TypeError: `a` is not a number"},
		{RuntimeError("move accepts only static emoji"), "RuntimeError: move accepts only static emoji"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("Expected nil for nil error")
	}

	wrapped := fmt.Errorf("frame 3: %w", RuntimeError("bad frame"))
	if e := AsError(wrapped); e.Kind != KindRuntime || e.Message != "bad frame" {
		t.Errorf("Expected unwrapped runtime error, got %+v", e)
	}

	foreign := AsError(errors.New("disk on fire"))
	if foreign.Kind != KindInternal {
		t.Errorf("Expected InternalError, got %v", foreign.Kind)
	}
	if foreign.Message != "disk on fire" {
		t.Errorf("Expected original text, got %q", foreign.Message)
	}
}
