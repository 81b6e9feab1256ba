package parser

import (
	"reflect"
	"testing"

	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *filterstructure.Transformation
	}{
		{
			name: "emoji only",
			text: ":waiwai:",
			want: &filterstructure.Transformation{EmojiName: "waiwai", Filters: []filterstructure.FilterCall{}},
		},
		{
			name: "filters with arguments",
			text: ":parrot: | speedTimes 2 | move top bottom",
			want: &filterstructure.Transformation{
				EmojiName: "parrot",
				Filters: []filterstructure.FilterCall{
					{Name: "speedTimes", Args: []string{"2"}},
					{Name: "move", Args: []string{"top", "bottom"}},
				},
			},
		},
		{
			name: "argument-less filter",
			text: ":a:|mirror",
			want: &filterstructure.Transformation{
				EmojiName: "a",
				Filters:   []filterstructure.FilterCall{{Name: "mirror", Args: []string{}}},
			},
		},
		{
			name: "tabs and newlines between tokens",
			text: "  :a:\t|\tpro  Jane\n jane_doe ",
			want: &filterstructure.Transformation{
				EmojiName: "a",
				Filters:   []filterstructure.FilterCall{{Name: "pro", Args: []string{"Jane", "jane_doe"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.text, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParse_WhitespaceInsensitive(t *testing.T) {
	spaced, err := Parse(":a: | f1 x | f2 y")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	tight, err := Parse(":a:|f1 x|f2 y")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(spaced, tight) {
		t.Errorf("Expected identical transformations, got %+v and %+v", spaced, tight)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		message string
	}{
		{"missing colons", "waiwai | mirror", "`waiwai` is not a valid emoji name"},
		{"bang in name", ":wai!wai:", "`:wai!wai:` is not a valid emoji name"},
		{"space in name", ":wai wai:", "`:wai wai:` is not a valid emoji name"},
		{"empty name", "::", "`::` is not a valid emoji name"},
		{"empty input", "", "`` is not a valid emoji name"},
		{"empty filter", ":a: | mirror | | mirrorV", "empty filter"},
		{"trailing delimiter", ":a: | mirror |", "empty filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if got != nil {
				t.Errorf("Expected no partial result, got %+v", got)
			}
			e := filterstructure.AsError(err)
			if e == nil || e.Kind != filterstructure.KindParse {
				t.Fatalf("Expected ParseError, got %v", err)
			}
			if e.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, e.Message)
			}
		})
	}
}
