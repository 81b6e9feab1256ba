// Package parser turns command text into a Transformation.
package parser

import (
	"regexp"
	"strings"

	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
)

// Delimiter separates the emoji segment from the filter segments.
const Delimiter = "|"

var emojiSegment = regexp.MustCompile(`^:([^!:\s]+):$`)

// Parse reads `:name: | filter arg ... | ...`. It stops at the first
// malformed segment and never returns a partial result.
func Parse(text string) (*filterstructure.Transformation, error) {
	segments := strings.Split(text, Delimiter)
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	match := emojiSegment.FindStringSubmatch(segments[0])
	if match == nil {
		return nil, filterstructure.ParseError("`%s` is not a valid emoji name", segments[0])
	}

	calls := make([]filterstructure.FilterCall, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		tokens := strings.Fields(segment)
		if len(tokens) == 0 {
			return nil, filterstructure.ParseError("empty filter")
		}
		calls = append(calls, filterstructure.FilterCall{
			Name: tokens[0],
			Args: tokens[1:],
		})
	}

	return &filterstructure.Transformation{
		EmojiName: match[1],
		Filters:   calls,
	}, nil
}
