// Package filters contains the built-in filters. Every filter registers
// itself with filterstructure.DefaultRegistry when the package is imported.
package filters

import (
	"context"
	"fmt"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
)

// Identity returns its input unchanged.
var Identity = &filterstructure.Filter{
	Name: "identity",
	Apply: func(_ context.Context, _ *filterstructure.Env, e emoji.Emoji, _ filterstructure.Args) (emoji.Emoji, error) {
		return e, nil
	},
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(Identity); err != nil {
		panic(fmt.Sprintf("failed to register identity: %v", err))
	}
}
