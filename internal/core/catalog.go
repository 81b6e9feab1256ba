package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jo-hoe/emodi/internal/backend/database"
)

// ErrInvalidEmoji is returned for catalog entries that could never be resolved.
var ErrInvalidEmoji = errors.New("invalid emoji")

var emojiNamePattern = regexp.MustCompile(`^[^!:\s]+$`)

const aliasPrefix = "alias:"

func validateCatalogEntry(name, target string) error {
	if !emojiNamePattern.MatchString(name) {
		return fmt.Errorf("%w: `%s` is not a valid emoji name", ErrInvalidEmoji, name)
	}
	if alias, ok := strings.CutPrefix(target, aliasPrefix); ok {
		if !emojiNamePattern.MatchString(alias) {
			return fmt.Errorf("%w: `%s` is not a valid alias", ErrInvalidEmoji, target)
		}
		return nil
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: `%s` is not an http(s) url", ErrInvalidEmoji, target)
	}
	return nil
}

// PutEmoji registers or replaces a custom emoji of team.
func (service *CoreService) PutEmoji(ctx context.Context, team, name, target string) error {
	if err := validateCatalogEntry(name, target); err != nil {
		return err
	}
	return service.databaseService.PutEmoji(ctx, team, name, target)
}

func (service *CoreService) ListEmojis(ctx context.Context, team string) ([]*database.CatalogEntry, error) {
	return service.databaseService.ListEmojis(ctx, team)
}

// DeleteEmoji removes a custom emoji; database.ErrNotFound when absent.
func (service *CoreService) DeleteEmoji(ctx context.Context, team, name string) error {
	return service.databaseService.DeleteEmoji(ctx, team, name)
}

func (service *CoreService) seedCatalog(ctx context.Context) error {
	for _, e := range service.config.Emojis {
		if err := service.PutEmoji(ctx, e.Team, e.Name, e.URL); err != nil {
			return fmt.Errorf("failed to seed emoji %s: %w", e.Name, err)
		}
	}
	return nil
}
