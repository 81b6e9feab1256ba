package database

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// PutEmoji creates or replaces the URL a team's emoji name points to.
	// The URL may be an alias of the form "alias:<name>".
	PutEmoji(ctx context.Context, team, name, url string) error
	GetEmojiURL(ctx context.Context, team, name string) (string, error)
	ListEmojis(ctx context.Context, team string) ([]*CatalogEntry, error)
	DeleteEmoji(ctx context.Context, team, name string) error

	// SavePublished stores an encoded result and returns its generated ID.
	SavePublished(ctx context.Context, data []byte, contentType string) (string, error)
	GetPublished(ctx context.Context, id string) (*Published, error)
}
