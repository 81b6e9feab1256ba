// Package publish encodes finished emoji and stores them somewhere a chat
// client can load them from.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jo-hoe/emodi/internal/backend/database"
	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

const PublishedPath = "/published/"

type Publisher interface {
	// Publish encodes e and returns a public URL for the result.
	Publish(ctx context.Context, e emoji.Emoji) (string, error)
}

// DatabasePublisher keeps results in the database; they are served by the
// API under PublishedPath.
type DatabasePublisher struct {
	db      database.DatabaseService
	baseURL string
}

func NewDatabasePublisher(db database.DatabaseService, baseURL string) *DatabasePublisher {
	return &DatabasePublisher{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *DatabasePublisher) Publish(ctx context.Context, e emoji.Emoji) (string, error) {
	data, contentType, err := emoji.Encode(e)
	if err != nil {
		return "", err
	}
	id, err := p.db.SavePublished(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store result: %w", err)
	}

	slog.Info("published emoji", "id", id, "content_type", contentType, "size_bytes", len(data))
	return p.baseURL + PublishedPath + id, nil
}

// Extension returns the file extension for an encoded content type.
func Extension(contentType string) string {
	switch contentType {
	case emoji.ContentTypeGIF:
		return ".gif"
	case emoji.ContentTypePNG:
		return ".png"
	default:
		return ""
	}
}
