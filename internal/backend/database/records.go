package database

import "time"

// CatalogEntry is a custom emoji registered by a team.
type CatalogEntry struct {
	Team string `db:"team" json:"team"`
	Name string `db:"name" json:"name"`
	URL  string `db:"url" json:"url"`
}

// Published is an encoded transformation result.
type Published struct {
	ID          string    `db:"id"`
	ContentType string    `db:"content_type"`
	Data        []byte    `db:"data"` // PNG or GIF bytes
	CreatedAt   time.Time `db:"created_at"`
}
