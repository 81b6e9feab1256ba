package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS emojis (
		team TEXT NOT NULL,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		PRIMARY KEY (team, name)
	)`)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS published (
		id TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, err
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) PutEmoji(ctx context.Context, team, name, url string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO emojis (team, name, url) VALUES (?, ?, ?)
		ON CONFLICT(team, name) DO UPDATE SET url = excluded.url`, team, name, url)
	return err
}

func (s *SQLiteDatabase) GetEmojiURL(ctx context.Context, team, name string) (string, error) {
	row := s.db.QueryRowContext(ctx, "SELECT url FROM emojis WHERE team = ? AND name = ?", team, name)
	var url string
	if err := row.Scan(&url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return url, nil
}

func (s *SQLiteDatabase) ListEmojis(ctx context.Context, team string) ([]*CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT team, name, url FROM emojis WHERE team = ? ORDER BY name", team)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	entries := make([]*CatalogEntry, 0)
	for rows.Next() {
		var entry CatalogEntry
		if err := rows.Scan(&entry.Team, &entry.Name, &entry.URL); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteDatabase) DeleteEmoji(ctx context.Context, team, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM emojis WHERE team = ? AND name = ?", team, name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteDatabase) SavePublished(ctx context.Context, data []byte, contentType string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	_, err = s.db.ExecContext(ctx, "INSERT INTO published (id, content_type, data, created_at) VALUES (?, ?, ?, ?)",
		id.String(), contentType, data, time.Now().Unix())
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *SQLiteDatabase) GetPublished(ctx context.Context, id string) (*Published, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, content_type, data, created_at FROM published WHERE id = ?", id)
	var p Published
	var createdAt int64
	if err := row.Scan(&p.ID, &p.ContentType, &p.Data, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}
