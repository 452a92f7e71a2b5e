package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/takeout/internal/domain"
)

// PlaylistStore defines the interface for playlist persistence.
type PlaylistStore interface {
	Get(ctx context.Context, playlistID string) (*domain.Playlist, error)
	Create(ctx context.Context, p *domain.Playlist) error
	Update(ctx context.Context, p *domain.Playlist) error
	DeleteImported(ctx context.Context) (int64, error)
	CountImported(ctx context.Context) (int, error)
}

// SQLitePlaylistStore implements PlaylistStore backed by SQLite.
type SQLitePlaylistStore struct {
	db DBTX
}

// NewSQLitePlaylistStore creates a new SQLitePlaylistStore.
func NewSQLitePlaylistStore(db DBTX) *SQLitePlaylistStore {
	return &SQLitePlaylistStore{db: db}
}

// Get retrieves a playlist by ID.
func (s *SQLitePlaylistStore) Get(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	var p domain.Playlist
	var channelID sql.NullString
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT playlist_id, channel_id, title, description, created_at, updated_at
		 FROM playlists WHERE playlist_id = ?`,
		playlistID,
	).Scan(&p.PlaylistID, &channelID, &p.Title, &p.Description, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get playlist %s: %w", playlistID, err)
	}
	p.ChannelID = stringPtr(channelID)
	if err := scanTimes(created, updated, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new playlist.
func (s *SQLitePlaylistStore) Create(ctx context.Context, p *domain.Playlist) error {
	ts := now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO playlists (playlist_id, channel_id, title, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.PlaylistID, nullString(p.ChannelID), p.Title, p.Description, formatTime(ts), formatTime(ts),
	); err != nil {
		return fmt.Errorf("insert playlist %s: %w", p.PlaylistID, err)
	}
	p.CreatedAt, p.UpdatedAt = ts, ts
	return nil
}

// Update writes the title and description of an existing playlist.
func (s *SQLitePlaylistStore) Update(ctx context.Context, p *domain.Playlist) error {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE playlists SET title = ?, description = ?, updated_at = ? WHERE playlist_id = ?`,
		p.Title, p.Description, formatTime(ts), p.PlaylistID,
	)
	if err != nil {
		return fmt.Errorf("update playlist %s: %w", p.PlaylistID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	p.UpdatedAt = ts
	return nil
}

// DeleteImported removes every playlist created by the import path (those
// with no owning channel). Memberships go with them via ON DELETE CASCADE.
func (s *SQLitePlaylistStore) DeleteImported(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE channel_id IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("delete imported playlists: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CountImported returns the number of playlists with no owning channel.
func (s *SQLitePlaylistStore) CountImported(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM playlists WHERE channel_id IS NULL`,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count imported playlists: %w", err)
	}
	return n, nil
}
