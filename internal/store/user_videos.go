package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/takeout/internal/domain"
)

// UserVideoStore defines the interface for user/video interaction persistence.
type UserVideoStore interface {
	Get(ctx context.Context, userID, videoID string) (*domain.UserVideo, error)
	Create(ctx context.Context, uv *domain.UserVideo) error
	Update(ctx context.Context, uv *domain.UserVideo) error
	Count(ctx context.Context, userID string) (int, error)
}

// SQLiteUserVideoStore implements UserVideoStore backed by SQLite.
type SQLiteUserVideoStore struct {
	db DBTX
}

// NewSQLiteUserVideoStore creates a new SQLiteUserVideoStore.
func NewSQLiteUserVideoStore(db DBTX) *SQLiteUserVideoStore {
	return &SQLiteUserVideoStore{db: db}
}

// Get retrieves the interaction for the (user, video) key.
func (s *SQLiteUserVideoStore) Get(ctx context.Context, userID, videoID string) (*domain.UserVideo, error) {
	var uv domain.UserVideo
	var watched, created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, video_id, watched_at, liked, saved_to_playlist, rewatch_count, created_at, updated_at
		 FROM user_videos WHERE user_id = ? AND video_id = ?`,
		userID, videoID,
	).Scan(&uv.UserID, &uv.VideoID, &watched, &uv.Liked, &uv.SavedToPlaylist, &uv.RewatchCount, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user video %s/%s: %w", userID, videoID, err)
	}

	if uv.WatchedAt, err = parseTime(watched); err != nil {
		return nil, err
	}
	if err := scanTimes(created, updated, &uv.CreatedAt, &uv.UpdatedAt); err != nil {
		return nil, err
	}
	return &uv, nil
}

// Create inserts a new interaction.
func (s *SQLiteUserVideoStore) Create(ctx context.Context, uv *domain.UserVideo) error {
	ts := now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO user_videos (user_id, video_id, watched_at, liked, saved_to_playlist, rewatch_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uv.UserID, uv.VideoID, formatTime(uv.WatchedAt), uv.Liked, uv.SavedToPlaylist, uv.RewatchCount,
		formatTime(ts), formatTime(ts),
	); err != nil {
		return fmt.Errorf("insert user video %s/%s: %w", uv.UserID, uv.VideoID, err)
	}
	uv.CreatedAt, uv.UpdatedAt = ts, ts
	return nil
}

// Update writes the mutable fields of an existing interaction.
func (s *SQLiteUserVideoStore) Update(ctx context.Context, uv *domain.UserVideo) error {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_videos SET watched_at = ?, liked = ?, saved_to_playlist = ?, rewatch_count = ?, updated_at = ?
		 WHERE user_id = ? AND video_id = ?`,
		formatTime(uv.WatchedAt), uv.Liked, uv.SavedToPlaylist, uv.RewatchCount, formatTime(ts),
		uv.UserID, uv.VideoID,
	)
	if err != nil {
		return fmt.Errorf("update user video %s/%s: %w", uv.UserID, uv.VideoID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	uv.UpdatedAt = ts
	return nil
}

// Count returns the number of interactions stored for a user.
func (s *SQLiteUserVideoStore) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_videos WHERE user_id = ?`, userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count user videos: %w", err)
	}
	return n, nil
}
