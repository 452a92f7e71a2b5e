package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/takeout/internal/domain"
)

// VideoStore defines the interface for video persistence.
type VideoStore interface {
	Get(ctx context.Context, videoID string) (*domain.Video, error)
	Create(ctx context.Context, v *domain.Video) error
	Update(ctx context.Context, v *domain.Video) error
	Count(ctx context.Context) (int, error)
}

// SQLiteVideoStore implements VideoStore backed by SQLite.
type SQLiteVideoStore struct {
	db DBTX
}

// NewSQLiteVideoStore creates a new SQLiteVideoStore.
func NewSQLiteVideoStore(db DBTX) *SQLiteVideoStore {
	return &SQLiteVideoStore{db: db}
}

// Get retrieves a video by its natural ID.
func (s *SQLiteVideoStore) Get(ctx context.Context, videoID string) (*domain.Video, error) {
	var v domain.Video
	var channelID, hint, upload sql.NullString
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT video_id, channel_id, channel_name_hint, title, description, upload_date,
		        default_language, created_at, updated_at
		 FROM videos WHERE video_id = ?`,
		videoID,
	).Scan(&v.VideoID, &channelID, &hint, &v.Title, &v.Description, &upload,
		&v.DefaultLanguage, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get video %s: %w", videoID, err)
	}

	v.ChannelID = stringPtr(channelID)
	v.ChannelNameHint = stringPtr(hint)
	if v.UploadDate, err = timePtr(upload); err != nil {
		return nil, err
	}
	if err := scanTimes(created, updated, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a new video. An empty DefaultLanguage is stored as
// domain.DefaultLanguage.
func (s *SQLiteVideoStore) Create(ctx context.Context, v *domain.Video) error {
	if v.DefaultLanguage == "" {
		v.DefaultLanguage = domain.DefaultLanguage
	}
	ts := now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO videos (video_id, channel_id, channel_name_hint, title, description,
		                     upload_date, default_language, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VideoID, nullString(v.ChannelID), nullString(v.ChannelNameHint), v.Title, v.Description,
		nullTime(v.UploadDate), v.DefaultLanguage, formatTime(ts), formatTime(ts),
	); err != nil {
		return fmt.Errorf("insert video %s: %w", v.VideoID, err)
	}
	v.CreatedAt, v.UpdatedAt = ts, ts
	return nil
}

// Update writes the mutable fields of an existing video.
func (s *SQLiteVideoStore) Update(ctx context.Context, v *domain.Video) error {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE videos SET channel_id = ?, channel_name_hint = ?, title = ?, description = ?,
		                   upload_date = ?, default_language = ?, updated_at = ?
		 WHERE video_id = ?`,
		nullString(v.ChannelID), nullString(v.ChannelNameHint), v.Title, v.Description,
		nullTime(v.UploadDate), v.DefaultLanguage, formatTime(ts), v.VideoID,
	)
	if err != nil {
		return fmt.Errorf("update video %s: %w", v.VideoID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	v.UpdatedAt = ts
	return nil
}

// Count returns the number of stored videos.
func (s *SQLiteVideoStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}
