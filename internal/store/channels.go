package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/takeout/internal/domain"
)

// ChannelStore defines the interface for channel persistence.
type ChannelStore interface {
	Get(ctx context.Context, channelID string) (*domain.Channel, error)
	Create(ctx context.Context, c *domain.Channel) error
	Update(ctx context.Context, c *domain.Channel) error
	Count(ctx context.Context) (int, error)
}

// SQLiteChannelStore implements ChannelStore backed by SQLite.
type SQLiteChannelStore struct {
	db DBTX
}

// NewSQLiteChannelStore creates a new SQLiteChannelStore.
func NewSQLiteChannelStore(db DBTX) *SQLiteChannelStore {
	return &SQLiteChannelStore{db: db}
}

// Get retrieves a channel by its natural ID. It returns ErrNotFound when the
// channel does not exist.
func (s *SQLiteChannelStore) Get(ctx context.Context, channelID string) (*domain.Channel, error) {
	var c domain.Channel
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT channel_id, title, description, is_subscribed, created_at, updated_at
		 FROM channels WHERE channel_id = ?`,
		channelID,
	).Scan(&c.ChannelID, &c.Title, &c.Description, &c.IsSubscribed, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get channel %s: %w", channelID, err)
	}
	if err := scanTimes(created, updated, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new channel and stamps its timestamps.
func (s *SQLiteChannelStore) Create(ctx context.Context, c *domain.Channel) error {
	ts := now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO channels (channel_id, title, description, is_subscribed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ChannelID, c.Title, c.Description, c.IsSubscribed, formatTime(ts), formatTime(ts),
	); err != nil {
		return fmt.Errorf("insert channel %s: %w", c.ChannelID, err)
	}
	c.CreatedAt, c.UpdatedAt = ts, ts
	return nil
}

// Update writes the mutable fields of an existing channel.
func (s *SQLiteChannelStore) Update(ctx context.Context, c *domain.Channel) error {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE channels SET title = ?, description = ?, is_subscribed = ?, updated_at = ?
		 WHERE channel_id = ?`,
		c.Title, c.Description, c.IsSubscribed, formatTime(ts), c.ChannelID,
	)
	if err != nil {
		return fmt.Errorf("update channel %s: %w", c.ChannelID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	c.UpdatedAt = ts
	return nil
}

// Count returns the number of stored channels.
func (s *SQLiteChannelStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM channels`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count channels: %w", err)
	}
	return n, nil
}
