package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/johnwards/takeout/internal/domain"
)

// MembershipStore defines the interface for playlist membership persistence.
type MembershipStore interface {
	Get(ctx context.Context, playlistID, videoID string) (*domain.PlaylistMembership, error)
	Create(ctx context.Context, m *domain.PlaylistMembership) error
	Update(ctx context.Context, m *domain.PlaylistMembership) error
	List(ctx context.Context, playlistID string) ([]*domain.PlaylistMembership, error)
	DeleteExcept(ctx context.Context, playlistID string, keep []string) (int64, error)
}

// SQLiteMembershipStore implements MembershipStore backed by SQLite.
type SQLiteMembershipStore struct {
	db DBTX
}

// NewSQLiteMembershipStore creates a new SQLiteMembershipStore.
func NewSQLiteMembershipStore(db DBTX) *SQLiteMembershipStore {
	return &SQLiteMembershipStore{db: db}
}

// Get retrieves the membership of a video in a playlist.
func (s *SQLiteMembershipStore) Get(ctx context.Context, playlistID, videoID string) (*domain.PlaylistMembership, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT playlist_id, video_id, position, added_at
		 FROM playlist_videos WHERE playlist_id = ? AND video_id = ?`,
		playlistID, videoID,
	)
	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get membership %s/%s: %w", playlistID, videoID, err)
	}
	return m, nil
}

// Create inserts a new membership.
func (s *SQLiteMembershipStore) Create(ctx context.Context, m *domain.PlaylistMembership) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO playlist_videos (playlist_id, video_id, position, added_at) VALUES (?, ?, ?, ?)`,
		m.PlaylistID, m.VideoID, m.Position, nullTime(&m.AddedAt),
	); err != nil {
		return fmt.Errorf("insert membership %s/%s: %w", m.PlaylistID, m.VideoID, err)
	}
	return nil
}

// Update rewrites the position and added-at time of an existing membership.
func (s *SQLiteMembershipStore) Update(ctx context.Context, m *domain.PlaylistMembership) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE playlist_videos SET position = ?, added_at = ? WHERE playlist_id = ? AND video_id = ?`,
		m.Position, nullTime(&m.AddedAt), m.PlaylistID, m.VideoID,
	)
	if err != nil {
		return fmt.Errorf("update membership %s/%s: %w", m.PlaylistID, m.VideoID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the memberships of a playlist ordered by position.
func (s *SQLiteMembershipStore) List(ctx context.Context, playlistID string) ([]*domain.PlaylistMembership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT playlist_id, video_id, position, added_at
		 FROM playlist_videos WHERE playlist_id = ? ORDER BY position ASC`,
		playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.PlaylistMembership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// DeleteExcept removes the memberships of a playlist whose video is not in
// keep. An empty keep removes every membership of the playlist.
func (s *SQLiteMembershipStore) DeleteExcept(ctx context.Context, playlistID string, keep []string) (int64, error) {
	query := `DELETE FROM playlist_videos WHERE playlist_id = ?`
	args := []any{playlistID}
	if len(keep) > 0 {
		query += ` AND video_id NOT IN (?` + strings.Repeat(",?", len(keep)-1) + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune memberships of %s: %w", playlistID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMembership(row scanner) (*domain.PlaylistMembership, error) {
	var m domain.PlaylistMembership
	var added sql.NullString
	if err := row.Scan(&m.PlaylistID, &m.VideoID, &m.Position, &added); err != nil {
		return nil, err
	}
	t, err := timePtr(added)
	if err != nil {
		return nil, err
	}
	if t != nil {
		m.AddedAt = *t
	}
	return &m, nil
}
