package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB and *sql.Tx the stores need, so the same store
// code runs inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store holds all sub-stores bound to one DBTX.
type Store struct {
	Channels    ChannelStore
	Videos      VideoStore
	UserVideos  UserVideoStore
	Playlists   PlaylistStore
	Memberships MembershipStore
}

// New creates a Store with all sub-stores bound to q.
func New(q DBTX) *Store {
	return &Store{
		Channels:    NewSQLiteChannelStore(q),
		Videos:      NewSQLiteVideoStore(q),
		UserVideos:  NewSQLiteUserVideoStore(q),
		Playlists:   NewSQLitePlaylistStore(q),
		Memberships: NewSQLiteMembershipStore(q),
	}
}
