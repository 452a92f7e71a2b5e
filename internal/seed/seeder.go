// Package seed loads a parsed export bundle into the store. Each entity type
// has one Seeder; the Orchestrator runs a dependency-ordered selection of
// them one after another over a single database handle.
package seed

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/johnwards/takeout/internal/domain"
)

// Data types produced by the registered seeders.
const (
	TypeChannels            = "channels"
	TypeVideos              = "videos"
	TypeUserVideos          = "user_videos"
	TypePlaylists           = "playlists"
	TypePlaylistMemberships = "playlist_memberships"
)

const (
	defaultBatchSize        = 500
	defaultProgressInterval = 1000
	defaultUserID           = "local"
	defaultLikedPlaylist    = "Liked videos"
)

// Seeder is one ingestion stage for one entity type.
//
// Seed must catch per-item problems, record them in the Result and carry on.
// It returns an error only when the storage is unusable.
type Seeder interface {
	DataType() string
	Dependencies() []string
	HasDependencies() bool
	Seed(ctx context.Context, db *sql.DB, bundle *domain.Bundle, progress Progress) (Result, error)
}

// settings is shared by every seeder, the orchestrator and the service.
type settings struct {
	logger        *slog.Logger
	batchSize     int
	progressEvery int
	userID        string
	likedPlaylist string
	clearExisting bool
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:        slog.Default(),
		batchSize:     defaultBatchSize,
		progressEvery: defaultProgressInterval,
		userID:        defaultUserID,
		likedPlaylist: defaultLikedPlaylist,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures seeders, the Orchestrator and the Service.
type Option func(*settings)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBatchSize sets how many source rows are written per transaction.
func WithBatchSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithProgressInterval sets how many items pass between intermediate
// progress reports. Zero disables intermediate reports.
func WithProgressInterval(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.progressEvery = n
		}
	}
}

// WithUserID sets the user that watch interactions are recorded for.
func WithUserID(id string) Option {
	return func(s *settings) {
		if id != "" {
			s.userID = id
		}
	}
}

// WithLikedPlaylist names the playlist whose videos count as liked.
func WithLikedPlaylist(name string) Option {
	return func(s *settings) {
		s.likedPlaylist = name
	}
}

// WithClearExisting makes the playlist stage delete every imported playlist
// before seeding, replacing them with the bundle's playlists.
func WithClearExisting(clear bool) Option {
	return func(s *settings) {
		s.clearExisting = clear
	}
}

// stage carries what every Seeder implementation shares.
type stage struct {
	dataType string
	deps     []string
	settings
}

func (s *stage) DataType() string { return s.dataType }

func (s *stage) Dependencies() []string {
	return append([]string(nil), s.deps...)
}

func (s *stage) HasDependencies() bool { return len(s.deps) > 0 }

// run opens the stage's batch, hands it to body and commits what is left.
// Progress is reported once more when the stage completes.
func (s *stage) run(ctx context.Context, db *sql.DB, progress Progress, body func(b *batch, res *Result) error) (Result, error) {
	start := time.Now()
	var res Result

	if db == nil {
		return res, ErrDatabaseRequired
	}

	b, err := beginBatch(ctx, db, s.batchSize)
	if err != nil {
		return res, err
	}
	defer b.abort()
	b.progress, b.dataType, b.every = progress, s.dataType, s.progressEvery

	err = body(b, &res)
	if err == nil {
		err = b.finish()
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	progress.Update(s.dataType)
	s.logger.Info("seeded",
		"type", s.dataType,
		"created", res.Created,
		"updated", res.Updated,
		"failed", res.Failed,
		"commits", b.commits,
		"duration", res.Duration,
	)
	return res, nil
}
