package seed

import (
	"context"
	"database/sql"

	"github.com/johnwards/takeout/internal/domain"
)

// RunOptions selects what a seeding call does. Empty Types means every data
// type; Progress may be nil.
type RunOptions struct {
	Types    []string
	Skip     []string
	Progress ProgressFunc
}

// Service is the entry point for seeding a bundle into the store.
type Service struct {
	db   *sql.DB
	opts []Option
}

// NewService returns a Service writing through db. The options configure
// every registered seeder.
func NewService(db *sql.DB, opts ...Option) (*Service, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}
	return &Service{db: db, opts: opts}, nil
}

// Seeders returns the fixed table of seeders in registration order, each
// configured with opts.
func Seeders(opts ...Option) []Seeder {
	return []Seeder{
		NewChannelSeeder(opts...),
		NewVideoSeeder(opts...),
		NewUserVideoSeeder(opts...),
		NewPlaylistSeeder(opts...),
		NewPlaylistMembershipSeeder(opts...),
	}
}

// DataTypes returns every data type the service can seed, in registration
// order.
func DataTypes() []string {
	return []string{
		TypeChannels,
		TypeVideos,
		TypeUserVideos,
		TypePlaylists,
		TypePlaylistMemberships,
	}
}

// Seed runs the selected stages against bundle and returns one Result per
// data type that ran.
func (s *Service) Seed(ctx context.Context, bundle *domain.Bundle, ro RunOptions) (map[string]Result, error) {
	return s.run(ctx, bundle, ro, s.opts)
}

// SeedIncremental is Seed for repeated runs: playlists are always upserted,
// never cleared, whatever the service was configured with.
func (s *Service) SeedIncremental(ctx context.Context, bundle *domain.Bundle, ro RunOptions) (map[string]Result, error) {
	opts := append(append([]Option(nil), s.opts...), WithClearExisting(false))
	return s.run(ctx, bundle, ro, opts)
}

func (s *Service) run(ctx context.Context, bundle *domain.Bundle, ro RunOptions, opts []Option) (map[string]Result, error) {
	orch, err := NewOrchestrator(Seeders(opts...), opts...)
	if err != nil {
		return nil, err
	}
	return orch.Run(ctx, s.db, bundle, ro.Types, ro.Skip, NewProgress(ro.Progress))
}
