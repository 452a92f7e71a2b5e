package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/johnwards/takeout/internal/domain"
	"github.com/johnwards/takeout/internal/store"
)

// PlaylistSeeder creates the bundle's playlists.
type PlaylistSeeder struct {
	stage
}

// NewPlaylistSeeder returns the playlists stage. It has no dependencies.
// With WithClearExisting(true) it replaces every imported playlist.
func NewPlaylistSeeder(opts ...Option) *PlaylistSeeder {
	return &PlaylistSeeder{stage: stage{dataType: TypePlaylists, settings: newSettings(opts)}}
}

// Seed upserts one playlist per definition. Imported playlists never get a
// channel. In clear-existing mode all imported playlists are deleted first;
// their memberships are removed by the foreign key cascade.
func (s *PlaylistSeeder) Seed(ctx context.Context, db *sql.DB, bundle *domain.Bundle, progress Progress) (Result, error) {
	return s.run(ctx, db, progress, func(b *batch, res *Result) error {
		if s.clearExisting {
			n, err := b.store().Playlists.DeleteImported(ctx)
			if err != nil {
				return fmt.Errorf("clear imported playlists: %w", err)
			}
			s.logger.Info("cleared imported playlists", "deleted", n)
		}

		seen := make(map[string]struct{})
		for i, def := range bundle.Playlists {
			if err := s.upsert(ctx, b.store(), res, seen, i, def); err != nil {
				return err
			}
			if err := b.step(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PlaylistSeeder) upsert(ctx context.Context, st *store.Store, res *Result, seen map[string]struct{}, i int, def domain.PlaylistDef) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return res.fail(fmt.Sprintf("playlist %d", i), errMissingPlaylistName)
	}
	id := domain.PlaylistID(def)
	key := fmt.Sprintf("playlist %q (%s)", name, id)
	if _, ok := seen[id]; ok {
		return res.fail(key, errDuplicatePlaylist)
	}
	seen[id] = struct{}{}

	existing, err := st.Playlists.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		p := &domain.Playlist{PlaylistID: id, Title: name, Description: def.Description}
		if err := st.Playlists.Create(ctx, p); err != nil {
			return res.fail(key, err)
		}
		res.Created++
		return nil
	}
	if err != nil {
		return res.fail(key, err)
	}

	if existing.Title != name || existing.Description != def.Description {
		existing.Title = name
		existing.Description = def.Description
		if err := st.Playlists.Update(ctx, existing); err != nil {
			return res.fail(key, err)
		}
	}
	res.Updated++
	return nil
}
