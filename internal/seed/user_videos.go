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

// UserVideoSeeder records the configured user's watch interactions.
type UserVideoSeeder struct {
	stage
}

// NewUserVideoSeeder returns the user_videos stage. It depends on videos.
func NewUserVideoSeeder(opts ...Option) *UserVideoSeeder {
	return &UserVideoSeeder{stage: stage{
		dataType: TypeUserVideos,
		deps:     []string{TypeVideos},
		settings: newSettings(opts),
	}}
}

// playlistFlags lists the videos saved to any playlist and those in the
// liked playlist.
func playlistFlags(playlists []domain.PlaylistDef, likedName string) (saved, liked map[string]bool) {
	saved = make(map[string]bool)
	liked = make(map[string]bool)
	for _, p := range playlists {
		isLiked := likedName != "" && strings.EqualFold(strings.TrimSpace(p.Name), likedName)
		for _, item := range p.Videos {
			id := strings.TrimSpace(item.VideoID)
			if id == "" {
				continue
			}
			saved[id] = true
			if isLiked {
				liked[id] = true
			}
		}
	}
	return saved, liked
}

// Seed writes one interaction per (user, video). Entries without a watch
// time are dropped. A repeated video becomes an update that keeps the latest
// watch time; rewatch counts are left alone.
func (s *UserVideoSeeder) Seed(ctx context.Context, db *sql.DB, bundle *domain.Bundle, progress Progress) (Result, error) {
	saved, liked := playlistFlags(bundle.Playlists, s.likedPlaylist)

	return s.run(ctx, db, progress, func(b *batch, res *Result) error {
		dropped := 0
		for i, e := range bundle.WatchHistory {
			if e.WatchedAt.IsZero() {
				dropped++
			} else if err := s.upsert(ctx, b.store(), res, i, e, saved, liked); err != nil {
				return err
			}
			if err := b.step(); err != nil {
				return err
			}
		}
		if dropped > 0 {
			s.logger.Info("dropped watch entries without timestamp", "count", dropped)
		}
		return nil
	})
}

func (s *UserVideoSeeder) upsert(ctx context.Context, st *store.Store, res *Result, i int, e domain.WatchEntry, saved, liked map[string]bool) error {
	videoID := strings.TrimSpace(e.VideoID)
	if videoID == "" {
		return res.fail(fmt.Sprintf("watch entry %d", i), errMissingVideoID)
	}
	key := fmt.Sprintf("user video %s/%s", s.userID, videoID)

	existing, err := st.UserVideos.Get(ctx, s.userID, videoID)
	if errors.Is(err, store.ErrNotFound) {
		if _, err := st.Videos.Get(ctx, videoID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				err = errVideoNotSeeded
			}
			return res.fail(key, err)
		}
		uv := &domain.UserVideo{
			UserID:          s.userID,
			VideoID:         videoID,
			WatchedAt:       e.WatchedAt,
			Liked:           liked[videoID],
			SavedToPlaylist: saved[videoID],
		}
		if err := st.UserVideos.Create(ctx, uv); err != nil {
			return res.fail(key, err)
		}
		res.Created++
		return nil
	}
	if err != nil {
		return res.fail(key, err)
	}

	if e.WatchedAt.After(existing.WatchedAt) {
		existing.WatchedAt = e.WatchedAt
	}
	existing.Liked = existing.Liked || liked[videoID]
	existing.SavedToPlaylist = existing.SavedToPlaylist || saved[videoID]
	if err := st.UserVideos.Update(ctx, existing); err != nil {
		return res.fail(key, err)
	}
	res.Updated++
	return nil
}
