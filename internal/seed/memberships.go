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

// PlaylistMembershipSeeder places videos in playlists.
type PlaylistMembershipSeeder struct {
	stage
}

// NewPlaylistMembershipSeeder returns the playlist_memberships stage. It
// depends on both playlists and videos.
func NewPlaylistMembershipSeeder(opts ...Option) *PlaylistMembershipSeeder {
	return &PlaylistMembershipSeeder{stage: stage{
		dataType: TypePlaylistMemberships,
		deps:     []string{TypePlaylists, TypeVideos},
		settings: newSettings(opts),
	}}
}

// Seed walks every playlist's videos in source order. Positions are assigned
// sequentially from 0 to the items that are written, so an unchanged export
// always reproduces the same positions. Videos the store has never seen are
// created as placeholders; a playlist missing from the store is never
// created here. Memberships of videos no longer listed are pruned.
func (s *PlaylistMembershipSeeder) Seed(ctx context.Context, db *sql.DB, bundle *domain.Bundle, progress Progress) (Result, error) {
	return s.run(ctx, db, progress, func(b *batch, res *Result) error {
		seen := make(map[string]struct{})
		placeholders := 0

		for _, def := range bundle.Playlists {
			playlistID := domain.PlaylistID(def)
			if _, ok := seen[playlistID]; ok {
				if err := res.fail(fmt.Sprintf("playlist %q", def.Name), errDuplicatePlaylist); err != nil {
					return err
				}
				continue
			}
			seen[playlistID] = struct{}{}

			n, err := s.seedPlaylist(ctx, b, res, playlistID, def)
			placeholders += n
			if err != nil {
				return err
			}
		}

		if placeholders > 0 {
			s.logger.Info("created placeholder videos", "count", placeholders)
		}
		return nil
	})
}

func (s *PlaylistMembershipSeeder) seedPlaylist(ctx context.Context, b *batch, res *Result, playlistID string, def domain.PlaylistDef) (int, error) {
	name := strings.TrimSpace(def.Name)

	_, lookupErr := b.store().Playlists.Get(ctx, playlistID)
	if errors.Is(lookupErr, store.ErrNotFound) {
		lookupErr = errPlaylistNotSeeded
	}

	placeholders := 0
	position := 0
	written := make(map[string]struct{}, len(def.Videos))

	for i, item := range def.Videos {
		videoID := strings.TrimSpace(item.VideoID)
		key := fmt.Sprintf("playlist %q item %d (%s)", name, i, videoID)

		var err error
		switch {
		case lookupErr != nil:
			err = res.fail(key, lookupErr)
		case videoID == "":
			err = res.fail(key, errMissingVideoID)
		default:
			if _, dup := written[videoID]; dup {
				err = res.fail(key, errDuplicateMember)
				break
			}
			var created, ok bool
			created, ok, err = s.upsert(ctx, b, res, key, playlistID, position, item)
			if created {
				placeholders++
			}
			if ok {
				written[videoID] = struct{}{}
				position++
			}
		}
		if err != nil {
			return placeholders, err
		}
		if err := b.step(); err != nil {
			return placeholders, err
		}
	}

	if lookupErr != nil {
		return placeholders, nil
	}
	pruned, err := b.store().Memberships.DeleteExcept(ctx, playlistID, listedVideos(def))
	if err != nil {
		return placeholders, res.fail(fmt.Sprintf("playlist %q", name), err)
	}
	if pruned > 0 {
		s.logger.Debug("pruned stale memberships", "playlist", name, "count", pruned)
	}
	return placeholders, nil
}

// listedVideos returns every video id the definition names. A membership is
// only pruned once its video is gone from the list, not when writing it
// failed.
func listedVideos(def domain.PlaylistDef) []string {
	ids := make([]string, 0, len(def.Videos))
	for _, item := range def.Videos {
		if id := strings.TrimSpace(item.VideoID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// upsert writes one membership, creating a placeholder video first when
// needed. Everything the item writes is undone if any part fails. It reports
// whether a placeholder video was created and whether the membership was
// written.
func (s *PlaylistMembershipSeeder) upsert(ctx context.Context, b *batch, res *Result, key, playlistID string, position int, item domain.PlaylistItem) (placeholder, ok bool, err error) {
	videoID := strings.TrimSpace(item.VideoID)
	m := &domain.PlaylistMembership{
		PlaylistID: playlistID,
		VideoID:    videoID,
		Position:   position,
		AddedAt:    item.AddedAt,
	}

	created := false
	err = b.savepoint(func(st *store.Store) error {
		var err error
		if placeholder, err = ensureVideo(ctx, st, item); err != nil {
			return err
		}
		_, err = st.Memberships.Get(ctx, playlistID, videoID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			created = true
			return st.Memberships.Create(ctx, m)
		case err != nil:
			return err
		default:
			return st.Memberships.Update(ctx, m)
		}
	})
	if err != nil {
		return false, false, res.fail(key, err)
	}

	if created {
		res.Created++
	} else {
		res.Updated++
	}
	return placeholder, true, nil
}

// ensureVideo makes sure the membership's video row exists, creating a
// minimal placeholder (and its channel, when the item names one) if not.
func ensureVideo(ctx context.Context, st *store.Store, item domain.PlaylistItem) (bool, error) {
	videoID := strings.TrimSpace(item.VideoID)

	_, err := st.Videos.Get(ctx, videoID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	v := &domain.Video{
		VideoID:         videoID,
		Title:           strings.TrimSpace(item.Title),
		DefaultLanguage: domain.DefaultLanguage,
	}
	if domain.IsPlaceholder(v.Title) {
		v.Title = domain.PlaceholderVideoTitle(videoID)
	}
	if channelID := strings.TrimSpace(item.ChannelID); channelID != "" {
		if err := ensureChannel(ctx, st, channelID); err != nil {
			return false, err
		}
		v.ChannelID = &channelID
	}
	if err := st.Videos.Create(ctx, v); err != nil {
		return false, err
	}
	return true, nil
}

func ensureChannel(ctx context.Context, st *store.Store, channelID string) error {
	_, err := st.Channels.Get(ctx, channelID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return st.Channels.Create(ctx, &domain.Channel{
		ChannelID: channelID,
		Title:     domain.PlaceholderChannelTitle(channelID),
	})
}
