package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/johnwards/takeout/internal/domain"
	"github.com/johnwards/takeout/internal/store"
)

// VideoSeeder creates videos from the watch history.
type VideoSeeder struct {
	stage
}

// NewVideoSeeder returns the videos stage. It depends on channels.
func NewVideoSeeder(opts ...Option) *VideoSeeder {
	return &VideoSeeder{stage: stage{
		dataType: TypeVideos,
		deps:     []string{TypeChannels},
		settings: newSettings(opts),
	}}
}

// watchedVideo folds every watch entry of one video. The first real value
// seen for a field wins; the watch time keeps the earliest.
type watchedVideo struct {
	id          string
	title       string
	channelID   string
	channelName string
	earliest    time.Time
}

func collectVideos(entries []domain.WatchEntry) (videos []*watchedVideo, invalid []int) {
	byID := make(map[string]*watchedVideo)
	for i, e := range entries {
		id := strings.TrimSpace(e.VideoID)
		if id == "" {
			invalid = append(invalid, i)
			continue
		}
		w, ok := byID[id]
		if !ok {
			w = &watchedVideo{id: id}
			byID[id] = w
			videos = append(videos, w)
		}
		if title := strings.TrimSpace(e.Title); domain.IsPlaceholder(w.title) && !domain.IsPlaceholder(title) {
			w.title = title
		}
		if w.channelID == "" {
			w.channelID = strings.TrimSpace(e.ChannelID)
		}
		if w.channelName == "" {
			w.channelName = strings.TrimSpace(e.ChannelName)
		}
		if !e.WatchedAt.IsZero() && (w.earliest.IsZero() || e.WatchedAt.Before(w.earliest)) {
			w.earliest = e.WatchedAt
		}
	}
	return videos, invalid
}

// Seed upserts one row per distinct video ID. Existing rows only have empty
// or placeholder fields filled in: a confirmed channel or title is never
// replaced, whichever stage set it.
func (s *VideoSeeder) Seed(ctx context.Context, db *sql.DB, bundle *domain.Bundle, progress Progress) (Result, error) {
	return s.run(ctx, db, progress, func(b *batch, res *Result) error {
		videos, invalid := collectVideos(bundle.WatchHistory)

		for _, i := range invalid {
			if err := res.fail(fmt.Sprintf("watch entry %d", i), errMissingVideoID); err != nil {
				return err
			}
		}

		for _, w := range videos {
			if err := s.upsert(ctx, b.store(), res, w); err != nil {
				return err
			}
			if err := b.step(); err != nil {
				return err
			}
		}
		return nil
	})
}

// resolveChannel returns the channel ID to store, or "" when the reference
// cannot be satisfied by an existing channel row.
func (s *VideoSeeder) resolveChannel(ctx context.Context, st *store.Store, channelID string) (string, error) {
	if channelID == "" {
		return "", nil
	}
	_, err := st.Channels.Get(ctx, channelID)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Debug("channel not seeded, keeping name hint", "channel_id", channelID)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return channelID, nil
}

func (s *VideoSeeder) upsert(ctx context.Context, st *store.Store, res *Result, w *watchedVideo) error {
	key := "video " + w.id

	channelID, err := s.resolveChannel(ctx, st, w.channelID)
	if err != nil {
		return res.fail(key, err)
	}

	existing, err := st.Videos.Get(ctx, w.id)
	if errors.Is(err, store.ErrNotFound) {
		v := &domain.Video{
			VideoID:         w.id,
			Title:           w.title,
			DefaultLanguage: domain.DefaultLanguage,
		}
		if channelID != "" {
			v.ChannelID = &channelID
		} else if w.channelName != "" {
			name := w.channelName
			v.ChannelNameHint = &name
		}
		if !w.earliest.IsZero() {
			upload := w.earliest
			v.UploadDate = &upload
		}
		if err := st.Videos.Create(ctx, v); err != nil {
			return res.fail(key, err)
		}
		res.Created++
		return nil
	}
	if err != nil {
		return res.fail(key, err)
	}

	if backfillVideo(existing, w, channelID) {
		if err := st.Videos.Update(ctx, existing); err != nil {
			return res.fail(key, err)
		}
	}
	res.Updated++
	return nil
}

// backfillVideo fills unset fields of v from w and reports whether anything
// changed.
func backfillVideo(v *domain.Video, w *watchedVideo, channelID string) bool {
	changed := false

	switch {
	case !v.HasChannel() && channelID != "":
		v.ChannelID = &channelID
		v.ChannelNameHint = nil
		changed = true
	case !v.HasChannel() && v.ChannelNameHint == nil && w.channelName != "":
		name := w.channelName
		v.ChannelNameHint = &name
		changed = true
	}

	if domain.IsPlaceholder(v.Title) && !domain.IsPlaceholder(w.title) {
		v.Title = w.title
		changed = true
	}
	if !w.earliest.IsZero() && (v.UploadDate == nil || w.earliest.Before(*v.UploadDate)) {
		upload := w.earliest
		v.UploadDate = &upload
		changed = true
	}
	if v.DefaultLanguage == "" {
		v.DefaultLanguage = domain.DefaultLanguage
		changed = true
	}
	return changed
}
