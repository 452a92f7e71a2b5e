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

// ChannelSeeder creates channels from subscriptions, then from channel
// references in the watch history.
type ChannelSeeder struct {
	stage
}

// NewChannelSeeder returns the channels stage. It has no dependencies.
func NewChannelSeeder(opts ...Option) *ChannelSeeder {
	return &ChannelSeeder{stage: stage{dataType: TypeChannels, settings: newSettings(opts)}}
}

type channelCandidate struct {
	id          string
	title       string
	description string
	subscribed  bool
}

// Seed upserts one row per distinct channel ID. Subscriptions go first
// because their titles are authoritative; a subscription without an ID is a
// failed item. Watch history references without an ID are skipped and the
// video stage keeps the name as a hint instead.
func (s *ChannelSeeder) Seed(ctx context.Context, db *sql.DB, bundle *domain.Bundle, progress Progress) (Result, error) {
	return s.run(ctx, db, progress, func(b *batch, res *Result) error {
		seen := make(map[string]struct{})

		for i, sub := range bundle.Subscriptions {
			c := channelCandidate{
				id:          strings.TrimSpace(sub.ChannelID),
				title:       strings.TrimSpace(sub.Title),
				description: sub.Description,
				subscribed:  true,
			}
			var err error
			if c.id == "" {
				err = res.fail(fmt.Sprintf("subscription %d", i), errMissingChannelID)
			} else {
				err = s.upsert(ctx, b.store(), res, seen, c)
			}
			if err != nil {
				return err
			}
			if err := b.step(); err != nil {
				return err
			}
		}

		for _, e := range bundle.WatchHistory {
			if !e.HasChannelRef() {
				continue
			}
			c := channelCandidate{
				id:    strings.TrimSpace(e.ChannelID),
				title: strings.TrimSpace(e.ChannelName),
			}
			if err := s.upsert(ctx, b.store(), res, seen, c); err != nil {
				return err
			}
			if err := b.step(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ChannelSeeder) upsert(ctx context.Context, st *store.Store, res *Result, seen map[string]struct{}, c channelCandidate) error {
	if c.id == "" {
		s.logger.Debug("skipping channel reference without id", "title", c.title)
		return nil
	}
	if _, ok := seen[c.id]; ok {
		return nil
	}
	seen[c.id] = struct{}{}
	key := "channel " + c.id

	existing, err := st.Channels.Get(ctx, c.id)
	if errors.Is(err, store.ErrNotFound) {
		ch := &domain.Channel{
			ChannelID:    c.id,
			Title:        c.title,
			Description:  c.description,
			IsSubscribed: c.subscribed,
		}
		if err := st.Channels.Create(ctx, ch); err != nil {
			return res.fail(key, err)
		}
		res.Created++
		return nil
	}
	if err != nil {
		return res.fail(key, err)
	}

	changed := false
	if domain.IsPlaceholder(existing.Title) && !domain.IsPlaceholder(c.title) {
		existing.Title = c.title
		changed = true
	}
	if existing.Description == "" && c.description != "" {
		existing.Description = c.description
		changed = true
	}
	if c.subscribed && !existing.IsSubscribed {
		existing.IsSubscribed = true
		changed = true
	}
	if changed {
		if err := st.Channels.Update(ctx, existing); err != nil {
			return res.fail(key, err)
		}
	}
	res.Updated++
	return nil
}
