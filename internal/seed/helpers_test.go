package seed_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnwards/takeout/internal/domain"
	"github.com/johnwards/takeout/internal/seed"
	"github.com/johnwards/takeout/internal/store"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixtureBundle holds two subscriptions, three watched videos (one with only
// a channel name) and two playlists, one of which references an unwatched
// video.
func fixtureBundle() *domain.Bundle {
	return &domain.Bundle{
		Subscriptions: []domain.Subscription{
			{ChannelID: "UC_a", Title: "Alpha", Description: "alpha channel"},
			{ChannelID: "UC_b", Title: "Bravo"},
		},
		WatchHistory: []domain.WatchEntry{
			{VideoID: "v1", Title: "One", ChannelID: "UC_a", ChannelName: "Alpha", WatchedAt: t0},
			{VideoID: "v2", Title: "Two", ChannelID: "UC_c", ChannelName: "Charlie", WatchedAt: t0.Add(time.Hour)},
			{VideoID: "v3", Title: "Three", ChannelName: "Delta", WatchedAt: t0.Add(2 * time.Hour)},
		},
		Playlists: []domain.PlaylistDef{
			{Name: "Liked videos", Videos: []domain.PlaylistItem{{VideoID: "v1"}, {VideoID: "v9", Title: "Nine"}}},
			{Name: "Mix", Videos: []domain.PlaylistItem{{VideoID: "v2"}, {VideoID: "v3"}, {VideoID: "v1"}}},
		},
	}
}

func runSeeder(t *testing.T, db *sql.DB, s seed.Seeder, bundle *domain.Bundle) seed.Result {
	t.Helper()
	res, err := s.Seed(context.Background(), db, bundle, seed.Progress{})
	require.NoError(t, err)
	return res
}

func count(t *testing.T, fn func(context.Context) (int, error)) int {
	t.Helper()
	n, err := fn(context.Background())
	require.NoError(t, err)
	return n
}

func positions(t *testing.T, st *store.Store, playlistID string) map[string]int {
	t.Helper()
	ms, err := st.Memberships.List(context.Background(), playlistID)
	require.NoError(t, err)
	out := make(map[string]int, len(ms))
	for _, m := range ms {
		out[m.VideoID] = m.Position
	}
	return out
}
