package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/takeout/internal/domain"
	"github.com/johnwards/takeout/internal/store"
)

var _ store.UserVideoStore = (*store.SQLiteUserVideoStore)(nil)

func TestUserVideoCreateUpdate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Videos.Create(ctx, &domain.Video{VideoID: "v1"}))

	watched := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	uv := &domain.UserVideo{UserID: "u1", VideoID: "v1", WatchedAt: watched}
	require.NoError(t, s.UserVideos.Create(ctx, uv))

	got, err := s.UserVideos.Get(ctx, "u1", "v1")
	require.NoError(t, err)
	assert.True(t, watched.Equal(got.WatchedAt))
	assert.False(t, got.Liked)
	assert.Zero(t, got.RewatchCount)

	got.Liked = true
	got.SavedToPlaylist = true
	require.NoError(t, s.UserVideos.Update(ctx, got))

	again, err := s.UserVideos.Get(ctx, "u1", "v1")
	require.NoError(t, err)
	assert.True(t, again.Liked)
	assert.True(t, again.SavedToPlaylist)

	n, err := s.UserVideos.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.UserVideos.Count(ctx, "someone-else")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserVideoRequiresVideo(t *testing.T) {
	s := setupStore(t)

	err := s.UserVideos.Create(context.Background(), &domain.UserVideo{UserID: "u1", VideoID: "ghost", WatchedAt: time.Now()})
	assert.Error(t, err)
}

func TestUserVideoGetNotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.UserVideos.Get(context.Background(), "u1", "v1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
