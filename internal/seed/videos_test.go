package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/takeout/internal/domain"
	"github.com/johnwards/takeout/internal/seed"
	"github.com/johnwards/takeout/internal/store"
	"github.com/johnwards/takeout/internal/testhelpers"
)

func TestVideoSeederMetadata(t *testing.T) {
	s := seed.NewVideoSeeder()
	assert.Equal(t, seed.TypeVideos, s.DataType())
	assert.Equal(t, []string{seed.TypeChannels}, s.Dependencies())
	assert.True(t, s.HasDependencies())
}

func TestVideoSeederCreatesFromHistory(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	st := store.New(db)
	ctx := context.Background()

	runSeeder(t, db, seed.NewChannelSeeder(), fixtureBundle())
	res := runSeeder(t, db, seed.NewVideoSeeder(), fixtureBundle())

	assert.Equal(t, 3, res.Created)
	assert.Zero(t, res.Failed)

	v1, err := st.Videos.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "One", v1.Title)
	require.NotNil(t, v1.ChannelID)
	assert.Equal(t, "UC_a", *v1.ChannelID)
	assert.Nil(t, v1.ChannelNameHint)
	require.NotNil(t, v1.UploadDate)
	assert.True(t, t0.Equal(*v1.UploadDate))
	assert.Equal(t, domain.DefaultLanguage, v1.DefaultLanguage)

	v3, err := st.Videos.Get(ctx, "v3")
	require.NoError(t, err)
	assert.Nil(t, v3.ChannelID)
	require.NotNil(t, v3.ChannelNameHint)
	assert.Equal(t, "Delta", *v3.ChannelNameHint)
}

func TestVideoSeederKeepsHintWhenChannelMissing(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)

	res := runSeeder(t, db, seed.NewVideoSeeder(), &domain.Bundle{
		WatchHistory: []domain.WatchEntry{{VideoID: "v1", Title: "One", ChannelID: "UC_x", ChannelName: "Xray", WatchedAt: t0}},
	})
	assert.Equal(t, 1, res.Created)

	v, err := store.New(db).Videos.Get(context.Background(), "v1")
	require.NoError(t, err)
	assert.Nil(t, v.ChannelID)
	require.NotNil(t, v.ChannelNameHint)
	assert.Equal(t, "Xray", *v.ChannelNameHint)
}

func TestVideoSeederUpgradesButNeverDowngrades(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	st := store.New(db)
	ctx := context.Background()
	channels, videos := seed.NewChannelSeeder(), seed.NewVideoSeeder()

	// Name only: the hint is kept.
	runSeeder(t, db, videos, &domain.Bundle{
		WatchHistory: []domain.WatchEntry{{VideoID: "v1", Title: "Real", ChannelName: "Alpha", WatchedAt: t0}},
	})

	// A confirmed channel replaces the hint.
	confirmed := &domain.Bundle{
		Subscriptions: []domain.Subscription{{ChannelID: "UC_a", Title: "Alpha"}},
		WatchHistory:  []domain.WatchEntry{{VideoID: "v1", Title: "Real", ChannelID: "UC_a", WatchedAt: t0}},
	}
	runSeeder(t, db, channels, confirmed)
	res := runSeeder(t, db, videos, confirmed)
	assert.Equal(t, 1, res.Updated)

	v, err := st.Videos.Get(ctx, "v1")
	require.NoError(t, err)
	require.NotNil(t, v.ChannelID)
	assert.Equal(t, "UC_a", *v.ChannelID)
	assert.Nil(t, v.ChannelNameHint)

	// A different channel and title later never replace confirmed values.
	conflicting := &domain.Bundle{
		Subscriptions: []domain.Subscription{{ChannelID: "UC_b", Title: "Bravo"}},
		WatchHistory:  []domain.WatchEntry{{VideoID: "v1", Title: "Different", ChannelID: "UC_b", WatchedAt: t0}},
	}
	runSeeder(t, db, channels, conflicting)
	runSeeder(t, db, videos, conflicting)

	v, err = st.Videos.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "UC_a", *v.ChannelID)
	assert.Equal(t, "Real", v.Title)
}

func TestVideoSeederReplacesPlaceholderTitle(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	st := store.New(db)
	ctx := context.Background()

	require.NoError(t, st.Videos.Create(ctx, &domain.Video{VideoID: "v9", Title: domain.PlaceholderVideoTitle("v9")}))

	res := runSeeder(t, db, seed.NewVideoSeeder(), &domain.Bundle{
		WatchHistory: []domain.WatchEntry{{VideoID: "v9", Title: "Nine for real", WatchedAt: t0}},
	})
	assert.Equal(t, 1, res.Updated)

	v, err := st.Videos.Get(ctx, "v9")
	require.NoError(t, err)
	assert.Equal(t, "Nine for real", v.Title)
}

func TestVideoSeederUploadDateOnlyMovesEarlier(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	st := store.New(db)
	ctx := context.Background()
	videos := seed.NewVideoSeeder()

	res := runSeeder(t, db, videos, &domain.Bundle{WatchHistory: []domain.WatchEntry{
		{VideoID: "v1", Title: "One", WatchedAt: t0.Add(time.Hour)},
		{VideoID: "v1", Title: "One", WatchedAt: t0},
	}})
	assert.Equal(t, 1, res.Created, "repeated video folds into one row")

	upload := func() time.Time {
		v, err := st.Videos.Get(ctx, "v1")
		require.NoError(t, err)
		require.NotNil(t, v.UploadDate)
		return *v.UploadDate
	}
	assert.True(t, t0.Equal(upload()))

	runSeeder(t, db, videos, &domain.Bundle{WatchHistory: []domain.WatchEntry{{VideoID: "v1", WatchedAt: t0.Add(5 * time.Hour)}}})
	assert.True(t, t0.Equal(upload()))

	earlier := t0.Add(-time.Hour)
	runSeeder(t, db, videos, &domain.Bundle{WatchHistory: []domain.WatchEntry{{VideoID: "v1", WatchedAt: earlier}}})
	assert.True(t, earlier.Equal(upload()))
}

func TestVideoSeederRecordsMissingIDs(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)

	res := runSeeder(t, db, seed.NewVideoSeeder(), &domain.Bundle{WatchHistory: []domain.WatchEntry{
		{VideoID: "", Title: "Broken", WatchedAt: t0},
		{VideoID: "v1", Title: "One", WatchedAt: t0},
	}})

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "missing video id")
}
