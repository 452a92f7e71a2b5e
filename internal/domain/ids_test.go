package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicID(t *testing.T) {
	a := DeterministicID("playlist", "Mix")
	assert.Equal(t, a, DeterministicID("playlist", "Mix"))
	assert.NotEqual(t, a, DeterministicID("playlist", "mix"))
	assert.NotEqual(t, a, DeterministicID("channel", "Mix"))
	assert.Len(t, a, 36)
}

func TestPlaylistID(t *testing.T) {
	assert.Equal(t, "PL_1", PlaylistID(PlaylistDef{ID: " PL_1 ", Name: "Mix"}))
	assert.Equal(t, DeterministicID("playlist", "Mix"), PlaylistID(PlaylistDef{Name: "  Mix "}))
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{PlaceholderVideoTitle("v1"), true},
		{PlaceholderChannelTitle("UC_a"), true},
		{"Real title", false},
		{"Placeholder without bracket", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPlaceholder(tt.in), tt.in)
	}
}

func TestBundleHelpers(t *testing.T) {
	assert.False(t, WatchEntry{VideoID: "v1"}.HasChannelRef())
	assert.True(t, WatchEntry{ChannelName: "Alpha"}.HasChannelRef())

	v := Video{}
	assert.False(t, v.HasChannel())
	id := "UC_a"
	v.ChannelID = &id
	assert.True(t, v.HasChannel())

	imported := Playlist{PlaylistID: "PL_1"}
	assert.True(t, imported.IsImported())
	owned := Playlist{PlaylistID: "PL_2", ChannelID: &id}
	assert.False(t, owned.IsImported())
}
