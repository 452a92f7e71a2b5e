package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBundle = `{
  "subscriptions": [{"channel_id": "UC_a", "title": "Alpha"}],
  "watch_history": [
    {"video_id": "v1", "title": "One", "channel_id": "UC_a", "watched_at": "2024-03-01T12:00:00Z"},
    {"video_id": "v2", "title": "Two", "channel_name": "Bravo", "watched_at": "2024-03-01T13:00:00Z"}
  ],
  "playlists": [{"name": "Liked videos", "videos": [{"video_id": "v1"}, {"video_id": "v3"}]}]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"takeout"}, args...))
	return out.String(), err
}

func TestLoadBundle(t *testing.T) {
	b, err := loadBundle(writeFile(t, "bundle.json", sampleBundle), nil)
	require.NoError(t, err)
	assert.Len(t, b.WatchHistory, 2)
	assert.Len(t, b.Subscriptions, 1)
	require.Len(t, b.Playlists, 1)
	assert.Len(t, b.Playlists[0].Videos, 2)
	assert.False(t, b.WatchHistory[0].WatchedAt.IsZero())
}

func TestLoadBundleFromStdin(t *testing.T) {
	b, err := loadBundle("-", strings.NewReader(`{"watch_history": [{"video_id": "v1"}]}`))
	require.NoError(t, err)
	require.Len(t, b.WatchHistory, 1)
	assert.True(t, b.WatchHistory[0].WatchedAt.IsZero())
}

func TestLoadBundleErrors(t *testing.T) {
	_, err := loadBundle(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)

	_, err = loadBundle(writeFile(t, "bad.json", `{"watch_history": 3}`), nil)
	assert.Error(t, err)

	_, err = loadBundle(writeFile(t, "unknown.json", `{"comments": []}`), nil)
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := runApp(t, "--log-level", "verbose", "types")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestTypesCommand(t *testing.T) {
	out, err := runApp(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "channels")
	assert.Contains(t, out, "playlist_memberships")
	assert.Contains(t, out, "playlists, videos")
}

func TestSeedRequiresBundle(t *testing.T) {
	_, err := runApp(t, "--db", filepath.Join(t.TempDir(), "t.db"), "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bundle")
}

func TestSeedAndStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "takeout.db")
	bundlePath := writeFile(t, "bundle.json", sampleBundle)

	out, err := runApp(t, "--db", dbPath, "--log-level", "error", "seed", "--bundle", bundlePath)
	require.NoError(t, err)
	assert.Contains(t, out, "user_videos")
	assert.Contains(t, out, "total")

	out, err = runApp(t, "--db", dbPath, "--log-level", "error", "stats")
	require.NoError(t, err)
	assert.Regexp(t, `channels\s+1`, out)
	assert.Regexp(t, `videos\s+3`, out)
	assert.Regexp(t, `user_videos\s+2`, out)
	assert.Regexp(t, `imported playlists\s+1`, out)
}

func TestSeedUnknownType(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "takeout.db")
	bundlePath := writeFile(t, "bundle.json", sampleBundle)

	_, err := runApp(t, "--db", dbPath, "--log-level", "error", "seed", "--bundle", bundlePath, "--types", "comments")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown data type")
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "takeout.db")

	out, err := runApp(t, "--db", dbPath, "--log-level", "error", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")
}
