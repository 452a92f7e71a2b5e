package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: export entities
	{
		`CREATE TABLE channels (
			channel_id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			is_subscribed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE videos (
			video_id TEXT PRIMARY KEY,
			channel_id TEXT,
			channel_name_hint TEXT,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			upload_date TEXT,
			default_language TEXT NOT NULL DEFAULT 'en',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (channel_id) REFERENCES channels(channel_id)
		)`,
		`CREATE INDEX idx_videos_channel ON videos(channel_id)`,

		`CREATE TABLE user_videos (
			user_id TEXT NOT NULL,
			video_id TEXT NOT NULL,
			watched_at TEXT NOT NULL,
			liked BOOLEAN NOT NULL DEFAULT FALSE,
			saved_to_playlist BOOLEAN NOT NULL DEFAULT FALSE,
			rewatch_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (user_id, video_id),
			FOREIGN KEY (video_id) REFERENCES videos(video_id)
		)`,
		`CREATE INDEX idx_user_videos_watched ON user_videos(user_id, watched_at)`,

		`CREATE TABLE playlists (
			playlist_id TEXT PRIMARY KEY,
			channel_id TEXT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (channel_id) REFERENCES channels(channel_id)
		)`,

		`CREATE TABLE playlist_videos (
			playlist_id TEXT NOT NULL,
			video_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			added_at TEXT,
			PRIMARY KEY (playlist_id, video_id),
			FOREIGN KEY (playlist_id) REFERENCES playlists(playlist_id) ON DELETE CASCADE,
			FOREIGN KEY (video_id) REFERENCES videos(video_id)
		)`,
		`CREATE INDEX idx_playlist_videos_position ON playlist_videos(playlist_id, position)`,
	},
}
