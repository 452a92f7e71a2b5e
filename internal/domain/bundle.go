package domain

import "time"

// Bundle is a parsed personal-data export. It is treated as read-only by
// every consumer.
type Bundle struct {
	WatchHistory  []WatchEntry   `json:"watch_history"`
	Playlists     []PlaylistDef  `json:"playlists"`
	Subscriptions []Subscription `json:"subscriptions"`
}

// WatchEntry is one watch event. A zero WatchedAt means the export carried no
// usable timestamp.
type WatchEntry struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title,omitempty"`
	ChannelID   string    `json:"channel_id,omitempty"`
	ChannelName string    `json:"channel_name,omitempty"`
	WatchedAt   time.Time `json:"watched_at,omitzero"`
}

// HasChannelRef reports whether the entry mentions a channel at all.
func (e WatchEntry) HasChannelRef() bool {
	return e.ChannelID != "" || e.ChannelName != ""
}

// Subscription is one subscribed channel. Its title is authoritative.
type Subscription struct {
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// PlaylistDef is a playlist with its videos in source order. ID is optional;
// when empty a stable ID is derived from the name.
type PlaylistDef struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Videos      []PlaylistItem `json:"videos"`
}

// PlaylistItem is one video reference inside a playlist definition.
type PlaylistItem struct {
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title,omitempty"`
	ChannelID string    `json:"channel_id,omitempty"`
	AddedAt   time.Time `json:"added_at,omitzero"`
}
