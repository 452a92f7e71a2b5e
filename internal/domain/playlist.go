package domain

import "time"

// Playlist is a named, ordered collection of videos.
//
// Imported playlists have a nil ChannelID: ownership cannot be attributed from
// the export, and the nil value marks rows owned by the import path.
type Playlist struct {
	PlaylistID  string
	ChannelID   *string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsImported reports whether the playlist was created by the import path.
func (p *Playlist) IsImported() bool {
	return p.ChannelID == nil
}

// PlaylistMembership places a video in a playlist at a zero-based position.
type PlaylistMembership struct {
	PlaylistID string
	VideoID    string
	Position   int
	AddedAt    time.Time
}
