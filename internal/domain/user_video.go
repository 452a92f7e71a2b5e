package domain

import "time"

// UserVideo records one user's interaction with one video.
type UserVideo struct {
	UserID          string
	VideoID         string
	WatchedAt       time.Time
	Liked           bool
	SavedToPlaylist bool
	RewatchCount    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
