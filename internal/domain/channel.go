package domain

import "time"

// Channel is a content creator channel keyed by its natural channel ID.
type Channel struct {
	ChannelID    string
	Title        string
	Description  string
	IsSubscribed bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
