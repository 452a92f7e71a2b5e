package domain

import "time"

// DefaultLanguage is stored on videos whose language is not known from the export.
const DefaultLanguage = "en"

// Video is a single video keyed by its natural video ID.
//
// ChannelID is nil until a resolvable channel reference is seen. While it is
// nil, ChannelNameHint may carry the channel name taken from the export.
// UploadDate is an estimate: the earliest watch time observed for the video.
type Video struct {
	VideoID         string
	ChannelID       *string
	ChannelNameHint *string
	Title           string
	Description     string
	UploadDate      *time.Time
	DefaultLanguage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasChannel reports whether the video references a confirmed channel.
func (v *Video) HasChannel() bool {
	return v.ChannelID != nil && *v.ChannelID != ""
}
