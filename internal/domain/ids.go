package domain

import (
	"strings"

	"github.com/google/uuid"
)

// idNamespace roots every synthesized identifier so IDs never collide with
// other UUIDv5 users of the standard namespaces.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("takeout.local/ids"))

// DeterministicID derives a stable identifier from a namespace tag and a
// natural key. Identical inputs always yield the identical ID.
func DeterministicID(tag, key string) string {
	return uuid.NewSHA1(idNamespace, []byte(tag+"|"+key)).String()
}

// PlaylistID returns the ID under which a playlist definition is stored.
// An externally supplied ID wins; otherwise the ID is derived from the name.
func PlaylistID(def PlaylistDef) string {
	if id := strings.TrimSpace(def.ID); id != "" {
		return id
	}
	return DeterministicID("playlist", strings.TrimSpace(def.Name))
}

const placeholderPrefix = "[Placeholder"

// PlaceholderVideoTitle is the title given to videos created only to satisfy
// a playlist reference.
func PlaceholderVideoTitle(videoID string) string {
	return placeholderPrefix + " video " + videoID + "]"
}

// PlaceholderChannelTitle is the title given to channels created only to
// satisfy a video reference.
func PlaceholderChannelTitle(channelID string) string {
	return placeholderPrefix + " channel " + channelID + "]"
}

// IsPlaceholder reports whether a stored text value carries no real
// information and may be replaced.
func IsPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.HasPrefix(s, placeholderPrefix)
}
