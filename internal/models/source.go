package models

import "regexp"

// SourceKind tells whether a source is a channel or a playlist
type SourceKind string

const (
	KindChannel  SourceKind = "channel"
	KindPlaylist SourceKind = "playlist"
)

var (
	channelIDPattern  = regexp.MustCompile(`^UC[-_A-Za-z0-9]{22}$`)
	// uploads playlists mirror their channel ID (UU+22); the 24 character form is kept as well
	playlistIDPattern = regexp.MustCompile(`^(PL[-_A-Za-z0-9]{32}|UU[-_A-Za-z0-9]{22}(?:[-_A-Za-z0-9]{2})?)$`)
)

// KindOf returns the kind of a canonical source ID. The second result is false
// when id does not have the shape of a channel or playlist ID.
func KindOf(id string) (SourceKind, bool) {
	switch {
	case channelIDPattern.MatchString(id):
		return KindChannel, true
	case playlistIDPattern.MatchString(id):
		return KindPlaylist, true
	}
	return "", false
}

// SourceRef is a canonical source ID classified once by ParseSourceRef.
type SourceRef struct {
	ID   string     `json:"id"`
	Kind SourceKind `json:"kind"`
}

// ParseSourceRef classifies id. The second result is false when id is not a
// channel or playlist ID.
func ParseSourceRef(id string) (SourceRef, bool) {
	kind, ok := KindOf(id)
	if !ok {
		return SourceRef{}, false
	}
	return SourceRef{ID: id, Kind: kind}, true
}

// Source represents a YouTube channel or playlist used as a feed origin
type Source struct {
	ID              string     `json:"id"`
	Kind            SourceKind `json:"kind"`
	DisplayName     string     `json:"displayName"`
	Description     string     `json:"description"`
	URL             string     `json:"url"`
	ProfileImageURL string     `json:"profileImageUrl"`
}

// ChannelURL returns the public URL of a channel
func ChannelURL(id string) string {
	return "https://www.youtube.com/channel/" + id
}

// PlaylistURL returns the public URL of a playlist
func PlaylistURL(id string) string {
	return "https://www.youtube.com/playlist?list=" + id
}
