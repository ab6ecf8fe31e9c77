package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytcast/internal/models"
)

var (
	channelID  = "UC" + strings.Repeat("x", 22)
	playlistID = "PL" + strings.Repeat("y", 32)
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare channel id", channelID, channelID},
		{"whitespace", "  " + channelID + "\n", channelID},
		{"channel url", "https://www.youtube.com/channel/" + channelID, channelID},
		{"channel url without scheme", "youtube.com/channel/" + channelID, channelID},
		{"uppercase scheme", "HTTPS://WWW.YOUTUBE.COM/channel/" + channelID, channelID},
		{"channel url with tab", "https://www.youtube.com/channel/" + channelID + "/videos", channelID},
		{"mobile host", "http://m.youtube.com/channel/" + channelID, channelID},
		{"playlist url", "https://youtube.com/playlist?list=" + playlistID, playlistID},
		{"watch url in playlist", "https://www.youtube.com/watch?v=abc&list=" + playlistID + "&index=3", playlistID},
		{"free text", "  Some Channel ", "Some Channel"},
		{"handle url", "https://www.youtube.com/@someone", "@someone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalization must be idempotent")
		})
	}
}

func TestParseID(t *testing.T) {
	id, kind, ok := ParseID("https://www.youtube.com/channel/" + channelID)
	assert.True(t, ok)
	assert.Equal(t, channelID, id)
	assert.Equal(t, models.KindChannel, kind)

	id, kind, ok = ParseID("https://youtube.com/playlist?list=" + playlistID)
	assert.True(t, ok)
	assert.Equal(t, playlistID, id)
	assert.Equal(t, models.KindPlaylist, kind)

	_, _, ok = ParseID("cooking videos")
	assert.False(t, ok)
}

func TestUploadsPlaylistID(t *testing.T) {
	assert.Equal(t, "UU"+strings.Repeat("x", 22), UploadsPlaylistID(channelID))
	assert.Equal(t, playlistID, UploadsPlaylistID(playlistID))
}
