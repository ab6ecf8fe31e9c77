package source

import (
	"regexp"
	"strings"

	"github.com/ytcast/internal/models"
)

var (
	schemePattern        = regexp.MustCompile(`(?i)^https?://`)
	youtubeHostPattern   = regexp.MustCompile(`(?i)^.*youtube\.com`)
	channelPrefixPattern = regexp.MustCompile(`(?i)^youtube\.com/channel/`)
	listParamPattern     = regexp.MustCompile(`(?i)^youtube\.com/.*[?&]list=([^&#]+)`)
	handlePattern        = regexp.MustCompile(`(?i)^youtube\.com/(@[^/?#]+)`)
)

// Normalize reduces pasted URLs to the bare channel or playlist ID they name.
// Text that is not a YouTube URL comes back trimmed but otherwise unchanged.
func Normalize(text string) string {
	s := strings.TrimSpace(text)
	s = schemePattern.ReplaceAllString(s, "")
	s = youtubeHostPattern.ReplaceAllString(s, "youtube.com")

	if loc := channelPrefixPattern.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
		// drop trailing tabs such as /videos or a query string
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
	}

	if m := listParamPattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	} else if m := handlePattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return s
}

// ParseID normalizes text and reports whether it is a canonical source ID.
func ParseID(text string) (string, models.SourceKind, bool) {
	id := Normalize(text)
	kind, ok := models.KindOf(id)
	return id, kind, ok
}
