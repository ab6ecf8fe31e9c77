package feed

import (
	"net/url"

	"github.com/ytcast/internal/models"
)

// EnclosureParams returns the query parameters appended to every enclosure URL.
func EnclosureParams(opts models.FeedOptions) url.Values {
	v := url.Values{}
	if opts.Quality != "" && opts.Quality != models.QualityDefault {
		v.Set("quality", string(opts.Quality))
	}
	if opts.VideoServer != "" {
		v.Set("videoServer", opts.VideoServer)
	}
	return v
}

// FeedURLParams returns the query parameters of the feed's own URL, so that
// fetching that URL again yields the same feed.
func FeedURLParams(opts models.FeedOptions) url.Values {
	v := EnclosureParams(opts)
	if opts.ExcludeShorts {
		v.Set("excludeShorts", "true")
	}
	return v
}

func withQuery(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

// FeedURL is the public URL of the feed of sourceID served from host.
func FeedURL(host, sourceID string, opts models.FeedOptions) string {
	return withQuery("https://"+host+"/"+sourceID+"/feed", FeedURLParams(opts))
}

// EnclosureURL is the URL this service serves a video's media at.
func EnclosureURL(host, videoID string, opts models.FeedOptions) string {
	return withQuery("https://"+host+"/videos/"+videoID, EnclosureParams(opts))
}
