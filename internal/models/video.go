package models

import "time"

// Video represents a YouTube video as it appears in a feed
type Video struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	URL            string        `json:"url"`
	Date           string        `json:"date"` // RFC 3339, sorts lexically
	Duration       time.Duration `json:"duration"`
	IsAvailable    bool          `json:"isAvailable"`
	IsYouTubeShort bool          `json:"isYouTubeShort"`
}

// PublishedAt parses Date. A zero time is returned when Date is not RFC 3339.
func (v *Video) PublishedAt() time.Time {
	t, err := time.Parse(time.RFC3339, v.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// VideoURL returns the public watch URL of a video
func VideoURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
