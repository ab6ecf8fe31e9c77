package feed

import (
	"encoding/xml"
	"fmt"
	"time"
)

const (
	itunesNS  = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	atomNS    = "http://www.w3.org/2005/Atom"
	generator = "ytcast"
)

type rssFeed struct {
	XMLName  xml.Name   `xml:"rss"`
	Version  string     `xml:"version,attr"`
	ITunesNS string     `xml:"xmlns:itunes,attr"`
	AtomNS   string     `xml:"xmlns:atom,attr"`
	Channel  rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string       `xml:"title"`
	Link          string       `xml:"link"`
	Description   string       `xml:"description"`
	Generator     string       `xml:"generator"`
	LastBuildDate string       `xml:"lastBuildDate"`
	AtomLink      atomLink     `xml:"atom:link"`
	Image         *rssImage    `xml:"image,omitempty"`
	ITunesAuthor  string       `xml:"itunes:author"`
	ITunesSummary string       `xml:"itunes:summary,omitempty"`
	ITunesImage   *itunesImage `xml:"itunes:image,omitempty"`
	Items         []rssItem    `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type rssItem struct {
	Title          string       `xml:"title"`
	ITunesTitle    string       `xml:"itunes:title"`
	Description    string       `xml:"description"`
	Link           string       `xml:"link"`
	GUID           rssGUID      `xml:"guid"`
	PubDate        string       `xml:"pubDate,omitempty"`
	Enclosure      rssEnclosure `xml:"enclosure"`
	ITunesDuration string       `xml:"itunes:duration,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

func newRSSFeed(channel rssChannel) *rssFeed {
	return &rssFeed{
		Version:  "2.0",
		ITunesNS: itunesNS,
		AtomNS:   atomNS,
		Channel:  channel,
	}
}

func (f *rssFeed) render() (string, error) {
	out, err := xml.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render feed: %w", err)
	}
	return xml.Header + string(out), nil
}

// formatDuration renders d as HH:MM:SS for itunes:duration. Zero yields "".
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

func formatPubDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC1123Z)
}
