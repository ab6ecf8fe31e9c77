package models

import (
	"fmt"
	"strings"
)

// Quality represents the media variant requested for feed enclosures
type Quality string

const (
	QualityDefault Quality = "Default"
	QualityAudio   Quality = "Audio"
	QualityLow     Quality = "Low"
)

// ParseQuality maps a query value onto a Quality. An empty value means QualityDefault.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return QualityDefault, nil
	case "audio":
		return QualityAudio, nil
	case "low":
		return QualityLow, nil
	}
	return "", fmt.Errorf("unknown quality %q", s)
}

// FeedOptions holds the caller selected options of a feed
type FeedOptions struct {
	Quality       Quality `json:"quality"`
	ExcludeShorts bool    `json:"excludeShorts"`
	VideoServer   string  `json:"videoServer,omitempty"`
}
