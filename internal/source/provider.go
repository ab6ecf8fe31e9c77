// Package source turns free-form user input into a canonical YouTube source
// and lists the videos of a source.
package source

import (
	"context"

	"github.com/ytcast/internal/models"
)

// Provider is the upstream video metadata API.
type Provider interface {
	// Search returns the ID of the best matching source, or "" when there is none.
	Search(ctx context.Context, text string) (string, error)
	// ChannelDetails returns nil, nil for an unknown channel.
	ChannelDetails(ctx context.Context, id string) (*models.Source, error)
	// PlaylistDetails returns nil, nil for an unknown playlist.
	PlaylistDetails(ctx context.Context, id string) (*models.Source, error)
	PlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error)
}
