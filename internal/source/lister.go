package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytcast/internal/models"
)

// Lister lists the videos of a source.
type Lister struct {
	provider Provider
}

// NewLister creates a Lister.
func NewLister(provider Provider) *Lister {
	return &Lister{provider: provider}
}

// UploadsPlaylistID maps a channel ID to the ID of its uploads playlist.
// Other IDs are returned unchanged.
func UploadsPlaylistID(id string) string {
	if rest, ok := strings.CutPrefix(id, "UC"); ok {
		return "UU" + rest
	}
	return id
}

// ListVideos returns every video of the source in upstream order.
func (l *Lister) ListVideos(ctx context.Context, ref models.SourceRef) ([]models.Video, error) {
	var playlistID string
	switch ref.Kind {
	case models.KindChannel:
		playlistID = UploadsPlaylistID(ref.ID)
	case models.KindPlaylist:
		playlistID = ref.ID
	default:
		return nil, models.NewNotFoundError(ref.ID, "Could not find a YouTube source for id %s", ref.ID)
	}

	videos, err := l.provider.PlaylistVideos(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list videos of %s: %w", ref.ID, err)
	}
	return videos, nil
}
