package feed

import (
	"sort"

	"github.com/ytcast/internal/models"
)

// FilterVideos keeps available videos, dropping shorts when excludeShorts is set.
func FilterVideos(videos []models.Video, excludeShorts bool) []models.Video {
	kept := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if !v.IsAvailable {
			continue
		}
		if excludeShorts && v.IsYouTubeShort {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// SortNewestFirst orders videos by descending date in place. Videos with equal
// dates keep their relative order.
func SortNewestFirst(videos []models.Video) []models.Video {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Date > videos[j].Date
	})
	return videos
}
