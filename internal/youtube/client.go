// Package youtube adapts the YouTube Data API v3 to the source and video
// lookups the feed pipeline needs.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/ytcast/internal/log"
	"github.com/ytcast/internal/models"
)

const (
	maxResults = 50 // YouTube API maximum per request

	shortMaxDuration       = 60 * time.Second
	taggedShortMaxDuration = 3 * time.Minute
)

// Config holds the settings of a Client
type Config struct {
	APIKey            string
	RequestsPerSecond float64
	Options           []option.ClientOption // extra options, e.g. a test endpoint
}

// Client handles YouTube Data API interactions
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient creates a new YouTube API client
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, cfg.Options...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		service: service,
		limiter: rate.NewLimiter(limit, burst),
		logger:  log.WithComponent("youtube"),
	}, nil
}

func (c *Client) wait(ctx context.Context, op string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &models.UpstreamError{Op: op, Err: err}
	}
	return nil
}

// Search returns the ID of the channel best matching text, or "" when there is none.
// A leading "@" is treated as a channel handle and looked up directly first.
func (c *Client) Search(ctx context.Context, text string) (string, error) {
	if strings.HasPrefix(text, "@") && !strings.ContainsAny(text, " \t") {
		id, err := c.channelIDForHandle(ctx, text)
		if err != nil {
			return "", err
		}
		if id != "" {
			return id, nil
		}
	}

	if err := c.wait(ctx, "search"); err != nil {
		return "", err
	}
	response, err := c.service.Search.List([]string{"snippet"}).
		Q(text).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", &models.UpstreamError{Op: "search", Err: err}
	}

	for _, item := range response.Items {
		if item != nil && item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
	}
	return "", nil
}

func (c *Client) channelIDForHandle(ctx context.Context, handle string) (string, error) {
	if err := c.wait(ctx, "channels.forHandle"); err != nil {
		return "", err
	}
	response, err := c.service.Channels.List([]string{"id"}).
		ForHandle(handle).
		Context(ctx).
		Do()
	if err != nil {
		return "", &models.UpstreamError{Op: "channels.forHandle", Err: err}
	}
	if len(response.Items) == 0 {
		return "", nil
	}
	return response.Items[0].Id, nil
}

// ChannelDetails fetches a channel. It returns nil, nil when the channel does not exist.
func (c *Client) ChannelDetails(ctx context.Context, id string) (*models.Source, error) {
	if err := c.wait(ctx, "channels.list"); err != nil {
		return nil, err
	}
	response, err := c.service.Channels.List([]string{"snippet"}).
		Id(id).
		Context(ctx).
		Do()
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, &models.UpstreamError{Op: "channels.list", Err: err}
	}
	if len(response.Items) == 0 || response.Items[0].Snippet == nil {
		return nil, nil
	}

	item := response.Items[0]
	return &models.Source{
		ID:              item.Id,
		Kind:            models.KindChannel,
		DisplayName:     item.Snippet.Title,
		Description:     item.Snippet.Description,
		URL:             models.ChannelURL(item.Id),
		ProfileImageURL: bestThumbnail(item.Snippet.Thumbnails),
	}, nil
}

// PlaylistDetails fetches a playlist. It returns nil, nil when the playlist does not exist.
// An uploads playlist (UU...) is described by its owning channel.
func (c *Client) PlaylistDetails(ctx context.Context, id string) (*models.Source, error) {
	if rest, ok := strings.CutPrefix(id, "UU"); ok {
		channel, err := c.ChannelDetails(ctx, "UC"+rest)
		if err != nil || channel == nil {
			return nil, err
		}
		channel.ID = id
		channel.Kind = models.KindPlaylist
		channel.URL = models.PlaylistURL(id)
		return channel, nil
	}

	if err := c.wait(ctx, "playlists.list"); err != nil {
		return nil, err
	}
	response, err := c.service.Playlists.List([]string{"snippet"}).
		Id(id).
		Context(ctx).
		Do()
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, &models.UpstreamError{Op: "playlists.list", Err: err}
	}
	if len(response.Items) == 0 || response.Items[0].Snippet == nil {
		return nil, nil
	}

	item := response.Items[0]
	return &models.Source{
		ID:              item.Id,
		Kind:            models.KindPlaylist,
		DisplayName:     item.Snippet.Title,
		Description:     item.Snippet.Description,
		URL:             models.PlaylistURL(item.Id),
		ProfileImageURL: bestThumbnail(item.Snippet.Thumbnails),
	}, nil
}

// PlaylistVideos lists every video of a playlist in playlist order.
func (c *Client) PlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	var videos []models.Video
	var nextPageToken string

	for {
		if err := c.wait(ctx, "playlistItems.list"); err != nil {
			return nil, err
		}
		call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(maxResults).
			Context(ctx)
		if nextPageToken != "" {
			call = call.PageToken(nextPageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, &models.UpstreamError{Op: "playlistItems.list", Err: err}
		}

		page, err := c.enrich(ctx, response.Items)
		if err != nil {
			return nil, err
		}
		videos = append(videos, page...)

		nextPageToken = response.NextPageToken
		if nextPageToken == "" || len(response.Items) == 0 {
			break
		}
	}

	c.logger.Debug().
		Str(log.FieldPlaylistID, playlistID).
		Int("videos", len(videos)).
		Msg("listed playlist videos")
	return videos, nil
}

// enrich joins a page of playlist items with their video details. Items without
// details (private or deleted videos) are kept but marked unavailable.
func (c *Client) enrich(ctx context.Context, items []*youtube.PlaylistItem) ([]models.Video, error) {
	var ids []string
	for _, item := range items {
		if id := playlistItemVideoID(item); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if err := c.wait(ctx, "videos.list"); err != nil {
		return nil, err
	}
	response, err := c.service.Videos.List([]string{"snippet", "contentDetails", "status"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &models.UpstreamError{Op: "videos.list", Err: err}
	}

	details := make(map[string]*youtube.Video, len(response.Items))
	for _, v := range response.Items {
		if v != nil {
			details[v.Id] = v
		}
	}

	videos := make([]models.Video, 0, len(ids))
	for _, item := range items {
		id := playlistItemVideoID(item)
		if id == "" {
			continue
		}
		videos = append(videos, c.toVideo(item, details[id]))
	}
	return videos, nil
}

func (c *Client) toVideo(item *youtube.PlaylistItem, detail *youtube.Video) models.Video {
	id := playlistItemVideoID(item)
	video := models.Video{
		ID:  id,
		URL: models.VideoURL(id),
	}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.Date = item.Snippet.PublishedAt
	}
	if item.ContentDetails != nil && item.ContentDetails.VideoPublishedAt != "" {
		video.Date = item.ContentDetails.VideoPublishedAt
	}
	if detail == nil {
		return video
	}

	var tags []string
	if detail.Snippet != nil {
		video.Title = detail.Snippet.Title
		video.Description = detail.Snippet.Description
		if video.Date == "" {
			video.Date = detail.Snippet.PublishedAt
		}
		tags = detail.Snippet.Tags
	}
	if detail.ContentDetails != nil {
		d, err := ParseDuration(detail.ContentDetails.Duration)
		if err != nil {
			c.logger.Debug().Err(err).Str("video_id", id).Msg("unparseable duration")
		}
		video.Duration = d
	}
	video.IsAvailable = isAvailable(detail)
	video.IsYouTubeShort = isShort(video, tags)
	return video
}

func playlistItemVideoID(item *youtube.PlaylistItem) string {
	if item == nil {
		return ""
	}
	if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
		return item.ContentDetails.VideoId
	}
	if item.Snippet != nil && item.Snippet.ResourceId != nil {
		return item.Snippet.ResourceId.VideoId
	}
	return ""
}

func isAvailable(v *youtube.Video) bool {
	if v.Status != nil {
		if v.Status.PrivacyStatus == "private" {
			return false
		}
		if v.Status.UploadStatus != "" && v.Status.UploadStatus != "processed" {
			return false
		}
	}
	if v.Snippet != nil {
		switch v.Snippet.LiveBroadcastContent {
		case "live", "upcoming":
			return false
		}
	}
	return v.ContentDetails != nil
}

func isShort(v models.Video, tags []string) bool {
	if v.Duration <= 0 {
		return false
	}
	if v.Duration <= shortMaxDuration {
		return true
	}
	if v.Duration > taggedShortMaxDuration {
		return false
	}
	if hasShortsTag(v.Title) || hasShortsTag(v.Description) {
		return true
	}
	for _, tag := range tags {
		if strings.EqualFold(strings.TrimPrefix(tag, "#"), "shorts") {
			return true
		}
	}
	return false
}

func hasShortsTag(s string) bool {
	return strings.Contains(strings.ToLower(s), "#shorts")
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
