// Package feed assembles podcast RSS feeds from a source and its videos.
package feed

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ytcast/internal/cache"
	"github.com/ytcast/internal/log"
	"github.com/ytcast/internal/models"
)

// CacheNamespace is the cache namespace of rendered feeds.
const CacheNamespace = "feed"

// SourceResolver looks up source metadata.
type SourceResolver interface {
	Source(ctx context.Context, ref models.SourceRef) (*models.Source, error)
}

// VideoLister lists the videos of a source.
type VideoLister interface {
	ListVideos(ctx context.Context, ref models.SourceRef) ([]models.Video, error)
}

// Request identifies one feed rendering.
type Request struct {
	Source  models.SourceRef   `json:"source"`
	Host    string             `json:"host"`
	Options models.FeedOptions `json:"options"`
}

// Options configures a Builder.
type Options struct {
	// Notifier is used when a request names a video server. Nil means an
	// HTTPNotifier with DefaultNotifyTimeout.
	Notifier Notifier
	// CacheStore and CacheTTL enable feed caching. Feeds are rebuilt on every
	// request when CacheStore is nil or CacheTTL is not positive.
	CacheStore cache.Store
	CacheTTL   time.Duration
}

// Builder renders feeds.
type Builder struct {
	sources  SourceResolver
	videos   VideoLister
	notifier Notifier
	build    cache.Func[Request, string]
	now      func() time.Time
	logger   zerolog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(sources SourceResolver, videos VideoLister, opts Options) *Builder {
	b := &Builder{
		sources:  sources,
		videos:   videos,
		notifier: opts.Notifier,
		now:      time.Now,
		logger:   log.WithComponent("feed"),
	}
	if b.notifier == nil {
		b.notifier = NewHTTPNotifier(nil, DefaultNotifyTimeout)
	}

	b.build = b.render
	if opts.CacheStore != nil && opts.CacheTTL > 0 {
		b.build = cache.Wrap(opts.CacheStore, cache.Config{
			Namespace: CacheNamespace,
			TTL:       cache.Fixed(opts.CacheTTL),
		}, b.render)
	}
	return b
}

// Build returns the RSS document of the source with the canonical sourceID.
// host is the public host of this service; feed and enclosure URLs point at it.
func (b *Builder) Build(ctx context.Context, sourceID, host string, opts models.FeedOptions) (string, error) {
	if opts.Quality == "" {
		opts.Quality = models.QualityDefault
	}
	ref, ok := models.ParseSourceRef(sourceID)
	if !ok {
		feedBuilds.WithLabelValues("error").Inc()
		return "", models.NewNotFoundError(sourceID, "Could not find a YouTube source for id %s", sourceID)
	}

	start := time.Now()
	doc, err := b.build(ctx, Request{Source: ref, Host: host, Options: opts})
	feedBuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		feedBuilds.WithLabelValues("error").Inc()
		return "", err
	}
	feedBuilds.WithLabelValues("ok").Inc()
	return doc, nil
}

func (b *Builder) render(ctx context.Context, req Request) (string, error) {
	logger := log.WithContext(ctx, b.logger).With().Str(log.FieldSourceID, req.Source.ID).Logger()

	var (
		src *models.Source
		all []models.Video
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src, err = b.sources.Source(gctx, req.Source)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = b.videos.ListVideos(gctx, req.Source)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	videos := SortNewestFirst(FilterVideos(all, req.Options.ExcludeShorts))

	if server := req.Options.VideoServer; server != "" {
		b.notify(ctx, logger, server, videos)
	}

	doc, err := b.document(src, videos, req).render()
	if err != nil {
		return "", err
	}
	logger.Info().
		Int("items", len(videos)).
		Int("upstream_videos", len(all)).
		Msg("built feed")
	return doc, nil
}

// notify makes the single notification attempt of a build. Failures are only logged.
func (b *Builder) notify(ctx context.Context, logger zerolog.Logger, server string, videos []models.Video) {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}

	start := time.Now()
	if err := b.notifier.Notify(ctx, server, ids); err != nil {
		notifications.WithLabelValues("error").Inc()
		logger.Warn().
			Err(err).
			Str(log.FieldVideoServer, server).
			Int64(log.FieldDuration, time.Since(start).Milliseconds()).
			Msg("video server notification failed")
		return
	}
	notifications.WithLabelValues("ok").Inc()
	logger.Debug().
		Str(log.FieldVideoServer, server).
		Int("videos", len(ids)).
		Msg("notified video server")
}

func (b *Builder) document(src *models.Source, videos []models.Video, req Request) *rssFeed {
	opts := req.Options
	imageURL := src.ProfileImageURL
	if strings.HasPrefix(imageURL, "/") {
		imageURL = "https://" + req.Host + imageURL
	}

	channel := rssChannel{
		Title:         src.DisplayName,
		Link:          src.URL,
		Description:   src.Description,
		Generator:     generator,
		LastBuildDate: formatPubDate(b.now()),
		AtomLink: atomLink{
			Href: FeedURL(req.Host, req.Source.ID, opts),
			Rel:  "self",
			Type: "application/rss+xml",
		},
		ITunesAuthor:  src.DisplayName,
		ITunesSummary: src.Description,
		Items:         make([]rssItem, 0, len(videos)),
	}
	if imageURL != "" {
		channel.Image = &rssImage{URL: imageURL, Title: src.DisplayName, Link: src.URL}
		channel.ITunesImage = &itunesImage{Href: imageURL}
	}

	mimeType := "video/mp4"
	if opts.Quality == models.QualityAudio {
		mimeType = "audio/aac"
	}

	for _, v := range videos {
		enclosure := EnclosureURL(req.Host, v.ID, opts)
		channel.Items = append(channel.Items, rssItem{
			Title:       v.Title,
			ITunesTitle: v.Title,
			Description: v.Description + "\n\n" + v.URL,
			Link:        v.URL,
			GUID:        rssGUID{Value: v.ID},
			PubDate:     formatPubDate(v.PublishedAt()),
			Enclosure: rssEnclosure{
				URL:    enclosure,
				Length: "0",
				Type:   mimeType,
			},
			ITunesDuration: formatDuration(v.Duration),
		})
	}
	return newRSSFeed(channel)
}
