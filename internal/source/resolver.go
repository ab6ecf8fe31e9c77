package source

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytcast/internal/cache"
	"github.com/ytcast/internal/log"
	"github.com/ytcast/internal/models"
)

// CacheNamespace is the cache namespace of resolved sources.
const CacheNamespace = "source"

// DefaultCacheTTL is the jitter base of cached sources; entries live 3 to 6 days.
const DefaultCacheTTL = 72 * time.Hour

// Resolver maps search text and IDs to sources. Lookups by ID are cached.
type Resolver struct {
	provider Provider
	byRef    cache.Func[models.SourceRef, *models.Source]
	logger   zerolog.Logger
}

// NewResolver creates a Resolver caching sources in store for ttl.
func NewResolver(provider Provider, store cache.Store, ttl cache.TTLFunc) *Resolver {
	r := &Resolver{
		provider: provider,
		logger:   log.WithComponent("source"),
	}
	r.byRef = cache.Wrap(store, cache.Config{Namespace: CacheNamespace, TTL: ttl}, r.fetch)
	return r
}

// Resolve finds the source named by searchText, which may be an ID, a YouTube
// URL or free text to search for.
func (r *Resolver) Resolve(ctx context.Context, searchText string) (*models.Source, error) {
	id, kind, ok := ParseID(searchText)
	if !ok {
		if id == "" {
			return nil, models.NewNotFoundError(searchText, "Could not find YouTube channel for %s", searchText)
		}

		found, err := r.provider.Search(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", searchText, err)
		}
		if found == "" {
			return nil, models.NewNotFoundError(searchText, "Could not find YouTube channel for %s", searchText)
		}
		r.logger.Debug().
			Str(log.FieldSearchText, searchText).
			Str(log.FieldSourceID, found).
			Msg("search matched source")
		// search only matches channels
		id, kind = found, models.KindChannel
	}

	return r.Source(ctx, models.SourceRef{ID: id, Kind: kind})
}

// ResolveByID returns the source with the canonical id.
func (r *Resolver) ResolveByID(ctx context.Context, id string) (*models.Source, error) {
	ref, ok := models.ParseSourceRef(id)
	if !ok {
		return nil, models.NewNotFoundError(id, "Could not find a YouTube source for id %s", id)
	}
	return r.Source(ctx, ref)
}

// Source returns the source ref names. Lookups are cached.
func (r *Resolver) Source(ctx context.Context, ref models.SourceRef) (*models.Source, error) {
	return r.byRef(ctx, ref)
}

func (r *Resolver) fetch(ctx context.Context, ref models.SourceRef) (*models.Source, error) {
	id := ref.ID
	var (
		src *models.Source
		err error
	)
	switch ref.Kind {
	case models.KindChannel:
		src, err = r.provider.ChannelDetails(ctx, id)
	case models.KindPlaylist:
		src, err = r.provider.PlaylistDetails(ctx, id)
	default:
		return nil, models.NewNotFoundError(id, "Could not find a YouTube source for id %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", id, err)
	}
	if src == nil {
		return nil, models.NewNotFoundError(id, "Could not find a YouTube source for id %s", id)
	}

	src.Kind = ref.Kind
	r.logger.Info().
		Str(log.FieldSourceID, id).
		Str("kind", string(ref.Kind)).
		Msg("resolved source")
	return src, nil
}
