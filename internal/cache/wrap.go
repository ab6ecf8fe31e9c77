package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ytcast/internal/log"
)

// Func is a single-argument lookup that can be memoized.
type Func[A any, T any] func(ctx context.Context, arg A) (T, error)

// Config names the namespace of a memoized function and the TTL of its entries.
type Config struct {
	Namespace string
	TTL       TTLFunc
}

// Key derives the store key for arg in namespace.
func Key(namespace string, arg any) (string, error) {
	data, err := json.Marshal(arg)
	if err != nil {
		return "", fmt.Errorf("cache key for %s: %w", namespace, err)
	}
	return namespace + ":" + string(data), nil
}

// Wrap memoizes fn in store. Values are stored as JSON, so T must round-trip
// through encoding/json.
//
// A live entry is returned without calling fn. On a miss fn runs once per key
// no matter how many callers are waiting; its result is stored for cfg.TTL()
// and handed to all of them. Errors are never stored. A waiter whose context
// ends stops waiting, but the shared computation keeps running for the others.
func Wrap[A any, T any](store Store, cfg Config, fn Func[A, T]) Func[A, T] {
	var group singleflight.Group
	logger := log.WithComponent("cache").With().Str(log.FieldNamespace, cfg.Namespace).Logger()

	return func(ctx context.Context, arg A) (T, error) {
		var zero T
		key, err := Key(cfg.Namespace, arg)
		if err != nil {
			return zero, err
		}

		if v, ok := lookup[T](ctx, store, key, logger); ok {
			cacheRequests.WithLabelValues(cfg.Namespace, "hit").Inc()
			return v, nil
		}
		cacheRequests.WithLabelValues(cfg.Namespace, "miss").Inc()

		ch := group.DoChan(key, func() (any, error) {
			flightCtx := context.WithoutCancel(ctx)
			// a flight that finished between our miss and DoChan has already stored the value
			if v, ok := lookup[T](flightCtx, store, key, logger); ok {
				return v, nil
			}

			v, err := fn(flightCtx, arg)
			if err != nil {
				cacheRequests.WithLabelValues(cfg.Namespace, "error").Inc()
				return nil, err
			}
			save(flightCtx, store, key, v, cfg.TTL, logger)
			return v, nil
		})

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return zero, res.Err
			}
			v, _ := res.Val.(T)
			return v, nil
		}
	}
}

func lookup[T any](ctx context.Context, store Store, key string, logger zerolog.Logger) (T, bool) {
	var v T
	data, found, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache read failed, treating as miss")
		return v, false
	}
	if !found {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache entry undecodable, treating as miss")
		return v, false
	}
	return v, true
}

func save[T any](ctx context.Context, store Store, key string, v T, ttl TTLFunc, logger zerolog.Logger) {
	if ttl == nil {
		return
	}
	d := ttl()
	if d <= 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache value not encodable")
		return
	}
	if err := store.Set(ctx, key, data, d); err != nil {
		logger.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache write failed")
	}
}
