package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/adeyemio/schoolbase/internal/repository"
	"github.com/adeyemio/schoolbase/pkg/response"
)

const apiKeyHeader = "x-api-key"

// Cached key states. Inactive keys are cached too, so a revoked key does
// not hammer the store.
const (
	apiKeyStateActive   = "active"
	apiKeyStateInactive = "inactive"
)

// APIKeyGuard checks the x-api-key header against stored keys, with a
// Redis cache in front of the store: 401 when the header is missing,
// 403 when the key is unknown or inactive, 500 on store failure.
type APIKeyGuard struct {
	keys  repository.APIKeyRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewAPIKeyGuard(keys repository.APIKeyRepository, redisClient *redis.Client, ttl time.Duration) *APIKeyGuard {
	return &APIKeyGuard{
		keys:  keys,
		redis: redisClient,
		ttl:   ttl,
	}
}

func (g *APIKeyGuard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			response.Unauthorized(w, "missing api key")
			return
		}

		cacheKey := "apikey:" + key

		if g.redis != nil {
			state, err := g.redis.Get(r.Context(), cacheKey).Result()
			if err == nil {
				if state == apiKeyStateActive {
					next.ServeHTTP(w, r)
				} else {
					response.Forbidden(w, "invalid api key")
				}
				return
			}
			if !errors.Is(err, redis.Nil) {
				logrus.WithError(err).Warn("api key cache lookup failed, falling through to store")
			}
		}

		apiKey, err := g.keys.GetByKey(r.Context(), key)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				g.cache(r, cacheKey, apiKeyStateInactive)
				response.Forbidden(w, "invalid api key")
				return
			}
			logrus.WithError(err).Error("api key lookup failed")
			response.InternalServerError(w, "internal server error")
			return
		}

		if !apiKey.Active {
			g.cache(r, cacheKey, apiKeyStateInactive)
			response.Forbidden(w, "invalid api key")
			return
		}

		g.cache(r, cacheKey, apiKeyStateActive)
		next.ServeHTTP(w, r)
	})
}

func (g *APIKeyGuard) cache(r *http.Request, cacheKey, state string) {
	if g.redis == nil {
		return
	}
	if err := g.redis.Set(r.Context(), cacheKey, state, g.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("api key cache write failed")
	}
}
