package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"

	"shareit/internal/config"

	"golang.org/x/time/rate"
)

// HTTPAuth validates API keys and rate-limits callers. Each configured
// key gets its own token bucket, keyed by the client name.
type HTTPAuth struct {
	cfg      config.APIConfig
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	return &HTTPAuth{
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || !a.cfg.Auth.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		client, ok := a.authenticate(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}

		if strings.HasPrefix(r.URL.Path, "/admin/") && !client.HasPermission("admin") {
			writeError(w, http.StatusForbidden, "admin permission required")
			return
		}

		if !a.limiter(client.Name).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) authenticate(r *http.Request) (config.APIClientKey, bool) {
	key := r.Header.Get(a.cfg.Auth.HeaderAPIKey)
	extra := r.Header.Get(a.cfg.Auth.HeaderExtra)
	if key == "" {
		return config.APIClientKey{}, false
	}
	for _, client := range a.cfg.Auth.APIKeys {
		if subtle.ConstantTimeCompare([]byte(client.Key), []byte(key)) == 1 &&
			subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) == 1 {
			return client, true
		}
	}
	return config.APIClientKey{}, false
}

func (a *HTTPAuth) limiter(name string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	lim, ok := a.limiters[name]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), a.cfg.RateLimit.Burst)
		a.limiters[name] = lim
	}
	return lim
}
