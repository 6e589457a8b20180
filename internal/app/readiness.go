package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// ReadyCheck reports whether a dependency is reachable. A nil ReadyCheck
// means the deployment has no hard dependencies and is always ready.
type ReadyCheck func(ctx context.Context) error

// Pinger is the minimal interface of a cache backend capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessCheck gates readiness on the shared cache when one is
// configured. The AI provider and the remote analyzer are soft dependencies
// with local fallbacks, so they never gate readiness.
func BuildReadinessCheck(p Pinger) ReadyCheck {
	if p == nil {
		return nil
	}
	return p.Ping
}

// ReadyzHandler answers 200 with a small JSON body when all checks pass and
// 503 otherwise.
func ReadyzHandler(check ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ready"}
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body = map[string]string{"status": "not ready", "error": err.Error()}
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
