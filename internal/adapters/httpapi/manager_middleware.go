package httpapi

import (
	"net/http"
	"strings"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// NewManagerMiddleware extracts the acting field manager from X-Manager-ID
// and stores it in request context. Authentication itself happens upstream
// (the store-ops web app owns sessions); this service only needs to know who
// the schedule belongs to.
//
// If the header is absent, defaultManager (if provided) is used — intended
// for local workflows only.
func NewManagerMiddleware(defaultManager string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health endpoint stays unauthenticated for infra checks.
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			mgr := strings.TrimSpace(r.Header.Get("X-Manager-ID"))
			if mgr == "" {
				mgr = strings.TrimSpace(defaultManager)
			}
			if mgr == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing manager identity (set X-Manager-ID)", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithManager(r.Context(), domain.ManagerID(mgr))))
		})
	}
}
