package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/egdmrsy/TruBudget-SvKit/internal/cache"
	"github.com/egdmrsy/TruBudget-SvKit/internal/ledger"
)

// RequestCache gives every request its own resource cache. The cache is
// dropped when the handler returns.
func RequestCache(reader ledger.Reader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := cache.New(reader)
			next.ServeHTTP(w, r.WithContext(cache.NewContext(r.Context(), c)))
			log.Debug().
				Str("cache_id", c.ID().String()).
				Int("resources", c.Len()).
				Str("path", r.URL.Path).
				Msg("cache: request done")
		})
	}
}
