package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/MrEthical07/goStudio/router"
)

type decisionContextKey struct{}

// DecisionFromContext returns the guard decision stored by [Guard].
func DecisionFromContext(ctx context.Context) (router.Decision, bool) {
	d, ok := ctx.Value(decisionContextKey{}).(router.Decision)
	return d, ok
}

// Guard resolves every request path against guard. A redirected navigation
// answers 302 with the final location; an allowed one reaches next with the
// Decision in the request context.
func Guard(guard *router.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guard == nil {
				http.Error(w, "navigation unavailable", http.StatusServiceUnavailable)
				return
			}

			d, err := guard.Resolve(r.Context(), r.URL.RequestURI())
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, router.ErrNoRoute) {
					status = http.StatusNotFound
				}
				log.Print("goStudio: guard ", r.URL.Path, ": ", err)
				http.Error(w, http.StatusText(status), status)
				return
			}

			if d.Redirected() {
				http.Redirect(w, r, d.Location, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), decisionContextKey{}, d)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
