package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Timeout ограничивает время обработки запроса, чтобы зависший запрос к БД не держал соединение вечно.
// Маршруты с именами из exemptRoutes (потоковые) не ограничиваются
func Timeout(d time.Duration, exemptRoutes ...string) mux.MiddlewareFunc {
	exempt := make(map[string]struct{}, len(exemptRoutes))
	for _, name := range exemptRoutes {
		exempt[name] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExempt(r, exempt) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isExempt(r *http.Request, exempt map[string]struct{}) bool {
	if len(exempt) == 0 {
		return false
	}
	route := mux.CurrentRoute(r)
	if route == nil {
		return false
	}
	_, ok := exempt[route.GetName()]
	return ok
}
