package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Infernos444/insurely/pkg/handlers"
)

// Middleware returns HTTP middleware that verifies the bearer token and
// injects the identity into the request context. Requests without a valid
// token are rejected.
func Middleware(sys System, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}

			identity, err := sys.Verify(r.Context(), token)
			if err != nil {
				handlers.RespondError(w, logger, MapHTTPStatus(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrInvalidToken
	}

	return token, nil
}
