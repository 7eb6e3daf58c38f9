package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/offerhub/offerhub-go/internal/model"
	"github.com/offerhub/offerhub-go/internal/service"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves a bearer token to the identity of its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Identity, error)
}

// TokenAuth returns middleware that resolves the Bearer token of the Authorization
// header to an identity. Requests without a valid token never reach next.
func TokenAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			identity, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				slog.Error("token lookup failed", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*model.Identity)
	return identity, ok && identity != nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
