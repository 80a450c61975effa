package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	governance "nbms/internal/governance/models"
)

type actorKey struct{}

// Middleware resolves the acting principal from the Authorization header.
// Requests without a token proceed as the anonymous actor; the core's
// visibility rules already bound what anonymous can reach. A present but
// invalid token is rejected outright.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r.WithContext(withActor(r.Context(), governance.AnonymousActor())))
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				unauthorized(w, "authorization header must use the Bearer scheme")
				return
			}
			actor, err := tokens.Validate(strings.TrimSpace(raw))
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
		})
	}
}

func withActor(ctx context.Context, actor governance.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor resolved by the middleware. Handlers pass it
// explicitly into the core services; nothing below the transport layer
// reads it from a context.
func ActorFrom(ctx context.Context) governance.Actor {
	if actor, ok := ctx.Value(actorKey{}).(governance.Actor); ok {
		return actor
	}
	return governance.AnonymousActor()
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "unauthenticated",
		"error_description": description,
	})
}
