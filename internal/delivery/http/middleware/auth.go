package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// SetActor returns a context with the caller identity set. Used by auth middleware.
func SetActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated caller identity from the context, if present.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// caller identity in the request context. If the token is missing or invalid,
// it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				helpers.WriteJSONMessage(w, http.StatusUnauthorized, helpers.MsgUnauthenticated)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				helpers.WriteJSONMessage(w, http.StatusUnauthorized, helpers.MsgUnauthenticated)
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				helpers.WriteJSONMessage(w, http.StatusUnauthorized, helpers.MsgUnauthenticated)
				return
			}
			userID, roles, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				helpers.WriteJSONMessage(w, http.StatusUnauthorized, helpers.MsgUnauthenticated)
				return
			}
			r = r.WithContext(SetActor(r.Context(), domain.Actor{ID: userID, Roles: roles}))
			next(w, r)
		}
	}
}
