package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"institute-app-go/internal/config"
)

const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)

// ActorAuth trusts the actor id and role headers set by the gateway in front
// of the service.
type ActorAuth struct {
	actorHeader string
	roleHeader  string
	skipAuth    bool
	mockActor   Actor
}

type contextKey int

const actorKey contextKey = iota

type Actor struct {
	ID   string
	Role string
}

func (a Actor) HasRole(roles ...string) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}

func NewActorAuth(cfg config.AuthConfig) *ActorAuth {
	return &ActorAuth{
		actorHeader: cfg.ActorHeader,
		roleHeader:  cfg.RoleHeader,
		skipAuth:    cfg.SkipAuth,
		mockActor: Actor{
			ID:   strings.TrimSpace(cfg.MockActorID),
			Role: normalizeRole(cfg.MockRole),
		},
	}
}

func (a *ActorAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			actor := a.mockActor
			if actor.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock actor id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
			return
		}

		actor := Actor{
			ID:   strings.TrimSpace(r.Header.Get(a.actorHeader)),
			Role: normalizeRole(r.Header.Get(a.roleHeader)),
		}
		if actor.ID == "" {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireRole rejects requests whose actor holds none of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !actor.HasRole(roles...) {
				writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok || actor.ID == "" {
		return Actor{}, false
	}
	return actor, true
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "unauthenticated", "missing actor")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
