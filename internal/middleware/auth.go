package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/auth"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/transport"
)

// Actor is the authenticated principal a request acts as.
type Actor struct {
	UserID string
	Name   string
	Role   string
}

type actorKey struct{}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	v := ctx.Value(actorKey{})
	if v == nil {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

// RoleAuth authenticates via the access cookie, a Bearer token, or the
// bootstrap admin key, and requires the actor's role to be one of roles.
// The admin key acts as a SUPER_ADMIN-equivalent bootstrap credential.
func RoleAuth(adminKey string, manager *auth.Manager, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "auth not configured", nil)
				return
			}

			if adminKey != "" && r.Header.Get("X-Admin-Key") == adminKey {
				ctx := context.WithValue(r.Context(), actorKey{}, Actor{Name: "bootstrap", Role: "SUPER_ADMIN"})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if manager != nil {
				if token := bearerOrCookie(r); token != "" {
					claims, err := manager.Parse(token)
					if err == nil {
						if _, ok := allowed[claims.Role]; ok {
							actor := Actor{
								UserID: claims.Subject,
								Name:   claims.Name,
								Role:   claims.Role,
							}
							ctx := context.WithValue(r.Context(), actorKey{}, actor)
							next.ServeHTTP(w, r.WithContext(ctx))
							return
						}
						transport.WriteError(w, http.StatusForbidden, "insufficient role", nil)
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

func bearerOrCookie(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	cookie, err := r.Cookie("crm_access")
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}
