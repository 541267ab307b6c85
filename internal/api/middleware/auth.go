package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified token claims stored by Authenticate
func ClaimsFromContext(ctx context.Context) (*providers.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*providers.TokenClaims)
	return claims, ok
}

// WithClaims stores claims in ctx
func WithClaims(ctx context.Context, claims *providers.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Authenticate verifies a bearer token when one is sent and stores its claims in the request
// context. EventSource clients cannot set headers, so the token may also come as ?token=.
// Requests without a token pass through; RequireRole rejects them where a role is needed.
func Authenticate(tokens providers.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			observability.AnnotateRequestLogger(r.Context(), claims.UserID, string(claims.Role))
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole allows the request only when the token role is one of roles.
// With no roles any signed-in staff member is allowed.
func RequireRole(roles ...entities.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if len(roles) > 0 && !hasRole(claims.Role, roles) {
				writeError(w, http.StatusForbidden, "role "+string(claims.Role)+" may not access this resource")
				return
			}
			next(w, r)
		}
	}
}

func hasRole(role entities.Role, roles []entities.Role) bool {
	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
