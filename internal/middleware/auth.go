// Package middleware carries the per-request plumbing: bearer-token
// verification for the two principal domains and request logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"clientdesk/internal/auth"
)

type contextKey string

const (
	userClaimsKey  contextKey = "user_claims"
	adminClaimsKey contextKey = "admin_claims"
)

// UserFromContext returns the verified user identity injected by UserAuth.
func UserFromContext(ctx context.Context) (auth.UserClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(auth.UserClaims)
	return claims, ok
}

// AdminFromContext returns the verified admin identity injected by AdminAuth.
func AdminFromContext(ctx context.Context) (auth.AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(auth.AdminClaims)
	return claims, ok
}

// UserAuth verifies the bearer token against the user signing domain. Any
// failure short-circuits with 403 {"auth":false,"token":null}; the handler is
// never reached.
func UserAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				rejectAuth(w)
				return
			}
			claims, err := auth.ParseUserToken(secret, token)
			if err != nil {
				rejectAuth(w)
				return
			}
			ctx := context.WithValue(r.Context(), userClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth is UserAuth for the admin signing domain. A user token presented
// here fails verification because the domains share no key material.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				rejectAuth(w)
				return
			}
			claims, err := auth.ParseAdminToken(secret, token)
			if err != nil {
				rejectAuth(w)
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func rejectAuth(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"auth":  false,
		"token": nil,
	})
}
