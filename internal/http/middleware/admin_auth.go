package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const analystClaimsKey contextKey = "analystClaims"

// Roles accepted on the scammer intelligence endpoints.
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
)

// AnalystClaims is the token payload for analysts who read fingerprint
// intelligence or force an escalation callback.
type AnalystClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminJWT gates intelligence endpoints behind an HMAC-signed analyst
// token carrying an admin or analyst role.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "analyst auth not configured", http.StatusUnauthorized)
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			var claims AnalystClaims
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims,
				func(token *jwt.Token) (any, error) {
					if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return []byte(secret), nil
				})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if claims.Role != RoleAdmin && claims.Role != RoleAnalyst {
				http.Error(w, "insufficient role", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), analystClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AnalystFromContext returns the claims attached by AdminJWT.
func AnalystFromContext(ctx context.Context) (AnalystClaims, bool) {
	claims, ok := ctx.Value(analystClaimsKey).(AnalystClaims)
	return claims, ok
}
