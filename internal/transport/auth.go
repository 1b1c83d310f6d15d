package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type userKey struct{}

// UserFromContext returns the authenticated user ID from context, if present.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok
}

func withUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// AuthMiddleware resolves the requesting user from a bearer JWT. The tenant
// always comes from the request path; the token only establishes identity.
// When disabled, the X-User-Id header is accepted instead (local dev and
// emulator parity).
func AuthMiddleware(enabled bool, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				userID := r.Header.Get("X-User-Id")
				if userID == "" {
					writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing X-User-Id header")
					return
				}
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
				return
			}

			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			userID, err := verifyToken(token, jwtSecret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
		})
	}
}

func verifyToken(token, secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("subject claim required")
	}
	return claims.Subject, nil
}
