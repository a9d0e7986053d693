// internal/api/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"rentflow/internal/domain"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Principal is the authenticated identity extracted from the bearer token.
// Identity itself lives in an external provider; the token carries the user
// id as subject and the role as a custom claim.
type Principal struct {
	UserID int64
	Role   domain.Role
}

// PrincipalFromContext retrieves the authenticated principal stored by
// Authenticate.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// Authenticate validates the Authorization bearer token and stores the
// resulting Principal in the request context. Requests without a valid
// token are rejected with 401.
func Authenticate(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Warn("unauthorized request", "url", r.URL.Path)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			principal, err := parseToken(tokenString, secret)
			if err != nil {
				logger.Warn("unauthorized request", "url", r.URL.Path, "error", err)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose principal does not carry the admin
// role. It must run after Authenticate.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal.Role != domain.RoleAdmin {
				logger.Warn("forbidden request", "url", r.URL.Path, "user_id", principal.UserID)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseToken(tokenString, secret string) (Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, errors.New("invalid token")
	}

	// JSON numbers decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok {
		return Principal{}, errors.New("invalid subject claim")
	}

	role := domain.RoleUser
	if roleClaim, ok := claims["role"].(string); ok && roleClaim != "" {
		role = domain.Role(roleClaim)
	}

	return Principal{UserID: int64(sub), Role: role}, nil
}
