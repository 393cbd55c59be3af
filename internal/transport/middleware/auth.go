package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	errors "github.com/akwasiboateng/campus-market/internal"
	"github.com/akwasiboateng/campus-market/internal/transport"
)

// AdminAuth guards the administrative sync endpoints. Callers (cron jobs,
// operators) present a short-lived HS256 token signed with the shared admin
// secret; there is no interactive login on this service.
func AdminAuth(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := base.ExtractTokenFromHeader(r)
			if tokenString == "" {
				base.HandleError(w, errors.NewUnauthorizedError("missing bearer token", errors.ErrCodeInvalidToken))
				return
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})

			if err != nil {
				logger.Warn("admin token rejected", "error", err, "path", r.URL.Path)
				if strings.Contains(err.Error(), jwt.ErrTokenExpired.Error()) {
					base.HandleError(w, errors.ErrTokenExpired)
					return
				}
				base.HandleError(w, errors.ErrInvalidToken)
				return
			}

			if !token.Valid {
				base.HandleError(w, errors.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewAdminToken mints a token for the admin API, used by the CLI and tests.
func NewAdminToken(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "campus-market-admin",
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
