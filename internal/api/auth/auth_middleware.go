package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-itinerary-planner/config"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	// UserIDKey carries the authenticated user's ID through the request context.
	UserIDKey contextKey = "userID"
	// ClaimsKey carries the full validated token claims.
	ClaimsKey contextKey = "claims"
)

// Authenticate returns middleware that validates the Bearer token on each
// request and stores the user identity in the request context.
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}
			tokenString := parts[1]

			claims := &types.Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(jwtCfg.SecretKey), nil
			}, jwt.WithIssuer(jwtCfg.Issuer))
			if err != nil {
				logger.DebugContext(ctx, "Token validation failed", slog.Any("error", err))
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					api.ErrorResponse(w, r, http.StatusUnauthorized, "Token has expired")
				default:
					api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token")
				}
				return
			}
			if !token.Valid {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			if !api.VerifyAudience(claims.Audience, jwtCfg.Audience) {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Token audience mismatch")
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user ID set by Authenticate.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
