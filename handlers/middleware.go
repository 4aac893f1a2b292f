package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stedward-parish/directorybackend/config"
	"github.com/stedward-parish/directorybackend/models"
	"github.com/stedward-parish/directorybackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// parseToken validates a signed token and returns the user ID it names.
func parseToken(cfg config.Config, tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	var userID uint
	if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
		return 0, fmt.Errorf("invalid user ID in token subject '%s': %w", claims.Subject, err)
	}
	return userID, nil
}

// AuthMiddleware creates a middleware handler for JWT authentication.
// It verifies the token and, if valid, fetches the user and adds them to the
// request context. Authentication is checked before any data access.
func AuthMiddleware(cfg config.Config, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				WriteAPIError(w, http.StatusUnauthorized, "authentication_required", "Authorization header with Bearer token required")
				return
			}

			userID, err := parseToken(cfg, tokenString)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
				return
			}

			user, err := userRepo.GetByID(userID)
			if err != nil {
				// the user may have been deleted after the token was issued
				WriteAPIError(w, http.StatusUnauthorized, "invalid_token", "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGlobalPermission is a middleware that checks if the authenticated
// user has a specific global permission. It must run after AuthMiddleware.
func RequireGlobalPermission(requiredPermission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(UserContextKey).(*models.User)
			if !ok || user == nil {
				WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
				return
			}

			if !user.HasGlobalPermission(requiredPermission) {
				WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("Requires global permission '%s'", requiredPermission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// userFromContext fetches the authenticated user placed by AuthMiddleware.
func userFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}
