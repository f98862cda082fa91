package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenValidator resolves a bearer token to the user id it was issued for.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

// AuthMiddleware validates bearer tokens and puts the user id on the request
// context. Every protected route sits behind it.
func AuthMiddleware(validator TokenValidator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
				return
			}

			userID, err := validator.ValidateToken(token)
			if err != nil {
				log.Printf("Token validation failed: %v", err)
				respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user id from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
