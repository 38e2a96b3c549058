package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

// JWTMiddleware requires a valid bearer token and stores the user id
// in the request context.
func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userIDFromRequest(r, jwtSecret)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWT attaches the user id when a valid token is present and
// lets anonymous requests through untouched. Used on the generation
// endpoint so quizzes work without an account but are attributed when
// one exists.
func OptionalJWT(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := userIDFromRequest(r, jwtSecret); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), "user_id", userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userIDFromRequest(r *http.Request, jwtSecret string) (uint, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return 0, errAuthHeaderMissing
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
		return 0, errInvalidTokenFormat
	}

	token, err := jwt.ParseWithClaims(bearerToken[1], &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return 0, errInvalidToken
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errInvalidToken
	}

	userID, ok := (*claims)["user_id"].(float64)
	if !ok {
		return 0, errInvalidToken
	}
	return uint(userID), nil
}
