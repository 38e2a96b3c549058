package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func userToken(t *testing.T, secret string, userID uint) string {
	return signToken(t, secret, jwt.MapClaims{
		"user_id":  userID,
		"username": "teacher1",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
}

// capture records whether the wrapped handler ran and what user id it
// saw in the request context.
type capture struct {
	called bool
	userID interface{}
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.userID = r.Context().Value("user_id")
	})
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	var got capture
	wrapped := JWTMiddleware(testSecret)(got.handler())

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/my-quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+userToken(t, testSecret, 42))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, got.called)
	assert.Equal(t, uint(42), got.userID)
}

func TestJWTMiddlewareRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"malformed token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + userToken(t, "other-secret", 42)},
		{"expired token", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"user_id": 42,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})},
		{"no user id claim", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got capture
			wrapped := JWTMiddleware(testSecret)(got.handler())

			req := httptest.NewRequest(http.MethodGet, "/api/quiz/my-quizzes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, got.called)
		})
	}
}

func TestOptionalJWTAttributesValidToken(t *testing.T) {
	var got capture
	wrapped := OptionalJWT(testSecret)(got.handler())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", nil)
	req.Header.Set("Authorization", "Bearer "+userToken(t, testSecret, 7))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, got.called)
	assert.Equal(t, uint(7), got.userID)
}

func TestOptionalJWTLetsAnonymousThrough(t *testing.T) {
	var got capture
	wrapped := OptionalJWT(testSecret)(got.handler())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, got.called)
	assert.Nil(t, got.userID)
}

func TestOptionalJWTIgnoresBadToken(t *testing.T) {
	var got capture
	wrapped := OptionalJWT(testSecret)(got.handler())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", nil)
	req.Header.Set("Authorization", "Bearer "+userToken(t, "other-secret", 7))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "a bad token never blocks generation")
	require.True(t, got.called)
	assert.Nil(t, got.userID)
}
