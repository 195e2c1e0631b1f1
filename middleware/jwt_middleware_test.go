package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateJWT("u1", "alice")
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(*JwtCustomClaims)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, claims.IssuedAt+3600, claims.ExpiresAt)
}

func TestGenerateJWT_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT("u1", "alice")
	assert.Error(t, err)
}

func TestGetUserFromToken(t *testing.T) {
	e := echo.New()

	// No token in the context
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, GetUserFromToken(c))

	// Context value of the wrong type
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user", "not-a-token")
	assert.Nil(t, GetUserFromToken(c))

	// Parsed token with our claims
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaims{UserID: "u1", Username: "alice"}))
	claims := GetUserFromToken(c)
	require.NotNil(t, claims)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestExtractUserID(t *testing.T) {
	e := echo.New()

	// Nothing in the context
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := ExtractUserID(c)
	assert.Error(t, err)

	// From the userId context key set by the middleware success handler
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("userId", "u1")
	id, err := ExtractUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	// Falls back to the token claims
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaims{UserID: "u2", Username: "bob"}))
	id, err = ExtractUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "u2", id)
}

func TestJWTMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("userId").(string))
	})

	// Valid token passes and claims land in the context
	tokenString, err := GenerateJWT("u1", "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/alice", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	// Missing and malformed tokens are rejected
	for _, header := range []string{"", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/alice", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler(c)
		require.Error(t, err)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	}
}
