package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-reservation/internal/utils"
)

func protectedEcho(secret string) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"host_id": HostID(c)})
	}, JWTAuth(secret))
	return e
}

func TestJWTAuth_ValidToken(t *testing.T) {
	const secret = "s3cret"
	at, err := utils.NewAccessToken(secret, 7, "host@example.com", 15)
	require.NoError(t, err)

	e := protectedEcho(secret)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+at.Token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"host_id":7`)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	e := protectedEcho("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "host@example.com", 15)
	require.NoError(t, err)

	e := protectedEcho("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+at.Token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken("s3cret", 7, "host@example.com", -5)
	require.NoError(t, err)

	e := protectedEcho("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+at.Token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
