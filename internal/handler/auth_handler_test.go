package handler

import (
	"net/http"
	"testing"

	"vendor-service/internal/middleware"
	"vendor-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndToken(t *testing.T) {
	setupTest(t)
	e := echo.New()

	c, rec := newRequest(e, http.MethodPost, "/api/register/",
		`{"email":"buyer@example.test","password":"s3cret"}`)
	require.NoError(t, Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newRequest(e, http.MethodPost, "/api/token/",
		`{"email":"buyer@example.test","password":"s3cret"}`)
	require.NoError(t, Token(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	token, ok := body["token"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	claims, err := jwtutil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.test", claims.Email)
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	setupTest(t)
	e := echo.New()

	c, rec := newRequest(e, http.MethodPost, "/api/register/",
		`{"email":"buyer@example.test","password":"s3cret"}`)
	require.NoError(t, Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newRequest(e, http.MethodPost, "/api/token/",
		`{"email":"buyer@example.test","password":"wrong"}`)
	require.NoError(t, Token(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newRequest(e, http.MethodPost, "/api/token/",
		`{"email":"nobody@example.test","password":"s3cret"}`)
	require.NoError(t, Token(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTest(t)
	e := echo.New()

	c, rec := newRequest(e, http.MethodPost, "/api/register/",
		`{"email":"buyer@example.test","password":"s3cret"}`)
	require.NoError(t, Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newRequest(e, http.MethodPost, "/api/register/",
		`{"email":"buyer@example.test","password":"other"}`)
	require.NoError(t, Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthMiddlewareGuardsVendorRoutes(t *testing.T) {
	setupTest(t)
	e := echo.New()
	guarded := middleware.AuthMiddleware(ListVendors)

	// No credential
	c, rec := newRequest(e, http.MethodGet, "/api/vendors/", "")
	require.NoError(t, guarded(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage credential
	c, rec = newRequest(e, http.MethodGet, "/api/vendors/", "")
	c.Request().Header.Set("Authorization", "Bearer not-a-token")
	require.NoError(t, guarded(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid credential
	token, err := jwtutil.GenerateToken("buyer@example.test", 1)
	require.NoError(t, err)
	c, rec = newRequest(e, http.MethodGet, "/api/vendors/", "")
	c.Request().Header.Set("Authorization", "Bearer "+token)
	require.NoError(t, guarded(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
