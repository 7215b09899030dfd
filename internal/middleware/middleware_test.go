package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-booking/internal/config"
)

const secret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func runJWT(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var seen string
	h := JWTAuth(secret)(func(c echo.Context) error {
		seen = UserID(c)
		return c.NoContent(http.StatusNoContent)
	})
	require.NoError(t, h(c))
	return rec, seen
}

func TestJWTAuth(t *testing.T) {
	valid := signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "user-1"})
	noSub := signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{})
	hs512 := signed(t, jwt.SigningMethodHS512, []byte(secret), jwt.RegisteredClaims{Subject: "user-1"})

	tests := []struct {
		name   string
		header string
		status int
		user   string
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent, "user-1"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, ""},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized, ""},
		{"no subject", "Bearer " + noSub, http.StatusUnauthorized, ""},
		{"other algorithm", "Bearer " + hs512, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, user := runJWT(t, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.user, user)
		})
	}
}

func TestPassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/items", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	require.NoError(t, ResponseCache(config.CacheConfig{Enabled: true}, nil)(ok)(c))
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, RateLimit(config.RateLimitConfig{Enabled: true}, nil)(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheKey(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	key := func(url string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, url, nil), httptest.NewRecorder())
		c.SetPath("/v1/items/:id")
		return CacheKey(cfg, c)
	}
	assert.Equal(t, key("/v1/items/a?x=1"), key("/v1/items/a?x=1"))
	assert.NotEqual(t, key("/v1/items/a?x=1"), key("/v1/items/a?x=2"))
	assert.NotEqual(t, key("/v1/items/a"), key("/v1/items/b"))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, key("/v1/items/a"))
}

func TestCacheEntryRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodeEntry(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, got, body, ok := decodeEntry(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodeEntry([]byte{0, 0})
	assert.False(t, ok)
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}
	assert.Equal(t, "rl:user:anon:route:POST /v1/bookings", RateKey(cfg, c))
	SetUserID(c, "u1")
	assert.Equal(t, "rl:user:u1:route:POST /v1/bookings", RateKey(cfg, c))
	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.7", RateKey(cfg, c))
}
