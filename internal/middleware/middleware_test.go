package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/exstem-console/internal/config"
	"github.com/stemsi/exstem-console/internal/service"
	"github.com/stemsi/exstem-console/internal/upstream"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "middleware-secret"

func signed(t *testing.T, tokenType service.TokenType, perms ...string) string {
	t.Helper()
	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		TokenType:        tokenType,
		UserID:           11,
		Permissions:      perms,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestRequireAdminJWT(t *testing.T) {
	auth := service.NewAuthService(&config.Config{JWTSecret: testSecret})
	admin := signed(t, service.TokenTypeAdmin, "exams:read")

	r := gin.New()
	r.GET("/x", RequireAdminJWT(auth), RequirePermission("exams:read"), func(c *gin.Context) {
		// The raw token travels with the request context.
		if got := upstream.TokenFrom(c.Request.Context()); got != admin {
			c.String(http.StatusInternalServerError, "token not forwarded")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/w", RequireAdminJWT(auth), RequirePermission("exams:write"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing", "/x", "", http.StatusUnauthorized},
		{"malformed", "/x", "Bearer nope", http.StatusUnauthorized},
		{"student token", "/x", "Bearer " + signed(t, service.TokenTypeStudent), http.StatusForbidden},
		{"admin", "/x", "Bearer " + admin, http.StatusOK},
		{"missing permission", "/w", "Bearer " + admin, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireAdminWSAuth(t *testing.T) {
	auth := service.NewAuthService(&config.Config{JWTSecret: testSecret})
	r := gin.New()
	r.GET("/ws", RequireAdminWSAuth(auth), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+signed(t, service.TokenTypeAdmin), nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("admin token = %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := &RateLimiter{visitors: map[string]*visitor{}, rate: 2, interval: time.Minute}
	now := time.Now()

	if !rl.allow("a", now) || !rl.allow("a", now) {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("a", now) {
		t.Fatal("third request should be limited")
	}
	if !rl.allow("b", now) {
		t.Fatal("other callers have their own bucket")
	}
	if !rl.allow("a", now.Add(time.Minute)) {
		t.Fatal("bucket should refill after the interval")
	}
}

func TestBrotli(t *testing.T) {
	big := strings.Repeat("exam ", 1000)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, big) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "tiny") })
	r.GET("/xlsx", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte(big))
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/big")
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("big body not compressed")
	}
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil || string(plain) != big {
		t.Fatalf("decoded body mismatch: %v", err)
	}

	if w := get("/small"); w.Header().Get("Content-Encoding") != "" || w.Body.String() != "tiny" {
		t.Errorf("small body = %q (%s)", w.Body.String(), w.Header().Get("Content-Encoding"))
	}
	if w := get("/xlsx"); w.Header().Get("Content-Encoding") != "" || w.Body.Len() != len(big) {
		t.Errorf("xlsx should pass through")
	}
}

func TestCacheControl(t *testing.T) {
	r := gin.New()
	r.GET("/a", CacheControl(60), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", CacheControl(0), func(c *gin.Context) { c.Status(http.StatusOK) })

	for path, want := range map[string]string{"/a": "private, max-age=60", "/b": "no-store"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if got := w.Header().Get("Cache-Control"); got != want {
			t.Errorf("%s Cache-Control = %q, want %q", path, got, want)
		}
	}
}
