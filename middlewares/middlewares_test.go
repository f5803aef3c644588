package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", "198.51.100.4"},
		{"remote address", nil, "192.0.2.9:5555", "192.0.2.9"},
		{"nothing", nil, "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			ctx.Request = httptest.NewRequest(http.MethodPost, "/", nil)
			ctx.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				ctx.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(ctx))
		})
	}
}

func TestRateLimitMessage(t *testing.T) {
	assert.Equal(t, "Too many login attempts. Please try again in 15 minutes.", rateLimitMessage(15*time.Minute))
	assert.Equal(t, "Too many login attempts. Please try again in 1 minute.", rateLimitMessage(10*time.Second))
}

type countingLimiter struct {
	limit int
	hits  map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string) error {
	l.hits[key]++
	if l.hits[key] > l.limit {
		return utils.ErrRateLimited
	}
	return nil
}

func TestLoginRateLimit(t *testing.T) {
	limiter := &countingLimiter{limit: 2, hits: map[string]int{}}
	router := gin.New()
	router.POST("/login", LoginRateLimit(limiter, 15*time.Minute), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(RateLimitKey))
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send("203.0.113.7")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "admin-login:203.0.113.7", first.Body.String())
	assert.Equal(t, http.StatusOK, send("203.0.113.7").Code)

	blocked := send("203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.JSONEq(t, `{"success":false,"error":"Too many login attempts. Please try again in 15 minutes."}`, blocked.Body.String())

	assert.Equal(t, http.StatusOK, send("198.51.100.1").Code)
}

type stubVerifier struct {
	tokens map[string]models.User
	err    error
}

func (v stubVerifier) VerifyAdmin(_ context.Context, token string) (models.User, error) {
	if v.err != nil {
		return models.User{}, v.err
	}
	if user, ok := v.tokens[token]; ok {
		return user, nil
	}
	if token == "" {
		return models.User{}, &utils.AuthenticationError{Message: "Unauthorized"}
	}
	return models.User{}, &utils.AuthenticationError{Message: "Invalid or expired token"}
}

func TestRequireAdmin(t *testing.T) {
	admin := models.User{Name: "Owner", Email: "admin@example.com", Role: models.RoleAdmin}
	verifier := stubVerifier{tokens: map[string]models.User{"good": admin}}

	router := gin.New()
	router.GET("/secret", RequireAdmin(verifier), func(ctx *gin.Context) {
		user := ctx.MustGet(AdminKey).(models.User)
		ctx.String(http.StatusOK, user.Email)
	})

	tests := []struct {
		name     string
		prepare  func(*http.Request)
		wantCode int
		wantBody string
	}{
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: adminCookieName, Value: "good"}) }, http.StatusOK, "admin@example.com"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK, "admin@example.com"},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, `{"success":false,"error":"Unauthorized"}`},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, `{"success":false,"error":"Invalid or expired token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRequireAdminStoreFailure(t *testing.T) {
	router := gin.New()
	router.GET("/secret", RequireAdmin(stubVerifier{err: utils.Dependency("find user", errors.New("down"))}), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer any")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, rec.Body.String())
}
