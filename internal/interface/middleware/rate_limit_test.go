package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func limitedEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/account/:id", mw, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := limitedEngine(RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil))
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/account/1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_FailOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r := limitedEngine(RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/account/1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/account/login", nil)
	c.Set("real_ip", "10.1.2.3")

	assert.Equal(t, "rl:path:/account/login:ip:10.1.2.3", KeyByIPAndPath()(c))
	assert.Equal(t, "rl:user:anon:ip:10.1.2.3", KeyByIdentity()(c))
	c.Set(CtxUserIDKey, "42")
	assert.Equal(t, "rl:user:42", KeyByIdentity()(c))

	assert.True(t, AllowPrivateIP()(c))
	c.Set("real_ip", "8.8.8.8")
	assert.False(t, AllowPrivateIP()(c))

	assert.Nil(t, AllowIf(false, AllowPrivateIP()))
	assert.NotNil(t, AllowIf(true, AllowPrivateIP()))
}
