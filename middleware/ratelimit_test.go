package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(2, 200*time.Millisecond))
	router.POST("/budgets/refresh", func(c *gin.Context) {
		c.String(200, "ok")
	})

	doReq := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/budgets/refresh", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w1 := doReq("192.168.1.1")
	w2 := doReq("192.168.1.1")
	w3 := doReq("192.168.1.1")

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "too many requests")

	// other clients have their own budget
	assert.Equal(t, 200, doReq("192.168.1.2").Code)
	assert.Equal(t, 200, doReq("192.168.1.2").Code)

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 200, doReq("192.168.1.1").Code)
}

func TestPruneBefore(t *testing.T) {
	now := time.Now()
	ts := []time.Time{now.Add(-3 * time.Second), now.Add(-time.Second), now}
	kept := pruneBefore(ts, now.Add(-2*time.Second))
	assert.Len(t, kept, 2)
}
