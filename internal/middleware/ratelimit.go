package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// visitLog records recent request times per client IP inside a sliding
// window. An analysis run is expensive, so the trigger endpoint sits behind
// one of these.
type visitLog struct {
	mu     sync.Mutex
	visits map[string][]time.Time
	limit  int
	window time.Duration
}

func newVisitLog(limit int, window time.Duration) *visitLog {
	vl := &visitLog{
		visits: make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
	go vl.sweep()
	return vl
}

// sweep drops idle IPs so the log does not grow without bound.
func (vl *visitLog) sweep() {
	ticker := time.NewTicker(vl.window)
	defer ticker.Stop()

	for range ticker.C {
		vl.mu.Lock()
		now := time.Now()
		for ip, times := range vl.visits {
			kept := prune(times, now, vl.window)
			if len(kept) == 0 {
				delete(vl.visits, ip)
			} else {
				vl.visits[ip] = kept
			}
		}
		vl.mu.Unlock()
	}
}

func prune(times []time.Time, now time.Time, window time.Duration) []time.Time {
	var kept []time.Time
	for _, t := range times {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	return kept
}

func (vl *visitLog) allow(ip string) bool {
	vl.mu.Lock()
	defer vl.mu.Unlock()

	now := time.Now()
	kept := prune(vl.visits[ip], now, vl.window)
	if len(kept) >= vl.limit {
		vl.visits[ip] = kept
		return false
	}
	vl.visits[ip] = append(kept, now)
	return true
}

// RateLimit caps requests per client IP within a sliding window and answers
// 429 beyond the cap.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	visits := newVisitLog(limit, window)

	return func(c *gin.Context) {
		if !visits.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "rate limit exceeded, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
