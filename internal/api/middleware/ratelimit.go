package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/todomate/pkg/response"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端（已认证用户或 IP）限流
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	lastScan time.Time
	now      func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now

	if now.Sub(l.lastScan) > limiterIdleTTL {
		for k, v := range l.clients {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastScan = now
	}
	return cl.limiter.AllowN(now, 1)
}

// Middleware 超限返回 429，已认证时按用户计数，否则按 IP
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return l.handle(func(c *gin.Context) string {
		if u := CurrentUser(c); u != nil {
			return "user:" + strconv.FormatUint(uint64(u.ID), 10)
		}
		return "ip:" + c.ClientIP()
	})
}

// ByIP 只按 IP 计数，放在认证之前，无效令牌的请求同样计入
func (l *RateLimiter) ByIP() gin.HandlerFunc {
	return l.handle(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

func (l *RateLimiter) handle(key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(key(c)) {
			response.TooManyRequests(c, "Request was throttled.")
			return
		}
		c.Next()
	}
}
