package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// client is the token bucket of one remote IP.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// In-memory per-IP limiter state. Buckets idle for longer than idleTTL are
// dropped once the table grows past sweepAbove entries.
var (
	clients         = make(map[string]*client)
	refill          = rate.Every(time.Second)
	burst           = 60
	idleTTL         = 5 * time.Minute
	sweepAbove      = 1024
	rateLimiterLock sync.Mutex
)

// RateLimiter limits requests per client IP with a token bucket: bursts of up
// to `burst` requests, refilled at one token per second. Exceeding the bucket
// yields HTTP 429.
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{"error": "rate limit exceeded"}
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func allow(ip string, now time.Time) bool {
	rateLimiterLock.Lock()
	defer rateLimiterLock.Unlock()

	if len(clients) > sweepAbove {
		for k, cl := range clients {
			if now.Sub(cl.lastSeen) > idleTTL {
				delete(clients, k)
			}
		}
	}

	cl, ok := clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(refill, burst)}
		clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}
