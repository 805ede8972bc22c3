package api

import (
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/killallgit/transcript-search/api/types"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTimeout   = 10 * time.Minute
)

// clientLimiter holds a rate limiter and its last access in Unix nanoseconds. Requests
// touch it while the sweeper reads it.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func newClientLimiter(rps, burst int, now time.Time) *clientLimiter {
	cl := &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
	cl.touch(now)
	return cl
}

func (cl *clientLimiter) touch(now time.Time) {
	cl.lastSeen.Store(now.UnixNano())
}

func (cl *clientLimiter) idle(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, cl.lastSeen.Load()))
}

// rateLimiters tracks one limiter per client and route group
type rateLimiters struct {
	clients sync.Map
	once    sync.Once
	stop    chan struct{}
}

func newRateLimiters() *rateLimiters {
	return &rateLimiters{stop: make(chan struct{})}
}

// Stop ends the background sweep
func (r *rateLimiters) Stop() {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}

// CORS allows browser clients from origins. A "*" entry allows any origin.
func CORS(origins []string) gin.HandlerFunc {
	wildcard := slices.Contains(origins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case wildcard:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Length, Content-Type")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestSizeLimitWithSize caps request bodies at maxBytes
func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// PerClientRateLimit limits each client IP to rps requests per second with the given burst.
// Limiters are keyed per group so a busy search client does not starve its own imports.
func PerClientRateLimit(limiters *rateLimiters, group string, rps int, burst int) gin.HandlerFunc {
	limiters.once.Do(func() {
		go cleanupOldRateLimiters(&limiters.clients, limiters.stop)
	})

	return func(c *gin.Context) {
		key := group + "|" + c.ClientIP()

		now := time.Now()
		limiterInterface, _ := limiters.clients.LoadOrStore(key, newClientLimiter(rps, burst, now))

		cl := limiterInterface.(*clientLimiter)
		cl.touch(now)

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Rate limit exceeded. Please slow down your requests.",
				Error:   "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

func cleanupOldRateLimiters(clients *sync.Map, stop chan struct{}) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			sweepIdleLimiters(clients, now)
		case <-stop:
			return
		}
	}
}

// sweepIdleLimiters drops limiters unused for longer than limiterIdleTimeout
func sweepIdleLimiters(clients *sync.Map, now time.Time) {
	clients.Range(func(key, value any) bool {
		if value.(*clientLimiter).idle(now) > limiterIdleTimeout {
			clients.Delete(key)
		}
		return true
	})
}
