package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"myphone/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per client within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

// rateLimiter keeps one window per client IP. Expired entries are purged
// inline at most once per purgeInterval.
type rateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*rateEntry
	limit     int
	window    time.Duration
	lastPurge time.Time
	now       func() time.Time
}

const purgeInterval = 5 * time.Minute

// RateLimiter returns a per-IP fixed-window limiter: limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{
		entries: make(map[string]*rateEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	return rl.handle
}

func (rl *rateLimiter) handle(c *gin.Context) {
	allowed, retryAfter := rl.allow(c.ClientIP())
	if !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
		return
	}
	c.Next()
}

func (rl *rateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPurge) >= purgeInterval {
		rl.purge(now)
	}

	entry, ok := rl.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &rateEntry{windowEnd: now.Add(rl.window)}
		rl.entries[ip] = entry
	}
	entry.count++
	if entry.count > rl.limit {
		return false, entry.windowEnd.Sub(now)
	}
	return true, 0
}

// must be called under lock
func (rl *rateLimiter) purge(now time.Time) {
	purged := 0
	for ip, entry := range rl.entries {
		if now.After(entry.windowEnd) {
			delete(rl.entries, ip)
			purged++
		}
	}
	rl.lastPurge = now
	if purged > 0 {
		log.Debug().
			Int("entries_purged", purged).
			Int("entries_remaining", len(rl.entries)).
			Msg("rate limiter purged")
	}
}
