package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/shared/server/respond"
)

// Rate limit groups.
const (
	GroupDefault = "DEFAULT"
	GroupAnalyze = "ANALYZE"
	GroupPolling = "POLLING"
	GroupImport  = "IMPORT"
)

// RateLimitRule is a token bucket refilling Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// DefaultRateLimitRules keeps analysis runs and portfolio imports scarce and
// status polling cheap.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		GroupDefault: {Rate: 5, Burst: 20},
		GroupAnalyze: {Rate: 0.2, Burst: 3},
		GroupPolling: {Rate: 10, Burst: 30},
		GroupImport:  {Rate: 0.05, Burst: 2},
	}
}

// RouteGroupFor classifies routes into rate limit groups.
func RouteGroupFor(c *gin.Context) string {
	route := c.FullPath()
	switch {
	case c.Request.Method == http.MethodPost && strings.HasSuffix(route, "/organizations/:id/analyses"):
		return GroupAnalyze
	case c.Request.Method == http.MethodPost && strings.HasSuffix(route, "/uploads/portfolio"):
		return GroupImport
	case c.Request.Method == http.MethodGet && strings.HasSuffix(route, "/analyses/:id"):
		return GroupPolling
	default:
		return GroupDefault
	}
}

type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit rejects callers whose bucket for the request group is empty.
// Buckets are keyed by principal, falling back to the client IP.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = GroupDefault
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = c.ClientIP()
		}
		allowed, retryAfter := cfg.Limiter.Allow(principal+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := max(int(retryAfter/time.Millisecond), 1000)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(float64(retryAfterMs)/1000.0))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", gin.H{
			"group":        group,
			"retryAfterMs": retryAfterMs,
		})
	}
}

// Allow consumes one token from key's bucket and reports how long to wait
// when none is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: float64(rule.Burst), last: now}
		l.buckets[key] = bucket
	}
	if elapsed := now.Sub(bucket.last).Seconds(); elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	waitSec := math.Max(0, (1-bucket.tokens)/rule.Rate)
	return false, time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
}
