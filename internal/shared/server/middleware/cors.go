package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsMaxAgeSeconds = "600"

var (
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "Authorization", GuestHeader, RequestIDHeader}, ", ")
	corsExposeHeaders = strings.Join([]string{RequestIDHeader, "Retry-After"}, ", ")
)

// originMatcher matches exact origins and "scheme://*.domain" patterns, so one
// entry covers every hospital dashboard subdomain.
type originMatcher struct {
	exact    map[string]struct{}
	suffixes []string
}

func newOriginMatcher(allowed []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{})}
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if scheme, host, ok := strings.Cut(o, "://*."); ok && host != "" {
			m.suffixes = append(m.suffixes, scheme+"://|."+host)
			continue
		}
		m.exact[o] = struct{}{}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, pattern := range m.suffixes {
		scheme, suffix, _ := strings.Cut(pattern, "|")
		rest, ok := strings.CutPrefix(origin, scheme)
		if ok && strings.HasSuffix(rest, suffix) && len(rest) > len(suffix) && !strings.ContainsAny(rest, "/:") {
			return true
		}
	}
	return false
}

// CORS sets CORS headers for allowed origins and answers preflight requests.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := newOriginMatcher(allowedOrigins)

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && origins.allows(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAgeSeconds)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
