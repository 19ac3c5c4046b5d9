package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestIDPropagatesOrMints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "supplied", header: "req-123_abc.9", wantSame: true},
		{name: "missing", header: ""},
		{name: "unsafe characters", header: "req 1\"}"},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLen+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			got := resp.Header().Get(RequestIDHeader)
			if got != resp.Body.String() {
				t.Fatalf("header %q and context %q differ", got, resp.Body.String())
			}
			if tt.wantSame {
				if got != tt.header {
					t.Fatalf("expected %q to be kept, got %q", tt.header, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected a minted uuid, got %q", got)
			}
		})
	}
}
