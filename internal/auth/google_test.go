package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/members"
	sharedauth "sim-backend/internal/shared/auth"
	"sim-backend/internal/sim"
)

func TestPendingLoginsConsumeOnce(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	p := newPendingLogins(func() time.Time { return now })
	p.put("fresh", pendingLogin{role: sim.RoleCFO, organizationID: "org-1"}, time.Minute)
	p.put("stale", pendingLogin{}, time.Second)

	now = now.Add(2 * time.Second)
	login, ok := p.consume("fresh")
	if !ok || login.role != sim.RoleCFO || login.organizationID != "org-1" {
		t.Fatalf("fresh state should be accepted, got %+v ok=%v", login, ok)
	}
	if _, ok := p.consume("fresh"); ok {
		t.Fatalf("state must not be reusable")
	}
	if _, ok := p.consume("stale"); ok {
		t.Fatalf("expired state should be rejected")
	}
	if _, ok := p.consume("unknown"); ok {
		t.Fatalf("unknown state should be rejected")
	}
}

func TestPendingLoginsDropAbandonedStates(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	p := newPendingLogins(func() time.Time { return now })
	p.put("abandoned", pendingLogin{}, time.Minute)

	now = now.Add(2 * time.Minute)
	p.put("next", pendingLogin{}, time.Minute)
	if _, ok := p.items["abandoned"]; ok || len(p.items) != 1 {
		t.Fatalf("expected abandoned state to be dropped, have %d", len(p.items))
	}
}

type fakeMembers struct {
	stored  map[string]members.Member
	setRole int
}

func (f *fakeMembers) UpsertFromAuth(_ context.Context, m members.Member) (members.Member, error) {
	if existing, ok := f.stored[m.ID]; ok {
		m.Role = existing.Role
		m.OrganizationID = existing.OrganizationID
	}
	f.stored[m.ID] = m
	return m, nil
}

func (f *fakeMembers) SetRole(_ context.Context, id, rawRole, orgID string) (members.Member, error) {
	f.setRole++
	role, err := sim.ParseRole(rawRole)
	if err != nil {
		return members.Member{}, err
	}
	m := f.stored[id]
	m.Role = role
	m.OrganizationID = orgID
	f.stored[id] = m
	return m, nil
}

func TestIssueTokenAppliesRequestedRoleOnFirstLogin(t *testing.T) {
	store := &fakeMembers{stored: map[string]members.Member{}}
	svc := NewGoogleService("client", "secret", "https://api.example/cb", "https://app.example", store)
	info := googleUserInfo{Sub: "123", Email: "cfo@regional.example", Name: "Dana"}

	token, err := svc.issueToken(context.Background(), info, pendingLogin{role: sim.RoleCFO, organizationID: "org-1"})
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	claims, err := sharedauth.VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "google:123" || claims.Role != "CFO" || claims.OrganizationID != "org-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	token, err = svc.issueToken(context.Background(), info, pendingLogin{role: sim.RoleCOO})
	if err != nil {
		t.Fatalf("second issueToken: %v", err)
	}
	claims, _ = sharedauth.VerifyJWT(token)
	if claims.Role != "CFO" || store.setRole != 1 {
		t.Fatalf("existing role should be kept, got %q after %d SetRole calls", claims.Role, store.setRole)
	}
}

func TestStartRejectsUnknownRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewGoogleService("client", "secret", "https://api.example/cb", "https://app.example", nil).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/start?role=CTO", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("https://app.example/callback?tab=matrix", "abc.def.ghi")
	if err != nil {
		t.Fatalf("appendToken: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Query().Get("token") != "abc.def.ghi" || u.Query().Get("tab") != "matrix" {
		t.Fatalf("unexpected redirect %q", got)
	}
	if _, err := appendToken("", "t"); err == nil {
		t.Fatalf("expected error for empty redirect")
	}
}

func TestStartRequiresConfiguration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewGoogleService("", "", "", "", nil).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/start", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestStartRedirectsToGoogle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewGoogleService("client", "secret", "https://api.example/auth/google/callback", "https://app.example", nil).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/start", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil || loc.Query().Get("state") == "" || loc.Query().Get("client_id") != "client" {
		t.Fatalf("unexpected redirect %q", w.Header().Get("Location"))
	}
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewGoogleService("client", "secret", "https://api.example/cb", "https://app.example", nil).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=nope&code=x", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
