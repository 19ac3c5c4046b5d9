package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"sim-backend/internal/members"
	sharedauth "sim-backend/internal/shared/auth"
	"sim-backend/internal/shared/server/respond"
	"sim-backend/internal/shared/telemetry"
	"sim-backend/internal/sim"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// MemberStore persists signed-in executives.
type MemberStore interface {
	UpsertFromAuth(ctx context.Context, member members.Member) (members.Member, error)
	SetRole(ctx context.Context, memberID, rawRole, organizationID string) (members.Member, error)
}

// GoogleService signs executives in with Google and issues session tokens
// carrying their role and organization.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	stateTTL    time.Duration
	pending     *pendingLogins
	members     MemberStore
}

// NewGoogleService builds a GoogleService. memberStore may be nil, in which
// case tokens carry only the Google identity.
func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, memberStore MemberStore) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect: uiRedirect,
		stateTTL:   5 * time.Minute,
		pending:    newPendingLogins(time.Now),
		members:    memberStore,
	}
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

// start redirects to Google. Optional role and organizationId query values
// seed the profile of an executive signing in for the first time.
func (s *GoogleService) start(c *gin.Context) {
	if s.oauthConfig.ClientID == "" || s.oauthConfig.ClientSecret == "" || s.oauthConfig.RedirectURL == "" {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	login := pendingLogin{organizationID: strings.TrimSpace(c.Query("organizationId"))}
	if raw := c.Query("role"); raw != "" {
		role, err := sim.ParseRole(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), respond.FieldDetails{Field: "role", Value: raw})
			return
		}
		login.role = role
	}

	state := uuid.NewString()
	s.pending.put(state, login, s.stateTTL)
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	login, ok := s.pending.consume(state)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil || info.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	jwt, err := s.issueToken(ctx, info, login)
	if err != nil {
		telemetry.Error("auth.google.issue_failed", map[string]any{"sub": info.Sub, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign in", nil)
		return
	}

	redirectURL, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// issueToken upserts the member and signs a token. A requested role is only
// applied when the member has none yet; later changes go through PUT /me/role.
func (s *GoogleService) issueToken(ctx context.Context, info googleUserInfo, login pendingLogin) (string, error) {
	claims := sharedauth.Claims{
		Sub:     "google:" + info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}
	if s.members != nil {
		member, err := s.members.UpsertFromAuth(ctx, members.Member{
			ID:             claims.Sub,
			Email:          info.Email,
			Name:           info.Name,
			PictureURL:     info.Picture,
			AuthProvider:   "google",
			ProviderUserID: info.Sub,
		})
		if err != nil {
			return "", fmt.Errorf("save member: %w", err)
		}
		if member.Role == "" && login.role != "" {
			member, err = s.members.SetRole(ctx, member.ID, string(login.role), login.organizationID)
			if err != nil {
				return "", fmt.Errorf("assign role: %w", err)
			}
		}
		claims.Role = string(member.Role)
		claims.OrganizationID = member.OrganizationID
	}

	telemetry.Info("auth.google.login", map[string]any{
		"user_id":         claims.Sub,
		"role":            claims.Role,
		"organization_id": claims.OrganizationID,
	})
	return sharedauth.SignJWT(claims)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	resp, err := s.oauthConfig.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	// The v2 endpoint reports the subject as "id".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

// pendingLogin is what start remembers about a login until the callback.
type pendingLogin struct {
	role           sim.Role
	organizationID string
	expires        time.Time
}

type pendingLogins struct {
	mu    sync.Mutex
	items map[string]pendingLogin
	now   func() time.Time
}

func newPendingLogins(now func() time.Time) *pendingLogins {
	return &pendingLogins{items: make(map[string]pendingLogin), now: now}
}

// put records a login and drops expired ones abandoned before the callback.
func (p *pendingLogins) put(state string, login pendingLogin, ttl time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	for k, v := range p.items {
		if now.After(v.expires) {
			delete(p.items, k)
		}
	}
	login.expires = now.Add(ttl)
	p.items[state] = login
}

// consume returns the login for state at most once.
func (p *pendingLogins) consume(state string) (pendingLogin, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	login, ok := p.items[state]
	if !ok {
		return pendingLogin{}, false
	}
	delete(p.items, state)
	if p.now().After(login.expires) {
		return pendingLogin{}, false
	}
	return login, true
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
