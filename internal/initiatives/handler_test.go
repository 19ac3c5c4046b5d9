package initiatives_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/bootstrap"
	"sim-backend/internal/shared/config"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "guest-initiatives")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type initiativeBody struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	FinancialImpact       float64 `json:"financialImpact"`
	OperationalComplexity float64 `json:"operationalComplexity"`
	PriorityScore         float64 `json:"priorityScore"`
	Quadrant              string  `json:"quadrant"`
}

func TestListInitiativesForOrganization(t *testing.T) {
	router := newRouter(t)
	resp := do(router, http.MethodGet, "/api/v1/organizations/org-1/initiatives", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list struct {
		Items []initiativeBody `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Items) != 4 {
		t.Fatalf("expected 4 initiatives, got %d", len(list.Items))
	}
	first := list.Items[0]
	if first.ID != "init-1" || first.Quadrant != "Strategic Bets" {
		t.Fatalf("unexpected first initiative %+v", first)
	}

	if got := do(router, http.MethodGet, "/api/v1/organizations/missing/initiatives", nil); got.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown organization, got %d", got.Code)
	}
}

func TestCreateInitiativeRequiresDimensions(t *testing.T) {
	router := newRouter(t)
	resp := do(router, http.MethodPost, "/api/v1/organizations/org-2/initiatives", map[string]any{
		"name":                  "Care Coordination Hub",
		"financialImpact":       3.4,
		"operationalComplexity": 2.2,
		"competitiveDisruption": 3.0,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "timeUrgency") {
		t.Fatalf("expected timeUrgency in error, got %s", resp.Body.String())
	}
}

func TestCreateAndScoreInitiative(t *testing.T) {
	router := newRouter(t)
	resp := do(router, http.MethodPost, "/api/v1/organizations/org-2/initiatives", map[string]any{
		"name":                  "Care Coordination Hub",
		"financialImpact":       3.8,
		"operationalComplexity": 2.1,
		"competitiveDisruption": 3.0,
		"timeUrgency":           4.2,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created initiativeBody
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.PriorityScore != 3.2 || created.Quadrant != "Quick Wins" {
		t.Fatalf("unexpected scoring %+v", created)
	}
}

func TestMoveInitiative(t *testing.T) {
	router := newRouter(t)
	resp := do(router, http.MethodPost, "/api/v1/initiatives/init-2/move", map[string]any{
		"quadrant":      "Money Pits",
		"justification": "Vendor costs doubled",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var moved struct {
		Initiative       initiativeBody `json:"initiative"`
		PreviousQuadrant string         `json:"previousQuadrant"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&moved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if moved.PreviousQuadrant != "Quick Wins" || moved.Initiative.Quadrant != "Money Pits" {
		t.Fatalf("unexpected move %+v", moved)
	}
	if !strings.Contains(moved.Initiative.Description, "[Quadrant Change] Moved to Money Pits: Vendor costs doubled") {
		t.Fatalf("expected audit note in description, got %q", moved.Initiative.Description)
	}

	bad := do(router, http.MethodPost, "/api/v1/initiatives/init-2/move", map[string]any{"quadrant": "Moonshots", "justification": "x"})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown quadrant, got %d", bad.Code)
	}
}

func TestDeleteInitiative(t *testing.T) {
	router := newRouter(t)
	if got := do(router, http.MethodDelete, "/api/v1/initiatives/init-5", nil); got.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", got.Code)
	}
	if got := do(router, http.MethodGet, "/api/v1/initiatives/init-5", nil); got.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got.Code)
	}
}
