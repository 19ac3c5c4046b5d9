package uploads_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/bootstrap"
	"sim-backend/internal/shared/config"
)

const portfolio = `organizations:
  - id: upload-org
    name: Riverbend Critical Access
    type: Critical Access
    beds: 20
    revenue: 30000000
    market: Rural
initiatives:
  - id: upload-init
    organization_id: upload-org
    name: Mobile Clinic Program
    financial_impact: 3.9
    operational_complexity: 2.2
    competitive_disruption: 3
    time_urgency: 4.1
`

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

func upload(t *testing.T, router *gin.Engine, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if body != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="portfolio.yaml"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte(body))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/portfolio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	// Each test uploads as its own guest so the import rate limit stays per test.
	req.Header.Set("X-Guest-Id", "uploader-"+strings.ReplaceAll(t.Name(), "/", "-"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestUploadPortfolioImportsRecords(t *testing.T) {
	router := newRouter(t)

	resp := upload(t, router, "application/yaml", portfolio)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		UploadID      string `json:"uploadId"`
		ObjectKey     string `json:"objectKey"`
		Organizations []struct {
			SourceID string `json:"sourceId"`
			ID       string `json:"id"`
		} `json:"organizations"`
		InitiativeCount int `json:"initiativeCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UploadID == "" || body.ObjectKey == "" || len(body.Organizations) != 1 || body.InitiativeCount != 1 {
		t.Fatalf("unexpected response %+v", body)
	}

	orgID := body.Organizations[0].ID
	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations/"+orgID+"/initiatives", nil)
	req.Header.Set("X-Guest-Id", "reader")
	list := httptest.NewRecorder()
	router.ServeHTTP(list, req)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", list.Code, list.Body.String())
	}
	var initiatives struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := json.NewDecoder(list.Body).Decode(&initiatives); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(initiatives.Items) != 1 || initiatives.Items[0].Name != "Mobile Clinic Program" {
		t.Fatalf("unexpected initiatives %+v", initiatives.Items)
	}
}

func TestUploadPortfolioValidation(t *testing.T) {
	router := newRouter(t)

	cases := []struct {
		name        string
		contentType string
		body        string
	}{
		{"missing file", "", ""},
		{"pdf", "application/pdf", portfolio},
		{"invalid yaml", "text/yaml", "organizations: ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := upload(t, router, tc.contentType, tc.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestUploadPortfolioRateLimited(t *testing.T) {
	router := newRouter(t)

	for i := 0; i < 2; i++ {
		if resp := upload(t, router, "text/yaml", "organizations: ["); resp.Code != http.StatusBadRequest {
			t.Fatalf("upload %d expected 400, got %d", i+1, resp.Code)
		}
	}
	resp := upload(t, router, "text/yaml", "organizations: [")
	if resp.Code != http.StatusTooManyRequests || resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"group":"IMPORT"`) {
		t.Fatalf("expected IMPORT group in %s", resp.Body.String())
	}
}
