package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"verifyzen/internal/shared/config"
)

func buildTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("VZ_SQS_QUEUE_URL", "")

	app, err := Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		CORSAllowOrigin: []string{"http://localhost:3000"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *App, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func registerUser(t *testing.T, app *App, email string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     email,
		"password":  "correct-horse-battery",
		"firstName": "Rita",
		"lastName":  "Book",
		"company":   "Acme Staffing",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if out.Token == "" {
		t.Fatal("expected a token from registration")
	}
	return out.Token
}

func TestHealthAndMetricsUnauthenticated(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/health", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", resp.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/candidates", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestVerificationFlowEndToEnd(t *testing.T) {
	app := buildTestApp(t)
	token := registerUser(t, app, "recruiter@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/candidates", token, map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create candidate: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var cand struct {
		CandidateID string `json:"candidateId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &cand); err != nil {
		t.Fatalf("decode candidate: %v", err)
	}

	resp = doJSON(t, app, http.MethodPut, "/api/v1/candidates/"+cand.CandidateID+"/timeline", token, []map[string]any{
		{
			"entryType":    "work",
			"title":        "Engineer",
			"organization": "Initech",
			"startDate":    "2015-01-01",
			"endDate":      "2017-06-30",
		},
		{
			"entryType":    "work",
			"title":        "Senior Engineer",
			"organization": "Globex",
			"startDate":    "2018-03-01",
			"endDate":      "2020-12-31",
		},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("replace timeline: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, app, http.MethodPost, "/api/v1/verifications", token, map[string]any{
		"candidateId":      cand.CandidateID,
		"verificationType": "timeline",
	})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("start verification: expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	var started struct {
		VerificationID string `json:"verificationId"`
		Status         string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if started.VerificationID == "" {
		t.Fatal("expected a verification id")
	}

	// Processing happens on a background goroutine; poll until it settles.
	var final struct {
		Status    string `json:"status"`
		RiskScore int    `json:"riskScore"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp = doJSON(t, app, http.MethodGet, "/api/v1/verifications/"+started.VerificationID, token, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("get verification: expected 200, got %d: %s", resp.Code, resp.Body.String())
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &final); err != nil {
			t.Fatalf("decode verification: %v", err)
		}
		if final.Status == "completed" || final.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("verification did not settle, last status %q", final.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if final.Status != "completed" {
		t.Fatalf("expected completed verification, got %q", final.Status)
	}
	// The eight-month break between Initech and Globex is a high severity gap.
	if final.RiskScore < 15 {
		t.Fatalf("expected gap to contribute risk, got score %d", final.RiskScore)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/reports/"+started.VerificationID, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("get report: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var report struct {
		Markdown string `json:"markdown"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Markdown == "" {
		t.Fatal("expected rendered report markdown")
	}
}
