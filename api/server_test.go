package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/seenimoa/finlens/internal/config"
	"github.com/seenimoa/finlens/internal/doctype"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func testConfig() *config.Config {
	return &config.Config{
		Normalize: config.NormalizeConfig{
			DefaultPeriod:  "31st March 2024",
			DefaultCompany: "XYZ",
			FiscalYearEnd:  "31-03",
			Concurrency:    2,
		},
		Format: config.FormatConfig{PercentDecimals: 2},
		API:    config.APIConfig{Host: "127.0.0.1", Port: 8080},
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(testConfig(), doctype.Default(), zerolog.Nop())
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func dataMap(t *testing.T, resp APIResponse) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data should be a map, got %T", resp.Data)
	}
	return data
}

// ════════════════════════════════════════════════════════════════════
// APIResponse type tests
// ════════════════════════════════════════════════════════════════════

func TestAPIResponseJSON(t *testing.T) {
	tests := []struct {
		name string
		resp APIResponse
	}{
		{
			name: "success with data",
			resp: APIResponse{Success: true, Data: map[string]string{"key": "value"}},
		},
		{
			name: "error",
			resp: APIResponse{Success: false, Error: "something went wrong"},
		},
		{
			name: "success with nil data",
			resp: APIResponse{Success: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			var got APIResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if got.Success != tt.resp.Success {
				t.Errorf("Success: got %v, want %v", got.Success, tt.resp.Success)
			}
			if got.Error != tt.resp.Error {
				t.Errorf("Error: got %q, want %q", got.Error, tt.resp.Error)
			}
		})
	}
}

// ════════════════════════════════════════════════════════════════════
// Health
// ════════════════════════════════════════════════════════════════════

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := do(t, srv, "GET", path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status: got %d, want %d", path, rec.Code, http.StatusOK)
		}
		data := dataMap(t, decodeResponse(t, rec))
		if data["status"] != "ok" {
			t.Errorf("status: got %q", data["status"])
		}
		for _, key := range []string{"version", "time_ist"} {
			if _, ok := data[key]; !ok {
				t.Errorf("missing %s", key)
			}
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Document types
// ════════════════════════════════════════════════════════════════════

func TestHandleDocumentTypes(t *testing.T) {
	rec := do(t, testServer(t), "GET", "/api/v1/document-types", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	list, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("data should be a list, got %T", resp.Data)
	}
	if len(list) != 11 {
		t.Errorf("expected 11 document types, got %d", len(list))
	}
}

func TestHandleDocumentType(t *testing.T) {
	tests := []struct {
		path   string
		status int
		label  string
	}{
		{"/api/v1/document-types/gst_return", http.StatusOK, "GST Return"},
		{"/api/v1/document-types/trial_balance", http.StatusOK, "Trial Balance"},
		{"/api/v1/document-types/nonsense", http.StatusNotFound, ""},
	}
	srv := testServer(t)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, srv, "GET", tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.status)
			}
			resp := decodeResponse(t, rec)
			if tt.status != http.StatusOK {
				if resp.Success || resp.Error == "" {
					t.Errorf("expected error envelope, got %+v", resp)
				}
				return
			}
			if got := dataMap(t, resp)["label"]; got != tt.label {
				t.Errorf("label: got %v, want %q", got, tt.label)
			}
		})
	}
}

// ════════════════════════════════════════════════════════════════════
// Normalization
// ════════════════════════════════════════════════════════════════════

const analysisResult = `{
	"document_type": "trial_balance",
	"company_name": "Acme Industries",
	"period": "31st March 2024",
	"reports": {
		"balance_sheet": {"equity": {"share_capital": 500000}},
		"accounting_ratios": {"current_ratio": 1.2},
		"broken": "oops"
	}
}`

func TestHandleNormalize(t *testing.T) {
	rec := do(t, testServer(t), "POST", "/api/v1/normalize", analysisResult)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Run-ID") == "" {
		t.Error("expected X-Run-ID header")
	}

	data := dataMap(t, decodeResponse(t, rec))
	if data["company_name"] != "Acme Industries" {
		t.Errorf("company_name: got %v", data["company_name"])
	}
	records, ok := data["records"].(map[string]interface{})
	if !ok {
		t.Fatalf("records should be a map, got %T", data["records"])
	}
	for _, name := range []string{"balance_sheet", "accounting_ratios", "broken"} {
		if _, ok := records[name]; !ok {
			t.Errorf("missing record %s", name)
		}
	}

	broken := records["broken"].(map[string]interface{})
	if _, ok := broken["diagnostics"]; !ok {
		t.Error("non-object report should carry a diagnostic")
	}
}

func TestHandleNormalize_TrailingComma(t *testing.T) {
	body := `{"reports": {"profit_loss": {"revenue": 1000,},}}`
	rec := do(t, testServer(t), "POST", "/api/v1/normalize", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestHandleNormalize_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"empty body", "/api/v1/normalize", ""},
		{"unknown format", "/api/v1/normalize?format=pdf", analysisResult},
	}
	srv := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, "POST", tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if resp := decodeResponse(t, rec); resp.Success {
				t.Error("expected success=false")
			}
		})
	}
}

func TestHandleNormalize_HTML(t *testing.T) {
	rec := do(t, testServer(t), "POST", "/api/v1/normalize?format=html", analysisResult)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"Balance Sheet", "Analytical Ratios", "Acme Industries"} {
		if !strings.Contains(body, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestHandleReport_RawPayload(t *testing.T) {
	body := `{"company_name": "Acme", "equity": {"share_capital": 100, "reserves_and_surplus": 0}}`
	rec := do(t, testServer(t), "POST", "/api/v1/reports/balance_sheet", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	data := dataMap(t, decodeResponse(t, rec))
	if data["kind"] != "balance_sheet" {
		t.Errorf("kind: got %v", data["kind"])
	}
	if data["missing_display"] != "0.00" {
		t.Errorf("missing_display: got %v", data["missing_display"])
	}
	items, _ := data["items"].([]interface{})
	if len(items) == 0 {
		t.Fatal("expected line items")
	}
	first := items[0].(map[string]interface{})
	if first["key"] != "share_capital" || first["value"] != 100.0 {
		t.Errorf("first item: got %v", first)
	}
}

func TestHandleReport_FromResult(t *testing.T) {
	rec := do(t, testServer(t), "POST", "/api/v1/reports/balance_sheet", analysisResult)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	data := dataMap(t, decodeResponse(t, rec))
	if data["company_name"] != "Acme Industries" {
		t.Errorf("company_name should come from the result header, got %v", data["company_name"])
	}
}

func TestHandleReport_Text(t *testing.T) {
	body := `{"operating_activities": {"income_tax_paid": -25000}}`
	rec := do(t, testServer(t), "POST", "/api/v1/reports/cash_flow?format=text", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "(25,000)") {
		t.Error("expected negative cash flow in parentheses")
	}
}

func TestHandleRatios(t *testing.T) {
	body := `{
		"liquidity": {"currentAssets": 300, "currentLiabilities": 200},
		"balanceSheet": {"inventory": 0}
	}`
	rec := do(t, testServer(t), "POST", "/api/v1/ratios", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	data := dataMap(t, decodeResponse(t, rec))
	groups, _ := data["groups"].([]interface{})
	if len(groups) == 0 {
		t.Fatal("expected ratio groups")
	}

	found := false
	for _, g := range groups {
		for _, r := range g.(map[string]interface{})["ratios"].([]interface{}) {
			ratio := r.(map[string]interface{})
			if ratio["key"] != "quickRatio" {
				continue
			}
			found = true
			if ratio["value"] != 1.5 {
				t.Errorf("quickRatio: got %v, want 1.5", ratio["value"])
			}
			if ratio["source"] != "derived" {
				t.Errorf("source: got %v", ratio["source"])
			}
		}
	}
	if !found {
		t.Error("quickRatio missing from ratio set")
	}
}

// ════════════════════════════════════════════════════════════════════
// Config and auth
// ════════════════════════════════════════════════════════════════════

func TestHandleGetConfig(t *testing.T) {
	cfg := testConfig()
	cfg.API.AuthToken = "super-secret-token"
	srv := NewServer(cfg, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/config", nil)
	req.Header.Set("Authorization", "Bearer super-secret-token")
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "super-secret-token") {
		t.Error("auth token must be masked")
	}
	data := dataMap(t, decodeResponse(t, rec))
	settings, _ := data["settings"].([]interface{})
	if len(settings) != 6 {
		t.Errorf("expected 6 settings, got %d", len(settings))
	}
}

func TestRequireToken(t *testing.T) {
	cfg := testConfig()
	cfg.API.AuthToken = "s3cret"
	srv := NewServer(cfg, nil, zerolog.Nop())

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"health is open", "/health", "", http.StatusOK},
		{"missing token", "/api/v1/document-types", "", http.StatusUnauthorized},
		{"wrong token", "/api/v1/document-types", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/api/v1/document-types", "Bearer s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			srv.Router().ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.API.CORSOrigins = []string{"http://localhost:3000"}
	srv := NewServer(cfg, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/v1/normalize", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin: got %q", got)
	}
}

func TestNormalizerOptions(t *testing.T) {
	opts := NormalizerOptions(testConfig())
	if opts.FiscalYearEnd != "31-03" || opts.Concurrency != 2 {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestThrottle(t *testing.T) {
	cfg := testConfig()
	cfg.API.RateLimit = 1
	srv := NewServer(cfg, nil, zerolog.Nop())

	first := do(t, srv, "POST", "/api/v1/ratios", `{"current_assets": 1}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: got %d", first.Code)
	}
	second := do(t, srv, "POST", "/api/v1/ratios", `{"current_assets": 1}`)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	if rec := do(t, srv, "GET", "/api/v1/document-types", ""); rec.Code != http.StatusOK {
		t.Errorf("GET routes are not throttled, got %d", rec.Code)
	}
}
