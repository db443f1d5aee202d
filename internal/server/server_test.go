package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/service"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(repo storage.Repository) http.Handler {
	return NewHandler(service.New(repo, nil), nil, 0, "1.2.3")
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), "body: %s", rr.Body.String())
	return payload
}

func TestHandleCatalog(t *testing.T) {
	rr := do(t, newTestHandler(nil), http.MethodGet, "/api/calculators", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	calculators, ok := decode(t, rr)["calculators"].([]any)
	require.True(t, ok)
	assert.Len(t, calculators, len(calculator.Types()))
}

func TestHandleDefinition(t *testing.T) {
	h := newTestHandler(nil)

	rr := do(t, h, http.MethodGet, "/api/calculators/sip", "")
	require.Equal(t, http.StatusOK, rr.Code)
	payload := decode(t, rr)
	assert.Equal(t, "sip", payload["type"])
	assert.Equal(t, "investment", payload["category"])
	assert.Equal(t, 5000.0, payload["defaults"].(map[string]any)["monthlyInvestment"])

	rr = do(t, h, http.MethodGet, "/api/calculators/lottery", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleCalculate(t *testing.T) {
	h := newTestHandler(nil)

	rr := do(t, h, http.MethodPost, "/api/calculators/emi", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	payload := decode(t, rr)
	result := payload["result"].(map[string]any)
	assert.Equal(t, 4339.0, result["emi"])
	assert.Equal(t, 500000.0, payload["input"].(map[string]any)["principal"])
	assert.NotEmpty(t, payload["series"])
	assert.NotContains(t, payload, "record")

	rr = do(t, h, http.MethodPost, "/api/calculators/emi?raw=true", `{"principal": "500000"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	result = decode(t, rr)["result"].(map[string]any)
	assert.InDelta(t, 4339.12, result["emi"], 0.01)
}

func TestHandleCalculateErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{name: "invalid input", target: "/api/calculators/emi", body: `{"principal": -1}`, status: http.StatusBadRequest},
		{name: "unknown key", target: "/api/calculators/emi", body: `{"colour": "blue"}`, status: http.StatusBadRequest},
		{name: "unknown calculator", target: "/api/calculators/lottery", body: `{}`, status: http.StatusNotFound},
		{name: "malformed json", target: "/api/calculators/emi", body: `{"principal":`, status: http.StatusBadRequest},
		{name: "not an object", target: "/api/calculators/emi", body: `[1, 2]`, status: http.StatusBadRequest},
		{name: "unknown format", target: "/api/calculators/emi?format=xml", body: `{}`, status: http.StatusBadRequest},
		{name: "save without storage", target: "/api/calculators/emi?save=true", body: `{}`, status: http.StatusServiceUnavailable},
		{name: "save unknown calculator without storage", target: "/api/calculators/lottery?save=true", body: `{}`, status: http.StatusNotFound},
	}

	h := newTestHandler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decode(t, rr)["error"])
		})
	}
}

func TestHandleCalculateReportsViolations(t *testing.T) {
	rr := do(t, newTestHandler(nil), http.MethodPost, "/api/calculators/emi", `{"principal": -1, "rate": 0}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		Error      string `json:"error"`
		Violations []struct {
			Field      string `json:"field"`
			Constraint string `json:"constraint"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	fields := make([]string, 0, len(body.Violations))
	for _, v := range body.Violations {
		fields = append(fields, v.Field)
		assert.NotEmpty(t, v.Constraint)
	}
	assert.Contains(t, fields, "principal")
	assert.Contains(t, fields, "rate")
}

func TestHandleCalculateRequestTooLarge(t *testing.T) {
	h := NewHandler(service.New(nil, nil), nil, 16, "")
	rr := do(t, h, http.MethodPost, "/api/calculators/emi", `{"principal": 500000, "rate": 8.5}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestHandleCalculateDocuments(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{format: "csv", contentType: "text/csv; charset=utf-8", prefix: "calculator,section,field,value"},
		{format: "pretty", contentType: "text/plain; charset=utf-8", prefix: "--- GST Calculator (gst) ---"},
		{format: "yaml", contentType: "application/yaml", prefix: "title: GST Calculator"},
		{format: "pdf", contentType: "application/pdf", prefix: "%PDF-"},
	}

	h := newTestHandler(nil)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/calculators/gst?format="+tt.format, `{"amount": 1000}`)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, tt.contentType, rr.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte(tt.prefix)), "body: %.80s", rr.Body.String())
		})
	}

	rr := do(t, h, http.MethodPost, "/api/calculators/gst?format=pdf", `{}`)
	assert.Equal(t, `attachment; filename="gst.pdf"`, rr.Header().Get("Content-Disposition"))
}

func TestHandleSaveAndHistory(t *testing.T) {
	h := newTestHandler(storage.NewMemoryStore(nil))

	rr := do(t, h, http.MethodGet, "/api/history/emi", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode(t, rr)["records"])

	rr = do(t, h, http.MethodPost, "/api/calculators/emi?save=true", `{"tenure": 10}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	record := decode(t, rr)["record"].(map[string]any)
	assert.NotEmpty(t, record["id"])

	rr = do(t, h, http.MethodGet, "/api/history/emi", "")
	require.Equal(t, http.StatusOK, rr.Code)
	payload := decode(t, rr)
	assert.Equal(t, "emi", payload["type"])
	records := payload["records"].([]any)
	require.Len(t, records, 1)
	saved := records[0].(map[string]any)
	assert.Equal(t, record["id"], saved["id"])
	assert.Equal(t, 10.0, saved["input"].(map[string]any)["tenure"])

	rr = do(t, h, http.MethodGet, "/api/history/emi?format=csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "emi,input,tenure,10")

	rr = do(t, h, http.MethodGet, "/api/history/lottery", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlePreferences(t *testing.T) {
	h := newTestHandler(storage.NewMemoryStore(nil))

	rr := do(t, h, http.MethodGet, "/api/preferences/sip", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/preferences/sip", `{"monthlyInvestment": 1000, "years": 1}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "sip", decode(t, rr)["calculatorType"])

	rr = do(t, h, http.MethodGet, "/api/preferences/sip", "")
	require.Equal(t, http.StatusOK, rr.Code)
	defaults := decode(t, rr)["defaultValues"].(map[string]any)
	assert.Equal(t, 1000.0, defaults["monthlyInvestment"])
	assert.Equal(t, 12.0, defaults["expectedReturn"])

	rr = do(t, h, http.MethodGet, "/api/calculators/sip", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1.0, decode(t, rr)["defaults"].(map[string]any)["years"])

	rr = do(t, h, http.MethodPost, "/api/calculators/sip?preferences=true&raw=true", `{}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.InDelta(t, 12809.33, decode(t, rr)["result"].(map[string]any)["maturityValue"], 0.01)

	rr = do(t, h, http.MethodPut, "/api/preferences/sip", `{"years": "ten"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlePreferencesWithoutStorage(t *testing.T) {
	h := newTestHandler(nil)

	rr := do(t, h, http.MethodPut, "/api/preferences/sip", `{"years": 15}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	rr = do(t, h, http.MethodGet, "/api/preferences/sip", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandleVersion(t *testing.T) {
	rr := do(t, newTestHandler(nil), http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1.2.3", decode(t, rr)["version"])

	rr = do(t, NewHandler(service.New(nil, nil), nil, 0, "  "), http.MethodGet, "/api/version", "")
	assert.Equal(t, "dev", decode(t, rr)["version"])
}

func TestMethodNotAllowed(t *testing.T) {
	rr := do(t, newTestHandler(nil), http.MethodDelete, "/api/version", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{validation.NewInvalidInput("rate", "must be positive"), http.StatusBadRequest},
		{fmt.Errorf("%w: %q", calculator.ErrUnknownCalculator, "x"), http.StatusNotFound},
		{fmt.Errorf("%w: cagr", calculator.ErrUndefinedResult), http.StatusUnprocessableEntity},
		{storage.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: bad json", storage.ErrMalformedRecord), http.StatusBadRequest},
		{&storage.PersistenceError{Op: "history", Err: errors.New("locked")}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	cfg := config.ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second}
	go func() {
		done <- Serve(ctx, listener, cfg, newTestHandler(nil), nil)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/api/version")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
