// Package server exposes the calculators, their history and saved preferences
// over a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/service"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/output"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	service        *service.Service
	logger         *zap.Logger
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(svc *service.Service, logger *zap.Logger, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{service: svc, logger: logger, maxRequestSize: maxRequestSize, version: trimmedVersion}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/calculators", h.handleCatalog)
	mux.HandleFunc("GET /api/calculators/{type}", h.handleDefinition)
	mux.HandleFunc("POST /api/calculators/{type}", h.handleCalculate)
	mux.HandleFunc("GET /api/history/{type}", h.handleHistory)
	mux.HandleFunc("GET /api/preferences/{type}", h.handleGetPreferences)
	mux.HandleFunc("PUT /api/preferences/{type}", h.handlePutPreferences)
	mux.HandleFunc("GET /api/version", h.handleVersion)
	return mux
}

type catalogResponse struct {
	Calculators []calculator.Definition `json:"calculators"`
}

type calculationResponse struct {
	Type   string                 `json:"type"`
	Input  map[string]any         `json:"input"`
	Result map[string]any         `json:"result"`
	Series []finance.SeriesPoint  `json:"series,omitempty"`
	Record *storage.HistoryRecord `json:"record,omitempty"`
}

type historyResponse struct {
	Type    string                  `json:"type"`
	Records []storage.HistoryRecord `json:"records"`
}

type errorResponse struct {
	Error      string                          `json:"error"`
	Violations []*validation.InvalidInputError `json:"violations,omitempty"`
}

var contentTypes = map[string]string{
	constants.OutputFormatPretty: "text/plain; charset=utf-8",
	constants.OutputFormatCSV:    "text/csv; charset=utf-8",
	constants.OutputFormatYAML:   "application/yaml",
	constants.OutputFormatPDF:    "application/pdf",
}

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, catalogResponse{Calculators: h.service.Catalog()})
}

func (h *handler) handleDefinition(w http.ResponseWriter, r *http.Request) {
	def, err := h.service.Definition(r.Context(), r.PathValue("type"))
	if err != nil {
		h.respondErr(w, err, "server.handleDefinition")
		return
	}
	h.writeJSON(w, http.StatusOK, def)
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	calculatorType := r.PathValue("type")

	outputFormat, ok := h.documentFormat(w, r, op)
	if !ok {
		return
	}
	input, ok := h.decodeBody(w, r, op)
	if !ok {
		return
	}

	var opts []service.CalculateOption
	if queryBool(r, "preferences") {
		opts = append(opts, service.WithPreferences())
	}

	var (
		out    *calculator.Output
		record *storage.HistoryRecord
		err    error
	)
	if queryBool(r, "save") {
		out, record, err = h.service.CalculateAndSave(r.Context(), calculatorType, input, opts...)
	} else {
		out, err = h.service.Calculate(r.Context(), calculatorType, input, opts...)
	}
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	doc, err := service.Document(out, queryBool(r, "raw"))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	if outputFormat != "" {
		h.writeDocument(w, outputFormat, calculatorType, op, func(buf io.Writer) error {
			return output.Write(buf, outputFormat, doc)
		})
		return
	}

	h.writeJSON(w, http.StatusOK, calculationResponse{
		Type:   doc.Type,
		Input:  doc.Input,
		Result: doc.Result,
		Series: doc.Series,
		Record: record,
	})
}

func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHistory"
	calculatorType := r.PathValue("type")

	outputFormat, ok := h.documentFormat(w, r, op)
	if !ok {
		return
	}

	records, err := h.service.History(r.Context(), calculatorType)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	if outputFormat != "" {
		docs := service.HistoryDocuments(records)
		h.writeDocument(w, outputFormat, calculatorType+"-history", op, func(buf io.Writer) error {
			return output.WriteAll(buf, outputFormat, docs)
		})
		return
	}
	h.writeJSON(w, http.StatusOK, historyResponse{Type: calculatorType, Records: records})
}

func (h *handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Preferences(r.Context(), r.PathValue("type"))
	if err != nil {
		h.respondErr(w, err, "server.handleGetPreferences")
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

func (h *handler) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePutPreferences"
	defaults, ok := h.decodeBody(w, r, op)
	if !ok {
		return
	}

	record, err := h.service.SavePreferences(r.Context(), r.PathValue("type"), defaults)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// documentFormat returns the requested document format, or "" for the JSON API
// response.
func (h *handler) documentFormat(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	outputFormat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if outputFormat == "" || outputFormat == constants.OutputFormatJSON {
		return "", true
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: err.Error()}, op)
		return "", false
	}
	return outputFormat, true
}

// decodeBody reads a JSON object body. An empty body is an empty object.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, op string) (map[string]any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize),
			}, op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to read request: %v", err)}, op)
		return nil, false
	}

	payload := map[string]any{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("expected a JSON object: %v", err),
			}, op)
			return nil, false
		}
		if payload == nil {
			payload = map[string]any{}
		}
	}
	return payload, true
}

func (h *handler) writeDocument(w http.ResponseWriter, outputFormat, name, op string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, errorResponse{Error: err.Error()}, op)
		return
	}

	w.Header().Set("Content-Type", contentTypes[outputFormat])
	if outputFormat == constants.OutputFormatPDF || outputFormat == constants.OutputFormatCSV {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+outputFormat))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write response", zap.String("op", op), zap.Error(err))
	}
}

// statusFor maps an error from the service to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, calculator.ErrUnknownCalculator):
		return http.StatusNotFound
	case errors.Is(err, calculator.ErrUndefinedResult):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrMalformedRecord):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondErr(w http.ResponseWriter, err error, op string) {
	h.respondErrorWithOp(w, statusFor(err), errorResponse{
		Error:      err.Error(),
		Violations: validation.Violations(err),
	}, op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, body errorResponse, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", body.Error),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Warn("request rejected", fields...)
	}

	h.writeJSON(w, status, body)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func queryBool(r *http.Request, key string) bool {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	return err == nil && parsed
}
