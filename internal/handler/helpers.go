package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseReportFilter reads the common query parameters shared by every
// report route: ?start_date=, ?end_date= (RFC 3339 or plain 2006-01-02)
// and ?status=.
func parseReportFilter(r *http.Request) (domain.ReportFilter, error) {
	var filter domain.ReportFilter

	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, &domain.ErrValidation{Field: "start_date", Message: "data inválida: " + v}
		}
		filter.StartDate = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, &domain.ErrValidation{Field: "end_date", Message: "data inválida: " + v}
		}
		filter.EndDate = &t
	}
	filter.Status = r.URL.Query().Get("status")

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, &domain.ErrValidation{Field: "end_date", Message: "end_date anterior a start_date"}
	}

	return filter, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", v, time.Local)
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var external *domain.ErrExternalService
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var unauthorized *domain.ErrUnauthorized

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &external):
		logger.Error("record store failure", zap.String("service", external.Service), zap.Error(err))
		writeError(w, http.StatusBadGateway, "falha ao consultar a base de dados")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
