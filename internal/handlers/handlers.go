package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clientdesk/internal/apperr"
)

// genericFailureMessage is shown to end users when an internal error
// occurs and the descriptor is suppressed.
const genericFailureMessage = "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondClientError writes the 401 rejection envelope: an English
// error_message for the caller's logs and a Korean user_error_message
// suitable for direct display.
func respondClientError(w http.ResponseWriter, errorMessage, userErrorMessage string) {
	respondJSON(w, http.StatusUnauthorized, map[string]any{
		"error_message":      errorMessage,
		"user_error_message": userErrorMessage,
	})
}

// respondAuthRejected writes the fixed token-failure envelope shared
// with the auth middleware.
func respondAuthRejected(w http.ResponseWriter) {
	respondJSON(w, http.StatusForbidden, map[string]any{
		"auth":  false,
		"token": nil,
	})
}

// failureDescriptor is the diagnostic body attached to 500 responses
// outside production.
type failureDescriptor struct {
	Type           string `json:"type"`
	Path           string `json:"path"`
	Identity       string `json:"identity"`
	Time           string `json:"time"`
	Status         int    `json:"status"`
	DisplayMessage string `json:"display_message"`
	CorrelationID  string `json:"correlation_id"`
	QueryIndex     *int   `json:"query_index,omitempty"`
}

// respondFailure logs the full error with a correlation id and answers
// with 500. In production only the safe display message and the
// correlation id go out; otherwise the full descriptor does.
func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, actor string, err error) {
	correlationID := uuid.NewString()
	kind := apperr.KindOf(err)

	fields := []zap.Field{
		zap.String("correlation_id", correlationID),
		zap.String("kind", kind.String()),
		zap.String("path", r.Method+" "+r.URL.Path),
		zap.String("identity", actor),
		zap.Error(err),
	}
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.QueryIndex >= 0 {
		fields = append(fields, zap.Int("query_index", ae.QueryIndex))
	}
	h.logger.Error("request failed", fields...)

	if h.cfg.Production() {
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"display_message": genericFailureMessage,
			"correlation_id":  correlationID,
		})
		return
	}

	desc := failureDescriptor{
		Type:           kind.String(),
		Path:           r.Method + " " + r.URL.Path,
		Identity:       actor,
		Time:           time.Now().UTC().Format(time.RFC3339),
		Status:         http.StatusInternalServerError,
		DisplayMessage: genericFailureMessage,
		CorrelationID:  correlationID,
	}
	if ae != nil && ae.QueryIndex >= 0 {
		qi := ae.QueryIndex
		desc.QueryIndex = &qi
	}
	respondJSON(w, http.StatusInternalServerError, desc)
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}
