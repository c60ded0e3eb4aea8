package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/logger"
)

// URL parameter names
const (
	ParamPlatform = "platform"
)

// DecodeAndValidateRequest decodes a JSON request body and validates it.
// If this function returns an error, the HTTP response has already been written and the handler should return.
//
// Example usage:
//
//	var req InitiateRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Initiate verification"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req any, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn(LogMsgDecodeFailed, "action", actionName, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(LogMsgRequestDecoded, "action", actionName)

	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn(LogMsgValidationFailed, "action", actionName, "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// RequireUserID reads the caller identity set by the upstream auth layer.
// If ok is false, the HTTP response has already been written.
func RequireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.Header.Get(HeaderUserID))
	if err != nil {
		respondError(w, http.StatusUnauthorized, ErrMsgMissingUserID)
		return "", false
	}
	return id.String(), true
}

// RequirePlatform parses the {platform} URL parameter.
// If ok is false, the HTTP response has already been written.
func RequirePlatform(w http.ResponseWriter, r *http.Request) (domain.Platform, bool) {
	p, err := domain.ParsePlatform(chi.URLParam(r, ParamPlatform))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidPlatformParam, Kind: domain.KindInvalidPlatform})
		return "", false
	}
	return p, true
}
