package handler

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Kind is the stable error classification.
type ErrorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload any) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// kindResponses maps each error kind to its HTTP status and user-facing message
var kindResponses = map[domain.ErrorKind]struct {
	status  int
	message string
}{
	domain.KindInvalidPlatform:      {http.StatusBadRequest, ErrMsgInvalidPlatformError},
	domain.KindInvalidInput:         {http.StatusBadRequest, ErrMsgInvalidInputError},
	domain.KindAlreadyConnected:     {http.StatusConflict, ErrMsgAlreadyConnectedError},
	domain.KindNotConnected:         {http.StatusConflict, ErrMsgNotConnectedError},
	domain.KindChallengeExpired:     {http.StatusGone, ErrMsgChallengeExpiredError},
	domain.KindVerificationFailed:   {http.StatusUnprocessableEntity, ErrMsgVerificationFailedError},
	domain.KindHandleNotFound:       {http.StatusNotFound, ErrMsgHandleNotFoundError},
	domain.KindRateLimited:          {http.StatusTooManyRequests, ErrMsgRateLimitedError},
	domain.KindThrottled:            {http.StatusTooManyRequests, ErrMsgThrottledError},
	domain.KindUpstreamUnavailable:  {http.StatusServiceUnavailable, ErrMsgUpstreamUnavailableError},
	domain.KindUpstreamShapeChanged: {http.StatusBadGateway, ErrMsgUpstreamShapeChangedError},
	domain.KindNotFound:             {http.StatusNotFound, ErrMsgNotFoundError},
}

// mapServiceError converts a service error into an HTTP status and a message that never
// includes internal error text
func mapServiceError(err error) (int, string, domain.ErrorKind) {
	kind := domain.KindOf(err)
	if resp, ok := kindResponses[kind]; ok {
		return resp.status, resp.message, kind
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError, domain.KindInternal
}

// respondServiceError logs err and writes the mapped error response
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, message, kind := mapServiceError(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "op", op, "kind", kind, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "op", op, "kind", kind, "error", err)
	}
	respondJSON(w, status, ErrorResponse{Error: message, Kind: kind})
}
