package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

// Responses use the Google JSON style guide envelope: a body carries
// "apiVersion" plus either "data" or "error", never both.
const (
	googleAPIVersion = "2.0"
	errorDomain      = "swat-website"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// errorClass ties a usecase sentinel to the HTTP status and the
// machine-readable names the envelope reports for it.
type errorClass struct {
	sentinel   error
	httpStatus int
	reason     string
	status     string
}

var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
	{usecase.ErrNotFound, http.StatusNotFound, "notFound", "NOT_FOUND"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
}

var internalErrorClass = errorClass{
	httpStatus: http.StatusInternalServerError,
	reason:     "internalError",
	status:     "INTERNAL",
}

func classify(err error) errorClass {
	for i := 0; i < len(errorClasses); i++ {
		if errors.Is(err, errorClasses[i].sentinel) {
			return errorClasses[i]
		}
	}
	return internalErrorClass
}

func errorEnvelope(class errorClass, message string) googleResponseEnvelope {
	return googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    class.httpStatus,
			Message: message,
			Status:  class.status,
			Errors: []googleErrorItem{
				{Domain: errorDomain, Reason: class.reason, Message: message},
			},
		},
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classify(err)
	writeJSON(ctx, w, class.httpStatus, errorEnvelope(class, err.Error()))
}

// writeInternalError is the recovery-path writer. It never echoes the
// failure detail back to the client.
func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope(internalErrorClass, "internal server error"))
}
