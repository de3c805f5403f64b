// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics, domain codes
// name the failing step.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "completion_failed",
//	  "message": "failed to generate response",
//	  "error": "failed to generate response"
//	}
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/morena-chat/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
	ErrCodeTimeout          = "timeout"

	// Domain-specific:
	ErrCodeCompletionFailed = "completion_failed"
	ErrCodeStoreFailed      = "store_failed"
)

// failService maps a service error onto the envelope. Unknown errors are
// treated as store failures.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
	case errors.Is(err, services.ErrTitleRequired):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title is required")
	case errors.Is(err, services.ErrConversationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
	case errors.Is(err, services.ErrCompletionFailed):
		failErr(c, http.StatusInternalServerError, ErrCodeCompletionFailed, "failed to generate response", err)
	case errors.Is(err, context.DeadlineExceeded):
		failErr(c, http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out", err)
	default:
		failErr(c, http.StatusInternalServerError, ErrCodeStoreFailed, "internal store error", err)
	}
}
