// Package apierror converts component errors into the wire failure envelope.
// Every failure leaves the transport as {"success":false,"error":"..."} with
// a human-readable sentence; raw faults and stack traces never do.
package apierror

import (
	"context"
	"errors"
	"net/http"

	"github.com/voxquery/voxquery/pkg/core"
)

// Envelope is the JSON failure body shared by all endpoints. Question is set
// by the query handlers when a transcript exists.
type Envelope struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Question string `json:"question,omitempty"`
}

// FromError maps err to the wire envelope and HTTP status.
func FromError(err error) (Envelope, int) {
	if err == nil {
		return Envelope{Success: true}, http.StatusOK
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Envelope{Error: "request timeout"}, http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) {
		return Envelope{Error: "request cancelled"}, http.StatusRequestTimeout
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) && coreErr != nil {
		return Envelope{Error: coreErr.Message}, statusFromKind(coreErr.Kind)
	}

	// Unknown errors: do not leak details.
	return Envelope{Error: "internal error"}, http.StatusInternalServerError
}

func statusFromKind(kind core.ErrorKind) int {
	switch kind {
	case core.ErrUploadRejected, core.ErrParseFailure, core.ErrNoSession:
		return http.StatusBadRequest
	case core.ErrTranscription, core.ErrAgentBind, core.ErrAgentInvocation, core.ErrSynthesis:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
