package apierror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/voxquery/voxquery/pkg/core"
)

func TestFromError_Nil(t *testing.T) {
	env, status := FromError(nil)
	if !env.Success || status != http.StatusOK {
		t.Fatalf("env=%+v status=%d", env, status)
	}
}

func TestFromError_KindStatusMapping(t *testing.T) {
	tests := []struct {
		kind       core.ErrorKind
		wantStatus int
	}{
		{core.ErrUploadRejected, http.StatusBadRequest},
		{core.ErrParseFailure, http.StatusBadRequest},
		{core.ErrNoSession, http.StatusBadRequest},
		{core.ErrTranscription, http.StatusBadGateway},
		{core.ErrAgentBind, http.StatusBadGateway},
		{core.ErrAgentInvocation, http.StatusBadGateway},
		{core.ErrUnexpected, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		env, status := FromError(core.New(tc.kind, "msg"))
		if status != tc.wantStatus {
			t.Fatalf("kind %q status = %d, want %d", tc.kind, status, tc.wantStatus)
		}
		if env.Success || env.Error != "msg" {
			t.Fatalf("kind %q envelope = %+v", tc.kind, env)
		}
	}
}

func TestFromError_WrappedCoreError(t *testing.T) {
	err := fmt.Errorf("handler: %w", core.NewNoSession())
	env, status := FromError(err)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if env.Error != "No CSV file loaded. Please upload a CSV first." {
		t.Fatalf("error = %q", env.Error)
	}
}

func TestFromError_ContextAndUnknown(t *testing.T) {
	if _, status := FromError(context.DeadlineExceeded); status != http.StatusGatewayTimeout {
		t.Fatalf("deadline status = %d", status)
	}
	if _, status := FromError(context.Canceled); status != http.StatusRequestTimeout {
		t.Fatalf("cancel status = %d", status)
	}

	env, status := FromError(errors.New("pq: secret dsn failure"))
	if status != http.StatusInternalServerError {
		t.Fatalf("unknown status = %d", status)
	}
	if env.Error != "internal error" {
		t.Fatalf("unknown errors must not leak details, got %q", env.Error)
	}
}
