package errors

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := NewRemoteError("model call failed", context.DeadlineExceeded)
	if !strings.Contains(err.Error(), "remote: model call failed") {
		t.Errorf("Unexpected error string: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "caused by") {
		t.Errorf("Expected cause in error string, got: %s", err.Error())
	}

	plain := NewValidationError("bad input", nil)
	if plain.Error() != "validation: bad input" {
		t.Errorf("Expected 'validation: bad input', got %q", plain.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
	}{
		{"validation", NewValidationError("x", nil), ErrorTypeValidation, http.StatusBadRequest},
		{"file access", NewFileAccessError("x", nil), ErrorTypeFileAccess, http.StatusUnprocessableEntity},
		{"network", NewNetworkError("x", nil), ErrorTypeNetwork, http.StatusBadGateway},
		{"remote", NewRemoteError("x", nil), ErrorTypeRemote, http.StatusBadGateway},
		{"unauthorized", NewUnauthorizedError("x", nil), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"timeout", NewTimeoutError("x", nil), ErrorTypeTimeout, http.StatusGatewayTimeout},
		{"unparseable", NewUnparseableError("x", nil), ErrorTypeUnparseable, http.StatusUnprocessableEntity},
		{"not found", NewNotFoundError("x", nil), ErrorTypeNotFound, http.StatusNotFound},
		{"internal", NewInternalError("x", nil), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, tt.err.Type)
			}
			if tt.err.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, tt.err.StatusCode)
			}
		})
	}
}

func TestIsType_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewTimeoutError("slow", nil))

	if !IsType(err, ErrorTypeTimeout) {
		t.Error("Expected wrapped timeout error to be detected")
	}
	if IsType(err, ErrorTypeRemote) {
		t.Error("Did not expect remote type")
	}
	if IsType(fmt.Errorf("plain"), ErrorTypeTimeout) {
		t.Error("Plain errors have no AppError type")
	}
}

func TestTypeOfAndStatusCode(t *testing.T) {
	if got := TypeOf(NewFileAccessError("x", nil)); got != ErrorTypeFileAccess {
		t.Errorf("Expected file_access, got %s", got)
	}
	if got := TypeOf(fmt.Errorf("plain")); got != ErrorTypeInternal {
		t.Errorf("Expected internal for plain error, got %s", got)
	}
	if got := GetStatusCode(fmt.Errorf("plain")); got != http.StatusInternalServerError {
		t.Errorf("Expected 500 for plain error, got %d", got)
	}
	if got := GetStatusCode(fmt.Errorf("wrap: %w", NewNotFoundError("x", nil))); got != http.StatusNotFound {
		t.Errorf("Expected 404 for wrapped not found, got %d", got)
	}
}
