package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := Conflict("time slot already reserved")
	want := "CONFLICT: time slot already reserved"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Failed to reach booking store", cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, http.StatusInternalServerError)
	}
}

func TestConstructorsMapStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", Validation("bad booking", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad date"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("overlap"), CodeConflict, http.StatusConflict},
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"forbidden", Forbidden("not the owner"), CodeForbidden, http.StatusForbidden},
		{"unauthorized", Unauthorized("bad credentials"), CodeUnauthorized, http.StatusUnauthorized},
		{"unavailable", Unavailable("Booking store"), CodeUnavailable, http.StatusServiceUnavailable},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestAsAppErrorPassthrough(t *testing.T) {
	orig := NotFoundWithID("Booking", "abc123")
	got := AsAppError(orig)
	if got != orig {
		t.Error("AsAppError should return the same *AppError instance")
	}
	if got.Details["id"] != "abc123" {
		t.Errorf("Details[id] = %v, want abc123", got.Details["id"])
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	got := AsAppError(errors.New("driver exploded"))
	if got.Code != CodeInternal {
		t.Errorf("Code = %q, want %q", got.Code, CodeInternal)
	}
	if got.Message == "driver exploded" {
		t.Error("raw error text must not become the client-facing message")
	}
}
