package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identityforge/identity-api/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec.Code, rec.Body.String()
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	for _, err := range []error{
		domain.ErrInvalidEmail,
		domain.ErrWeakPassword,
		domain.ErrPasswordMismatch,
	} {
		code, body := render(t, err)
		if code != http.StatusBadRequest {
			t.Fatalf("%v: expected 400, got %d", err, code)
		}
		var resp map[string]string
		if jsonErr := json.Unmarshal([]byte(body), &resp); jsonErr != nil {
			t.Fatalf("invalid json: %v", jsonErr)
		}
		if resp["error"] != err.Error() {
			t.Fatalf("expected disclosed cause %q, got %q", err.Error(), resp["error"])
		}
	}
}

func TestErrorHandler_Conflict(t *testing.T) {
	code, body := render(t, domain.ErrUserExists)
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if body == "" {
		t.Fatalf("expected error body")
	}
}

func TestErrorHandler_UniformUnauthorized(t *testing.T) {
	code, body := render(t, domain.ErrInvalidCredentials)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}

	var resp map[string]string
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "unauthorized" {
		t.Fatalf("expected opaque unauthorized body, got %q", resp["error"])
	}
}

func TestErrorHandler_InternalErrorsAreOpaque(t *testing.T) {
	code, body := render(t, errors.New("mongo: connection reset by peer"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	var resp map[string]string
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "internal server error" {
		t.Fatalf("internal detail leaked: %q", resp["error"])
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, _ := render(t, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
