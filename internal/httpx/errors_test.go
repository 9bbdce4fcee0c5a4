package httpx

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without internal err",
			err:  NewAppError(http.StatusBadRequest, CodeParamMissing, "param missing", nil),
			want: "code=2001, message=param missing",
		},
		{
			name: "error with internal err",
			err:  NewAppError(http.StatusInternalServerError, CodeInternalError, "internal error", errors.New("db connection failed")),
			want: "code=5001, message=internal error, err=db connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrSubdomainExists(t *testing.T) {
	err := ErrSubdomainExists("acme")
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Code != CodeSubdomainExists {
		t.Errorf("Expected code %d, got %d", CodeSubdomainExists, err.Code)
	}
	if !strings.Contains(err.Message, "acme") {
		t.Errorf("Expected message to name the subdomain, got '%s'", err.Message)
	}
}

func TestErrDomainExists(t *testing.T) {
	err := ErrDomainExists("shop.example.com")
	if err.Code != CodeDomainExists {
		t.Errorf("Expected code %d, got %d", CodeDomainExists, err.Code)
	}
	if !strings.Contains(err.Message, "shop.example.com") {
		t.Errorf("Expected message to name the domain, got '%s'", err.Message)
	}
}

func TestErrDNSNotVerified(t *testing.T) {
	err := ErrDNSNotVerified("shop.example.com", "139.59.3.58")
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Code != CodeDNSNotVerified {
		t.Errorf("Expected code %d, got %d", CodeDNSNotVerified, err.Code)
	}
	// The message must tell the tenant which A-record target to configure
	if !strings.Contains(err.Message, "139.59.3.58") {
		t.Errorf("Expected message to name the server IP, got '%s'", err.Message)
	}
}

func TestErrInternalError(t *testing.T) {
	internalErr := errors.New("database connection failed")
	err := ErrInternalError("internal error", internalErr)

	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusInternalServerError, err.HTTPStatus)
	}
	if err.Err != internalErr {
		t.Errorf("Expected internal error to be preserved")
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		min  int
		max  int
	}{
		{"CodeUnauthorized", CodeUnauthorized, 1000, 1099},
		{"CodeInvalidToken", CodeInvalidToken, 1000, 1099},
		{"CodeForbidden", CodeForbidden, 1000, 1099},
		{"CodeParamMissing", CodeParamMissing, 2000, 2099},
		{"CodeParamInvalid", CodeParamInvalid, 2000, 2099},
		{"CodeNotFound", CodeNotFound, 3000, 3999},
		{"CodeAlreadyExists", CodeAlreadyExists, 3000, 3999},
		{"CodeSubdomainExists", CodeSubdomainExists, 3000, 3999},
		{"CodeDomainExists", CodeDomainExists, 3000, 3999},
		{"CodeDomainInvalid", CodeDomainInvalid, 3000, 3999},
		{"CodeDNSNotVerified", CodeDNSNotVerified, 3000, 3999},
		{"CodeInternalError", CodeInternalError, 5000, 5999},
		{"CodeDatabaseError", CodeDatabaseError, 5000, 5999},
		{"CodeExternalError", CodeExternalError, 5000, 5999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code < tt.min || tt.code > tt.max {
				t.Errorf("%s = %d, expected to be in range [%d, %d]", tt.name, tt.code, tt.min, tt.max)
			}
		})
	}
}
