package drive

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/dhg/docflow/internal/core/domain"
	"github.com/dhg/docflow/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "drive status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("drive %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("drive %s status: %s: %s", e.Operation, e.Status, e.Body)
}

func classifyDriveError(err error) resilience.Verdict {
	if err == nil {
		return resilience.Verdict{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Verdict{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests,
			http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return resilience.Verdict{Retryable: true, RecordFailure: true}
		}
		// Auth and client errors will not heal on retry.
		return resilience.Verdict{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}
	return resilience.Verdict{Retryable: false, RecordFailure: true}
}

// wrapAuthError turns 401/403 into the two distinct, actionable domain
// errors the operator sees: an expired token reads differently from a token
// that was never granted the needed scope.
func wrapAuthError(operation string, err error) error {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return domain.WrapError(domain.ErrTokenExpired, operation,
				fmt.Errorf("drive returned 401; refresh DRIVE_ACCESS_TOKEN and retry: %w", err))
		case http.StatusForbidden:
			return domain.WrapError(domain.ErrInsufficientScope, operation,
				fmt.Errorf("drive returned 403; the token is valid but lacks read scope for this file: %w", err))
		}
	}
	return err
}
