package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfig            = errors.New("configuration error")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTokenExpired      = errors.New("access token expired")
	ErrInsufficientScope = errors.New("access token lacks required scope")
	ErrUnsupportedMime   = errors.New("unsupported mime type")
	ErrClassification    = errors.New("classification failed")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
