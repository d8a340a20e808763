package storage

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Common storage operation errors.
var (
	// ErrMissingObject indicates an operation expected an object to exist
	// and it does not. Distinct from Exists, which reports a boolean.
	ErrMissingObject = errors.New("object does not exist")

	// ErrRenameUnsupported indicates the backend does not implement rename.
	// The operation is part of the driver contract but optional per backend.
	ErrRenameUnsupported = errors.New("rename not supported by this backend")

	// ErrCopyUnsupported indicates the backend does not implement server-side copy.
	ErrCopyUnsupported = errors.New("copy not supported by this backend")
)

// TransientError marks an error as a transient service failure that the
// retry policy may retry: connection failures, malformed responses, and
// generic HTTP-layer failures from the backend client.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient service error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// MarkTransient wraps err as a TransientError. Returns nil for nil.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether an error should be retried.
//
// Typed signals (TransientError, net.Error timeouts) are checked first.
// The string heuristics catch raw SDK errors that reach us unclassified;
// the indicator list is based on observed S3/Azure failure modes.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingObject) {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	transientIndicators := []string{
		"connection reset",
		"connection refused",
		"connection closed",
		"broken pipe",
		"i/o timeout",
		"tls handshake",
		"unexpected eof",
		"malformed",
		"requesttimeout",
		"internalerror",
		"internal error",
		"serviceunavailable",
		"service unavailable",
		"server busy",
		"serverbusy",
		"operationtimeout",
		"slowdown",
		"throttl",
		"429",
		"500",
		"502",
		"503",
		"504",
	}

	for _, indicator := range transientIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}
