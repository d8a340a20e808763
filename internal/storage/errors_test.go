package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("permission denied")))
	assert.False(t, IsTransient(fmt.Errorf("get x: %w", ErrMissingObject)))

	assert.True(t, IsTransient(MarkTransient(errors.New("anything"))))
	assert.True(t, IsTransient(fmt.Errorf("upload: %w", MarkTransient(errors.New("x")))))

	// Unclassified SDK errors fall back to string heuristics.
	assert.True(t, IsTransient(errors.New("read tcp: connection reset by peer")))
	assert.True(t, IsTransient(errors.New("RESPONSE 503: ServerBusy")))
	assert.True(t, IsTransient(errors.New("request throttled")))
	assert.False(t, IsTransient(errors.New("RESPONSE 403: AuthenticationFailed")))
}

func TestMarkTransient(t *testing.T) {
	assert.Nil(t, MarkTransient(nil))

	base := errors.New("boom")
	err := MarkTransient(base)
	assert.ErrorIs(t, err, base)

	var te *TransientError
	assert.True(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "transient service error")
}
