package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := NewError(ErrorNotFound, "User with ID x not found", nil)

	assert.True(t, errors.Is(err, ErrorNotFound))
	assert.False(t, errors.Is(err, ErrorInvalidRequest))
	assert.Equal(t, "User with ID x not found", err.Error())
}

func TestError_IsMatchesCauseChain(t *testing.T) {
	cause := NewError(ErrorUpstreamUnavailable, "status 502", nil)
	err := NewError(ErrorNotFound, "Country info not found for XX", cause)

	wrapped := fmt.Errorf("details: %w", err)

	assert.True(t, errors.Is(wrapped, ErrorNotFound))
	assert.True(t, errors.Is(wrapped, ErrorUpstreamUnavailable))
}

func TestDetail(t *testing.T) {
	assert.Equal(t, "db down", Detail(NewError(ErrorPersistence, "Failed to load", errors.New("db down"))))
	assert.Equal(t, "plain", Detail(errors.New("plain")))
	assert.Equal(t, "only message", Detail(NewError(ErrorNotFound, "only message", nil)))
}
