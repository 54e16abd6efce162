package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("user", nil).StatusCode())
	assert.Equal(t, http.StatusBadRequest, BadRequest("bad", nil).StatusCode())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("no", nil).StatusCode())
	assert.Equal(t, http.StatusForbidden, Forbidden("no", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).StatusCode())
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("medical history entry", nil)
	assert.Equal(t, "medical history entry not found", err.Message)
	assert.Equal(t, "medical history entry not found", err.Error())
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("sql: no rows in result set")
	err := NotFound("doctor", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "sql: no rows")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("user", nil)))
	assert.True(t, IsNotFound(fmt.Errorf("lookup failed: %w", NotFound("user", nil))))
	assert.False(t, IsNotFound(BadRequest("bad", nil)))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
