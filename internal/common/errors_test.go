package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{BadRequest("x"), http.StatusBadRequest},
		{Unauthorized("x"), http.StatusUnauthorized},
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{TooManyRequests("x"), http.StatusTooManyRequests},
		{Internal("x", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, As(tc.err).Status(), tc.err.Error())
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("create level: %w", Conflict("Level already exists"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "Level already exists", As(err).Message)
}

func TestAsUnknownIsInternal(t *testing.T) {
	cause := errors.New("driver: bad connection")
	e := As(cause)
	assert.Equal(t, KindInternal, e.Kind)
	assert.Equal(t, "internal server error", e.Message)
	assert.ErrorIs(t, e, cause)
}
