package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

var errSentinel = InvalidTransition("invalid status transition")

func TestWrapKeepsKindAndIdentity(t *testing.T) {
	err := Wrap(errSentinel, "cannot change status from dikembalikan to dipinjam")

	assert.Equal(t, KindInvalidTransition, KindOf(err))
	assert.True(t, errors.Is(err, errSentinel))
	assert.Equal(t, "cannot change status from dikembalikan to dipinjam", err.Error())

	wrapped := fmt.Errorf("service: %w", err)
	assert.True(t, Is(wrapped, KindInvalidTransition))
	assert.True(t, errors.Is(wrapped, errSentinel))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:        http.StatusBadRequest,
		KindInvalidTransition: http.StatusBadRequest,
		KindOutOfStock:        http.StatusBadRequest,
		KindNotFound:          http.StatusNotFound,
		KindConflict:          http.StatusConflict,
		KindUnauthorized:      http.StatusUnauthorized,
		KindForbidden:         http.StatusForbidden,
		KindTooManyRequests:   http.StatusTooManyRequests,
		KindInternal:          http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestFromValidation(t *testing.T) {
	assert.NoError(t, FromValidation(nil))

	type req struct{ Title string }
	r := req{}
	verr := validation.ValidateStruct(&r, validation.Field(&r.Title, validation.Required))

	err := FromValidation(verr)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "Title")

	nf := NotFound("book not found")
	assert.Same(t, nf, FromValidation(nf))
}

func TestInternalMessage(t *testing.T) {
	err := Internal(errors.New("connection reset"))
	assert.Equal(t, "connection reset", err.Error())
	assert.Equal(t, KindInternal, err.Kind)
}
