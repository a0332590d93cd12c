package cerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("dispatching: %w", cerr.ResourceConflict(
		errors.New("vehicle is busy"),
	))
	assert.ErrorIs(t, err, cerr.KindResourceConflict)
	assert.NotErrorIs(t, err, cerr.KindNotFound)
	assert.Equal(t, cerr.KindResourceConflict, cerr.KindOf(err))
	assert.Equal(t, http.StatusConflict, cerr.StatusOf(err))
}

func TestPlainErrorsAreInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, cerr.KindInternal, cerr.KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, cerr.StatusOf(err))
	assert.Equal(t, "Internal", cerr.KindOf(err).String())
}

func TestOutermostKindWins(t *testing.T) {
	inner := cerr.Retryable(errors.New("40001"))
	outer := cerr.ResourceConflict(fmt.Errorf("retries: %w", inner))
	assert.Equal(t, cerr.KindResourceConflict, cerr.KindOf(outer))
	assert.ErrorIs(t, outer, cerr.KindRetryable)
}
