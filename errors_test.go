package mhracrawl_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/mhracrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("application error", func(t *testing.T) {
		t.Parallel()
		err := mhracrawl.Errorf(mhracrawl.ETIMEOUT, "navigation timed out")
		assert.Equal(t, mhracrawl.ETIMEOUT, mhracrawl.ErrorCode(err))
		assert.Equal(t, "navigation timed out", mhracrawl.ErrorMessage(err))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("outer: %w", mhracrawl.Errorf(mhracrawl.ENOTFOUND, "run not found"))
		assert.Equal(t, mhracrawl.ENOTFOUND, mhracrawl.ErrorCode(err))
		assert.Equal(t, "run not found", mhracrawl.ErrorMessage(err))
	})

	t.Run("non-application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("some plain error")
		assert.Equal(t, mhracrawl.EINTERNAL, mhracrawl.ErrorCode(err))
		assert.Equal(t, "Internal error.", mhracrawl.ErrorMessage(err))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", mhracrawl.ErrorCode(nil))
		assert.Equal(t, "", mhracrawl.ErrorMessage(nil))
	})
}

func TestNavigationFailure(t *testing.T) {
	t.Parallel()

	inner := mhracrawl.Errorf(mhracrawl.ETIMEOUT, "http 503")
	err := &mhracrawl.NavigationFailure{
		URL: "https://products.mhra.gov.uk/substance-index/?letter=A",
		Err: inner,
	}

	assert.Contains(t, err.Error(), "letter=A")
	assert.Contains(t, err.Error(), "http 503")
	require.ErrorIs(t, err, inner)
	assert.Equal(t, mhracrawl.ETIMEOUT, mhracrawl.ErrorCode(err))
}
