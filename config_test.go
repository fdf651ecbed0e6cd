package mhracrawl_test

import (
	"testing"
	"time"

	"github.com/fwojciec/mhracrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := mhracrawl.DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://products.mhra.gov.uk", cfg.BaseURL)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 90*time.Second, cfg.NavigationTimeout())
	assert.Equal(t, 5*time.Second, cfg.SelectorTimeout())
	assert.Equal(t, 150*time.Millisecond, cfg.RequestDelay())
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Zero(t, cfg.MaxSubstances, "production runs are uncapped")
}

func TestDefaultLetters(t *testing.T) {
	t.Parallel()

	letters := mhracrawl.DefaultLetters()
	require.Len(t, letters, 36)
	assert.Equal(t, "A", letters[0])
	assert.Equal(t, "Z", letters[25])
	assert.Equal(t, "0", letters[26])
	assert.Equal(t, "9", letters[35])
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*mhracrawl.Config)
		wantErr string
	}{
		{
			name:    "missing base URL",
			mutate:  func(c *mhracrawl.Config) { c.BaseURL = "" },
			wantErr: "base URL required",
		},
		{
			name:    "index path without placeholder",
			mutate:  func(c *mhracrawl.Config) { c.SubstanceIndexPath = "/substance-index/" },
			wantErr: "placeholder",
		},
		{
			name:    "no letters",
			mutate:  func(c *mhracrawl.Config) { c.Letters = nil },
			wantErr: "at least one letter",
		},
		{
			name:    "zero retries",
			mutate:  func(c *mhracrawl.Config) { c.MaxRetries = 0 },
			wantErr: "at least 1",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := mhracrawl.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, mhracrawl.EINVALID, mhracrawl.ErrorCode(err))
			assert.Contains(t, mhracrawl.ErrorMessage(err), tt.wantErr)
		})
	}
}

func TestConfig_LetterIndexPath(t *testing.T) {
	t.Parallel()

	cfg := mhracrawl.DefaultConfig()
	assert.Equal(t, "/substance-index/?letter=A", cfg.LetterIndexPath("A"))
	assert.Equal(t, "/substance-index/?letter=0", cfg.LetterIndexPath("0"))
}
