package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/mhracrawl"
	"github.com/fwojciec/mhracrawl/mock"
	mhraslog "github.com/fwojciec/mhracrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPage(t *testing.T) {
	t.Parallel()

	t.Run("logs navigations and delegates", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Page{
			NavigateFn: func(_ context.Context, url string) (int, error) {
				return 200, nil
			},
			WaitVisibleFn: func(_ context.Context, selector string, _ time.Duration) bool {
				return true
			},
			ElementsFn: func(_ context.Context, selector string) ([]mhracrawl.Element, error) {
				return []mhracrawl.Element{&mock.Element{}}, nil
			},
		}

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		page := mhraslog.NewLoggingPage(inner, logger)
		ctx := context.Background()

		status, err := page.Navigate(ctx, "https://products.mhra.gov.uk/substance-index/?letter=A")
		require.NoError(t, err)
		assert.Equal(t, 200, status)

		assert.True(t, page.WaitVisible(ctx, "nav ul li a", time.Second))

		els, err := page.Elements(ctx, "nav ul li a")
		require.NoError(t, err)
		assert.Len(t, els, 1)

		require.NoError(t, page.WaitIdle(ctx))
		require.NoError(t, page.Close())

		output := buf.String()
		assert.Contains(t, output, "navigate")
		assert.Contains(t, output, "letter=A")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "wait visible")
	})

	t.Run("logs failed navigations with the error", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Page{
			NavigateFn: func(_ context.Context, url string) (int, error) {
				return 0, mhracrawl.Errorf(mhracrawl.ETIMEOUT, "navigation timed out")
			},
		}

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		page := mhraslog.NewLoggingPage(inner, logger)

		_, err := page.Navigate(context.Background(), "https://products.mhra.gov.uk")
		require.Error(t, err)
		assert.Contains(t, buf.String(), "timed out")
	})
}
