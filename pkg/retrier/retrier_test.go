package retrier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDo_FirstAttemptSucceeds(t *testing.T) {
	r := New()

	attempts := 0
	err := r.Do(context.Background(), func(_ context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 1, attempts)
}

func TestDo_RecoversWithinBudget(t *testing.T) {
	r := New(WithMaxRetries(3), WithInitialInterval(time.Millisecond))

	attempts := 0
	err := r.Do(context.Background(), func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestDo_ExhaustedRetriesReturnLastError(t *testing.T) {
	r := New(WithMaxRetries(2), WithInitialInterval(time.Millisecond))

	attempts := 0
	err := r.Do(context.Background(), func(_ context.Context) error {
		attempts++
		return errors.New("still broken")
	})

	require.Error(t, err)
	require.Equal(t, "still broken", err.Error())
	require.Equal(t, 3, attempts) // initial attempt plus two retries
}

func TestDo_CancelledContextStopsRetrying(t *testing.T) {
	r := New(WithMaxRetries(5), WithInitialInterval(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := r.Do(ctx, func(_ context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("fail")
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, attempts)
}

func TestDoWithData_ReturnsValueOnSuccess(t *testing.T) {
	r := New(WithMaxRetries(2), WithInitialInterval(time.Millisecond))

	attempts := 0
	value, err := DoWithData(r, context.Background(), func(_ context.Context) (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	require.Equal(t, 42, value)
}

func TestDoWithData_FailureReturnsZeroValue(t *testing.T) {
	r := New(WithMaxRetries(1), WithInitialInterval(time.Millisecond))

	value, err := DoWithData(r, context.Background(), func(_ context.Context) (string, error) {
		return "", errors.New("fail")
	})

	require.Error(t, err)
	require.Empty(t, value)
}
