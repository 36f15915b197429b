package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_TransientThenSuccess(t *testing.T) {
	calls := 0
	op := func() error {
		calls++
		if calls < 3 {
			return errors.New("NetworkError when attempting to fetch resource")
		}
		return nil
	}

	err := Do(context.Background(), op, 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_NonTransientFailsImmediately(t *testing.T) {
	calls := 0
	op := func() error {
		calls++
		return errors.New("duplicate key value violates unique constraint")
	}

	err := Do(context.Background(), op, 3, 10*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, errors.Is(err, ErrMaxRetries))
}

func TestDo_ExhaustionReturnsMaxRetries(t *testing.T) {
	calls := 0
	op := func() error {
		calls++
		return errors.New("CORS policy blocked the request")
	}

	err := Do(context.Background(), op, 3, time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaxRetries))
	assert.Equal(t, 3, calls)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	op := func() error {
		calls++
		return errors.New("timeout waiting for response")
	}

	err := Do(ctx, op, 3, time.Hour)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}

func TestDoValue(t *testing.T) {
	calls := 0
	op := func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("Failed to fetch")
		}
		return "ok", nil
	}

	got, err := DoValue(context.Background(), op, 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("connection refused")))
	assert.True(t, IsTransient(errors.New("unexpected EOF")))
	assert.False(t, IsTransient(errors.New("record not found")))
	assert.False(t, IsTransient(nil))
}
