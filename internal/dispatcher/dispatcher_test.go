package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"performance-prime/internal/common/logger"
	"performance-prime/internal/models"
)

type fakeScheduleStore struct {
	fetchDueFn   func(ctx context.Context, now time.Time, limit int) ([]models.ScheduledNotification, error)
	markSentFn   func(ctx context.Context, id string, sentAt time.Time) (bool, error)
	markFailedFn func(ctx context.Context, id, errMsg string) error
}

func (f *fakeScheduleStore) FetchDue(ctx context.Context, now time.Time, limit int) ([]models.ScheduledNotification, error) {
	return f.fetchDueFn(ctx, now, limit)
}

func (f *fakeScheduleStore) MarkSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	return f.markSentFn(ctx, id, sentAt)
}

func (f *fakeScheduleStore) MarkFailed(ctx context.Context, id, errMsg string) error {
	if f.markFailedFn != nil {
		return f.markFailedFn(ctx, id, errMsg)
	}
	return nil
}

type fakeFeedStore struct {
	mu       sync.Mutex
	inserted []models.LiveNotification
	insertFn func(ctx context.Context, n *models.LiveNotification) error
}

func (f *fakeFeedStore) Insert(ctx context.Context, n *models.LiveNotification) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, n)
	}
	f.mu.Lock()
	f.inserted = append(f.inserted, *n)
	f.mu.Unlock()
	return nil
}

type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []models.ScheduledNotification
}

func (f *fakeDeliverer) Deliver(_ context.Context, n models.ScheduledNotification) {
	f.mu.Lock()
	f.delivered = append(f.delivered, n)
	f.mu.Unlock()
}

func dueReminder(id string) models.ScheduledNotification {
	return models.ScheduledNotification{
		ID:             id,
		ProfessionalID: "prof-1",
		Title:          "Promemoria sessione",
		Message:        "La tua sessione inizia tra un'ora",
		Type:           models.TypeReminder,
		Status:         models.StatusPending,
		ScheduledAt:    time.Now().Add(-time.Minute),
	}
}

func TestSweep_ProcessesDueReminders(t *testing.T) {
	var marked []string
	first := dueReminder("n-1")
	first.Data = json.RawMessage(`{"booking_id":"b-7"}`)
	schedules := &fakeScheduleStore{
		fetchDueFn: func(_ context.Context, _ time.Time, limit int) ([]models.ScheduledNotification, error) {
			assert.Equal(t, 10, limit)
			return []models.ScheduledNotification{first, dueReminder("n-2")}, nil
		},
		markSentFn: func(_ context.Context, id string, _ time.Time) (bool, error) {
			marked = append(marked, id)
			return true, nil
		},
	}
	feed := &fakeFeedStore{}

	d := New(Config{}, schedules, feed, nil, nil, logger.NewNoOpLogger())
	processed, err := d.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Equal(t, []string{"n-1", "n-2"}, marked)
	require.Len(t, feed.inserted, 2)
	assert.Equal(t, "Promemoria sessione", feed.inserted[0].Title)
	assert.JSONEq(t, `{"booking_id":"b-7"}`, string(feed.inserted[0].Data))
	assert.Empty(t, feed.inserted[1].Data)
}

func TestSweep_RaceLostSkipsReminder(t *testing.T) {
	schedules := &fakeScheduleStore{
		fetchDueFn: func(_ context.Context, _ time.Time, _ int) ([]models.ScheduledNotification, error) {
			return []models.ScheduledNotification{dueReminder("n-1")}, nil
		},
		markSentFn: func(_ context.Context, _ string, _ time.Time) (bool, error) {
			// simulate the external cron winning the conditional update
			return false, nil
		},
	}
	feed := &fakeFeedStore{}
	deliverer := &fakeDeliverer{}

	d := New(Config{}, schedules, feed, deliverer, nil, logger.NewNoOpLogger())
	processed, err := d.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	// the feed insert happens before the update, so the duplicate entry
	// remains even when the race is lost
	assert.Len(t, feed.inserted, 1)
	assert.Empty(t, deliverer.delivered)
}

func TestSweep_FeedInsertFailureMarksFailed(t *testing.T) {
	var failed []string
	var reasons []string
	schedules := &fakeScheduleStore{
		fetchDueFn: func(_ context.Context, _ time.Time, _ int) ([]models.ScheduledNotification, error) {
			return []models.ScheduledNotification{dueReminder("n-1"), dueReminder("n-2")}, nil
		},
		markSentFn: func(_ context.Context, id string, _ time.Time) (bool, error) {
			return true, nil
		},
		markFailedFn: func(_ context.Context, id, errMsg string) error {
			failed = append(failed, id)
			reasons = append(reasons, errMsg)
			return nil
		},
	}
	feed := &fakeFeedStore{
		insertFn: func(_ context.Context, n *models.LiveNotification) error {
			return errors.New("insert exploded")
		},
	}

	d := New(Config{}, schedules, feed, nil, nil, logger.NewNoOpLogger())
	processed, err := d.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Equal(t, []string{"n-1", "n-2"}, failed)
	require.Len(t, reasons, 2)
	assert.Contains(t, reasons[0], "insert exploded")
}

func TestSweep_DeliversWhenHintsPresent(t *testing.T) {
	withEmail := dueReminder("n-1")
	withEmail.EmailTo = "coach@example.com"
	plain := dueReminder("n-2")

	schedules := &fakeScheduleStore{
		fetchDueFn: func(_ context.Context, _ time.Time, _ int) ([]models.ScheduledNotification, error) {
			return []models.ScheduledNotification{withEmail, plain}, nil
		},
		markSentFn: func(_ context.Context, _ string, _ time.Time) (bool, error) {
			return true, nil
		},
	}
	deliverer := &fakeDeliverer{}

	d := New(Config{}, schedules, &fakeFeedStore{}, deliverer, nil, logger.NewNoOpLogger())
	processed, err := d.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	require.Len(t, deliverer.delivered, 1)
	assert.Equal(t, "n-1", deliverer.delivered[0].ID)
}

func TestSweep_FetchErrorPropagates(t *testing.T) {
	schedules := &fakeScheduleStore{
		fetchDueFn: func(_ context.Context, _ time.Time, _ int) ([]models.ScheduledNotification, error) {
			return nil, errors.New("db down")
		},
	}

	d := New(Config{}, schedules, &fakeFeedStore{}, nil, nil, logger.NewNoOpLogger())
	_, err := d.Sweep(context.Background())
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	schedules := &fakeScheduleStore{
		fetchDueFn: func(_ context.Context, _ time.Time, _ int) ([]models.ScheduledNotification, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return nil, nil
		},
		markSentFn: func(_ context.Context, _ string, _ time.Time) (bool, error) {
			return true, nil
		},
	}

	d := New(Config{Interval: 10 * time.Millisecond}, schedules, &fakeFeedStore{}, nil, nil, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, calls, 2)
}
