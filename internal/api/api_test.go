package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "performance-prime/internal/common/errors"
	"performance-prime/internal/common/logger"
	"performance-prime/internal/models"
	"performance-prime/internal/planner"
	"performance-prime/internal/wizard"
)

type fakeScheduledStore struct {
	createFn func(ctx context.Context, n *models.ScheduledNotification) error
	listFn   func(ctx context.Context, professionalID string) ([]models.ScheduledNotification, error)
	cancelFn func(ctx context.Context, id string) error
}

func (f *fakeScheduledStore) Create(ctx context.Context, n *models.ScheduledNotification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeScheduledStore) ListByProfessional(ctx context.Context, professionalID string) ([]models.ScheduledNotification, error) {
	if f.listFn != nil {
		return f.listFn(ctx, professionalID)
	}
	return nil, nil
}

func (f *fakeScheduledStore) Cancel(ctx context.Context, id string) error {
	if f.cancelFn != nil {
		return f.cancelFn(ctx, id)
	}
	return nil
}

type fakeFeedStore struct {
	listFn        func(ctx context.Context, professionalID string) ([]models.LiveNotification, error)
	markReadFn    func(ctx context.Context, id string) error
	markAllReadFn func(ctx context.Context, professionalID string) (int64, error)
}

func (f *fakeFeedStore) ListByProfessional(ctx context.Context, professionalID string) ([]models.LiveNotification, error) {
	if f.listFn != nil {
		return f.listFn(ctx, professionalID)
	}
	return nil, nil
}

func (f *fakeFeedStore) MarkRead(ctx context.Context, id string) error {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, id)
	}
	return nil
}

func (f *fakeFeedStore) MarkAllRead(ctx context.Context, professionalID string) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, professionalID)
	}
	return 0, nil
}

type fakePlanStore struct {
	createFn   func(ctx context.Context, p *models.WorkoutPlan) error
	listFn     func(ctx context.Context, userID string) ([]models.WorkoutPlan, error)
	getFn      func(ctx context.Context, id string) (*models.WorkoutPlan, error)
	activateFn func(ctx context.Context, userID, planID string) error
	deleteFn   func(ctx context.Context, userID, planID string) error
}

func (f *fakePlanStore) Create(ctx context.Context, p *models.WorkoutPlan) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePlanStore) ListByUser(ctx context.Context, userID string) ([]models.WorkoutPlan, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakePlanStore) Get(ctx context.Context, id string) (*models.WorkoutPlan, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return &models.WorkoutPlan{ID: id}, nil
}

func (f *fakePlanStore) Activate(ctx context.Context, userID, planID string) error {
	if f.activateFn != nil {
		return f.activateFn(ctx, userID, planID)
	}
	return nil
}

func (f *fakePlanStore) Delete(ctx context.Context, userID, planID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, planID)
	}
	return nil
}

type fakeExplainer struct{}

func (fakeExplainer) Explain(_ context.Context, _ *models.WorkoutPlan) (string, error) {
	return "Piano pronto.", nil
}

func newTestRouter(t *testing.T, scheduled *fakeScheduledStore, feed *fakeFeedStore, plans *fakePlanStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNoOpLogger()
	gen := planner.NewGenerator(log)

	router := gin.New()
	SetupRoutes(router, Handlers{
		Notifications: NewNotificationHandler(scheduled, feed, log),
		Plans:         NewPlanHandler(plans, gen, fakeExplainer{}, log),
		Wizard:        NewWizardHandler(wizard.NewMemoryStore(), plans, gen, fakeExplainer{}, log),
		Media:         NewMediaHandler(&fakeResolver{}, log),
	})
	return router
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, key string) (string, error)
}

func (f *fakeResolver) ResolveURL(ctx context.Context, key string) (string, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, key)
	}
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeResolver) Invalidate(_ context.Context, _ string) error { return nil }

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScheduleNotification(t *testing.T) {
	var created *models.ScheduledNotification
	scheduled := &fakeScheduledStore{
		createFn: func(_ context.Context, n *models.ScheduledNotification) error {
			created = n
			return nil
		},
	}
	router := newTestRouter(t, scheduled, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodPost, "/api/v1/notifications/scheduled", map[string]interface{}{
		"professional_id": "pro-1",
		"title":           "Promemoria",
		"message":         "Sessione alle 18",
		"scheduled_at":    time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, "pro-1", created.ProfessionalID)
	assert.Equal(t, "Promemoria", created.Title)
}

func TestScheduleNotification_RejectsUnknownField(t *testing.T) {
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodPost, "/api/v1/notifications/scheduled", map[string]interface{}{
		"professional_id": "pro-1",
		"title":           "Promemoria",
		"message":         "Sessione alle 18",
		"scheduled_at":    time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		"bogus":           true,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleNotification_StoreErrorMapsToStatus(t *testing.T) {
	scheduled := &fakeScheduledStore{
		createFn: func(_ context.Context, _ *models.ScheduledNotification) error {
			return apperrors.NewScheduleInPastError(time.Now().Add(-time.Hour))
		},
	}
	router := newTestRouter(t, scheduled, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodPost, "/api/v1/notifications/scheduled", map[string]interface{}{
		"professional_id": "pro-1",
		"title":           "Promemoria",
		"message":         "Sessione alle 18",
		"scheduled_at":    time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(apperrors.ErrCodeScheduleInPast), body["error"])
}

func TestListScheduled_StatusFilter(t *testing.T) {
	scheduled := &fakeScheduledStore{
		listFn: func(_ context.Context, _ string) ([]models.ScheduledNotification, error) {
			return []models.ScheduledNotification{
				{ID: "a", Status: models.StatusPending},
				{ID: "b", Status: models.StatusSent},
				{ID: "c", Status: models.StatusPending},
			}, nil
		},
	}
	router := newTestRouter(t, scheduled, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodGet, "/api/v1/notifications/scheduled?professional_id=pro-1&status=pending", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestCancelScheduled_Conflict(t *testing.T) {
	scheduled := &fakeScheduledStore{
		cancelFn: func(_ context.Context, id string) error {
			return apperrors.NewReminderNotPendingError(id)
		},
	}
	router := newTestRouter(t, scheduled, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodDelete, "/api/v1/notifications/scheduled/rem-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListFeed_Grouped(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	feed := &fakeFeedStore{
		listFn: func(_ context.Context, _ string) ([]models.LiveNotification, error) {
			return []models.LiveNotification{
				{ID: "n1", Type: models.TypeNewBooking, CreatedAt: base},
				{ID: "n2", Type: models.TypeNewBooking, CreatedAt: base.Add(-2 * time.Hour)},
				{ID: "n3", Type: models.TypeNewReview, CreatedAt: base.Add(-time.Hour)},
			}, nil
		},
	}
	router := newTestRouter(t, &fakeScheduledStore{}, feed, &fakePlanStore{})

	rec := doJSON(router, http.MethodGet, "/api/v1/notifications?professional_id=pro-1&grouped=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}

func TestListFeed_RequiresProfessionalID(t *testing.T) {
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodGet, "/api/v1/notifications", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkAllRead(t *testing.T) {
	feed := &fakeFeedStore{
		markAllReadFn: func(_ context.Context, professionalID string) (int64, error) {
			assert.Equal(t, "pro-1", professionalID)
			return 4, nil
		},
	}
	router := newTestRouter(t, &fakeScheduledStore{}, feed, &fakePlanStore{})

	rec := doJSON(router, http.MethodPost, "/api/v1/notifications/read-all?professional_id=pro-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(4), body["updated"])
}

func TestCreateDailyPlan(t *testing.T) {
	var stored *models.WorkoutPlan
	plans := &fakePlanStore{
		createFn: func(_ context.Context, p *models.WorkoutPlan) error {
			stored = p
			return nil
		},
	}
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, plans)

	rec := doJSON(router, http.MethodPost, "/api/v1/plans/daily", map[string]interface{}{
		"user_id":   "user-1",
		"goal":      "Allenare parte superiore",
		"duration":  "30 minuti",
		"equipment": "Corpo libero",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stored)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, models.PlanTypeDaily, stored.Type)
}

func TestCreateWeeklyPlan(t *testing.T) {
	var stored *models.WorkoutPlan
	plans := &fakePlanStore{
		createFn: func(_ context.Context, p *models.WorkoutPlan) error {
			stored = p
			return nil
		},
	}
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, plans)

	rec := doJSON(router, http.MethodPost, "/api/v1/plans/weekly", map[string]interface{}{
		"user_id":        "user-1",
		"goal":           "Aumentare massa muscolare",
		"level":          "intermedio",
		"frequency":      3,
		"duration_weeks": 4,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stored)
	assert.Len(t, stored.Days, 3)
	assert.Equal(t, "Piano pronto.", stored.Explanation)
}

func TestCreateWeeklyPlan_SchemaRejectsLevel(t *testing.T) {
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodPost, "/api/v1/plans/weekly", map[string]interface{}{
		"user_id": "user-1",
		"goal":    "Aumentare massa muscolare",
		"level":   "esperto",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivatePlan_NotFound(t *testing.T) {
	plans := &fakePlanStore{
		activateFn: func(_ context.Context, _, planID string) error {
			return apperrors.NewPlanNotFoundError(planID)
		},
	}
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, plans)

	rec := doJSON(router, http.MethodPost, "/api/v1/plans/missing/activate", map[string]interface{}{
		"user_id": "user-1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateWorkout(t *testing.T) {
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodPost, "/api/v1/workouts/generate", map[string]interface{}{
		"category": "strength",
		"minutes":  45,
		"level":    "principiante",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var workout map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &workout))
	items, ok := workout["Items"].([]interface{})
	require.True(t, ok)
	assert.LessOrEqual(t, len(items), 8)
}

func TestWizardFlow(t *testing.T) {
	var stored *models.WorkoutPlan
	plans := &fakePlanStore{
		createFn: func(_ context.Context, p *models.WorkoutPlan) error {
			stored = p
			return nil
		},
	}
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, plans)

	answers := []struct{ key, value string }{
		{"goal", "Aumentare massa muscolare"},
		{"level", "intermedio"},
		{"duration_weeks", "4"},
		{"frequency", "3"},
		{"equipment", "Corpo libero"},
	}
	for _, a := range answers {
		rec := doJSON(router, http.MethodPost, "/api/v1/wizard/user-1/answer", map[string]interface{}{
			"key":   a.key,
			"value": a.value,
		})
		require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("answer %s", a.key))
	}

	rec := doJSON(router, http.MethodPost, "/api/v1/wizard/user-1/complete", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stored)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Len(t, stored.Days, 3)

	// completing clears the session
	rec = doJSON(router, http.MethodGet, "/api/v1/wizard/user-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, float64(0), state["step"])
}

func TestWizardComplete_Incomplete(t *testing.T) {
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodPost, "/api/v1/wizard/user-2/complete", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveMedia(t *testing.T) {
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodGet, "/api/v1/media/panca-piana", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://cdn.example.com/panca-piana", body["url"])
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &fakeScheduledStore{}, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz_DegradedAfterCriticalError(t *testing.T) {
	defer errLog.ClearLog()

	scheduled := &fakeScheduledStore{
		listFn: func(_ context.Context, _ string) ([]models.ScheduledNotification, error) {
			return nil, fmt.Errorf("unauthorized: token revocato")
		},
	}
	router := newTestRouter(t, scheduled, &fakeFeedStore{}, &fakePlanStore{})

	rec := doJSON(router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/v1/notifications/scheduled?professional_id=prof-1", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	recent := errLog.RecentErrors()
	require.NotEmpty(t, recent)
	assert.Equal(t, apperrors.SeverityCritical, recent[0].Severity)
	assert.Equal(t, "api", recent[0].Context.Component)

	rec = doJSON(router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}
