package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagwerk-app/reminder-service/internal/entity"
)

type stubProcessor struct {
	summary *entity.RunSummary
	err     error
	runs    int
}

func (s *stubProcessor) Run(_ context.Context) (*entity.RunSummary, error) {
	s.runs++
	return s.summary, s.err
}

func newCronRouter(taskRuns, weeklyRuns *stubProcessor, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCronHandler(taskRuns, weeklyRuns, secret)

	router := gin.New()
	router.GET("/cron/reminders/task-start", handler.RunTaskStart)
	router.GET("/cron/reminders/weekly-review", handler.RunWeeklyReview)
	return router
}

func TestCronHandler_Authorization(t *testing.T) {
	summary := &entity.RunSummary{UsersChecked: 1, TasksMatched: 1, RemindersSent: 1}

	tests := []struct {
		name       string
		secret     string
		header     string
		value      string
		wantStatus int
		wantRuns   int
	}{
		{
			name:       "missing server secret is a configuration error",
			secret:     "",
			header:     "Authorization",
			value:      "Bearer anything",
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "wrong bearer secret",
			secret:     "cron-secret",
			header:     "Authorization",
			value:      "Bearer nope",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no credentials at all",
			secret:     "cron-secret",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid bearer secret",
			secret:     "cron-secret",
			header:     "Authorization",
			value:      "Bearer cron-secret",
			wantStatus: http.StatusOK,
			wantRuns:   1,
		},
		{
			name:       "valid x-cron-secret header",
			secret:     "cron-secret",
			header:     "x-cron-secret",
			value:      "cron-secret",
			wantStatus: http.StatusOK,
			wantRuns:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRuns := &stubProcessor{summary: summary}
			router := newCronRouter(taskRuns, &stubProcessor{summary: summary}, tt.secret)

			req := httptest.NewRequest(http.MethodGet, "/cron/reminders/task-start", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantRuns, taskRuns.runs)
		})
	}
}

func TestCronHandler_SummaryResponse(t *testing.T) {
	summary := &entity.RunSummary{
		UsersChecked:              3,
		TasksMatched:              2,
		RemindersSent:             1,
		RemindersSkippedDuplicate: 1,
	}
	router := newCronRouter(&stubProcessor{summary: summary}, &stubProcessor{summary: summary}, "cron-secret")

	req := httptest.NewRequest(http.MethodGet, "/cron/reminders/task-start", nil)
	req.Header.Set("x-cron-secret", "cron-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK     bool               `json:"ok"`
		Result *entity.RunSummary `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, 3, body.Result.UsersChecked)
	assert.Equal(t, 1, body.Result.RemindersSkippedDuplicate)
}

// Internal error detail stays in the logs; the caller only sees a generic
// message.
func TestCronHandler_InternalErrorIsGeneric(t *testing.T) {
	broken := &stubProcessor{err: errors.New("pq: connection refused")}
	router := newCronRouter(&stubProcessor{summary: &entity.RunSummary{}}, broken, "cron-secret")

	req := httptest.NewRequest(http.MethodGet, "/cron/reminders/weekly-review", nil)
	req.Header.Set("x-cron-secret", "cron-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Interner Serverfehler")
	assert.NotContains(t, w.Body.String(), "connection refused")
}
