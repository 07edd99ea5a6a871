package service

import (
	"context"
	"sync"
	"time"

	"github.com/tagwerk-app/reminder-service/internal/entity"
)

type fakeSettingsRepo struct {
	recipients []*entity.NotificationSettings
	err        error
	stored     map[string]*entity.NotificationSettings
}

func (f *fakeSettingsRepo) GetByUserID(_ context.Context, userID string) (*entity.NotificationSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	settings, ok := f.stored[userID]
	if !ok {
		return nil, entity.ErrSettingsNotFound
	}
	return settings, nil
}

func (f *fakeSettingsRepo) GetTaskStartRecipients(_ context.Context) ([]*entity.NotificationSettings, error) {
	return f.recipients, f.err
}

func (f *fakeSettingsRepo) GetWeeklyReviewRecipients(_ context.Context) ([]*entity.NotificationSettings, error) {
	return f.recipients, f.err
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, settings *entity.NotificationSettings) error {
	if f.err != nil {
		return f.err
	}
	if f.stored == nil {
		f.stored = map[string]*entity.NotificationSettings{}
	}
	f.stored[settings.UserID] = settings
	return nil
}

type fakeTaskRepo struct {
	tasks     map[string][]*entity.Task
	errByUser map[string]error
}

func (f *fakeTaskRepo) GetDueBetween(_ context.Context, userID string, from, to time.Time) ([]*entity.Task, error) {
	if err := f.errByUser[userID]; err != nil {
		return nil, err
	}
	var out []*entity.Task
	for _, task := range f.tasks[userID] {
		if task.Status == entity.TaskStatusCompleted || task.DueAt == nil {
			continue
		}
		if task.DueAt.Before(from) || task.DueAt.After(to) {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTaskRepo) GetByUserID(_ context.Context, userID string) ([]*entity.Task, error) {
	if err := f.errByUser[userID]; err != nil {
		return nil, err
	}
	return f.tasks[userID], nil
}

type fakeProjectRepo struct {
	titles map[string]string
	err    error
}

func (f *fakeProjectRepo) GetTitlesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]string{}
	for _, id := range ids {
		if title, ok := f.titles[id]; ok {
			out[id] = title
		}
	}
	return out, nil
}

type fakeGoalRepo struct {
	goals     map[string][]*entity.Goal
	errByUser map[string]error
}

func (f *fakeGoalRepo) GetByUserID(_ context.Context, userID string) ([]*entity.Goal, error) {
	if err := f.errByUser[userID]; err != nil {
		return nil, err
	}
	return f.goals[userID], nil
}

// fakeDeliveryRepo mimics the unique index on (channel, event_key): a
// second Reserve for the same key is rejected, never overwritten.
type fakeDeliveryRepo struct {
	mu          sync.Mutex
	records     map[string]*entity.DeliveryRecord
	reserveErr  error
	finalizeErr error
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{records: map[string]*entity.DeliveryRecord{}}
}

func (f *fakeDeliveryRepo) Reserve(_ context.Context, userID, eventKey string, meta map[string]string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return false, f.reserveErr
	}
	if _, exists := f.records[eventKey]; exists {
		return false, nil
	}
	metadata := map[string]string{}
	for k, v := range meta {
		metadata[k] = v
	}
	f.records[eventKey] = &entity.DeliveryRecord{
		UserID:   userID,
		Channel:  entity.ChannelWhatsApp,
		EventKey: eventKey,
		Status:   entity.DeliveryStatusPending,
		Metadata: metadata,
	}
	return true, nil
}

func (f *fakeDeliveryRepo) Finalize(_ context.Context, eventKey string, status entity.DeliveryStatus, metaPatch map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	record, ok := f.records[eventKey]
	if !ok {
		return entity.ErrDeliveryNotFound
	}
	for k, v := range metaPatch {
		record.Metadata[k] = v
	}
	record.Status = status
	return nil
}

func (f *fakeDeliveryRepo) GetByEventKey(_ context.Context, eventKey string) (*entity.DeliveryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[eventKey]
	if !ok {
		return nil, entity.ErrDeliveryNotFound
	}
	return record, nil
}

func (f *fakeDeliveryRepo) GetByUserID(_ context.Context, userID string) ([]*entity.DeliveryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DeliveryRecord
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) CountByStatus(_ context.Context, status entity.DeliveryStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, record := range f.records {
		if record.Status == status {
			count++
		}
	}
	return count, nil
}

type sentMessage struct {
	To   string
	Body string
}

type fakeGateway struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]error
}

func (f *fakeGateway) SendMessage(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return nil
}

type fakeDedupeCache struct {
	seen map[string]bool
}

func (f *fakeDedupeCache) Seen(_ context.Context, eventKey string) bool {
	return f.seen[eventKey]
}

func (f *fakeDedupeCache) MarkSeen(_ context.Context, eventKey string) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	f.seen[eventKey] = true
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func testSettings(userID, phone string) *entity.NotificationSettings {
	return &entity.NotificationSettings{
		UserID:           userID,
		PhoneNumber:      strPtr(phone),
		Timezone:         "Europe/Berlin",
		TaskStartEnabled: true,
		WeeklySendTime:   "19:00",
		WeekStartsMonday: true,
	}
}
