package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	repository "github.com/tagwerk-app/reminder-service/internal/database/postgres"
	"github.com/tagwerk-app/reminder-service/internal/entity"
	"github.com/tagwerk-app/reminder-service/pkg/timewindow"
)

const maxTemplateLength = 2000

var phonePattern = regexp.MustCompile(`^\+[0-9]{6,15}$`)

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

// Sync validates and upserts one user's notification settings. An empty
// phone number is allowed and simply disables delivery for that user.
func (s *settingsService) Sync(ctx context.Context, userID string, req *SyncSettingsRequest) (*entity.NotificationSettings, error) {
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, entity.ErrInvalidPhone
	}

	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "UTC"
	} else if _, err := time.LoadLocation(timezone); err != nil {
		return nil, entity.ErrInvalidTimezone
	}

	sendTime := strings.TrimSpace(req.WeeklySendTime)
	if !timewindow.ValidSendTime(sendTime) {
		sendTime = entity.DefaultWeeklySendTime
	}

	weekStartsMonday := true
	if req.WeekStartsMonday != nil {
		weekStartsMonday = *req.WeekStartsMonday
	}

	settings := &entity.NotificationSettings{
		UserID:               userID,
		PhoneNumber:          optional(phone),
		Timezone:             timezone,
		TaskStartEnabled:     req.TaskStartEnabled,
		WeeklyReviewEnabled:  req.WeeklyReviewEnabled,
		TaskStartTemplate:    optional(clampTemplate(req.TaskStartTemplate)),
		WeeklyReviewTemplate: optional(clampTemplate(req.WeeklyReviewTemplate)),
		WeeklySendTime:       sendTime,
		WeekStartsMonday:     weekStartsMonday,
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to store settings: %w", err)
	}

	return settings, nil
}

func (s *settingsService) GetByUser(ctx context.Context, userID string) (*entity.NotificationSettings, error) {
	return s.settingsRepo.GetByUserID(ctx, userID)
}

func clampTemplate(t string) string {
	t = strings.TrimSpace(t)
	runes := []rune(t)
	if len(runes) > maxTemplateLength {
		return string(runes[:maxTemplateLength])
	}
	return t
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
