package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	repository "github.com/tagwerk-app/reminder-service/internal/database/postgres"
	"github.com/tagwerk-app/reminder-service/internal/entity"
	"github.com/tagwerk-app/reminder-service/pkg/message"
	"github.com/tagwerk-app/reminder-service/pkg/review"
	"github.com/tagwerk-app/reminder-service/pkg/timewindow"
)

type weeklyReviewService struct {
	settingsRepo repository.SettingsRepository
	taskRepo     repository.TaskRepository
	goalRepo     repository.GoalRepository
	deliveryRepo repository.DeliveryRepository
	gateway      Gateway
	cache        DedupeCache
	now          func() time.Time
}

func NewWeeklyReviewService(
	settingsRepo repository.SettingsRepository,
	taskRepo repository.TaskRepository,
	goalRepo repository.GoalRepository,
	deliveryRepo repository.DeliveryRepository,
	gateway Gateway,
	cache DedupeCache,
) WeeklyReviewService {
	return &weeklyReviewService{
		settingsRepo: settingsRepo,
		taskRepo:     taskRepo,
		goalRepo:     goalRepo,
		deliveryRepo: deliveryRepo,
		gateway:      gateway,
		cache:        cache,
		now:          time.Now,
	}
}

// Run executes one weekly-review batch. Each user's window is resolved in
// their own timezone; users outside their window are skipped without any
// ledger interaction.
func (s *weeklyReviewService) Run(ctx context.Context) (*entity.RunSummary, error) {
	summary := &entity.RunSummary{}

	recipients, err := s.settingsRepo.GetWeeklyReviewRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly-review recipients: %w", err)
	}

	now := s.now()

	for _, settings := range recipients {
		summary.UsersChecked++

		window, inside, err := timewindow.WeeklyWindow(now, settings.Timezone, settings.WeeklySendTime, settings.WeekStartsMonday)
		if err != nil {
			// Unresolvable timezone: no window, no send, no crash.
			logrus.WithFields(logrus.Fields{
				"user_id":  settings.UserID,
				"timezone": settings.Timezone,
			}).Warnf("Skipping user with unresolvable timezone: %v", err)
			continue
		}
		if !inside {
			continue
		}

		summary.TasksMatched++
		s.processUser(ctx, settings, window, summary)
	}

	logrus.WithFields(logrus.Fields{
		"users_checked":      summary.UsersChecked,
		"users_matched":      summary.TasksMatched,
		"reminders_sent":     summary.RemindersSent,
		"duplicates_skipped": summary.RemindersSkippedDuplicate,
		"reminders_failed":   summary.RemindersFailed,
	}).Info("Weekly-review reminder batch completed")

	return summary, nil
}

func (s *weeklyReviewService) processUser(
	ctx context.Context,
	settings *entity.NotificationSettings,
	window *timewindow.WeeklyWindowInfo,
	summary *entity.RunSummary,
) {
	eventKey := WeeklyReviewEventKey(settings.UserID, window.WeekKey)

	if s.cache != nil && s.cache.Seen(ctx, eventKey) {
		summary.RemindersSkippedDuplicate++
		return
	}

	reserved, err := s.deliveryRepo.Reserve(ctx, settings.UserID, eventKey, map[string]string{
		"week_key":   window.WeekKey,
		"week_range": window.WeekRange,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":   settings.UserID,
			"event_key": eventKey,
		}).Errorf("Failed to reserve delivery: %v", err)
		summary.RemindersFailed++
		return
	}
	if !reserved {
		if s.cache != nil {
			s.cache.MarkSeen(ctx, eventKey)
		}
		summary.RemindersSkippedDuplicate++
		return
	}
	if s.cache != nil {
		s.cache.MarkSeen(ctx, eventKey)
	}

	// From here on the reservation stands: any failure is recorded on the
	// ledger row and the week will not be retried by this engine.
	body, err := s.buildBody(ctx, settings, window)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":   settings.UserID,
			"event_key": eventKey,
		}).Errorf("Failed to build weekly review: %v", err)
		s.finalize(ctx, eventKey, entity.DeliveryStatusFailed, map[string]string{
			"error": err.Error(),
		})
		summary.RemindersFailed++
		return
	}

	if err := s.gateway.SendMessage(ctx, settings.Phone(), body); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":   settings.UserID,
			"event_key": eventKey,
		}).Errorf("Failed to send weekly review: %v", err)
		s.finalize(ctx, eventKey, entity.DeliveryStatusFailed, map[string]string{
			"error": err.Error(),
		})
		summary.RemindersFailed++
		return
	}

	s.finalize(ctx, eventKey, entity.DeliveryStatusSent, map[string]string{
		"channel": entity.ChannelWhatsApp,
		"to":      settings.Phone(),
	})
	summary.RemindersSent++
}

func (s *weeklyReviewService) buildBody(ctx context.Context, settings *entity.NotificationSettings, window *timewindow.WeeklyWindowInfo) (string, error) {
	tasks, err := s.taskRepo.GetByUserID(ctx, settings.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to load tasks: %w", err)
	}

	goals, err := s.goalRepo.GetByUserID(ctx, settings.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to load goals: %w", err)
	}

	return message.RenderWeeklyReview(entity.Template(settings.WeeklyReviewTemplate), message.WeeklyReviewContext{
		WeekRange: window.WeekRange,
		Review:    review.BuildReview(tasks, goals, window.Anchor, window.WeekStartsMonday),
	}), nil
}

func (s *weeklyReviewService) finalize(ctx context.Context, eventKey string, status entity.DeliveryStatus, metaPatch map[string]string) {
	if err := s.deliveryRepo.Finalize(ctx, eventKey, status, metaPatch); err != nil {
		logrus.WithFields(logrus.Fields{
			"event_key": eventKey,
			"status":    status,
		}).Errorf("Failed to finalize delivery: %v", err)
	}
}
