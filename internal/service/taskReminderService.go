package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	repository "github.com/tagwerk-app/reminder-service/internal/database/postgres"
	"github.com/tagwerk-app/reminder-service/internal/entity"
	"github.com/tagwerk-app/reminder-service/pkg/message"
	"github.com/tagwerk-app/reminder-service/pkg/timewindow"
)

type taskReminderService struct {
	settingsRepo repository.SettingsRepository
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	deliveryRepo repository.DeliveryRepository
	gateway      Gateway
	cache        DedupeCache
	now          func() time.Time
}

func NewTaskReminderService(
	settingsRepo repository.SettingsRepository,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	deliveryRepo repository.DeliveryRepository,
	gateway Gateway,
	cache DedupeCache,
) TaskReminderService {
	return &taskReminderService{
		settingsRepo: settingsRepo,
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		deliveryRepo: deliveryRepo,
		gateway:      gateway,
		cache:        cache,
		now:          time.Now,
	}
}

// Run executes one task-start batch: every user with the reminder enabled
// and a phone number is checked for tasks due inside the global window.
// Failures stay inside their per-user or per-task boundary; only a failure
// to load the recipient list aborts the invocation.
func (s *taskReminderService) Run(ctx context.Context) (*entity.RunSummary, error) {
	summary := &entity.RunSummary{}

	recipients, err := s.settingsRepo.GetTaskStartRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load task-start recipients: %w", err)
	}

	now := s.now()
	from, to := timewindow.TaskStartWindow(now)

	for _, settings := range recipients {
		summary.UsersChecked++

		tasks, err := s.taskRepo.GetDueBetween(ctx, settings.UserID, from, to)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": settings.UserID,
			}).Errorf("Failed to load due tasks: %v", err)
			summary.RemindersFailed++
			continue
		}

		if len(tasks) == 0 {
			continue
		}

		titles, err := s.projectRepo.GetTitlesByIDs(ctx, collectProjectIDs(tasks))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": settings.UserID,
			}).Errorf("Failed to load project titles: %v", err)
			summary.RemindersFailed++
			continue
		}

		for _, task := range tasks {
			summary.TasksMatched++
			s.processTask(ctx, settings, task, titles, summary)
		}
	}

	logrus.WithFields(logrus.Fields{
		"users_checked":      summary.UsersChecked,
		"tasks_matched":      summary.TasksMatched,
		"reminders_sent":     summary.RemindersSent,
		"duplicates_skipped": summary.RemindersSkippedDuplicate,
		"reminders_failed":   summary.RemindersFailed,
	}).Info("Task-start reminder batch completed")

	return summary, nil
}

func (s *taskReminderService) processTask(
	ctx context.Context,
	settings *entity.NotificationSettings,
	task *entity.Task,
	projectTitles map[string]string,
	summary *entity.RunSummary,
) {
	eventKey := TaskStartEventKey(task.ID, *task.DueAt)

	if s.cache != nil && s.cache.Seen(ctx, eventKey) {
		summary.RemindersSkippedDuplicate++
		return
	}

	reserved, err := s.deliveryRepo.Reserve(ctx, settings.UserID, eventKey, map[string]string{
		"task_id":    task.ID,
		"task_title": task.Title,
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
		// Another invocation already claimed this event.
		if s.cache != nil {
			s.cache.MarkSeen(ctx, eventKey)
		}
		summary.RemindersSkippedDuplicate++
		return
	}
	if s.cache != nil {
		s.cache.MarkSeen(ctx, eventKey)
	}

	body := message.RenderTaskStart(entity.Template(settings.TaskStartTemplate), message.TaskStartContext{
		TaskTitle:    task.Title,
		StartTime:    message.FormatStartTime(*task.DueAt, settings.Timezone),
		ProjectTitle: resolveProjectTitle(task, projectTitles),
		Priority:     message.PriorityLabel(task.Priority),
	})

	if err := s.gateway.SendMessage(ctx, settings.Phone(), body); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":   settings.UserID,
			"event_key": eventKey,
		}).Errorf("Failed to send task-start reminder: %v", err)
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

// finalize is best-effort: the message is already out (or definitively
// failed), so a ledger write error must not abort the batch and must never
// cause a resend.
func (s *taskReminderService) finalize(ctx context.Context, eventKey string, status entity.DeliveryStatus, metaPatch map[string]string) {
	if err := s.deliveryRepo.Finalize(ctx, eventKey, status, metaPatch); err != nil {
		logrus.WithFields(logrus.Fields{
			"event_key": eventKey,
			"status":    status,
		}).Errorf("Failed to finalize delivery: %v", err)
	}
}

func collectProjectIDs(tasks []*entity.Task) []string {
	seen := map[string]bool{}
	var ids []string
	for _, task := range tasks {
		if task.ProjectID != nil && !seen[*task.ProjectID] {
			seen[*task.ProjectID] = true
			ids = append(ids, *task.ProjectID)
		}
		for _, id := range task.ProjectIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// resolveProjectTitle checks the legacy single reference first, then the
// multi-project list, taking the first match.
func resolveProjectTitle(task *entity.Task, titles map[string]string) string {
	if task.ProjectID != nil {
		if title, ok := titles[*task.ProjectID]; ok {
			return title
		}
	}
	for _, id := range task.ProjectIDs {
		if title, ok := titles[id]; ok {
			return title
		}
	}
	return message.NoProjectLabel
}
