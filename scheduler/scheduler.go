// Package scheduler implements reminder timer management
package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"recipebot.app/metrics"
	"recipebot.app/models"
	"recipebot.app/repository"
)

// Notifier delivers reminder messages to a chat
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

// minDelay is the floor applied to every timer so reminders already in the
// past still fire once shortly after arming
const minDelay = time.Second

// ReminderScheduler arms one timer per persisted reminder and delivers the
// message when it fires. Timer handles are owned by this process; reminders
// armed by a previous process are re-armed through Recover.
type ReminderScheduler struct {
	reminderRepo *repository.ReminderRepository
	actionRepo   *repository.ActionLogRepository
	notifier     Notifier
	delivery     *metrics.DeliveryMetricsCollector

	mu     sync.Mutex
	timers map[string]*time.Timer
	now    func() time.Time
}

// NewReminderScheduler creates a scheduler over the given repositories and
// delivery transport
func NewReminderScheduler(
	reminderRepo *repository.ReminderRepository,
	actionRepo *repository.ActionLogRepository,
	notifier Notifier,
) *ReminderScheduler {
	return &ReminderScheduler{
		reminderRepo: reminderRepo,
		actionRepo:   actionRepo,
		notifier:     notifier,
		delivery:     metrics.GetDeliveryMetrics(),
		timers:       make(map[string]*time.Timer),
		now:          time.Now,
	}
}

// JobName derives the stable job identifier for a reminder. Reminders without
// an owning plan entry get a random identifier instead.
func JobName(planID *uint, remindAt time.Time) string {
	if planID != nil {
		return fmt.Sprintf("reminder_%d_%d", *planID, remindAt.Unix())
	}
	return "reminder_" + uuid.New().String()
}

// Schedule persists the reminder and arms its timer. The job name is derived
// when the caller has not set one.
func (s *ReminderScheduler) Schedule(reminder *models.Reminder) error {
	if reminder.JobName == "" {
		reminder.JobName = JobName(reminder.PlanID, reminder.RemindAt)
	}

	if err := s.reminderRepo.Create(reminder); err != nil {
		return err
	}

	s.arm(reminder)
	slog.Info("Reminder scheduled", "job", reminder.JobName, "remindAt", reminder.RemindAt)
	return nil
}

// Recover re-arms a timer for every persisted reminder. Called once at
// startup, before the server begins accepting requests.
func (s *ReminderScheduler) Recover() error {
	reminders, err := s.reminderRepo.ListAll()
	if err != nil {
		return err
	}

	for i := range reminders {
		s.arm(&reminders[i])
	}

	slog.Info("Recovered persisted reminders", "count", len(reminders))
	return nil
}

// Cancel deletes a reminder by id and revokes its timer when this process
// owns one. Returns false when no reminder was found.
func (s *ReminderScheduler) Cancel(id uint) (bool, error) {
	reminder, err := s.reminderRepo.FindByID(id)
	if err != nil {
		return false, err
	}
	if reminder == nil {
		return false, nil
	}

	s.revoke(reminder.JobName)
	if err := s.reminderRepo.DeleteByID(id); err != nil {
		return false, err
	}
	return true, nil
}

// CancelByJobName deletes a reminder by its job name and revokes its timer.
// Returns false when no reminder was found.
func (s *ReminderScheduler) CancelByJobName(jobName string) (bool, error) {
	found, err := s.reminderRepo.DeleteByJobName(jobName)
	if err != nil {
		return false, err
	}
	s.revoke(jobName)
	return found, nil
}

// Stop revokes every armed timer. Persisted rows are untouched and will be
// re-armed by the next Recover.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for jobName, timer := range s.timers {
		timer.Stop()
		delete(s.timers, jobName)
	}
}

func (s *ReminderScheduler) arm(reminder *models.Reminder) {
	delay := reminder.RemindAt.Sub(s.now())
	if delay < minDelay {
		delay = minDelay
	}

	id := reminder.ID
	jobName := reminder.JobName

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[jobName]; ok {
		existing.Stop()
	}
	s.timers[jobName] = time.AfterFunc(delay, func() {
		s.fire(id, jobName)
	})
}

// fire delivers one reminder. The row is deleted even when delivery fails; a
// reminder cancelled between arming and firing is a silent no-op.
func (s *ReminderScheduler) fire(id uint, jobName string) {
	s.mu.Lock()
	delete(s.timers, jobName)
	s.mu.Unlock()

	reminder, err := s.reminderRepo.FindByID(id)
	if err != nil {
		slog.Error("Failed to load reminder for delivery", "error", err, "job", jobName)
		return
	}
	if reminder == nil {
		return
	}

	if err := s.notifier.SendMessage(reminder.ChatID, reminder.Message); err != nil {
		slog.Error("Failed to deliver reminder", "error", err, "job", jobName)
		s.delivery.RecordFailed()
	} else {
		s.delivery.RecordDelivered()
	}

	if err := s.reminderRepo.DeleteByID(id); err != nil {
		slog.Error("Failed to delete fired reminder", "error", err, "job", jobName)
	}

	if err := s.actionRepo.Append(reminder.UserID, reminder.RecipeID, models.ActionReminderSent,
		map[string]interface{}{"job_name": jobName}); err != nil {
		slog.Error("Failed to record reminder action", "error", err, "job", jobName)
	}

	slog.Info("reminder_sent", "job", jobName, "user", reminder.UserID)
}

func (s *ReminderScheduler) revoke(jobName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[jobName]; ok {
		timer.Stop()
		delete(s.timers, jobName)
	}
}
