package service

import (
	"fmt"
	"log"
	"strings"

	"recipebot.app/errors"
	"recipebot.app/models"
)

// ReminderService handles reminder scheduling business logic
type ReminderService struct {
	scheduler    ReminderSchedulerInterface
	reminderRepo ReminderRepositoryInterface
	planRepo     MealPlanRepositoryInterface
	recipeRepo   RecipeRepositoryInterface
	actionRepo   ActionLogRepositoryInterface
}

// ReminderRepositoryInterface defines the reminder lookups used by the service
type ReminderRepositoryInterface interface {
	FindByID(id uint) (*models.Reminder, error)
}

// NewReminderService creates a new reminder service
func NewReminderService(
	reminderScheduler ReminderSchedulerInterface,
	reminderRepo ReminderRepositoryInterface,
	planRepo MealPlanRepositoryInterface,
	recipeRepo RecipeRepositoryInterface,
	actionRepo ActionLogRepositoryInterface,
) *ReminderService {
	return &ReminderService{
		scheduler:    reminderScheduler,
		reminderRepo: reminderRepo,
		planRepo:     planRepo,
		recipeRepo:   recipeRepo,
		actionRepo:   actionRepo,
	}
}

// ScheduleReminder validates, persists and arms a reminder. When the request
// names a plan entry it must belong to the requesting user.
func (s *ReminderService) ScheduleReminder(req *models.ReminderRequest) (*models.Reminder, error) {
	log.Printf("[DEBUG] ReminderService.ScheduleReminder called for user %s at %s\n", req.UserID, req.RemindAt)

	if req.RemindAt.IsZero() {
		return nil, errors.NewValidationError("remind_at is required")
	}

	message := strings.TrimSpace(req.Message)
	recipeID := req.RecipeID

	if req.PlanID != nil {
		plan, err := s.planRepo.FindByIDAndUser(*req.PlanID, req.UserID)
		if err != nil {
			return nil, errors.NewDatabaseError("failed to load plan entry", err)
		}
		if plan == nil {
			return nil, errors.NewNotFoundError("plan entry not found")
		}
		if recipeID == nil {
			recipeID = &plan.RecipeID
		}
	}

	if message == "" {
		message = s.defaultMessage(recipeID)
	}

	reminder := &models.Reminder{
		UserID:   req.UserID,
		ChatID:   req.ChatID,
		RecipeID: recipeID,
		PlanID:   req.PlanID,
		RemindAt: req.RemindAt,
		Message:  message,
	}

	if err := s.scheduler.Schedule(reminder); err != nil {
		return nil, err
	}

	s.logAction(req.UserID, recipeID, models.ActionReminderScheduled, map[string]interface{}{
		"job_name":  reminder.JobName,
		"remind_at": reminder.RemindAt,
	})
	return reminder, nil
}

// CancelReminder cancels a reminder owned by the user
func (s *ReminderService) CancelReminder(userID string, id uint) error {
	reminder, err := s.reminderRepo.FindByID(id)
	if err != nil {
		return errors.NewDatabaseError("failed to load reminder", err)
	}
	if reminder == nil || reminder.UserID != userID {
		return errors.NewNotFoundError("reminder not found")
	}

	found, err := s.scheduler.Cancel(id)
	if err != nil {
		return errors.NewDatabaseError("failed to cancel reminder", err)
	}
	if !found {
		return errors.NewNotFoundError("reminder not found")
	}
	return nil
}

// CancelReminderByJobName cancels a reminder by its job identifier
func (s *ReminderService) CancelReminderByJobName(userID, jobName string) error {
	if jobName == "" {
		return errors.NewValidationError("job_name is required")
	}

	found, err := s.scheduler.CancelByJobName(jobName)
	if err != nil {
		return errors.NewDatabaseError("failed to cancel reminder", err)
	}
	if !found {
		return errors.NewNotFoundError("reminder not found")
	}
	return nil
}

func (s *ReminderService) defaultMessage(recipeID *uint) string {
	if recipeID != nil {
		recipe, err := s.recipeRepo.FindByID(*recipeID)
		if err == nil && recipe != nil {
			return fmt.Sprintf("Time to cook: %s", recipe.Name)
		}
	}
	return "Cooking reminder"
}

func (s *ReminderService) logAction(userID string, recipeID *uint, action string, payload map[string]interface{}) {
	if err := s.actionRepo.Append(userID, recipeID, action, payload); err != nil {
		log.Printf("[ERROR] Failed to record action %s: %v\n", action, err)
	}
}
