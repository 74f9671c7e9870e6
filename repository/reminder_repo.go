package repository

import (
	"errors"
	"log"

	"gorm.io/gorm"
	apperrors "recipebot.app/errors"
	"recipebot.app/models"
)

// ReminderRepository handles data access operations for reminders
type ReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new repository for reminder data
func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create persists a new reminder
func (r *ReminderRepository) Create(reminder *models.Reminder) error {
	log.Printf("[DEBUG] ReminderRepository.Create: user=%s, job=%s, at=%s\n",
		reminder.UserID, reminder.JobName, reminder.RemindAt)

	result := r.db.Create(reminder)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return apperrors.NewAlreadyExistsError("a reminder with this job name already exists")
		}
		log.Printf("[ERROR] Database error when creating reminder: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// FindByID retrieves a reminder by its ID
func (r *ReminderRepository) FindByID(id uint) (*models.Reminder, error) {
	var reminder models.Reminder
	result := r.db.First(&reminder, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding reminder by ID: %v\n", result.Error)
		return nil, result.Error
	}
	return &reminder, nil
}

// ListAll retrieves every pending reminder row, each at most once. Used by the
// startup recovery pass.
func (r *ReminderRepository) ListAll() ([]models.Reminder, error) {
	var reminders []models.Reminder
	result := r.db.Order("id").Find(&reminders)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing reminders: %v\n", result.Error)
		return nil, result.Error
	}

	log.Printf("[DEBUG] Found %d pending reminders\n", len(reminders))
	return reminders, nil
}

// DeleteByID removes a reminder. Deleting an absent row is a no-op, which the
// fire path relies on after a cancel race.
func (r *ReminderRepository) DeleteByID(id uint) error {
	log.Printf("[DEBUG] ReminderRepository.DeleteByID: id=%d\n", id)

	result := r.db.Delete(&models.Reminder{}, id)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when deleting reminder: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// DeleteByJobName removes the reminder with the given scheduler job name.
// Returns false when no row matched.
func (r *ReminderRepository) DeleteByJobName(jobName string) (bool, error) {
	log.Printf("[DEBUG] ReminderRepository.DeleteByJobName: job=%s\n", jobName)

	result := r.db.Where("job_name = ?", jobName).Delete(&models.Reminder{})
	if result.Error != nil {
		log.Printf("[ERROR] Database error when deleting reminder by job name: %v\n", result.Error)
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
