package repository

import (
	"encoding/json"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"recipebot.app/models"
)

// ActionLogRepository handles the append-only user action log
type ActionLogRepository struct {
	db *gorm.DB
}

// NewActionLogRepository creates a new repository for action log entries
func NewActionLogRepository(db *gorm.DB) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

// Append records one user action. The payload is optional structured context.
// Log entries are never updated or deleted by ordinary flows.
func (r *ActionLogRepository) Append(userID string, recipeID *uint, action string, payload map[string]interface{}) error {
	log.Printf("[DEBUG] ActionLogRepository.Append: user=%s, action=%s\n", userID, action)

	entry := models.ActionLogEntry{
		UserID:   userID,
		RecipeID: recipeID,
		Action:   action,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		entry.Payload = datatypes.JSON(data)
	}

	result := r.db.Create(&entry)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when appending action: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// Recent retrieves a user's latest actions, newest first
func (r *ActionLogRepository) Recent(userID string, limit int) ([]models.ActionLogEntry, error) {
	var entries []models.ActionLogEntry
	result := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing recent actions: %v\n", result.Error)
		return nil, result.Error
	}
	return entries, nil
}

// CountByAction returns how many times the user performed each action kind
func (r *ActionLogRepository) CountByAction(userID string) (map[string]int64, error) {
	type actionCount struct {
		Action string
		Count  int64
	}

	var rows []actionCount
	err := r.db.Model(&models.ActionLogEntry{}).
		Select("action, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		log.Printf("[ERROR] Database error when counting actions: %v\n", err)
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Count
	}
	return counts, nil
}
