package repository

import (
	"log"

	"gorm.io/gorm"
	"recipebot.app/models"
	"recipebot.app/planner"
)

// PlannedCount is one row of the most-planned recipe breakdown
type PlannedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// MealPlanRepository handles data access operations for meal plan entries
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new repository for meal plan data
func NewMealPlanRepository(db *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Create persists a new meal plan entry
func (r *MealPlanRepository) Create(entry *models.MealPlanEntry) error {
	log.Printf("[DEBUG] MealPlanRepository.Create: user=%s, recipe=%d, date=%s\n",
		entry.UserID, entry.RecipeID, entry.PlanDate)

	result := r.db.Create(entry)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when creating meal plan entry: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// FindByIDAndUser retrieves one plan entry owned by the given user
func (r *MealPlanRepository) FindByIDAndUser(id uint, userID string) (*models.MealPlanEntry, error) {
	var entry models.MealPlanEntry
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&entry)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding meal plan entry: %v\n", result.Error)
		return nil, result.Error
	}
	return &entry, nil
}

// DeleteByIDAndUser removes one plan entry owned by the given user. Reminders
// referencing the entry are removed by cascade. Returns false when nothing
// was deleted.
func (r *MealPlanRepository) DeleteByIDAndUser(id uint, userID string) (bool, error) {
	log.Printf("[DEBUG] MealPlanRepository.DeleteByIDAndUser: id=%d, user=%s\n", id, userID)

	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.MealPlanEntry{})
	if result.Error != nil {
		log.Printf("[ERROR] Database error when deleting meal plan entry: %v\n", result.Error)
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// PlansInRange retrieves a user's plan entries in an inclusive date range,
// joined with their recipe's name and base serving count
func (r *MealPlanRepository) PlansInRange(userID, startDate, endDate string) ([]planner.PlanSummary, error) {
	log.Printf("[DEBUG] MealPlanRepository.PlansInRange: user=%s, range=%s..%s\n", userID, startDate, endDate)

	var rows []planner.PlanSummary
	err := r.db.Table("meal_plan_entries AS mp").
		Select("mp.id AS plan_id, mp.plan_date, mp.meal_type, mp.servings AS planned_servings, mp.notes, "+
			"r.id AS recipe_id, r.name AS recipe_name, r.servings AS base_servings").
		Joins("JOIN recipes r ON r.id = mp.recipe_id").
		Where("mp.user_id = ? AND mp.plan_date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("mp.plan_date, mp.meal_type, mp.id").
		Scan(&rows).Error
	if err != nil {
		log.Printf("[ERROR] Database error when fetching plans in range: %v\n", err)
		return nil, err
	}

	log.Printf("[DEBUG] Found %d plan entries in range\n", len(rows))
	return rows, nil
}

// ShoppingRows retrieves the joined (plan entry, ingredient) rows feeding the
// aggregation engine. The ingredient side is left-joined so a plan entry for a
// recipe with no recorded ingredients still yields one row with nil
// ingredient fields.
func (r *MealPlanRepository) ShoppingRows(userID, startDate, endDate string) ([]planner.Row, error) {
	log.Printf("[DEBUG] MealPlanRepository.ShoppingRows: user=%s, range=%s..%s\n", userID, startDate, endDate)

	var rows []planner.Row
	err := r.db.Table("meal_plan_entries AS mp").
		Select("mp.id AS plan_id, mp.plan_date, mp.meal_type, mp.servings AS planned_servings, mp.notes, "+
			"r.id AS recipe_id, r.name AS recipe_name, r.servings AS base_servings, "+
			"ri.name AS ingredient_name, ri.quantity, ri.unit, ri.calories, ri.protein, ri.fat, ri.carbs").
		Joins("JOIN recipes r ON r.id = mp.recipe_id").
		Joins("LEFT JOIN recipe_ingredients ri ON ri.recipe_id = r.id").
		Where("mp.user_id = ? AND mp.plan_date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("mp.plan_date, mp.id, LOWER(ri.name)").
		Scan(&rows).Error
	if err != nil {
		log.Printf("[ERROR] Database error when fetching shopping rows: %v\n", err)
		return nil, err
	}

	log.Printf("[DEBUG] Found %d shopping rows\n", len(rows))
	return rows, nil
}

// CountUpcoming returns the number of a user's plan entries on or after the
// given date
func (r *MealPlanRepository) CountUpcoming(userID, fromDate string) (int64, error) {
	var count int64
	err := r.db.Model(&models.MealPlanEntry{}).
		Where("user_id = ? AND plan_date >= ?", userID, fromDate).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// TopPlanned returns the recipes a user has planned most often
func (r *MealPlanRepository) TopPlanned(userID string, limit int) ([]PlannedCount, error) {
	var rows []PlannedCount
	err := r.db.Table("meal_plan_entries AS mp").
		Select("r.name, COUNT(*) AS count").
		Joins("JOIN recipes r ON r.id = mp.recipe_id").
		Where("mp.user_id = ?", userID).
		Group("mp.recipe_id, r.name").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		log.Printf("[ERROR] Database error when counting planned recipes: %v\n", err)
		return nil, err
	}
	return rows, nil
}
