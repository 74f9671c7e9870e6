// Package models defines data structures used throughout the application
package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Meal slot labels accepted for meal plan entries
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Action kinds recorded in the action log
const (
	ActionDishAdded         = "dish_added"
	ActionDishUpdated       = "dish_updated"
	ActionDishDeleted       = "dish_deleted"
	ActionDetailsUpdated    = "details_updated"
	ActionPlanCreated       = "plan_created"
	ActionPlanDeleted       = "plan_deleted"
	ActionFavoritesUpdated  = "favorites_updated"
	ActionShoppingViewed    = "shopping_viewed"
	ActionStatisticsViewed  = "statistics_viewed"
	ActionReminderScheduled = "reminder_scheduled"
	ActionReminderSent      = "reminder_sent"
)

// Recipe represents a named dish with its metadata
type Recipe struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"index;not null"`
	NameLower    string  `json:"-" gorm:"uniqueIndex;not null"`
	Description  string  `json:"description"`
	Instructions string  `json:"instructions"`
	Category     string  `json:"category"`
	Cuisine      string  `json:"cuisine"`
	Difficulty   string  `json:"difficulty"`
	Servings     float64 `json:"servings" gorm:"not null;default:1"`
	PrepTime     int     `json:"prep_time" gorm:"not null;default:0"`
	CookTime     int     `json:"cook_time" gorm:"not null;default:0"`
	IsFavorite   bool    `json:"is_favorite" gorm:"not null;default:false"`
	Source       string  `json:"source"`
	Notes        string  `json:"notes"`

	Ingredients []Ingredient     `json:"ingredients" gorm:"constraint:OnDelete:CASCADE"`
	Tags        []RecipeTag      `json:"tags" gorm:"constraint:OnDelete:CASCADE"`
	Plans       []MealPlanEntry  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Reminders   []Reminder       `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Actions     []ActionLogEntry `json:"-" gorm:"constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave maintains the folded name column backing the case-insensitive
// uniqueness index. Folding happens here, not in SQL, because sqlite's LOWER
// only handles ASCII.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.NameLower = strings.ToLower(strings.TrimSpace(r.Name))
	return nil
}

// Ingredient is one ingredient line of a recipe; quantity and macro values are
// defined per the recipe's base serving count
type Ingredient struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	RecipeID uint     `json:"recipe_id" gorm:"uniqueIndex:idx_ingredient_line;not null"`
	Name     string   `json:"name" gorm:"uniqueIndex:idx_ingredient_line;not null"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit" gorm:"uniqueIndex:idx_ingredient_line"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Carbs    *float64 `json:"carbs"`
}

// TableName keeps the historical table name
func (Ingredient) TableName() string { return "recipe_ingredients" }

// RecipeTag is a lowercase free-text label attached to a recipe
type RecipeTag struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	RecipeID uint   `json:"recipe_id" gorm:"uniqueIndex:idx_recipe_tag;not null"`
	Tag      string `json:"tag" gorm:"uniqueIndex:idx_recipe_tag;not null"`
}

// TableName keeps the historical table name
func (RecipeTag) TableName() string { return "recipe_tags" }

// MealPlanEntry assigns one recipe to a date and meal slot for one user
type MealPlanEntry struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	UserID   string  `json:"user_id" gorm:"index:idx_plan_user_date;not null"`
	ChatID   int64   `json:"chat_id" gorm:"not null"`
	RecipeID uint    `json:"recipe_id" gorm:"index;not null"`
	PlanDate string  `json:"plan_date" gorm:"index:idx_plan_user_date;not null"` // YYYY-MM-DD
	MealType string  `json:"meal_type" gorm:"not null"`
	Servings float64 `json:"servings" gorm:"not null;default:1"`
	Notes    *string `json:"notes"`

	Reminders []Reminder `json:"-" gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the historical table name
func (MealPlanEntry) TableName() string { return "meal_plan_entries" }

// Reminder is a one-shot scheduled notification, optionally tied to a recipe
// or a meal plan entry
type Reminder struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	UserID   string    `json:"user_id" gorm:"index:idx_reminder_user_time;not null"`
	ChatID   int64     `json:"chat_id" gorm:"not null"`
	RecipeID *uint     `json:"recipe_id"`
	PlanID   *uint     `json:"plan_id"`
	RemindAt time.Time `json:"remind_at" gorm:"index:idx_reminder_user_time;not null"`
	Message  string    `json:"message" gorm:"not null"`
	JobName  string    `json:"job_name" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
}

// ActionLogEntry is an append-only audit record of a user action
type ActionLogEntry struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	UserID   string         `json:"user_id" gorm:"index;not null"`
	RecipeID *uint          `json:"recipe_id"`
	Action   string         `json:"action" gorm:"not null"`
	Payload  datatypes.JSON `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the historical table name
func (ActionLogEntry) TableName() string { return "action_log" }

// IngredientRequest represents one ingredient line in a create/replace request
type IngredientRequest struct {
	Name     string   `json:"name" binding:"required"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Carbs    *float64 `json:"carbs"`
}

// RecipeRequest represents data required to create a recipe
type RecipeRequest struct {
	UserID       string              `json:"user_id" binding:"required"`
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description"`
	Instructions string              `json:"instructions"`
	Category     string              `json:"category"`
	Cuisine      string              `json:"cuisine"`
	Difficulty   string              `json:"difficulty"`
	Servings     float64             `json:"servings"`
	PrepTime     int                 `json:"prep_time" binding:"gte=0"`
	CookTime     int                 `json:"cook_time" binding:"gte=0"`
	IsFavorite   bool                `json:"is_favorite"`
	Source       string              `json:"source"`
	Notes        string              `json:"notes"`
	Ingredients  []IngredientRequest `json:"ingredients" binding:"dive"`
	Tags         []string            `json:"tags"`
}

// RecipeUpdateRequest carries partial field updates for an existing recipe
type RecipeUpdateRequest struct {
	UserID       string   `json:"user_id" binding:"required"`
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Instructions *string  `json:"instructions"`
	Category     *string  `json:"category"`
	Cuisine      *string  `json:"cuisine"`
	Difficulty   *string  `json:"difficulty"`
	Servings     *float64 `json:"servings"`
	PrepTime     *int     `json:"prep_time"`
	CookTime     *int     `json:"cook_time"`
	Source       *string  `json:"source"`
	Notes        *string  `json:"notes"`
}

// RecipeDetailsRequest replaces a recipe's ingredient list wholesale, and
// optionally its instructions, tags and description
type RecipeDetailsRequest struct {
	UserID       string              `json:"user_id" binding:"required"`
	Ingredients  []IngredientRequest `json:"ingredients" binding:"dive"`
	Instructions *string             `json:"instructions"`
	Tags         *[]string           `json:"tags"`
	Description  *string             `json:"description"`
}

// PlanRequest represents data required to create a meal plan entry
type PlanRequest struct {
	UserID   string   `json:"user_id" binding:"required"`
	ChatID   int64    `json:"chat_id" binding:"required"`
	RecipeID uint     `json:"recipe_id" binding:"required"`
	PlanDate string   `json:"plan_date" binding:"required,datetime=2006-01-02"`
	MealType string   `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	Servings *float64 `json:"servings"`
	Notes    *string  `json:"notes"`
}

// ReminderRequest represents data required to schedule a reminder
type ReminderRequest struct {
	UserID   string    `json:"user_id" binding:"required"`
	ChatID   int64     `json:"chat_id" binding:"required"`
	RemindAt time.Time `json:"remind_at" binding:"required"`
	Message  string    `json:"message"`
	RecipeID *uint     `json:"recipe_id"`
	PlanID   *uint     `json:"plan_id"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
