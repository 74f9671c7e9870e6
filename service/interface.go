package service

import (
	"recipebot.app/models"
	"recipebot.app/planner"
	"recipebot.app/providers/cache"
	"recipebot.app/repository"
	"recipebot.app/scheduler"
)

// ShoppingCacheInterface is an alias to the cache package interface
type ShoppingCacheInterface = cache.ShoppingCacheInterface

// RecipeServiceInterface defines the interface for recipe catalog operations
type RecipeServiceInterface interface {
	CreateRecipe(req *models.RecipeRequest) (*models.Recipe, error)
	GetRecipe(id uint) (*models.Recipe, error)
	GetRecipeByName(name string) (*models.Recipe, error)
	ListRecipes() ([]models.Recipe, error)
	UpdateRecipe(id uint, req *models.RecipeUpdateRequest) (*models.Recipe, error)
	DeleteRecipe(userID string, id uint) error
	ReplaceDetails(id uint, req *models.RecipeDetailsRequest) (*models.Recipe, error)
	SetTags(userID string, id uint, tags []string) error
	AddIngredient(id uint, req *models.IngredientRequest) error
	SetFavorite(userID string, id uint, value bool) error
	ListFavorites() ([]models.Recipe, error)
	SearchRecipes(query string, limit int) ([]models.Recipe, error)
	SuggestByIngredients(available []string, limit int) ([]RecipeSuggestion, error)
	ScaleRecipe(id uint, targetServings float64) (*ScaledRecipe, error)
}

// PlannerServiceInterface defines the interface for meal planning operations
type PlannerServiceInterface interface {
	CreatePlanEntry(req *models.PlanRequest) (*models.MealPlanEntry, error)
	DeletePlanEntry(userID string, id uint) error
	PlansInRange(userID, startDate, endDate string) ([]planner.PlanSummary, error)
	ShoppingList(userID, startDate, endDate string) (*planner.ShoppingList, error)
	Statistics(userID string) (*Statistics, error)
	Dashboard(userID string) (*Dashboard, error)
	RecentActions(userID string, limit int) ([]models.ActionLogEntry, error)
}

// ReminderServiceInterface defines the interface for reminder operations
type ReminderServiceInterface interface {
	ScheduleReminder(req *models.ReminderRequest) (*models.Reminder, error)
	CancelReminder(userID string, id uint) error
	CancelReminderByJobName(userID, jobName string) error
}

// RecipeRepositoryInterface defines the interface for recipe data operations
type RecipeRepositoryInterface interface {
	Create(recipe *models.Recipe) error
	FindByID(id uint) (*models.Recipe, error)
	FindByName(name string) (*models.Recipe, error)
	List() ([]models.Recipe, error)
	Search(query string, limit int) ([]models.Recipe, error)
	Update(id uint, updates map[string]interface{}) (bool, error)
	Rename(id uint, name string) (bool, error)
	Delete(id uint) (bool, error)
	ReplaceDetails(id uint, ingredients []models.Ingredient, instructions *string, tags *[]string, description *string) (bool, error)
	SetTags(id uint, tags []string) (bool, error)
	AddIngredient(recipeID uint, ingredient *models.Ingredient) error
	SetFavorite(id uint, value bool) (bool, error)
	ListFavorites() ([]models.Recipe, error)
	CountAll() (int64, error)
	CountFavorites() (int64, error)
	TopCategories(limit int) ([]repository.CategoryCount, error)
}

// MealPlanRepositoryInterface defines the interface for plan data operations
type MealPlanRepositoryInterface interface {
	Create(entry *models.MealPlanEntry) error
	FindByIDAndUser(id uint, userID string) (*models.MealPlanEntry, error)
	DeleteByIDAndUser(id uint, userID string) (bool, error)
	PlansInRange(userID, startDate, endDate string) ([]planner.PlanSummary, error)
	ShoppingRows(userID, startDate, endDate string) ([]planner.Row, error)
	CountUpcoming(userID, fromDate string) (int64, error)
	TopPlanned(userID string, limit int) ([]repository.PlannedCount, error)
}

// ActionLogRepositoryInterface defines the interface for action log operations
type ActionLogRepositoryInterface interface {
	Append(userID string, recipeID *uint, action string, payload map[string]interface{}) error
	Recent(userID string, limit int) ([]models.ActionLogEntry, error)
	CountByAction(userID string) (map[string]int64, error)
}

// ReminderSchedulerInterface defines the scheduler operations used by services
type ReminderSchedulerInterface interface {
	Schedule(reminder *models.Reminder) error
	Cancel(id uint) (bool, error)
	CancelByJobName(jobName string) (bool, error)
}

// Ensure implementations satisfy interfaces
var _ RecipeServiceInterface = (*RecipeService)(nil)
var _ PlannerServiceInterface = (*PlannerService)(nil)
var _ ReminderServiceInterface = (*ReminderService)(nil)
var _ RecipeRepositoryInterface = (*repository.RecipeRepository)(nil)
var _ MealPlanRepositoryInterface = (*repository.MealPlanRepository)(nil)
var _ ActionLogRepositoryInterface = (*repository.ActionLogRepository)(nil)
var _ ReminderRepositoryInterface = (*repository.ReminderRepository)(nil)
var _ ReminderSchedulerInterface = (*scheduler.ReminderScheduler)(nil)
