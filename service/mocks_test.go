package service

import (
	"time"

	"github.com/stretchr/testify/mock"
	"recipebot.app/models"
	"recipebot.app/planner"
	"recipebot.app/repository"
)

type mockRecipeRepo struct {
	mock.Mock
}

func (m *mockRecipeRepo) Create(recipe *models.Recipe) error {
	args := m.Called(recipe)
	return args.Error(0)
}

func (m *mockRecipeRepo) FindByID(id uint) (*models.Recipe, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *mockRecipeRepo) FindByName(name string) (*models.Recipe, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *mockRecipeRepo) List() ([]models.Recipe, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *mockRecipeRepo) Search(query string, limit int) ([]models.Recipe, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *mockRecipeRepo) Update(id uint, updates map[string]interface{}) (bool, error) {
	args := m.Called(id, updates)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecipeRepo) Rename(id uint, name string) (bool, error) {
	args := m.Called(id, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecipeRepo) Delete(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecipeRepo) ReplaceDetails(id uint, ingredients []models.Ingredient, instructions *string, tags *[]string, description *string) (bool, error) {
	args := m.Called(id, ingredients, instructions, tags, description)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecipeRepo) SetTags(id uint, tags []string) (bool, error) {
	args := m.Called(id, tags)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecipeRepo) AddIngredient(recipeID uint, ingredient *models.Ingredient) error {
	args := m.Called(recipeID, ingredient)
	return args.Error(0)
}

func (m *mockRecipeRepo) SetFavorite(id uint, value bool) (bool, error) {
	args := m.Called(id, value)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecipeRepo) ListFavorites() ([]models.Recipe, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *mockRecipeRepo) CountAll() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecipeRepo) CountFavorites() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecipeRepo) TopCategories(limit int) ([]repository.CategoryCount, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryCount), args.Error(1)
}

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) Create(entry *models.MealPlanEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *mockPlanRepo) FindByIDAndUser(id uint, userID string) (*models.MealPlanEntry, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlanEntry), args.Error(1)
}

func (m *mockPlanRepo) DeleteByIDAndUser(id uint, userID string) (bool, error) {
	args := m.Called(id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPlanRepo) PlansInRange(userID, startDate, endDate string) ([]planner.PlanSummary, error) {
	args := m.Called(userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planner.PlanSummary), args.Error(1)
}

func (m *mockPlanRepo) ShoppingRows(userID, startDate, endDate string) ([]planner.Row, error) {
	args := m.Called(userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planner.Row), args.Error(1)
}

func (m *mockPlanRepo) CountUpcoming(userID, fromDate string) (int64, error) {
	args := m.Called(userID, fromDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPlanRepo) TopPlanned(userID string, limit int) ([]repository.PlannedCount, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PlannedCount), args.Error(1)
}

type mockActionRepo struct {
	mock.Mock
}

func (m *mockActionRepo) Append(userID string, recipeID *uint, action string, payload map[string]interface{}) error {
	args := m.Called(userID, recipeID, action, payload)
	return args.Error(0)
}

func (m *mockActionRepo) Recent(userID string, limit int) ([]models.ActionLogEntry, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActionLogEntry), args.Error(1)
}

func (m *mockActionRepo) CountByAction(userID string) (map[string]int64, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Schedule(reminder *models.Reminder) error {
	args := m.Called(reminder)
	return args.Error(0)
}

func (m *mockScheduler) Cancel(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockScheduler) CancelByJobName(jobName string) (bool, error) {
	args := m.Called(jobName)
	return args.Bool(0), args.Error(1)
}

type mockReminderRepo struct {
	mock.Mock
}

func (m *mockReminderRepo) FindByID(id uint) (*models.Reminder, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reminder), args.Error(1)
}

type mockShoppingCache struct {
	mock.Mock
}

func (m *mockShoppingCache) Get(key string) (*planner.ShoppingList, bool) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*planner.ShoppingList), args.Bool(1)
}

func (m *mockShoppingCache) Set(key string, value *planner.ShoppingList, ttl time.Duration) {
	m.Called(key, value, ttl)
}

func (m *mockShoppingCache) InvalidateUser(userID string) {
	m.Called(userID)
}

func (m *mockShoppingCache) Clear() {
	m.Called()
}

// Ensure mocks satisfy the interfaces they stand in for
var _ RecipeRepositoryInterface = (*mockRecipeRepo)(nil)
var _ MealPlanRepositoryInterface = (*mockPlanRepo)(nil)
var _ ActionLogRepositoryInterface = (*mockActionRepo)(nil)
var _ ReminderSchedulerInterface = (*mockScheduler)(nil)
var _ ReminderRepositoryInterface = (*mockReminderRepo)(nil)
var _ ShoppingCacheInterface = (*mockShoppingCache)(nil)
