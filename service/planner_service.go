package service

import (
	"log"
	"time"

	"recipebot.app/errors"
	"recipebot.app/models"
	"recipebot.app/planner"
	"recipebot.app/providers/cache"
	"recipebot.app/repository"
)

// Statistics aggregates a user's catalog and planning activity
type Statistics struct {
	TotalRecipes  int64                      `json:"total_recipes"`
	Favorites     int64                      `json:"favorites"`
	UpcomingPlans int64                      `json:"upcoming_plans"`
	TopCategories []repository.CategoryCount `json:"top_categories"`
	TopPlanned    []repository.PlannedCount  `json:"top_planned"`
	ActionCounts  map[string]int64           `json:"action_counts"`
}

// Dashboard is the short summary shown on the start screen
type Dashboard struct {
	TotalRecipes  int64                   `json:"total_recipes"`
	Favorites     int64                   `json:"favorites"`
	UpcomingPlans int64                   `json:"upcoming_plans"`
	RecentActions []models.ActionLogEntry `json:"recent_actions"`
}

// PlannerService handles meal planning and shopping list business logic
type PlannerService struct {
	planRepo   MealPlanRepositoryInterface
	recipeRepo RecipeRepositoryInterface
	actionRepo ActionLogRepositoryInterface
	cache      ShoppingCacheInterface
	cacheTTL   time.Duration
}

// NewPlannerService creates a new planner service. A nil cache disables
// shopping list caching.
func NewPlannerService(
	planRepo MealPlanRepositoryInterface,
	recipeRepo RecipeRepositoryInterface,
	actionRepo ActionLogRepositoryInterface,
	shoppingCache ShoppingCacheInterface,
	cacheTTL time.Duration,
) *PlannerService {
	return &PlannerService{
		planRepo:   planRepo,
		recipeRepo: recipeRepo,
		actionRepo: actionRepo,
		cache:      shoppingCache,
		cacheTTL:   cacheTTL,
	}
}

// CreatePlanEntry validates and stores a meal plan entry. Servings default to
// the recipe's base serving count when omitted.
func (s *PlannerService) CreatePlanEntry(req *models.PlanRequest) (*models.MealPlanEntry, error) {
	log.Printf("[DEBUG] PlannerService.CreatePlanEntry called for recipe %d on %s\n", req.RecipeID, req.PlanDate)

	if err := validateMealType(req.MealType); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", req.PlanDate); err != nil {
		return nil, errors.NewValidationError("plan_date must use the YYYY-MM-DD format")
	}
	if req.Servings != nil && *req.Servings <= 0 {
		return nil, errors.NewValidationError("servings must be positive")
	}

	recipe, err := s.recipeRepo.FindByID(req.RecipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load recipe", err)
	}
	if recipe == nil {
		return nil, errors.NewNotFoundError("recipe not found")
	}

	servings := recipe.Servings
	if req.Servings != nil {
		servings = *req.Servings
	}

	entry := &models.MealPlanEntry{
		UserID:   req.UserID,
		ChatID:   req.ChatID,
		RecipeID: req.RecipeID,
		PlanDate: req.PlanDate,
		MealType: req.MealType,
		Servings: servings,
		Notes:    req.Notes,
	}

	if err := s.planRepo.Create(entry); err != nil {
		return nil, errors.NewDatabaseError("failed to create plan entry", err)
	}

	s.invalidate(req.UserID)
	s.logAction(req.UserID, &req.RecipeID, models.ActionPlanCreated, map[string]interface{}{
		"plan_date": req.PlanDate,
		"meal_type": req.MealType,
	})
	return entry, nil
}

// DeletePlanEntry removes a plan entry owned by the user. Reminders attached
// to the entry are removed by cascade.
func (s *PlannerService) DeletePlanEntry(userID string, id uint) error {
	log.Printf("[DEBUG] PlannerService.DeletePlanEntry called for id: %d\n", id)

	found, err := s.planRepo.DeleteByIDAndUser(id, userID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete plan entry", err)
	}
	if !found {
		return errors.NewNotFoundError("plan entry not found")
	}

	s.invalidate(userID)
	s.logAction(userID, nil, models.ActionPlanDeleted, map[string]interface{}{"plan_id": id})
	return nil
}

// PlansInRange returns a user's plan entries in an inclusive date range
func (s *PlannerService) PlansInRange(userID, startDate, endDate string) ([]planner.PlanSummary, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}

	plans, err := s.planRepo.PlansInRange(userID, startDate, endDate)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load plans", err)
	}
	return plans, nil
}

// ShoppingList aggregates the user's planned recipes over a date range into a
// consolidated shopping list, consulting the cache first
func (s *PlannerService) ShoppingList(userID, startDate, endDate string) (*planner.ShoppingList, error) {
	log.Printf("[DEBUG] PlannerService.ShoppingList called for user %s, range %s..%s\n", userID, startDate, endDate)

	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}

	key := cache.Key(userID, startDate, endDate)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			s.logAction(userID, nil, models.ActionShoppingViewed, map[string]interface{}{"cached": true})
			return cached, nil
		}
	}

	rows, err := s.planRepo.ShoppingRows(userID, startDate, endDate)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load shopping rows", err)
	}

	items, plans := planner.Aggregate(rows)
	list := &planner.ShoppingList{
		StartDate: startDate,
		EndDate:   endDate,
		Items:     items,
		Plans:     plans,
	}

	if s.cache != nil {
		s.cache.Set(key, list, s.cacheTTL)
	}

	s.logAction(userID, nil, models.ActionShoppingViewed, map[string]interface{}{"cached": false})
	return list, nil
}

// Statistics returns the user's catalog and planning totals
func (s *PlannerService) Statistics(userID string) (*Statistics, error) {
	total, err := s.recipeRepo.CountAll()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to count recipes", err)
	}
	favorites, err := s.recipeRepo.CountFavorites()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to count favorites", err)
	}
	upcoming, err := s.planRepo.CountUpcoming(userID, today())
	if err != nil {
		return nil, errors.NewDatabaseError("failed to count upcoming plans", err)
	}
	categories, err := s.recipeRepo.TopCategories(5)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load top categories", err)
	}
	planned, err := s.planRepo.TopPlanned(userID, 5)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load top planned recipes", err)
	}
	actions, err := s.actionRepo.CountByAction(userID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load action counts", err)
	}

	s.logAction(userID, nil, models.ActionStatisticsViewed, nil)
	return &Statistics{
		TotalRecipes:  total,
		Favorites:     favorites,
		UpcomingPlans: upcoming,
		TopCategories: categories,
		TopPlanned:    planned,
		ActionCounts:  actions,
	}, nil
}

// Dashboard returns the short start-screen summary
func (s *PlannerService) Dashboard(userID string) (*Dashboard, error) {
	total, err := s.recipeRepo.CountAll()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to count recipes", err)
	}
	favorites, err := s.recipeRepo.CountFavorites()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to count favorites", err)
	}
	upcoming, err := s.planRepo.CountUpcoming(userID, today())
	if err != nil {
		return nil, errors.NewDatabaseError("failed to count upcoming plans", err)
	}
	recent, err := s.actionRepo.Recent(userID, 5)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load recent actions", err)
	}

	return &Dashboard{
		TotalRecipes:  total,
		Favorites:     favorites,
		UpcomingPlans: upcoming,
		RecentActions: recent,
	}, nil
}

// RecentActions returns the user's newest action log entries
func (s *PlannerService) RecentActions(userID string, limit int) ([]models.ActionLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	entries, err := s.actionRepo.Recent(userID, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load actions", err)
	}
	return entries, nil
}

func (s *PlannerService) invalidate(userID string) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
}

func (s *PlannerService) logAction(userID string, recipeID *uint, action string, payload map[string]interface{}) {
	if err := s.actionRepo.Append(userID, recipeID, action, payload); err != nil {
		log.Printf("[ERROR] Failed to record action %s: %v\n", action, err)
	}
}

func validateMealType(mealType string) error {
	switch mealType {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
		return nil
	}
	return errors.NewValidationError("meal_type must be one of: breakfast, lunch, dinner, snack")
}

func validateRange(startDate, endDate string) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return errors.NewValidationError("start_date must use the YYYY-MM-DD format")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return errors.NewValidationError("end_date must use the YYYY-MM-DD format")
	}
	if end.Before(start) {
		return errors.NewValidationError("end_date cannot be before start_date")
	}
	return nil
}

func today() string {
	return time.Now().Format("2006-01-02")
}
