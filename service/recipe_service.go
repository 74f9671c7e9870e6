package service

import (
	"log"
	"sort"
	"strings"

	"recipebot.app/errors"
	"recipebot.app/models"
	"recipebot.app/planner"
)

// RecipeSuggestion ranks a recipe against a set of available ingredients
type RecipeSuggestion struct {
	Recipe   models.Recipe `json:"recipe"`
	Matched  int           `json:"matched"`
	Total    int           `json:"total"`
	Coverage float64       `json:"coverage"`
}

// ScaledRecipe carries a recipe's ingredient lines recalculated for a target
// serving count
type ScaledRecipe struct {
	RecipeID       uint                     `json:"recipe_id"`
	Name           string                   `json:"name"`
	BaseServings   float64                  `json:"base_servings"`
	TargetServings float64                  `json:"target_servings"`
	Ingredients    []planner.IngredientLine `json:"ingredients"`
	Macros         planner.MacroTotals      `json:"macros"`
}

// RecipeService handles recipe catalog business logic
type RecipeService struct {
	recipeRepo RecipeRepositoryInterface
	actionRepo ActionLogRepositoryInterface
	cache      ShoppingCacheInterface
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo RecipeRepositoryInterface,
	actionRepo ActionLogRepositoryInterface,
	cache ShoppingCacheInterface,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		actionRepo: actionRepo,
		cache:      cache,
	}
}

// CreateRecipe validates and stores a new recipe with its ingredient lines
// and tags
func (s *RecipeService) CreateRecipe(req *models.RecipeRequest) (*models.Recipe, error) {
	log.Printf("[DEBUG] RecipeService.CreateRecipe called for: %s\n", req.Name)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewValidationError("recipe name cannot be empty")
	}
	if req.Servings < 0 {
		return nil, errors.NewValidationError("servings cannot be negative")
	}

	servings := req.Servings
	if servings == 0 {
		servings = 1
	}

	recipe := &models.Recipe{
		Name:         name,
		Description:  req.Description,
		Instructions: req.Instructions,
		Category:     req.Category,
		Cuisine:      req.Cuisine,
		Difficulty:   req.Difficulty,
		Servings:     servings,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		IsFavorite:   req.IsFavorite,
		Source:       req.Source,
		Notes:        req.Notes,
		Ingredients:  toIngredients(req.Ingredients),
		Tags:         toTags(req.Tags),
	}

	if err := s.recipeRepo.Create(recipe); err != nil {
		return nil, err
	}

	s.logAction(req.UserID, &recipe.ID, models.ActionDishAdded, map[string]interface{}{"name": recipe.Name})
	return recipe, nil
}

// GetRecipe retrieves a recipe with its ingredients and tags
func (s *RecipeService) GetRecipe(id uint) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(id)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load recipe", err)
	}
	if recipe == nil {
		return nil, errors.NewNotFoundError("recipe not found")
	}
	return recipe, nil
}

// GetRecipeByName retrieves a recipe by case-insensitive name
func (s *RecipeService) GetRecipeByName(name string) (*models.Recipe, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewValidationError("recipe name cannot be empty")
	}

	recipe, err := s.recipeRepo.FindByName(name)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load recipe", err)
	}
	if recipe == nil {
		return nil, errors.NewNotFoundError("recipe not found")
	}
	return recipe, nil
}

// ListRecipes returns the whole catalog
func (s *RecipeService) ListRecipes() ([]models.Recipe, error) {
	recipes, err := s.recipeRepo.List()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list recipes", err)
	}
	return recipes, nil
}

// UpdateRecipe applies partial field updates to a recipe
func (s *RecipeService) UpdateRecipe(id uint, req *models.RecipeUpdateRequest) (*models.Recipe, error) {
	log.Printf("[DEBUG] RecipeService.UpdateRecipe called for id: %d\n", id)

	if req.Servings != nil && *req.Servings <= 0 {
		return nil, errors.NewValidationError("servings must be positive")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.NewValidationError("recipe name cannot be empty")
		}
		found, err := s.recipeRepo.Rename(id, name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.NewNotFoundError("recipe not found")
		}
	}

	updates := buildUpdates(req)
	if len(updates) > 0 {
		found, err := s.recipeRepo.Update(id, updates)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.NewNotFoundError("recipe not found")
		}
	} else if req.Name == nil {
		return nil, errors.NewValidationError("no fields to update")
	}

	s.invalidateShoppingLists()
	s.logAction(req.UserID, &id, models.ActionDishUpdated, map[string]interface{}{"fields": updateKeys(updates, req.Name != nil)})
	return s.GetRecipe(id)
}

// DeleteRecipe removes a recipe and its dependent rows
func (s *RecipeService) DeleteRecipe(userID string, id uint) error {
	log.Printf("[DEBUG] RecipeService.DeleteRecipe called for id: %d\n", id)

	recipe, err := s.recipeRepo.FindByID(id)
	if err != nil {
		return errors.NewDatabaseError("failed to load recipe", err)
	}
	if recipe == nil {
		return errors.NewNotFoundError("recipe not found")
	}

	found, err := s.recipeRepo.Delete(id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete recipe", err)
	}
	if !found {
		return errors.NewNotFoundError("recipe not found")
	}

	s.invalidateShoppingLists()
	s.logAction(userID, nil, models.ActionDishDeleted, map[string]interface{}{"name": recipe.Name})
	return nil
}

// ReplaceDetails atomically replaces a recipe's ingredient list, and
// optionally its instructions, tags and description
func (s *RecipeService) ReplaceDetails(id uint, req *models.RecipeDetailsRequest) (*models.Recipe, error) {
	log.Printf("[DEBUG] RecipeService.ReplaceDetails called for id: %d\n", id)

	for _, line := range req.Ingredients {
		if strings.TrimSpace(line.Name) == "" {
			return nil, errors.NewValidationError("ingredient name cannot be empty")
		}
	}

	found, err := s.recipeRepo.ReplaceDetails(id, toIngredients(req.Ingredients), req.Instructions, req.Tags, req.Description)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NewNotFoundError("recipe not found")
	}

	s.invalidateShoppingLists()
	s.logAction(req.UserID, &id, models.ActionDetailsUpdated, map[string]interface{}{"ingredients": len(req.Ingredients)})
	return s.GetRecipe(id)
}

// SetTags replaces a recipe's tag set
func (s *RecipeService) SetTags(userID string, id uint, tags []string) error {
	found, err := s.recipeRepo.SetTags(id, tags)
	if err != nil {
		return err
	}
	if !found {
		return errors.NewNotFoundError("recipe not found")
	}

	s.logAction(userID, &id, models.ActionDetailsUpdated, map[string]interface{}{"tags": len(tags)})
	return nil
}

// AddIngredient appends one ingredient line to a recipe
func (s *RecipeService) AddIngredient(id uint, req *models.IngredientRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.NewValidationError("ingredient name cannot be empty")
	}

	line := toIngredient(*req)
	if err := s.recipeRepo.AddIngredient(id, &line); err != nil {
		return err
	}

	s.invalidateShoppingLists()
	return nil
}

// SetFavorite toggles a recipe's favorite flag
func (s *RecipeService) SetFavorite(userID string, id uint, value bool) error {
	found, err := s.recipeRepo.SetFavorite(id, value)
	if err != nil {
		return errors.NewDatabaseError("failed to update favorite flag", err)
	}
	if !found {
		return errors.NewNotFoundError("recipe not found")
	}

	s.logAction(userID, &id, models.ActionFavoritesUpdated, map[string]interface{}{"favorite": value})
	return nil
}

// ListFavorites returns all recipes marked as favorite
func (s *RecipeService) ListFavorites() ([]models.Recipe, error) {
	recipes, err := s.recipeRepo.ListFavorites()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list favorites", err)
	}
	return recipes, nil
}

// SearchRecipes finds recipes by case-insensitive name substring
func (s *RecipeService) SearchRecipes(query string, limit int) ([]models.Recipe, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewValidationError("search query cannot be empty")
	}
	if limit <= 0 {
		limit = 10
	}

	recipes, err := s.recipeRepo.Search(query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to search recipes", err)
	}
	return recipes, nil
}

// SuggestByIngredients ranks recipes by how much of their ingredient list is
// covered by the available ingredients
func (s *RecipeService) SuggestByIngredients(available []string, limit int) ([]RecipeSuggestion, error) {
	if len(available) == 0 {
		return nil, errors.NewValidationError("at least one available ingredient is required")
	}
	if limit <= 0 {
		limit = 5
	}

	have := make(map[string]bool, len(available))
	for _, name := range available {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			have[name] = true
		}
	}

	recipes, err := s.recipeRepo.List()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list recipes", err)
	}

	suggestions := make([]RecipeSuggestion, 0)
	for _, recipe := range recipes {
		if len(recipe.Ingredients) == 0 {
			continue
		}

		matched := 0
		for _, line := range recipe.Ingredients {
			if have[strings.ToLower(strings.TrimSpace(line.Name))] {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		suggestions = append(suggestions, RecipeSuggestion{
			Recipe:   recipe,
			Matched:  matched,
			Total:    len(recipe.Ingredients),
			Coverage: float64(matched) / float64(len(recipe.Ingredients)),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Coverage != suggestions[j].Coverage {
			return suggestions[i].Coverage > suggestions[j].Coverage
		}
		return suggestions[i].Matched > suggestions[j].Matched
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// ScaleRecipe recalculates a recipe's ingredient lines for a target serving
// count
func (s *RecipeService) ScaleRecipe(id uint, targetServings float64) (*ScaledRecipe, error) {
	if targetServings <= 0 {
		return nil, errors.NewValidationError("target servings must be positive")
	}

	recipe, err := s.GetRecipe(id)
	if err != nil {
		return nil, err
	}

	lines := make([]planner.IngredientLine, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		lines = append(lines, planner.IngredientLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Calories: item.Calories,
			Protein:  item.Protein,
			Fat:      item.Fat,
			Carbs:    item.Carbs,
		})
	}

	scaled := planner.ScaleIngredients(lines, recipe.Servings, targetServings)
	return &ScaledRecipe{
		RecipeID:       recipe.ID,
		Name:           recipe.Name,
		BaseServings:   recipe.Servings,
		TargetServings: targetServings,
		Ingredients:    scaled,
		Macros:         planner.ComputeMacros(scaled),
	}, nil
}

// invalidateShoppingLists clears every cached shopping list. Recipes are not
// user-scoped, so any cached range may reference the changed recipe.
func (s *RecipeService) invalidateShoppingLists() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func (s *RecipeService) logAction(userID string, recipeID *uint, action string, payload map[string]interface{}) {
	if userID == "" {
		return
	}
	if err := s.actionRepo.Append(userID, recipeID, action, payload); err != nil {
		log.Printf("[ERROR] Failed to record action %s: %v\n", action, err)
	}
}

func toIngredients(lines []models.IngredientRequest) []models.Ingredient {
	ingredients := make([]models.Ingredient, 0, len(lines))
	for _, line := range lines {
		ingredients = append(ingredients, toIngredient(line))
	}
	return ingredients
}

func toIngredient(line models.IngredientRequest) models.Ingredient {
	return models.Ingredient{
		Name:     strings.TrimSpace(line.Name),
		Quantity: line.Quantity,
		Unit:     line.Unit,
		Calories: line.Calories,
		Protein:  line.Protein,
		Fat:      line.Fat,
		Carbs:    line.Carbs,
	}
}

func toTags(tags []string) []models.RecipeTag {
	seen := make(map[string]bool)
	result := make([]models.RecipeTag, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, models.RecipeTag{Tag: tag})
	}
	return result
}

func buildUpdates(req *models.RecipeUpdateRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Instructions != nil {
		updates["instructions"] = *req.Instructions
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Cuisine != nil {
		updates["cuisine"] = *req.Cuisine
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.Servings != nil {
		updates["servings"] = *req.Servings
	}
	if req.PrepTime != nil {
		updates["prep_time"] = *req.PrepTime
	}
	if req.CookTime != nil {
		updates["cook_time"] = *req.CookTime
	}
	if req.Source != nil {
		updates["source"] = *req.Source
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	return updates
}

func updateKeys(updates map[string]interface{}, renamed bool) []string {
	keys := make([]string, 0, len(updates)+1)
	if renamed {
		keys = append(keys, "name")
	}
	for key := range updates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
