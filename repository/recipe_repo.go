// Package repository implements data access layer for the application
package repository

import (
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"
	apperrors "recipebot.app/errors"
	"recipebot.app/models"
)

// CategoryCount is one row of the category popularity breakdown
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// RecipeRepository handles data access operations for recipes and their
// ingredient lines and tags
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new repository for recipe data
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// foldName mirrors the folding in models.Recipe.BeforeSave so lookups match
// the stored name_lower column for non-ASCII names too
func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// FindByID retrieves a recipe with its ingredient lines and tags
func (r *RecipeRepository) FindByID(id uint) (*models.Recipe, error) {
	log.Printf("[DEBUG] RecipeRepository.FindByID: id=%d\n", id)

	var recipe models.Recipe
	result := r.preloaded().First(&recipe, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Println("[DEBUG] No recipe found")
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding recipe by ID: %v\n", result.Error)
		return nil, result.Error
	}

	return &recipe, nil
}

// FindByName retrieves a recipe by its case-insensitive name
func (r *RecipeRepository) FindByName(name string) (*models.Recipe, error) {
	log.Printf("[DEBUG] RecipeRepository.FindByName: name=%s\n", name)

	var recipe models.Recipe
	result := r.preloaded().
		Where("name_lower = ?", foldName(name)).
		First(&recipe)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding recipe by name: %v\n", result.Error)
		return nil, result.Error
	}

	return &recipe, nil
}

func (r *RecipeRepository) preloaded() *gorm.DB {
	return r.db.
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("LOWER(name)") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tag") })
}

// List retrieves all recipes ordered case-insensitively by name
func (r *RecipeRepository) List() ([]models.Recipe, error) {
	var recipes []models.Recipe
	result := r.preloaded().Order("name_lower").Find(&recipes)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing recipes: %v\n", result.Error)
		return nil, result.Error
	}

	log.Printf("[DEBUG] Found %d recipes\n", len(recipes))
	return recipes, nil
}

// Search finds recipes whose name contains the query, case-insensitively
func (r *RecipeRepository) Search(query string, limit int) ([]models.Recipe, error) {
	log.Printf("[DEBUG] RecipeRepository.Search: query=%s, limit=%d\n", query, limit)

	pattern := "%" + foldName(query) + "%"
	var recipes []models.Recipe
	result := r.db.
		Where("name_lower LIKE ?", pattern).
		Order("name_lower").
		Limit(limit).
		Find(&recipes)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when searching recipes: %v\n", result.Error)
		return nil, result.Error
	}

	return recipes, nil
}

// Create persists a new recipe with its ingredient lines and tags. The
// duplicate-name check and all child inserts run in a single transaction so a
// name collision writes no rows at all.
func (r *RecipeRepository) Create(recipe *models.Recipe) error {
	log.Printf("[DEBUG] RecipeRepository.Create: name=%s\n", recipe.Name)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).
			Where("name_lower = ?", foldName(recipe.Name)).
			Count(&count).Error; err != nil {
			log.Printf("[ERROR] Database error when checking recipe name: %v\n", err)
			return err
		}
		if count > 0 {
			return apperrors.NewAlreadyExistsError("a recipe with this name already exists")
		}

		if err := tx.Create(recipe).Error; err != nil {
			if isDuplicateKey(err) {
				return apperrors.NewAlreadyExistsError("a recipe with this name already exists")
			}
			log.Printf("[ERROR] Database error when creating recipe: %v\n", err)
			return err
		}
		return nil
	})
}

// Update applies the given column updates to a recipe and refreshes its
// update timestamp. Returns false when the recipe does not exist.
func (r *RecipeRepository) Update(id uint, updates map[string]interface{}) (bool, error) {
	log.Printf("[DEBUG] RecipeRepository.Update: id=%d\n", id)

	if len(updates) == 0 {
		return false, nil
	}

	result := r.db.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return false, apperrors.NewAlreadyExistsError("a recipe with this name already exists")
		}
		log.Printf("[ERROR] Database error when updating recipe: %v\n", result.Error)
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Rename changes a recipe's name, keeping the case-insensitive uniqueness
// invariant. Returns false when the recipe does not exist.
func (r *RecipeRepository) Rename(id uint, name string) (bool, error) {
	log.Printf("[DEBUG] RecipeRepository.Rename: id=%d, name=%s\n", id, name)

	found := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).
			Where("name_lower = ? AND id <> ?", foldName(name), id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.NewAlreadyExistsError("a recipe with this name already exists")
		}

		result := tx.Model(&models.Recipe{}).Where("id = ?", id).
			Updates(map[string]interface{}{"name": name, "name_lower": foldName(name)})
		if result.Error != nil {
			return result.Error
		}
		found = result.RowsAffected > 0
		return nil
	})
	return found, err
}

// Delete removes a recipe. Ingredient lines, tags and meal plan entries are
// removed by cascade; reminders referencing the recipe keep their row with a
// nulled recipe reference. Returns false when nothing was deleted.
func (r *RecipeRepository) Delete(id uint) (bool, error) {
	log.Printf("[DEBUG] RecipeRepository.Delete: id=%d\n", id)

	result := r.db.Delete(&models.Recipe{}, id)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when deleting recipe: %v\n", result.Error)
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// ReplaceDetails atomically replaces a recipe's ingredient list and, when
// provided, its tags, instructions and description. Returns false without
// writing anything when the recipe does not exist.
func (r *RecipeRepository) ReplaceDetails(
	id uint,
	ingredients []models.Ingredient,
	instructions *string,
	tags *[]string,
	description *string,
) (bool, error) {
	log.Printf("[DEBUG] RecipeRepository.ReplaceDetails: id=%d, ingredients=%d\n", id, len(ingredients))

	found := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true

		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].ID = 0
			ingredients[i].RecipeID = id
		}
		if len(ingredients) > 0 {
			if err := tx.Create(&ingredients).Error; err != nil {
				return err
			}
		}

		if tags != nil {
			if err := replaceTags(tx, id, *tags); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"updated_at": tx.NowFunc()}
		if instructions != nil {
			updates["instructions"] = *instructions
		}
		if description != nil {
			updates["description"] = *description
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		log.Printf("[ERROR] Database error when replacing recipe details: %v\n", err)
		return false, err
	}

	return found, nil
}

func replaceTags(tx *gorm.DB, recipeID uint, tags []string) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		clean := strings.ToLower(strings.TrimSpace(tag))
		if clean == "" {
			continue
		}
		err := tx.Create(&models.RecipeTag{RecipeID: recipeID, Tag: clean}).Error
		if err != nil && !isDuplicateKey(err) {
			return err
		}
	}
	return nil
}

// SetTags replaces a recipe's tag set. Returns false when the recipe does not exist.
func (r *RecipeRepository) SetTags(id uint, tags []string) (bool, error) {
	log.Printf("[DEBUG] RecipeRepository.SetTags: id=%d, tags=%d\n", id, len(tags))

	found := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true
		if err := replaceTags(tx, id, tags); err != nil {
			return err
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", id).
			Update("updated_at", tx.NowFunc()).Error
	})
	if err != nil {
		log.Printf("[ERROR] Database error when setting tags: %v\n", err)
		return false, err
	}
	return found, nil
}

// AddIngredient appends one ingredient line to a recipe. A line with the same
// name and unit already present is reported as a conflict.
func (r *RecipeRepository) AddIngredient(recipeID uint, ingredient *models.Ingredient) error {
	log.Printf("[DEBUG] RecipeRepository.AddIngredient: recipeID=%d, name=%s\n", recipeID, ingredient.Name)

	var count int64
	if err := r.db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NewNotFoundError("recipe not found")
	}

	ingredient.RecipeID = recipeID
	if err := r.db.Create(ingredient).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.NewAlreadyExistsError("this ingredient is already present for the recipe")
		}
		log.Printf("[ERROR] Database error when adding ingredient: %v\n", err)
		return err
	}
	return nil
}

// SetFavorite toggles the favorite flag. Returns false when the recipe does not exist.
func (r *RecipeRepository) SetFavorite(id uint, value bool) (bool, error) {
	log.Printf("[DEBUG] RecipeRepository.SetFavorite: id=%d, value=%t\n", id, value)

	result := r.db.Model(&models.Recipe{}).Where("id = ?", id).Update("is_favorite", value)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when setting favorite: %v\n", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListFavorites retrieves all favorite recipes ordered by name
func (r *RecipeRepository) ListFavorites() ([]models.Recipe, error) {
	var recipes []models.Recipe
	result := r.preloaded().
		Where("is_favorite = ?", true).
		Order("name_lower").
		Find(&recipes)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing favorites: %v\n", result.Error)
		return nil, result.Error
	}
	return recipes, nil
}

// CountAll returns the total number of recipes
func (r *RecipeRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Recipe{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountFavorites returns the number of favorite recipes
func (r *RecipeRepository) CountFavorites() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Recipe{}).Where("is_favorite = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TopCategories returns the most used non-empty categories
func (r *RecipeRepository) TopCategories(limit int) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.Model(&models.Recipe{}).
		Select("category, COUNT(*) AS count").
		Where("category IS NOT NULL AND category <> ''").
		Group("category").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		log.Printf("[ERROR] Database error when counting categories: %v\n", err)
		return nil, err
	}
	return rows, nil
}
