// Package planner implements the pure computation over recipe ingredient lines
// and planned servings: recipe scaling and shopping list aggregation.
package planner

import (
	"sort"
	"strings"
)

// IngredientLine carries one ingredient with quantity and macro values defined
// at some serving count. Nil values mean "not recorded".
type IngredientLine struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Carbs    *float64 `json:"carbs"`
}

// Row is one joined (plan entry, ingredient) record for a date range. Ingredient
// fields are nil for plan entries whose recipe has no recorded ingredients.
type Row struct {
	PlanID          uint
	PlanDate        string
	MealType        string
	PlannedServings *float64
	Notes           *string
	RecipeID        uint
	RecipeName      string
	BaseServings    *float64
	IngredientName  *string
	Quantity        *float64
	Unit            *string
	Calories        *float64
	Protein         *float64
	Fat             *float64
	Carbs           *float64
}

// ShoppingItem is one consolidated shopping list entry for a (name, unit) group
type ShoppingItem struct {
	Name     string   `json:"name"`
	Unit     *string  `json:"unit"`
	Quantity *float64 `json:"quantity"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Carbs    *float64 `json:"carbs"`
}

// PlanSummary describes one plan entry contributing to a range
type PlanSummary struct {
	PlanID          uint     `json:"plan_id"`
	PlanDate        string   `json:"plan_date"`
	MealType        string   `json:"meal_type"`
	RecipeID        uint     `json:"recipe_id"`
	RecipeName      string   `json:"recipe_name"`
	PlannedServings float64  `json:"planned_servings"`
	BaseServings    float64  `json:"base_servings"`
	Notes           *string  `json:"notes,omitempty"`
}

// ShoppingList is the aggregated result for a user's date range
type ShoppingList struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Items     []ShoppingItem `json:"items"`
	Plans     []PlanSummary  `json:"plans"`
}

// MacroTotals sums macro values over a set of ingredient lines
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// ScaleRatio computes the scaling factor target/base. A non-positive base
// yields 1.0 instead of dividing by zero.
func ScaleRatio(base, target float64) float64 {
	if base <= 0 {
		return 1.0
	}
	return target / base
}

// ScaleIngredients scales every quantity and macro value by target/base. Nil
// values stay nil; names and units pass through unchanged.
func ScaleIngredients(lines []IngredientLine, base, target float64) []IngredientLine {
	ratio := ScaleRatio(base, target)
	scaled := make([]IngredientLine, 0, len(lines))
	for _, line := range lines {
		item := line
		item.Quantity = scaleValue(line.Quantity, ratio)
		item.Calories = scaleValue(line.Calories, ratio)
		item.Protein = scaleValue(line.Protein, ratio)
		item.Fat = scaleValue(line.Fat, ratio)
		item.Carbs = scaleValue(line.Carbs, ratio)
		scaled = append(scaled, item)
	}
	return scaled
}

func scaleValue(value *float64, ratio float64) *float64 {
	if value == nil {
		return nil
	}
	scaled := *value * ratio
	return &scaled
}

// ComputeMacros totals the non-nil macro values of the given lines
func ComputeMacros(lines []IngredientLine) MacroTotals {
	var totals MacroTotals
	for _, line := range lines {
		totals.Calories += deref(line.Calories)
		totals.Protein += deref(line.Protein)
		totals.Fat += deref(line.Fat)
		totals.Carbs += deref(line.Carbs)
	}
	return totals
}

func deref(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

type groupKey struct {
	name    string
	unit    string
	hasUnit bool
}

// Aggregate consolidates joined plan rows into a shopping list and the list of
// distinct plan entries in the range. Rows with an empty or whitespace-only
// ingredient name are kept in the plan list but excluded from aggregation.
// Grouping is case-insensitive on the trimmed ingredient name and exact on the
// unit (a nil unit only groups with a nil unit). A group's quantity or macro
// sum is present only when at least one row contributes a non-nil value.
func Aggregate(rows []Row) ([]ShoppingItem, []PlanSummary) {
	groups := make(map[groupKey]*ShoppingItem)
	var order []groupKey

	plans := make([]PlanSummary, 0)
	seenPlans := make(map[uint]bool)

	for _, row := range rows {
		if !seenPlans[row.PlanID] {
			seenPlans[row.PlanID] = true
			plans = append(plans, PlanSummary{
				PlanID:          row.PlanID,
				PlanDate:        row.PlanDate,
				MealType:        row.MealType,
				RecipeID:        row.RecipeID,
				RecipeName:      row.RecipeName,
				PlannedServings: servingsOrDefault(row.PlannedServings),
				BaseServings:    servingsOrDefault(row.BaseServings),
				Notes:           row.Notes,
			})
		}

		name := ""
		if row.IngredientName != nil {
			name = strings.TrimSpace(*row.IngredientName)
		}
		if name == "" {
			continue
		}

		ratio := servingsOrDefault(row.PlannedServings) / servingsOrDefault(row.BaseServings)

		key := groupKey{name: strings.ToLower(name)}
		if row.Unit != nil {
			key.unit = *row.Unit
			key.hasUnit = true
		}

		entry, ok := groups[key]
		if !ok {
			entry = &ShoppingItem{Name: name, Unit: row.Unit}
			groups[key] = entry
			order = append(order, key)
		}
		entry.Quantity = accumulate(entry.Quantity, row.Quantity, ratio)
		entry.Calories = accumulate(entry.Calories, row.Calories, ratio)
		entry.Protein = accumulate(entry.Protein, row.Protein, ratio)
		entry.Fat = accumulate(entry.Fat, row.Fat, ratio)
		entry.Carbs = accumulate(entry.Carbs, row.Carbs, ratio)
	}

	items := make([]ShoppingItem, 0, len(order))
	for _, key := range order {
		items = append(items, *groups[key])
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	return items, plans
}

// servingsOrDefault treats nil or non-positive serving counts as 1
func servingsOrDefault(value *float64) float64 {
	if value == nil || *value <= 0 {
		return 1
	}
	return *value
}

// accumulate adds value*ratio into sum; a nil value leaves sum untouched so an
// all-nil group ends up absent rather than a misleading zero
func accumulate(sum, value *float64, ratio float64) *float64 {
	if value == nil {
		return sum
	}
	total := deref(sum) + *value*ratio
	return &total
}
