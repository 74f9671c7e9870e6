package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"recipebot.app/config"
	apperrors "recipebot.app/errors"
	"recipebot.app/models"
	"recipebot.app/planner"
	"recipebot.app/service"
)

type mockRecipeService struct {
	mock.Mock
}

func (m *mockRecipeService) CreateRecipe(req *models.RecipeRequest) (*models.Recipe, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *mockRecipeService) GetRecipe(id uint) (*models.Recipe, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *mockRecipeService) GetRecipeByName(name string) (*models.Recipe, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *mockRecipeService) ListRecipes() ([]models.Recipe, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *mockRecipeService) UpdateRecipe(id uint, req *models.RecipeUpdateRequest) (*models.Recipe, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *mockRecipeService) DeleteRecipe(userID string, id uint) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *mockRecipeService) ReplaceDetails(id uint, req *models.RecipeDetailsRequest) (*models.Recipe, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *mockRecipeService) SetTags(userID string, id uint, tags []string) error {
	args := m.Called(userID, id, tags)
	return args.Error(0)
}

func (m *mockRecipeService) AddIngredient(id uint, req *models.IngredientRequest) error {
	args := m.Called(id, req)
	return args.Error(0)
}

func (m *mockRecipeService) SetFavorite(userID string, id uint, value bool) error {
	args := m.Called(userID, id, value)
	return args.Error(0)
}

func (m *mockRecipeService) ListFavorites() ([]models.Recipe, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *mockRecipeService) SearchRecipes(query string, limit int) ([]models.Recipe, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *mockRecipeService) SuggestByIngredients(available []string, limit int) ([]service.RecipeSuggestion, error) {
	args := m.Called(available, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecipeSuggestion), args.Error(1)
}

func (m *mockRecipeService) ScaleRecipe(id uint, targetServings float64) (*service.ScaledRecipe, error) {
	args := m.Called(id, targetServings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScaledRecipe), args.Error(1)
}

type mockPlannerService struct {
	mock.Mock
}

func (m *mockPlannerService) CreatePlanEntry(req *models.PlanRequest) (*models.MealPlanEntry, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlanEntry), args.Error(1)
}

func (m *mockPlannerService) DeletePlanEntry(userID string, id uint) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *mockPlannerService) PlansInRange(userID, startDate, endDate string) ([]planner.PlanSummary, error) {
	args := m.Called(userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planner.PlanSummary), args.Error(1)
}

func (m *mockPlannerService) ShoppingList(userID, startDate, endDate string) (*planner.ShoppingList, error) {
	args := m.Called(userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planner.ShoppingList), args.Error(1)
}

func (m *mockPlannerService) Statistics(userID string) (*service.Statistics, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Statistics), args.Error(1)
}

func (m *mockPlannerService) Dashboard(userID string) (*service.Dashboard, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *mockPlannerService) RecentActions(userID string, limit int) ([]models.ActionLogEntry, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActionLogEntry), args.Error(1)
}

type mockReminderService struct {
	mock.Mock
}

func (m *mockReminderService) ScheduleReminder(req *models.ReminderRequest) (*models.Reminder, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reminder), args.Error(1)
}

func (m *mockReminderService) CancelReminder(userID string, id uint) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *mockReminderService) CancelReminderByJobName(userID, jobName string) error {
	args := m.Called(userID, jobName)
	return args.Error(0)
}

var _ service.RecipeServiceInterface = (*mockRecipeService)(nil)
var _ service.PlannerServiceInterface = (*mockPlannerService)(nil)
var _ service.ReminderServiceInterface = (*mockReminderService)(nil)

type testServer struct {
	server  *Server
	recipes *mockRecipeService
	plans   *mockPlannerService
	reminds *mockReminderService
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	recipes := new(mockRecipeService)
	plans := new(mockPlannerService)
	reminds := new(mockReminderService)

	cfg := &config.Config{}
	cfg.Server.Port = 8080

	return &testServer{
		server:  NewServer(nil, cfg, recipes, plans, reminds),
		recipes: recipes,
		plans:   plans,
		reminds: reminds,
	}
}

func (ts *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.server.GetRouter().ServeHTTP(w, req)
	return w
}

func TestGetRecipe(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		ts := newTestServer()
		ts.recipes.On("GetRecipe", uint(1)).Return(&models.Recipe{ID: 1, Name: "Soup"}, nil)

		w := ts.do(http.MethodGet, "/api/recipes/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got models.Recipe
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Soup", got.Name)
	})

	t.Run("NotFoundMapsTo404", func(t *testing.T) {
		ts := newTestServer()
		ts.recipes.On("GetRecipe", uint(9)).Return(nil, apperrors.NewNotFoundError("recipe not found"))

		w := ts.do(http.MethodGet, "/api/recipes/9", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadIDMapsTo400", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do(http.MethodGet, "/api/recipes/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateRecipe(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		ts := newTestServer()
		ts.recipes.On("CreateRecipe", mock.Anything).Return(&models.Recipe{ID: 1, Name: "Soup"}, nil)

		w := ts.do(http.MethodPost, "/api/recipes", models.RecipeRequest{UserID: "u1", Name: "Soup"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("MissingNameMapsTo400", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do(http.MethodPost, "/api/recipes", map[string]string{"user_id": "u1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		ts.recipes.AssertNotCalled(t, "CreateRecipe", mock.Anything)
	})

	t.Run("DuplicateMapsTo409", func(t *testing.T) {
		ts := newTestServer()
		ts.recipes.On("CreateRecipe", mock.Anything).
			Return(nil, apperrors.NewAlreadyExistsError("a recipe with this name already exists"))

		w := ts.do(http.MethodPost, "/api/recipes", models.RecipeRequest{UserID: "u1", Name: "Soup"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestScaleRecipe(t *testing.T) {
	t.Run("BadServingsMapsTo400", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do(http.MethodGet, "/api/recipes/1/scale?servings=lots", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Scaled", func(t *testing.T) {
		ts := newTestServer()
		ts.recipes.On("ScaleRecipe", uint(1), 3.0).Return(&service.ScaledRecipe{
			RecipeID: 1, Name: "Soup", BaseServings: 2, TargetServings: 3,
		}, nil)

		w := ts.do(http.MethodGet, "/api/recipes/1/scale?servings=3", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCreatePlan(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		ts := newTestServer()
		ts.plans.On("CreatePlanEntry", mock.Anything).Return(&models.MealPlanEntry{ID: 1}, nil)

		w := ts.do(http.MethodPost, "/api/plans", models.PlanRequest{
			UserID: "u1", ChatID: 1, RecipeID: 1, PlanDate: "2024-06-01", MealType: "dinner",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("BadMealTypeMapsTo400", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do(http.MethodPost, "/api/plans", models.PlanRequest{
			UserID: "u1", ChatID: 1, RecipeID: 1, PlanDate: "2024-06-01", MealType: "brunch",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		ts.plans.AssertNotCalled(t, "CreatePlanEntry", mock.Anything)
	})
}

func TestShoppingList(t *testing.T) {
	t.Run("MissingParamsMapTo400", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do(http.MethodGet, "/api/shopping-list?user_id=u1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ReturnsList", func(t *testing.T) {
		ts := newTestServer()
		ts.plans.On("ShoppingList", "u1", "2024-06-01", "2024-06-07").Return(&planner.ShoppingList{
			StartDate: "2024-06-01", EndDate: "2024-06-07",
			Items: []planner.ShoppingItem{{Name: "carrot"}},
		}, nil)

		w := ts.do(http.MethodGet, "/api/shopping-list?user_id=u1&start_date=2024-06-01&end_date=2024-06-07", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got planner.ShoppingList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got.Items, 1)
		assert.Equal(t, "carrot", got.Items[0].Name)
	})
}

func TestCancelReminder(t *testing.T) {
	t.Run("MissingUserMapsTo400", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do(http.MethodDelete, "/api/reminders/1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ts := newTestServer()
		ts.reminds.On("CancelReminder", "u1", uint(1)).Return(nil)

		w := ts.do(http.MethodDelete, "/api/reminders/1?user_id=u1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ByJobName", func(t *testing.T) {
		ts := newTestServer()
		ts.reminds.On("CancelReminderByJobName", "u1", "reminder_1_100").Return(nil)

		w := ts.do(http.MethodDelete, "/api/reminders/jobs/reminder_1_100?user_id=u1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	server := NewServer(db, &config.Config{}, new(mockRecipeService), new(mockPlannerService), new(mockReminderService))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.GetRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
