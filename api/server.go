package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
	"recipebot.app/config"
	recipeerr "recipebot.app/errors"
	"recipebot.app/models"
	"recipebot.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router          *gin.Engine
	db              *gorm.DB
	config          *config.Config
	recipeService   service.RecipeServiceInterface
	plannerService  service.PlannerServiceInterface
	reminderService service.ReminderServiceInterface
}

// NewServer creates and configures a new HTTP server
func NewServer(
	db *gorm.DB,
	config *config.Config,
	recipeService service.RecipeServiceInterface,
	plannerService service.PlannerServiceInterface,
	reminderService service.ReminderServiceInterface,
) *Server {
	router := gin.Default()

	server := &Server{
		router:          router,
		db:              db,
		config:          config,
		recipeService:   recipeService,
		plannerService:  plannerService,
		reminderService: reminderService,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.POST("/recipes", s.createRecipe)
		api.GET("/recipes", s.listRecipes)
		api.GET("/recipes/:id", s.getRecipe)
		api.PATCH("/recipes/:id", s.updateRecipe)
		api.DELETE("/recipes/:id", s.deleteRecipe)
		api.PUT("/recipes/:id/details", s.replaceDetails)
		api.PUT("/recipes/:id/tags", s.setTags)
		api.PUT("/recipes/:id/favorite", s.setFavorite)
		api.GET("/recipes/:id/scale", s.scaleRecipe)
		api.GET("/favorites", s.listFavorites)
		api.GET("/search", s.searchRecipes)
		api.POST("/suggest", s.suggestRecipes)

		api.POST("/plans", s.createPlan)
		api.GET("/plans", s.listPlans)
		api.DELETE("/plans/:id", s.deletePlan)
		api.GET("/shopping-list", s.shoppingList)

		api.POST("/reminders", s.scheduleReminder)
		api.DELETE("/reminders/:id", s.cancelReminder)
		api.DELETE("/reminders/jobs/:name", s.cancelReminderByJobName)

		api.GET("/stats", s.statistics)
		api.GET("/dashboard", s.dashboard)
		api.GET("/actions", s.recentActions)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck reports liveness of the process and its database connection
func (s *Server) healthCheck(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		slog.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) createRecipe(c *gin.Context) {
	var req models.RecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, recipeerr.NewValidationError("invalid request format"))
		return
	}

	slog.Debug("Creating recipe", "name", req.Name, "user", req.UserID)
	recipe, err := s.recipeService.CreateRecipe(&req)
	if err != nil {
		slog.Error("Create recipe error", "error", err, "name", req.Name)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (s *Server) listRecipes(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		recipe, err := s.recipeService.GetRecipeByName(name)
		if err != nil {
			s.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, recipe)
		return
	}

	recipes, err := s.recipeService.ListRecipes()
	if err != nil {
		slog.Error("List recipes error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (s *Server) getRecipe(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	recipe, err := s.recipeService.GetRecipe(id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (s *Server) updateRecipe(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req models.RecipeUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, recipeerr.NewValidationError("invalid request format"))
		return
	}

	recipe, err := s.recipeService.UpdateRecipe(id, &req)
	if err != nil {
		slog.Error("Update recipe error", "error", err, "id", id)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (s *Server) deleteRecipe(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, recipeerr.NewValidationError("user_id parameter is required"))
		return
	}

	if err := s.recipeService.DeleteRecipe(userID, id); err != nil {
		slog.Error("Delete recipe error", "error", err, "id", id)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}

func (s *Server) replaceDetails(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req models.RecipeDetailsRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, recipeerr.NewValidationError("invalid request format"))
		return
	}

	recipe, err := s.recipeService.ReplaceDetails(id, &req)
	if err != nil {
		slog.Error("Replace details error", "error", err, "id", id)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

type tagsRequest struct {
	UserID string   `json:"user_id" binding:"required"`
	Tags   []string `json:"tags"`
}

func (s *Server) setTags(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req tagsRequest
	if err := c.ShouldBind(&req); err != nil {
		s.handleError(c, recipeerr.NewValidationError("invalid request format"))
		return
	}

	if err := s.recipeService.SetTags(req.UserID, id, req.Tags); err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tags updated"})
}

type favoriteRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Favorite *bool  `json:"favorite" binding:"required"`
}

func (s *Server) setFavorite(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req favoriteRequest
	if err := c.ShouldBind(&req); err != nil {
		s.handleError(c, recipeerr.NewValidationError("invalid request format"))
		return
	}

	if err := s.recipeService.SetFavorite(req.UserID, id, *req.Favorite); err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite flag updated"})
}

func (s *Server) scaleRecipe(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	servings, err := strconv.ParseFloat(c.Query("servings"), 64)
	if err != nil {
		s.handleError(c, recipeerr.NewValidationError("servings parameter must be a number"))
		return
	}

	scaled, err := s.recipeService.ScaleRecipe(id, servings)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, scaled)
}

func (s *Server) listFavorites(c *gin.Context) {
	recipes, err := s.recipeService.ListFavorites()
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (s *Server) searchRecipes(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.handleError(c, recipeerr.NewValidationError("q parameter is required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	recipes, err := s.recipeService.SearchRecipes(query, limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

type suggestRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
	Limit       int      `json:"limit"`
}

func (s *Server) suggestRecipes(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBind(&req); err != nil {
		s.handleError(c, recipeerr.NewValidationError("invalid request format"))
		return
	}

	suggestions, err := s.recipeService.SuggestByIngredients(req.Ingredients, req.Limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

func (s *Server) createPlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, recipeerr.NewValidationError("invalid request format"))
		return
	}

	entry, err := s.plannerService.CreatePlanEntry(&req)
	if err != nil {
		slog.Error("Create plan error", "error", err, "recipe", req.RecipeID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (s *Server) listPlans(c *gin.Context) {
	userID, start, end, ok := s.rangeParams(c)
	if !ok {
		return
	}

	plans, err := s.plannerService.PlansInRange(userID, start, end)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

func (s *Server) deletePlan(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, recipeerr.NewValidationError("user_id parameter is required"))
		return
	}

	if err := s.plannerService.DeletePlanEntry(userID, id); err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan entry deleted"})
}

func (s *Server) shoppingList(c *gin.Context) {
	userID, start, end, ok := s.rangeParams(c)
	if !ok {
		return
	}

	list, err := s.plannerService.ShoppingList(userID, start, end)
	if err != nil {
		slog.Error("Shopping list error", "error", err, "user", userID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (s *Server) scheduleReminder(c *gin.Context) {
	var req models.ReminderRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, recipeerr.NewValidationError("invalid request format"))
		return
	}

	reminder, err := s.reminderService.ScheduleReminder(&req)
	if err != nil {
		slog.Error("Schedule reminder error", "error", err, "user", req.UserID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

func (s *Server) cancelReminder(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, recipeerr.NewValidationError("user_id parameter is required"))
		return
	}

	if err := s.reminderService.CancelReminder(userID, id); err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder cancelled"})
}

func (s *Server) cancelReminderByJobName(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, recipeerr.NewValidationError("user_id parameter is required"))
		return
	}

	if err := s.reminderService.CancelReminderByJobName(userID, c.Param("name")); err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder cancelled"})
}

func (s *Server) statistics(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, recipeerr.NewValidationError("user_id parameter is required"))
		return
	}

	stats, err := s.plannerService.Statistics(userID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (s *Server) dashboard(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, recipeerr.NewValidationError("user_id parameter is required"))
		return
	}

	summary, err := s.plannerService.Dashboard(userID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) recentActions(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, recipeerr.NewValidationError("user_id parameter is required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	actions, err := s.plannerService.RecentActions(userID, limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, actions)
}

func (s *Server) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		s.handleError(c, recipeerr.NewValidationError("id parameter must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

func (s *Server) rangeParams(c *gin.Context) (string, string, string, bool) {
	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, recipeerr.NewValidationError("user_id parameter is required"))
		return "", "", "", false
	}

	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		s.handleError(c, recipeerr.NewValidationError("start_date and end_date parameters are required"))
		return "", "", "", false
	}

	return userID, start, end, true
}

// handleError handles different types of application errors
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *recipeerr.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case recipeerr.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case recipeerr.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case recipeerr.AlreadyExistsError:
			statusCode = http.StatusConflict
			message = appErr.Message
		case recipeerr.DatabaseError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		case recipeerr.DeliveryError:
			statusCode = http.StatusServiceUnavailable
			message = "Unable to deliver message"
		case recipeerr.CacheError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
