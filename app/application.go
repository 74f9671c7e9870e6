package app

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"recipebot.app/api"
	"recipebot.app/config"
	"recipebot.app/database"
	"recipebot.app/providers"
	"recipebot.app/repository"
	"recipebot.app/scheduler"
	"recipebot.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	server    *api.Server
	scheduler *scheduler.ReminderScheduler
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...")

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	shoppingCache, err := providers.NewShoppingListCache(&app.config.Cache)
	if err != nil {
		return fmt.Errorf("create shopping list cache: %w", err)
	}

	notifier := providers.NewBotNotifier(&app.config.Bot)

	recipeRepo := repository.NewRecipeRepository(app.db)
	planRepo := repository.NewMealPlanRepository(app.db)
	reminderRepo := repository.NewReminderRepository(app.db)
	actionRepo := repository.NewActionLogRepository(app.db)

	app.scheduler = scheduler.NewReminderScheduler(reminderRepo, actionRepo, notifier)

	cacheTTL := time.Duration(app.config.Cache.TTLMinutes) * time.Minute
	recipeService := service.NewRecipeService(recipeRepo, actionRepo, shoppingCache)
	plannerService := service.NewPlannerService(planRepo, recipeRepo, actionRepo, shoppingCache, cacheTTL)
	reminderService := service.NewReminderService(app.scheduler, reminderRepo, planRepo, recipeRepo, actionRepo)

	app.server = api.NewServer(app.db, app.config, recipeService, plannerService, reminderService)

	slog.Info("Services initialized successfully")
	return nil
}

// Start re-arms persisted reminders and then starts the HTTP server
func (app *Application) Start() error {
	slog.Info("Starting application...")

	slog.Info("Recovering persisted reminders...")
	if err := app.scheduler.Recover(); err != nil {
		return fmt.Errorf("recover persisted reminders: %w", err)
	}

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
