package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/keystone/internal/config"
	"github.com/templui/keystone/internal/db"
	"github.com/templui/keystone/internal/middleware"
	"github.com/templui/keystone/internal/repository"
	"github.com/templui/keystone/internal/service"
)

type App struct {
	Cfg          *config.Config
	DB           *sqlx.DB
	GoalService  *service.GoalService
	HabitService *service.HabitService
	RateLimiter  *middleware.RateLimiter
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewWithDB(cfg, database), nil
}

// NewWithDB wires repositories and services around an open, migrated database.
func NewWithDB(cfg *config.Config, database *sqlx.DB) *App {
	loc := cfg.Location()

	// Repositories
	goalRepository := repository.NewGoalRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	completionRepository := repository.NewCompletionRepository(database)

	// Services
	goalService := service.NewGoalService(goalRepository)
	ledger := service.NewCompletionLedger(habitRepository, completionRepository, loc)
	habitService := service.NewHabitService(habitRepository, completionRepository, ledger, loc, cfg.HabitWindowDays)

	return &App{
		Cfg:          cfg,
		DB:           database,
		GoalService:  goalService,
		HabitService: habitService,
		RateLimiter:  middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
