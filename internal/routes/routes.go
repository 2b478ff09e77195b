package routes

import (
	"net/http"

	"github.com/templui/keystone/internal/app"
	"github.com/templui/keystone/internal/handler"
	"github.com/templui/keystone/internal/metrics"
	"github.com/templui/keystone/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	goal := handler.NewGoalHandler(app.GoalService)
	habit := handler.NewHabitHandler(app.HabitService)

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// ============================================================================
	// API (/api/*) - caller identified by X-User-ID, rate limited per caller
	// ============================================================================

	api := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.RequireUser, app.RateLimiter.Middleware)
	}

	// Goals
	mux.Handle("POST /api/goals", api(goal.Create))
	mux.Handle("GET /api/goals", api(goal.List))
	mux.Handle("GET /api/goals/hierarchy", api(goal.Hierarchy))
	mux.Handle("GET /api/goals/today", api(goal.Today))
	mux.Handle("GET /api/goals/{id}", api(goal.Get))
	mux.Handle("PATCH /api/goals/{id}", api(goal.Update))
	mux.Handle("DELETE /api/goals/{id}", api(goal.Delete))
	mux.Handle("PATCH /api/goals/{id}/complete", api(goal.Complete))
	mux.Handle("PATCH /api/goals/{id}/learning", api(goal.Learning))

	// Habits
	mux.Handle("POST /api/habits", api(habit.Create))
	mux.Handle("GET /api/habits", api(habit.List))
	mux.Handle("GET /api/habits/{id}", api(habit.Get))
	mux.Handle("PATCH /api/habits/{id}", api(habit.Update))
	mux.Handle("DELETE /api/habits/{id}", api(habit.Delete))
	mux.Handle("POST /api/habits/{id}/complete", api(habit.Complete))
	mux.Handle("GET /api/habits/{id}/completions", api(habit.Completions))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging(mux),
		middleware.Recover,
	)

	return handler
}
