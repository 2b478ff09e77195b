package handler

import (
	"net/http"

	"github.com/templui/keystone/internal/ctxkeys"
	"github.com/templui/keystone/internal/model"
	"github.com/templui/keystone/internal/repository"
	"github.com/templui/keystone/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var in service.CreateGoalInput
	err := decodeJSON(w, r, &in, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

// List supports optional ?level= and ?status= filters.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	filter := repository.GoalFilter{
		Level:  model.Level(r.URL.Query().Get("level")),
		Status: model.Status(r.URL.Query().Get("status")),
	}

	goals, err := h.goalService.Goals(r.Context(), userID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	forest, err := h.goalService.Hierarchy(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, forest)
}

func (h *GoalHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	tasks, err := h.goalService.TodaysTasks(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	goal, err := h.goalService.ByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var patch service.GoalPatch
	err := decodeJSON(w, r, &patch, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	goal, err := h.goalService.MarkComplete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

type learningRequest struct {
	Learnings string `json:"learnings"`
}

func (h *GoalHandler) Learning(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req learningRequest
	err := decodeJSON(w, r, &req, true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.MarkLearning(r.Context(), userID, r.PathValue("id"), req.Learnings)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.goalService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
