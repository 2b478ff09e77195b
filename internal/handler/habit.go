package handler

import (
	"net/http"

	"github.com/templui/keystone/internal/ctxkeys"
	"github.com/templui/keystone/internal/service"
	"github.com/templui/keystone/internal/streak"
)

type HabitHandler struct {
	habitService *service.HabitService
}

func NewHabitHandler(habitService *service.HabitService) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
	}
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var in service.CreateHabitInput
	err := decodeJSON(w, r, &in, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	habit, err := h.habitService.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, habit)
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	days, err := windowDays(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	habits, err := h.habitService.Habits(r.Context(), userID, days)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	days, err := windowDays(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	habit, err := h.habitService.ByID(r.Context(), userID, r.PathValue("id"), days)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var patch service.HabitPatch
	err := decodeJSON(w, r, &patch, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	habit, err := h.habitService.Update(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.habitService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	Date streak.Date `json:"date"` // Optional, YYYY-MM-DD; defaults to today
}

func (h *HabitHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req completeRequest
	err := decodeJSON(w, r, &req, true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	completion, err := h.habitService.CompleteOn(r.Context(), userID, r.PathValue("id"), req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, completion)
}

func (h *HabitHandler) Completions(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	days, err := windowDays(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	completions, err := h.habitService.Completions(r.Context(), userID, r.PathValue("id"), days)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, completions)
}
