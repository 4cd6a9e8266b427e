package handlers

import (
	"net/http"

	"github.com/udesh117/hackathon-system/services"
)

type LeaderboardHandler struct {
	scoreService services.ScoreService
}

func NewLeaderboardHandler(scoreService services.ScoreService) *LeaderboardHandler {
	return &LeaderboardHandler{scoreService: scoreService}
}

// Get serves the public leaderboard; forbidden until an admin publishes it.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	leaderboard, err := h.scoreService.Leaderboard(r.Context(), false)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": leaderboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetAdmin serves the leaderboard regardless of the publish flag.
func (h *LeaderboardHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	leaderboard, err := h.scoreService.Leaderboard(r.Context(), true)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": leaderboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Published bool `json:"published"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scoreService.SetPublished(r.Context(), input.Published); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"published": input.Published}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
