package handlers

import (
	"net/http"

	"github.com/udesh117/hackathon-system/middleware"
	"github.com/udesh117/hackathon-system/services"
)

type EvaluationHandler struct {
	evaluationService services.EvaluationService
}

func NewEvaluationHandler(evaluationService services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

func (h *EvaluationHandler) Get(w http.ResponseWriter, r *http.Request) {
	judgeID, teamID, ok := h.identify(w, r)
	if !ok {
		return
	}

	evaluation, err := h.evaluationService.Get(r.Context(), judgeID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"evaluation": evaluation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EvaluationHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	judgeID, teamID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var input services.EvaluationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	evaluation, err := h.evaluationService.SaveDraft(r.Context(), judgeID, teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"evaluation": evaluation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EvaluationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	judgeID, teamID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var input services.EvaluationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	evaluation, err := h.evaluationService.Submit(r.Context(), judgeID, teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"evaluation": evaluation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update amends an already-submitted evaluation in place.
func (h *EvaluationHandler) Update(w http.ResponseWriter, r *http.Request) {
	judgeID, teamID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var input services.EvaluationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	evaluation, err := h.evaluationService.Update(r.Context(), judgeID, teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"evaluation": evaluation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetLocked is the admin endpoint toggling the edit lock on an evaluation.
func (h *EvaluationHandler) SetLocked(w http.ResponseWriter, r *http.Request) {
	judgeID, err := getIDFromURL(r, "judgeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Locked bool `json:"locked"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.evaluationService.SetLocked(r.Context(), judgeID, teamID, input.Locked); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "evaluation lock updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EvaluationHandler) identify(w http.ResponseWriter, r *http.Request) (judgeID, teamID int, ok bool) {
	judgeID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return 0, 0, false
	}

	teamID, err = getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}

	return judgeID, teamID, true
}
