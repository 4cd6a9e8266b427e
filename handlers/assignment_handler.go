package handlers

import (
	"net/http"

	"github.com/udesh117/hackathon-system/middleware"
	"github.com/udesh117/hackathon-system/services"
)

type AssignmentHandler struct {
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Assignments []services.AssignmentPair `json:"assignments"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.assignmentService.Assign(r.Context(), input.Assignments)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"assignments": created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AssignmentHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	var input services.ReassignInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignment, err := h.assignmentService.Reassign(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignment": assignment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AssignmentHandler) ListMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.assignmentService.ListMatrix(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"judges": matrix}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMine returns the calling judge's assigned teams with evaluation status.
func (h *AssignmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	judgeID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	teams, err := h.assignmentService.ListForJudge(r.Context(), judgeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AssignmentHandler) AutoBalance(w http.ResponseWriter, r *http.Request) {
	result, err := h.assignmentService.AutoBalance(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
