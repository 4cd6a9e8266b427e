package handlers

import (
	"net/http"

	"github.com/udesh117/hackathon-system/services"
)

type JudgeHandler struct {
	judgeService services.JudgeService
}

func NewJudgeHandler(judgeService services.JudgeService) *JudgeHandler {
	return &JudgeHandler{judgeService: judgeService}
}

func (h *JudgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateJudgeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	judge, err := h.judgeService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"judge": judge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JudgeHandler) List(w http.ResponseWriter, r *http.Request) {
	judges, err := h.judgeService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"judges": judges}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JudgeHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	judgeID, err := getIDFromURL(r, "judgeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Active bool `json:"active"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.judgeService.SetActive(r.Context(), judgeID, input.Active); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "judge status updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JudgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	judgeID, err := getIDFromURL(r, "judgeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.judgeService.Delete(r.Context(), judgeID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
