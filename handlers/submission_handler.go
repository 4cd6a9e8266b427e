package handlers

import (
	"net/http"

	"github.com/udesh117/hackathon-system/middleware"
	"github.com/udesh117/hackathon-system/services"
)

type SubmissionHandler struct {
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, false)
}

func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, true)
}

func (h *SubmissionHandler) save(w http.ResponseWriter, r *http.Request, final bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.SubmissionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var submission interface{}
	if final {
		submission, err = h.submissionService.Submit(r.Context(), userID, input)
	} else {
		submission, err = h.submissionService.SaveDraft(r.Context(), userID, input)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"submission": submission}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SubmissionHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	submission, err := h.submissionService.GetForUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"submission": submission}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SubmissionHandler) GetForTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	submission, err := h.submissionService.GetForTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"submission": submission}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SubmissionHandler) UploadArtifact(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("artifact")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	submission, err := h.submissionService.UploadArtifact(r.Context(), userID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"submission": submission}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
