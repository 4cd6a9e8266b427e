package handlers

import (
	"net/http"

	"github.com/udesh117/hackathon-system/services"
)

type AnnouncementHandler struct {
	announcementService services.AnnouncementService
}

func NewAnnouncementHandler(announcementService services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.AnnouncementInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	announcement, err := h.announcementService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"announcement": announcement}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List serves published announcements; admins see scheduled ones too.
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *AnnouncementHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *AnnouncementHandler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	announcements, err := h.announcementService.List(r.Context(), publishedOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"announcements": announcements}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "announcementID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.announcementService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
