package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/models"
)

// NoteHandler serves the note thread endpoints.
type NoteHandler struct {
	svc domain.NoteService
	log *logrus.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(svc domain.NoteService, log *logrus.Logger) *NoteHandler {
	return &NoteHandler{svc: svc, log: log}
}

// List handles GET /api/v1/requests/:id/notes.
func (h *NoteHandler) List(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	notes, err := h.svc.ListNotes(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "listing notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// Create handles POST /api/v1/requests/:id/notes.
func (h *NoteHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var in models.CreateNoteInput
	if !bindBody(c, &in) {
		return
	}

	note, err := h.svc.AddNote(c.Request.Context(), actor, id, in)
	if err != nil {
		respondServiceError(c, h.log, err, "adding note")
		return
	}

	h.log.WithFields(logrus.Fields{"action": "note.create", "user_id": actor.UserID, "request_id": id}).Info("audit")

	c.JSON(http.StatusCreated, note)
}
