package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/models"
)

// RequestHandler serves maintenance request endpoints.
type RequestHandler struct {
	svc domain.RequestService
	log *logrus.Logger
}

// NewRequestHandler creates a RequestHandler.
func NewRequestHandler(svc domain.RequestService, log *logrus.Logger) *RequestHandler {
	return &RequestHandler{svc: svc, log: log}
}

// List handles GET /api/v1/properties/:propertyId/requests.
func (h *RequestHandler) List(c *gin.Context) {
	propertyID := c.Param("propertyId")
	if err := validatePathID(propertyID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	reqs, err := h.svc.ListRequests(c.Request.Context(), propertyID, parseQuery(c))
	if err != nil {
		respondServiceError(c, h.log, err, "listing requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": reqs, "count": len(reqs)})
}

// Create handles POST /api/v1/properties/:propertyId/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	propertyID := c.Param("propertyId")
	if err := validatePathID(propertyID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var in models.CreateRequestInput
	if !bindBody(c, &in) {
		return
	}

	req, err := h.svc.CreateRequest(c.Request.Context(), actor, propertyID, in)
	if err != nil {
		respondServiceError(c, h.log, err, "creating request")
		return
	}

	h.log.WithFields(logrus.Fields{"action": "request.create", "user_id": actor.UserID, "request_id": req.ID}).Info("audit")

	c.JSON(http.StatusCreated, req)
}

// Get handles GET /api/v1/requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	req, err := h.svc.GetRequest(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "getting request")
		return
	}

	c.JSON(http.StatusOK, req)
}

// Patch handles PATCH /api/v1/requests/:id.
func (h *RequestHandler) Patch(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var in models.PatchRequestInput
	if !bindBody(c, &in) {
		return
	}

	req, err := h.svc.PatchRequest(c.Request.Context(), actor, id, in)
	if err != nil {
		respondServiceError(c, h.log, err, "patching request")
		return
	}

	h.log.WithFields(logrus.Fields{"action": "request.update", "user_id": actor.UserID, "request_id": id}).Info("audit")

	c.JSON(http.StatusOK, req)
}

// Transition handles POST /api/v1/requests/:id/transition.
func (h *RequestHandler) Transition(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var in models.TransitionInput
	if !bindBody(c, &in) {
		return
	}

	if err := in.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	req, err := h.svc.TransitionRequest(c.Request.Context(), actor, id, in.Status)
	if err != nil {
		respondServiceError(c, h.log, err, "transitioning request")
		return
	}

	h.log.WithFields(logrus.Fields{
		"action":     "request.transition",
		"user_id":    actor.UserID,
		"request_id": id,
		"status":     req.Status,
	}).Info("audit")

	c.JSON(http.StatusOK, req)
}

// Delete handles DELETE /api/v1/requests/:id.
func (h *RequestHandler) Delete(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	if err := h.svc.DeleteRequest(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, h.log, err, "deleting request")
		return
	}

	h.log.WithFields(logrus.Fields{"action": "request.delete", "user_id": actor.UserID, "request_id": id}).Info("audit")

	c.Status(http.StatusNoContent)
}
