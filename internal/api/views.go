package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/maintenance"
)

// ViewHandler serves the calendar and dashboard endpoints.
type ViewHandler struct {
	svc domain.ViewService
	log *logrus.Logger
	now func() time.Time
}

// NewViewHandler creates a ViewHandler.
func NewViewHandler(svc domain.ViewService, log *logrus.Logger) *ViewHandler {
	return &ViewHandler{svc: svc, log: log, now: time.Now}
}

// calendarResponse is the JSON payload returned by the calendar endpoint.
type calendarResponse struct {
	Month    string                                     `json:"month"`
	Previous string                                     `json:"previous"`
	Next     string                                     `json:"next"`
	Cells    [maintenance.GridCells]maintenance.DayCell `json:"cells"`
}

// Calendar handles GET /api/v1/properties/:propertyId/calendar?year=&month=.
// Missing year or month default to the current month in the service time zone.
func (h *ViewHandler) Calendar(c *gin.Context) {
	propertyID := c.Param("propertyId")
	if err := validatePathID(propertyID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	month := maintenance.CurrentMonth(h.now(), h.svc.Location())

	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil || v < 1 || v > 9999 {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "year must be between 1 and 9999")
			return
		}
		month.Year = v
	}

	if m := c.Query("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "month must be between 1 and 12")
			return
		}
		month.Month = time.Month(v)
	}

	cells, err := h.svc.Calendar(c.Request.Context(), propertyID, month)
	if err != nil {
		respondServiceError(c, h.log, err, "building calendar")
		return
	}

	c.JSON(http.StatusOK, calendarResponse{
		Month:    month.String(),
		Previous: month.Previous().String(),
		Next:     month.Next().String(),
		Cells:    cells,
	})
}

// Stats handles GET /api/v1/stats?property_id=a,b.
func (h *ViewHandler) Stats(c *gin.Context) {
	ids := splitIDs(c.QueryArray("property_id"))
	if len(ids) == 0 {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "property_id is required")
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), ids)
	if err != nil {
		respondServiceError(c, h.log, err, "computing stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
