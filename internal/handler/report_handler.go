package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pmmpclub/prep-backend/internal/middleware"
	"github.com/pmmpclub/prep-backend/internal/report"
	"github.com/pmmpclub/prep-backend/internal/response"
)

// ReportHandler serves the learner's latest session report slot.
type ReportHandler struct {
	store report.Store
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store report.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

// Latest godoc
// GET /api/v1/reports/latest
// Returns the most recent session report, or 404 when the slot is empty.
func (h *ReportHandler) Latest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	rep, err := h.store.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, report.ErrNoReport) {
			response.Fail(c, http.StatusNotFound, response.ErrReportNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": rep})
}

// Clear godoc
// DELETE /api/v1/reports/latest
// Empties the report slot once the learner has viewed it.
func (h *ReportHandler) Clear(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.store.Clear(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cleared": true})
}
