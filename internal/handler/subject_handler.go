package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pmmpclub/prep-backend/internal/middleware"
	"github.com/pmmpclub/prep-backend/internal/qbank"
	"github.com/pmmpclub/prep-backend/internal/response"
	"github.com/pmmpclub/prep-backend/internal/session"
	"github.com/pmmpclub/prep-backend/internal/subjects"
)

// SubjectHandler serves the static subject catalog and the per-subject
// level overview.
type SubjectHandler struct {
	catalog    *subjects.Catalog
	controller *session.Controller
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(catalog *subjects.Catalog, controller *session.Controller) *SubjectHandler {
	return &SubjectHandler{catalog: catalog, controller: controller}
}

// List godoc
// GET /api/v1/subjects
// Returns the dashboard's focus tracks.
func (h *SubjectHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"subjects": h.catalog.All()})
}

// Levels godoc
// GET /api/v1/subjects/:subject_id/levels
// Loads the subject's level catalog from the question bank. Bank
// failures surface their message verbatim with a retriable status; the
// client retries by simply re-requesting.
func (h *SubjectHandler) Levels(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	payload, chapters, err := h.controller.Levels(c.Request.Context(), claims.UserID, c.Param("subject_id"))
	if err != nil {
		if errors.Is(err, session.ErrUnknownSubject) {
			response.Fail(c, http.StatusNotFound, response.ErrSubjectNotFound)
			return
		}
		var apiErr *qbank.APIError
		if errors.As(err, &apiErr) {
			response.FailWithMessage(c, http.StatusBadGateway, response.ErrLevelsLoadFailed, apiErr.Message)
			return
		}
		response.Fail(c, http.StatusBadGateway, response.ErrLevelsLoadFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"overview": payload.Overview,
		"levels":   payload.Levels,
		"chapters": chapters,
	})
}
