package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pmmpclub/prep-backend/internal/middleware"
	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/pmmpclub/prep-backend/internal/response"
	"github.com/pmmpclub/prep-backend/internal/session"
	"github.com/pmmpclub/prep-backend/internal/validator"
)

// SessionHandler exposes the quiz session controller over HTTP.
type SessionHandler struct {
	controller *session.Controller
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(controller *session.Controller) *SessionHandler {
	return &SessionHandler{controller: controller}
}

// Start godoc
// POST /api/v1/subjects/:subject_id/session/start
// Arms the countdown gate for a level. The response carries the
// countdown duration; the load outcome arrives via the snapshot or the
// event stream once the gate fires. Re-requesting the pending level is
// idempotent.
func (h *SessionHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartLevelRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	info, err := h.controller.StartLevel(claims.UserID, c.Param("subject_id"), req.Level)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownSubject):
			response.Fail(c, http.StatusNotFound, response.ErrSubjectNotFound)
		case errors.Is(err, session.ErrStartPending):
			response.Fail(c, http.StatusConflict, response.ErrStartPending)
		case errors.Is(err, session.ErrQuizInProgress):
			response.Fail(c, http.StatusConflict, response.ErrQuizActive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"start": info})
}

// Answer godoc
// POST /api/v1/session/answer
// Records a selection for the current question, by explicit option
// index or by keyboard digit. Ignored keys return ignored=true; a
// repeated answer returns the original outcome unchanged.
func (h *SessionHandler) Answer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var (
		result *session.AnswerResult
		err    error
	)
	switch {
	case req.OptionIndex != nil:
		result, err = h.controller.Answer(c.Request.Context(), claims.UserID, *req.OptionIndex)
	case req.Key != "":
		result, err = h.controller.AnswerKey(c.Request.Context(), claims.UserID, req.Key)
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		case errors.Is(err, session.ErrInvalidOption):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	if result == nil {
		response.Success(c, http.StatusOK, gin.H{"ignored": true})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answer": result})
}

// Advance godoc
// POST /api/v1/session/advance
// Manually advances past an answered question. On the last question
// this ends the session and returns the report.
func (h *SessionHandler) Advance(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.controller.Advance(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"advance": result})
}

// Stop godoc
// POST /api/v1/session/stop
// Ends an in-progress quiz with reason "stopped". A null report means
// there was nothing to report; the client falls back to the dashboard.
func (h *SessionHandler) Stop(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	rep, err := h.controller.Stop(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": rep})
}

// Snapshot godoc
// GET /api/v1/session
// Returns the learner's current session view.
func (h *SessionHandler) Snapshot(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.controller.Snapshot(claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Teardown godoc
// DELETE /api/v1/session
// Discards the learner's session without a report (navigating away).
func (h *SessionHandler) Teardown(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	h.controller.Teardown(claims.UserID)
	response.Success(c, http.StatusOK, gin.H{"torn_down": true})
}
