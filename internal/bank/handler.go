package bank

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/rs/zerolog"
)

// Handler serves the bank's public questions API. The payloads are
// bare JSON (no envelope) and failures are {"message": "..."} with a
// non-2xx status; downstream consumers show that message verbatim.
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("component", "bank_handler").Logger(),
	}
}

// catalogResponse lists a subject's levels with an overview blurb.
type catalogResponse struct {
	Overview *model.SubjectOverview `json:"overview"`
	Levels   []model.Level          `json:"levels"`
}

// levelResponse carries one level's question sequence. Level is
// omitted when nobody described the level; consumers fall back to
// their own catalog metadata.
type levelResponse struct {
	Level     *levelMeta       `json:"level,omitempty"`
	Questions []model.Question `json:"questions"`
}

type levelMeta struct {
	Number          int    `json:"number"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	DurationMinutes int    `json:"durationMinutes"`
	Focus           string `json:"focus"`
}

// Questions godoc
// GET /api/questions/:subject_id            → level catalog
// GET /api/questions/:subject_id?level=n    → one level's questions
func (h *Handler) Questions(c *gin.Context) {
	subjectID := c.Param("subject_id")

	rawLevel := c.Query("level")
	if rawLevel == "" {
		h.catalog(c, subjectID)
		return
	}

	level, err := strconv.Atoi(rawLevel)
	if err != nil || level < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Level must be a positive number."})
		return
	}
	h.level(c, subjectID, level)
}

func (h *Handler) catalog(c *gin.Context, subjectID string) {
	overview, err := h.repo.Overview(c.Request.Context(), subjectID)
	if err != nil {
		if errors.Is(err, ErrSubjectUnknown) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Unknown subject."})
			return
		}
		h.log.Error().Err(err).Str("subject_id", subjectID).Msg("Overview query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load levels right now."})
		return
	}

	levels, err := h.repo.Levels(c.Request.Context(), subjectID)
	if err != nil {
		h.log.Error().Err(err).Str("subject_id", subjectID).Msg("Levels query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load levels right now."})
		return
	}
	if levels == nil {
		levels = []model.Level{}
	}

	c.JSON(http.StatusOK, catalogResponse{Overview: overview, Levels: levels})
}

func (h *Handler) level(c *gin.Context, subjectID string, level int) {
	exists, err := h.repo.SubjectExists(c.Request.Context(), subjectID)
	if err != nil {
		h.log.Error().Err(err).Str("subject_id", subjectID).Msg("Subject lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load questions right now."})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unknown subject."})
		return
	}

	questions, err := h.repo.Questions(c.Request.Context(), subjectID, level)
	if err != nil {
		h.log.Error().Err(err).Str("subject_id", subjectID).Int("level", level).Msg("Questions query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load questions right now."})
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}

	resp := levelResponse{Questions: questions}
	meta, err := h.repo.LevelMeta(c.Request.Context(), subjectID, level)
	if err != nil {
		h.log.Warn().Err(err).Str("subject_id", subjectID).Int("level", level).Msg("Level meta query failed")
	} else if meta != nil {
		resp.Level = &levelMeta{
			Number:          meta.Number,
			Title:           meta.Title,
			Summary:         meta.Summary,
			DurationMinutes: meta.DurationMinutes,
			Focus:           meta.Focus,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// SetupRouter wires the bank's routes into a fresh Gin engine.
func SetupRouter(h *Handler, ginMode string) *gin.Engine {
	gin.SetMode(ginMode)
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/questions/:subject_id", h.Questions)

	return router
}
