package qbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pmmpclub/prep-backend/internal/model"
)

const (
	// Client-side fallbacks when the bank fails without a message body.
	fallbackCatalogMessage = "Unable to load levels right now."
	fallbackLevelMessage   = "Unable to load questions right now."
)

// CatalogPayload is the bank's response for a subject's level list.
type CatalogPayload struct {
	Overview *model.SubjectOverview `json:"overview"`
	Levels   []model.Level          `json:"levels"`
}

// LevelMeta is the optional level descriptor in a questions response.
// The bank historically used "number" and "level" interchangeably.
type LevelMeta struct {
	Number          *int   `json:"number"`
	Level           *int   `json:"level"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	DurationMinutes int    `json:"durationMinutes"`
	Focus           string `json:"focus"`
}

// LevelPayload is the bank's response for a single level's questions.
type LevelPayload struct {
	Level     *LevelMeta       `json:"level"`
	Questions []model.Question `json:"questions"`
}

// APIError is a non-success response from the bank. Message carries
// the server's own failure reason and is surfaced to learners verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the question-bank service. Retrying a failed load is
// a plain re-invocation: both endpoints are idempotent GETs, and
// cancellation rides on the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a bank client. httpClient may be nil, in which
// case a client with the given timeout is used.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Catalog fetches the ordered level list and optional overview for a subject.
func (c *Client) Catalog(ctx context.Context, subjectID string) (*CatalogPayload, error) {
	var payload CatalogPayload
	if err := c.get(ctx, c.questionsURL(subjectID, 0), fallbackCatalogMessage, &payload); err != nil {
		return nil, err
	}
	if payload.Levels == nil {
		payload.Levels = []model.Level{}
	}
	return &payload, nil
}

// Level fetches the ordered question sequence for one level, plus the
// bank's level metadata when it supplies one. An empty question list
// is returned as-is; the caller decides that it is a failure.
func (c *Client) Level(ctx context.Context, subjectID string, level int) (*LevelPayload, error) {
	var payload LevelPayload
	if err := c.get(ctx, c.questionsURL(subjectID, level), fallbackLevelMessage, &payload); err != nil {
		return nil, err
	}
	if payload.Questions == nil {
		payload.Questions = []model.Question{}
	}
	return &payload, nil
}

// ActiveLevel resolves a LevelMeta into the session's level snapshot.
// requested is used when the bank omits both number fields.
func (m *LevelMeta) ActiveLevel(requested int) model.ActiveLevel {
	number := requested
	if m.Number != nil {
		number = *m.Number
	} else if m.Level != nil {
		number = *m.Level
	}
	return model.ActiveLevel{
		Number:          number,
		Title:           m.Title,
		Summary:         m.Summary,
		DurationMinutes: m.DurationMinutes,
		Focus:           m.Focus,
	}
}

func (c *Client) questionsURL(subjectID string, level int) string {
	u := c.baseURL + "/api/questions/" + url.PathEscape(subjectID)
	if level > 0 {
		u += "?level=" + strconv.Itoa(level)
	}
	return u
}

func (c *Client) get(ctx context.Context, reqURL, fallbackMessage string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("question bank request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The bank reports failures as {"message": "..."} with a
		// non-2xx status; that message is shown to the learner as-is.
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Message == "" {
			body.Message = fallbackMessage
		}
		return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode question bank response: %w", err)
	}
	return nil
}
