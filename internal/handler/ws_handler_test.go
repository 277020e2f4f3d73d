package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pmmpclub/prep-backend/internal/middleware"
	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/pmmpclub/prep-backend/internal/qbank"
	"github.com/pmmpclub/prep-backend/internal/report"
	"github.com/pmmpclub/prep-backend/internal/service"
	"github.com/pmmpclub/prep-backend/internal/session"
	"github.com/pmmpclub/prep-backend/internal/subjects"
	ws "github.com/pmmpclub/prep-backend/internal/websocket"
)

const wsTestLearnerID = 7

// stubBank serves a fixed question set for any level.
type stubBank struct {
	questions []model.Question
}

func (b stubBank) Catalog(ctx context.Context, subjectID string) (*qbank.CatalogPayload, error) {
	return &qbank.CatalogPayload{
		Overview: &model.SubjectOverview{Description: "stub", TotalQuestions: len(b.questions)},
		Levels:   []model.Level{{Level: 1, Title: "Warm-up"}},
	}, nil
}

func (b stubBank) Level(ctx context.Context, subjectID string, level int) (*qbank.LevelPayload, error) {
	n := level
	return &qbank.LevelPayload{
		Level:     &qbank.LevelMeta{Number: &n, Title: "Warm-up"},
		Questions: b.questions,
	}, nil
}

// newStreamFixture wires a real controller, hub and WSHandler behind
// an httptest server and returns a dialed client connection.
func newStreamFixture(t *testing.T, bank session.BankClient) (*session.Controller, *websocket.Conn) {
	t.Helper()

	hub := ws.NewHub(zerolog.Nop())
	controller := session.NewController(session.Options{
		Subjects:     subjects.New([]model.Subject{{ID: "quant", Name: "Quantitative"}}),
		Bank:         bank,
		Reports:      report.NewMemoryStore(),
		Notifier:     hub,
		Log:          zerolog.Nop(),
		Countdown:    5 * time.Millisecond,
		AdvanceDelay: 30 * time.Millisecond,
	})
	h := NewWSHandler(controller, hub, zerolog.Nop(), nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/stream", func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &service.Claims{UserID: wsTestLearnerID})
		h.SessionStream(c)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return controller, conn
}

// streamFrame is the client-side view of any outbound frame.
type streamFrame struct {
	Event   string `json:"event"`
	Error   string `json:"error"`
	Payload struct {
		Type string `json:"type"`
	} `json:"payload"`
}

// A client pinging for liveness while the controller pushes answer,
// advance and session-end events exercises both frame producers at
// once; every frame must still arrive intact.
func TestSessionStreamPingsDuringQuizEvents(t *testing.T) {
	bank := stubBank{questions: []model.Question{
		{ID: "q1", Prompt: "2+2?", Options: []string{"3", "4", "6", "8"}, CorrectIndex: 1},
		{ID: "q2", Prompt: "3*3?", Options: []string{"6", "9", "12", "15"}, CorrectIndex: 1},
		{ID: "q3", Prompt: "10-4?", Options: []string{"4", "5", "6", "7"}, CorrectIndex: 2},
	}}
	controller, conn := newStreamFixture(t, bank)

	// The client side is also single-writer, so the pinger and the
	// answer sender share a mutex.
	var writeMu sync.Mutex
	send := func(v interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.WriteJSON(v)
	}

	stopPings := make(chan struct{})
	defer close(stopPings)
	go func() {
		tick := time.NewTicker(time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-stopPings:
				return
			case <-tick.C:
				send(map[string]string{"action": "ping"})
			}
		}
	}()

	if _, err := controller.StartLevel(wsTestLearnerID, "quant", 1); err != nil {
		t.Fatalf("StartLevel: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	pongs := 0
	ended := false
	for !ended {
		var frame streamFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read: %v (pongs so far: %d)", err, pongs)
		}
		switch frame.Event {
		case "pong":
			pongs++
		case "error":
			t.Fatalf("error frame: %s", frame.Error)
		case "session":
			switch frame.Payload.Type {
			case "quiz_started", "advanced":
				// Answer each question as it shows up; the delayed
				// auto-advance then drives the next transition.
				send(map[string]interface{}{"action": "answer", "key": "2"})
			case "session_ended":
				ended = true
			}
		default:
			t.Fatalf("unexpected frame event %q", frame.Event)
		}
	}

	if pongs == 0 {
		t.Fatal("no pong frames observed alongside session events")
	}
}

// Unknown actions get an error frame without dropping the connection.
func TestSessionStreamUnknownAction(t *testing.T) {
	_, conn := newStreamFixture(t, stubBank{})

	if err := conn.WriteJSON(map[string]string{"action": "teleport"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame streamFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Event != "error" || frame.Error != "unknown action" {
		t.Fatalf("got frame %+v, want unknown action error", frame)
	}

	// The stream must still answer pings after the rejected action.
	if err := conn.WriteJSON(map[string]string{"action": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if frame.Event != "pong" {
		t.Fatalf("got frame event %q, want pong", frame.Event)
	}
}
