package qbank

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newFakeClient(fn roundTripperFunc) *Client {
	return NewClient("http://bank.test", 0, &http.Client{Transport: fn})
}

func TestCatalog(t *testing.T) {
	var gotURL string
	c := newFakeClient(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return respond(200, `{
			"overview": {"description": "All of quant.", "totalQuestions": 56},
			"levels": [
				{"level": 1, "title": "Warm-up", "questionCount": 8},
				{"level": 2, "title": "Numbers", "questionCount": 8}
			]
		}`), nil
	})

	payload, err := c.Catalog(context.Background(), "quant")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if gotURL != "http://bank.test/api/questions/quant" {
		t.Errorf("url = %s", gotURL)
	}
	if payload.Overview == nil || payload.Overview.TotalQuestions != 56 {
		t.Errorf("overview = %+v", payload.Overview)
	}
	if len(payload.Levels) != 2 || payload.Levels[1].Title != "Numbers" {
		t.Errorf("levels = %+v", payload.Levels)
	}
}

func TestCatalogMissingLevelsIsEmptySlice(t *testing.T) {
	c := newFakeClient(func(r *http.Request) (*http.Response, error) {
		return respond(200, `{"overview": null}`), nil
	})

	payload, err := c.Catalog(context.Background(), "quant")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if payload.Levels == nil {
		t.Error("levels should be an empty slice, not nil")
	}
}

func TestLevel(t *testing.T) {
	var gotURL string
	c := newFakeClient(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return respond(200, `{
			"level": {"number": 3, "title": "Word Problems"},
			"questions": [
				{"id": "q1", "prompt": "1+1?", "options": ["1","2"], "correctIndex": 1}
			]
		}`), nil
	})

	payload, err := c.Level(context.Background(), "quant", 3)
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	if gotURL != "http://bank.test/api/questions/quant?level=3" {
		t.Errorf("url = %s", gotURL)
	}
	if payload.Level == nil || payload.Level.Title != "Word Problems" {
		t.Errorf("level meta = %+v", payload.Level)
	}
	if len(payload.Questions) != 1 || payload.Questions[0].CorrectIndex != 1 {
		t.Errorf("questions = %+v", payload.Questions)
	}
}

func TestErrorMessagePassthrough(t *testing.T) {
	c := newFakeClient(func(r *http.Request) (*http.Response, error) {
		return respond(503, `{"message": "Bank is rebuilding its index."}`), nil
	})

	_, err := c.Level(context.Background(), "quant", 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 503 || apiErr.Message != "Bank is rebuilding its index." {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestErrorFallbackMessages(t *testing.T) {
	c := newFakeClient(func(r *http.Request) (*http.Response, error) {
		return respond(500, `not even json`), nil
	})

	_, err := c.Catalog(context.Background(), "quant")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("catalog err = %v", err)
	}
	if apiErr.Message != "Unable to load levels right now." {
		t.Errorf("catalog fallback = %q", apiErr.Message)
	}

	_, err = c.Level(context.Background(), "quant", 1)
	if !errors.As(err, &apiErr) {
		t.Fatalf("level err = %v", err)
	}
	if apiErr.Message != "Unable to load questions right now." {
		t.Errorf("level fallback = %q", apiErr.Message)
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	c := newFakeClient(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := c.Level(context.Background(), "quant", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure surfaced as APIError: %v", err)
	}
}

func TestLevelMetaActiveLevel(t *testing.T) {
	number := 5
	legacy := 6

	cases := []struct {
		name string
		meta LevelMeta
		want int
	}{
		{"number field", LevelMeta{Number: &number}, 5},
		{"legacy level field", LevelMeta{Level: &legacy}, 6},
		{"number wins over legacy", LevelMeta{Number: &number, Level: &legacy}, 5},
		{"neither falls back to requested", LevelMeta{}, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.meta.ActiveLevel(9); got.Number != tc.want {
				t.Errorf("Number = %d, want %d", got.Number, tc.want)
			}
		})
	}
}
