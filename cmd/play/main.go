package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/pmmpclub/prep-backend/internal/session"
)

// A small terminal client for poking at a running gateway. Digits 1-4
// answer the current question, n advances, s stops the session.

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Gateway base URL")
	flag.Parse()

	cl := &client{baseURL: *baseURL, http: &http.Client{Timeout: 15 * time.Second}}
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Prep Practice Client ===")

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println()

	if err := cl.login(email, string(bytePassword)); err != nil {
		fmt.Println("Login failed:", err)
		return
	}

	subjectID, err := cl.pickSubject(reader)
	if err != nil {
		fmt.Println(err)
		return
	}

	level, err := cl.pickLevel(reader, subjectID)
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := cl.play(reader, subjectID, level); err != nil {
		fmt.Println(err)
	}
}

func (c *client) login(email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.call(http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func (c *client) pickSubject(reader *bufio.Reader) (string, error) {
	var out struct {
		Subjects []model.Subject `json:"subjects"`
	}
	if err := c.call(http.MethodGet, "/api/v1/subjects", nil, &out); err != nil {
		return "", err
	}

	fmt.Println("\nFocus tracks:")
	for i, s := range out.Subjects {
		fmt.Printf("  %d. %s (%s)\n", i+1, s.Name, s.Focus)
	}
	fmt.Print("Pick a track: ")
	choice, _ := reader.ReadString('\n')
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(out.Subjects) {
		return "", fmt.Errorf("invalid choice")
	}
	return out.Subjects[n-1].ID, nil
}

func (c *client) pickLevel(reader *bufio.Reader, subjectID string) (int, error) {
	var out struct {
		Chapters []model.Chapter `json:"chapters"`
	}
	if err := c.call(http.MethodGet, "/api/v1/subjects/"+subjectID+"/levels", nil, &out); err != nil {
		return 0, err
	}

	fmt.Println("\nChapters:")
	for _, ch := range out.Chapters {
		fmt.Printf("  Chapter %d — %s\n", ch.Number, ch.Title)
		for _, ex := range ch.Exercises {
			lock := ""
			if !ex.Startable {
				lock = " [locked]"
			}
			fmt.Printf("    %s: level %d — %s%s\n", ex.Label, ex.Level, ex.Title, lock)
		}
	}
	fmt.Print("Start which level? ")
	choice, _ := reader.ReadString('\n')
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid level")
	}
	return n, nil
}

func (c *client) play(reader *bufio.Reader, subjectID string, level int) error {
	var started struct {
		Start *session.StartInfo `json:"start"`
	}
	body := map[string]int{"level": level}
	path := "/api/v1/subjects/" + subjectID + "/session/start"
	if err := c.call(http.MethodPost, path, body, &started); err != nil {
		return err
	}
	if started.Start != nil {
		fmt.Printf("\nStarting in %d...\n", started.Start.CountdownSeconds)
	}

	lastIndex := -1
	for {
		view, err := c.snapshot()
		if err != nil {
			return err
		}
		if view == nil {
			return c.showReport()
		}

		switch view.Mode {
		case session.ModeOverview:
			if view.QuizError != "" {
				fmt.Println("\n" + view.QuizError)
				return nil
			}
			if view.PendingLevel == 0 {
				return c.showReport()
			}
			time.Sleep(500 * time.Millisecond)
			continue

		case session.ModeQuiz:
			if view.Index == lastIndex && view.Answered {
				time.Sleep(300 * time.Millisecond)
				continue
			}
			lastIndex = view.Index

			q := view.Question
			fmt.Printf("\n[%d/%d] %s\n", view.Index+1, view.Total, q.Prompt)
			for i, opt := range q.Options {
				fmt.Printf("  %d) %s\n", i+1, opt)
			}
			fmt.Print("Answer (1-4, n = next, s = stop): ")
			raw, _ := reader.ReadString('\n')
			key := strings.TrimSpace(raw)

			switch key {
			case "s":
				if err := c.call(http.MethodPost, "/api/v1/session/stop", nil, nil); err != nil {
					return err
				}
				return c.showReport()
			case "n":
				if err := c.call(http.MethodPost, "/api/v1/session/advance", nil, nil); err != nil {
					return err
				}
				lastIndex = -1
			default:
				var out struct {
					Answer  *session.AnswerResult `json:"answer"`
					Ignored bool                  `json:"ignored"`
				}
				if err := c.call(http.MethodPost, "/api/v1/session/answer", map[string]string{"key": key}, &out); err != nil {
					return err
				}
				switch {
				case out.Ignored:
					fmt.Println("(ignored)")
					lastIndex = -1
				case out.Answer != nil && out.Answer.Correct:
					fmt.Println("Correct!")
				case out.Answer != nil:
					fmt.Printf("Wrong — answer was %d\n", out.Answer.CorrectIndex+1)
				}
				// Give the auto-advance a beat to fire.
				time.Sleep(1200 * time.Millisecond)
			}
		}
	}
}

func (c *client) snapshot() (*session.View, error) {
	var out struct {
		Session *session.View `json:"session"`
	}
	err := c.call(http.MethodGet, "/api/v1/session", nil, &out)
	if err != nil {
		if strings.Contains(err.Error(), "SESSION_NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}
	return out.Session, nil
}

func (c *client) showReport() error {
	var out struct {
		Report *model.SessionReport `json:"report"`
	}
	err := c.call(http.MethodGet, "/api/v1/reports/latest", nil, &out)
	if err != nil {
		if strings.Contains(err.Error(), "REPORT_NOT_FOUND") {
			fmt.Println("\nNo report this time.")
			return nil
		}
		return err
	}

	r := out.Report
	levelNumber := 0
	if r.Level != nil {
		levelNumber = r.Level.Number
	}
	fmt.Printf("\n=== %s / level %d (%s) ===\n", r.SubjectName, levelNumber, r.Reason)
	fmt.Printf("Answered %d/%d, %d correct, %d wrong, %d skipped. Accuracy %d%%.\n",
		r.AnsweredCount, r.TotalQuestions, r.CorrectCount, r.IncorrectCount, r.UnansweredCount, r.Accuracy)
	return nil
}

func (c *client) call(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if env.Error != nil {
		return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
