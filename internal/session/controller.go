package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/pmmpclub/prep-backend/internal/qbank"
	"github.com/pmmpclub/prep-backend/internal/report"
	"github.com/pmmpclub/prep-backend/internal/response"
	"github.com/pmmpclub/prep-backend/internal/subjects"
	"github.com/rs/zerolog"
)

// Controller errors. Loader failures are not among them: those are
// recorded on the session and surfaced through Snapshot and the event
// stream, never as faults.
var (
	ErrUnknownSubject = errors.New("unknown subject")
	ErrNoSession      = errors.New("no active session")
	ErrStartPending   = errors.New("another level start is pending")
	ErrQuizInProgress = errors.New("a quiz is already in progress")
	ErrInvalidOption  = errors.New("option index out of range")
)

const (
	noQuestionsMessage = "No questions available for this level yet."
	loadFailedMessage  = "Something went wrong while loading questions."

	// Level loads triggered by the countdown gate run detached from
	// any request; cap them so an unresponsive bank cannot pin a
	// goroutine forever.
	beginLevelTimeout = 30 * time.Second
)

// BankClient is the slice of the question-bank client the controller
// needs; *qbank.Client satisfies it.
type BankClient interface {
	Catalog(ctx context.Context, subjectID string) (*qbank.CatalogPayload, error)
	Level(ctx context.Context, subjectID string, level int) (*qbank.LevelPayload, error)
}

// Options configures a Controller. Subjects, Bank and Reports are
// required; Mirror and Notifier are optional.
type Options struct {
	Subjects *subjects.Catalog
	Bank     BankClient
	Reports  report.Store
	Mirror   AnswerMirror
	Notifier Notifier
	Log      zerolog.Logger

	Countdown    time.Duration
	AdvanceDelay time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Controller is the quiz session state machine, one session per
// learner. Every transition runs under the controller lock; timer and
// loader callbacks re-check the session's generation counter under
// that lock before mutating, so a result that arrives after the
// learner moved on is discarded rather than applied.
type Controller struct {
	mu       sync.Mutex
	sessions map[int]*state

	subjects *subjects.Catalog
	bank     BankClient
	reports  report.Store
	mirror   AnswerMirror
	notifier Notifier
	log      zerolog.Logger

	countdown    time.Duration
	advanceDelay time.Duration
	now          func() time.Time
}

// state is one learner's session. mode selects which half of the
// struct is live: catalog/pending for overview, questions/answers for
// quiz.
type state struct {
	learnerID int
	subject   model.Subject

	// gen fences asynchronous callbacks: it is bumped whenever the
	// context they captured stops being the current one.
	gen uint64

	mode Mode

	catalog      *qbank.CatalogPayload
	pendingLevel int
	gate         *Gate
	quizError    string
	quizErrCode  response.ErrCode

	level     model.ActiveLevel
	questions []model.Question
	current   int
	answers   map[int]model.AnswerLogEntry
	advance   *time.Timer

	lastActive time.Time
}

// NewController creates a Controller.
func NewController(opts Options) *Controller {
	if opts.Countdown <= 0 {
		opts.Countdown = 3 * time.Second
	}
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		sessions:     make(map[int]*state),
		subjects:     opts.Subjects,
		bank:         opts.Bank,
		reports:      opts.Reports,
		mirror:       opts.Mirror,
		notifier:     opts.Notifier,
		log:          opts.Log.With().Str("component", "session_controller").Logger(),
		countdown:    opts.Countdown,
		advanceDelay: opts.AdvanceDelay,
		now:          opts.Now,
	}
}

// Levels loads the subject's level catalog from the bank and snapshots
// it on the session for later metadata fallback. The snapshot is only
// written if the session context is unchanged when the load resolves;
// the payload is returned to the caller either way. Retry is a plain
// re-invocation and cancellation rides on ctx.
func (c *Controller) Levels(ctx context.Context, learnerID int, subjectID string) (*qbank.CatalogPayload, []model.Chapter, error) {
	subj, ok := c.subjects.ByID(subjectID)
	if !ok {
		return nil, nil, ErrUnknownSubject
	}

	c.mu.Lock()
	s := c.ensureLocked(learnerID, subj)
	s.lastActive = c.now()
	gen := s.gen
	c.mu.Unlock()

	payload, err := c.bank.Catalog(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	if cur, live := c.sessions[learnerID]; live && cur.gen == gen {
		cur.catalog = payload
	}
	c.mu.Unlock()

	return payload, BuildChapters(payload.Levels, payload.Overview, subj), nil
}

// StartLevel begins the countdown gate for a level. Only one start may
// be pending per learner: re-requesting the pending level is
// idempotent (no second load is issued), requesting a different level
// while one is pending is rejected. The question load itself runs when
// the gate fires; its outcome is reported through Snapshot and the
// event stream.
func (c *Controller) StartLevel(learnerID int, subjectID string, level int) (*StartInfo, error) {
	subj, ok := c.subjects.ByID(subjectID)
	if !ok {
		return nil, ErrUnknownSubject
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.ensureLocked(learnerID, subj)
	s.lastActive = c.now()

	if s.mode == ModeQuiz {
		return nil, ErrQuizInProgress
	}
	if s.pendingLevel == level {
		return &StartInfo{Level: level, CountdownSeconds: c.countdownSeconds(), AlreadyPending: true}, nil
	}
	if s.pendingLevel != 0 {
		return nil, ErrStartPending
	}

	s.pendingLevel = level
	s.quizError = ""
	s.quizErrCode = ""
	gen := s.gen
	s.gate = NewGate(c.countdown, func() {
		c.beginLevel(learnerID, subjectID, level, gen)
	})

	return &StartInfo{Level: level, CountdownSeconds: c.countdownSeconds()}, nil
}

// beginLevel runs when the countdown gate fires: it loads the level's
// questions and, if the session context is still the one that armed
// the gate, enters quiz mode.
func (c *Controller) beginLevel(learnerID int, subjectID string, level int, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), beginLevelTimeout)
	defer cancel()

	payload, err := c.bank.Level(ctx, subjectID, level)

	c.mu.Lock()
	s, live := c.sessions[learnerID]
	if !live || s.gen != gen || s.pendingLevel != level {
		c.mu.Unlock()
		return // learner moved on while loading; discard the result
	}
	s.pendingLevel = 0
	s.gate = nil

	if err != nil {
		s.quizError = loadErrorMessage(err)
		s.quizErrCode = response.ErrLevelStartFailed
		msg := s.quizError
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("subject", subjectID).Int("level", level).Msg("level start failed")
		c.notify(learnerID, Event{Type: EventLevelStartFailed, Code: response.ErrLevelStartFailed, Message: msg})
		return
	}
	if len(payload.Questions) == 0 {
		s.quizError = noQuestionsMessage
		s.quizErrCode = response.ErrNoQuestions
		c.mu.Unlock()
		c.notify(learnerID, Event{Type: EventLevelStartFailed, Code: response.ErrNoQuestions, Message: noQuestionsMessage})
		return
	}

	s.mode = ModeQuiz
	s.level = resolveLevelMeta(payload, s.catalog, level)
	s.questions = payload.Questions
	s.current = 0
	s.answers = make(map[int]model.AnswerLogEntry)
	s.quizError = ""
	s.quizErrCode = ""
	first := s.questions[0]
	total := len(s.questions)
	c.mu.Unlock()

	// Retaking a level replaces the previous report: empty the slot
	// before this session produces a new one.
	if err := c.reports.Clear(ctx, learnerID); err != nil {
		c.log.Warn().Err(err).Int("learner_id", learnerID).Msg("clear report slot")
	}

	c.notify(learnerID, Event{Type: EventQuizStarted, Total: total, Question: &first})
}

// Answer records the learner's selection for the current question and
// arms the auto-advance timer. The first answer is final: repeated
// calls return the recorded outcome unchanged.
func (c *Controller) Answer(ctx context.Context, learnerID, optionIndex int) (*AnswerResult, error) {
	c.mu.Lock()
	s, live := c.sessions[learnerID]
	if !live || s.mode != ModeQuiz {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	s.lastActive = c.now()

	q := s.questions[s.current]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		c.mu.Unlock()
		return nil, ErrInvalidOption
	}

	if prev, done := s.answers[s.current]; done {
		res := &AnswerResult{
			Index:         s.current,
			SelectedIndex: prev.SelectedIndex,
			CorrectIndex:  prev.CorrectIndex,
			Correct:       prev.SelectedIndex == prev.CorrectIndex,
			AlreadyFinal:  true,
		}
		c.mu.Unlock()
		return res, nil
	}

	entry := model.AnswerLogEntry{QuestionID: q.ID, SelectedIndex: optionIndex, CorrectIndex: q.CorrectIndex}
	index := s.current
	s.answers[index] = entry

	c.stopAdvanceLocked(s)
	gen := s.gen
	s.advance = time.AfterFunc(c.advanceDelay, func() {
		c.autoAdvance(learnerID, gen, index)
	})

	correct := optionIndex == q.CorrectIndex
	c.mu.Unlock()

	if c.mirror != nil {
		if err := c.mirror.Save(ctx, learnerID, index, entry); err != nil {
			c.log.Warn().Err(err).Int("learner_id", learnerID).Msg("answer autosave")
		}
	}
	c.notify(learnerID, Event{Type: EventAnswered, Index: index, Correct: &correct})

	return &AnswerResult{Index: index, SelectedIndex: optionIndex, CorrectIndex: q.CorrectIndex, Correct: correct}, nil
}

// AnswerKey maps a keyboard shortcut onto Answer. Keys are accepted
// only while the current question is unanswered and only when the
// mapped index exists for it; everything else is ignored, reported as
// a nil result with no error.
func (c *Controller) AnswerKey(ctx context.Context, learnerID int, key string) (*AnswerResult, error) {
	c.mu.Lock()
	s, live := c.sessions[learnerID]
	if !live || s.mode != ModeQuiz {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	if _, done := s.answers[s.current]; done {
		c.mu.Unlock()
		return nil, nil
	}
	optionCount := len(s.questions[s.current].Options)
	c.mu.Unlock()

	index, ok := OptionIndexForKey(key, optionCount)
	if !ok {
		return nil, nil
	}
	return c.Answer(ctx, learnerID, index)
}

// Advance moves to the next question, or ends the session with reason
// "completed" when the current question is the last. Advancing an
// unanswered question is a no-op.
func (c *Controller) Advance(ctx context.Context, learnerID int) (*AdvanceResult, error) {
	c.mu.Lock()
	s, live := c.sessions[learnerID]
	if !live || s.mode != ModeQuiz {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	s.lastActive = c.now()

	if _, done := s.answers[s.current]; !done {
		idx := s.current
		c.mu.Unlock()
		return &AdvanceResult{NextIndex: idx}, nil
	}

	res, ev := c.advanceLocked(s)
	c.mu.Unlock()

	if res.Ended {
		c.finishSession(ctx, learnerID, res.Report)
	}
	c.notify(learnerID, ev)
	return res, nil
}

// Stop ends an in-progress quiz with reason "stopped" regardless of
// progress. In overview mode it cancels any pending countdown and
// returns no report; the client simply navigates to the dashboard.
func (c *Controller) Stop(ctx context.Context, learnerID int) (*model.SessionReport, error) {
	c.mu.Lock()
	s, live := c.sessions[learnerID]
	if !live {
		c.mu.Unlock()
		return nil, nil
	}
	s.lastActive = c.now()

	if s.mode != ModeQuiz {
		c.cancelPendingLocked(s)
		c.mu.Unlock()
		return nil, nil
	}

	rep := c.endSessionLocked(s, model.ReasonStopped)
	c.mu.Unlock()

	c.finishSession(ctx, learnerID, rep)
	c.notify(learnerID, Event{Type: EventSessionEnded, Reason: model.ReasonStopped, Report: rep})
	return rep, nil
}

// Teardown discards the learner's session without generating a
// report: pending timers and the countdown gate are cancelled and any
// still-in-flight load resolves into nothing.
func (c *Controller) Teardown(learnerID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, live := c.sessions[learnerID]
	if !live {
		return
	}
	c.stopAdvanceLocked(s)
	c.cancelPendingLocked(s)
	delete(c.sessions, learnerID)
}

// Snapshot returns the render state of the learner's session.
func (c *Controller) Snapshot(learnerID int) (*View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, live := c.sessions[learnerID]
	if !live {
		return nil, ErrNoSession
	}

	v := &View{Mode: s.mode, Subject: s.subject}
	switch s.mode {
	case ModeOverview:
		v.PendingLevel = s.pendingLevel
		v.QuizError = s.quizError
		v.QuizErrorCode = s.quizErrCode
	case ModeQuiz:
		lvl := s.level
		q := s.questions[s.current]
		v.Level = &lvl
		v.Index = s.current
		v.Total = len(s.questions)
		v.Question = &q
		if entry, done := s.answers[s.current]; done {
			sel := entry.SelectedIndex
			v.Answered = true
			v.SelectedIndex = &sel
		}
	}
	return v, nil
}

// ReapIdle stops quiz sessions idle longer than ttl (producing a
// "stopped" report) and drops idle overview contexts. Returns the
// number of quiz sessions it ended.
func (c *Controller) ReapIdle(ctx context.Context, ttl time.Duration) int {
	now := c.now()
	type reaped struct {
		learnerID int
		report    *model.SessionReport
	}
	var ended []reaped

	c.mu.Lock()
	for id, s := range c.sessions {
		if now.Sub(s.lastActive) < ttl {
			continue
		}
		if s.mode == ModeQuiz {
			ended = append(ended, reaped{id, c.endSessionLocked(s, model.ReasonStopped)})
		} else {
			c.cancelPendingLocked(s)
			delete(c.sessions, id)
		}
	}
	c.mu.Unlock()

	for _, e := range ended {
		c.finishSession(ctx, e.learnerID, e.report)
		c.notify(e.learnerID, Event{Type: EventSessionEnded, Reason: model.ReasonStopped, Report: e.report})
	}
	return len(ended)
}

// ─── internals ──────────────────────────────────────────────────────

// autoAdvance is the auto-advance timer callback. It applies only if
// the question it was armed for is still current in the same session
// generation and has an answer; any other outcome means a manual
// action won the race and the fire is ignored.
func (c *Controller) autoAdvance(learnerID int, gen uint64, index int) {
	c.mu.Lock()
	s, live := c.sessions[learnerID]
	if !live || s.mode != ModeQuiz || s.gen != gen || s.current != index {
		c.mu.Unlock()
		return
	}
	if _, done := s.answers[index]; !done {
		c.mu.Unlock()
		return
	}

	res, ev := c.advanceLocked(s)
	c.mu.Unlock()

	if res.Ended {
		c.finishSession(context.Background(), learnerID, res.Report)
	}
	c.notify(learnerID, ev)
}

// advanceLocked performs the advance transition. Caller holds the lock
// and has verified the current question is answered.
func (c *Controller) advanceLocked(s *state) (*AdvanceResult, Event) {
	c.stopAdvanceLocked(s)

	if s.current >= len(s.questions)-1 {
		rep := c.endSessionLocked(s, model.ReasonCompleted)
		return &AdvanceResult{Ended: true, Reason: model.ReasonCompleted, Report: rep},
			Event{Type: EventSessionEnded, Reason: model.ReasonCompleted, Report: rep}
	}

	s.current++
	next := s.questions[s.current]
	return &AdvanceResult{NextIndex: s.current},
		Event{Type: EventAdvanced, Index: s.current, Total: len(s.questions), Question: &next}
}

// endSessionLocked synthesizes the report and resets the session to
// overview mode. Persistence happens in finishSession after the lock
// is released.
func (c *Controller) endSessionLocked(s *state, reason model.Reason) *model.SessionReport {
	c.stopAdvanceLocked(s)
	c.cancelPendingLocked(s)

	var levelPtr *model.ActiveLevel
	if s.level != (model.ActiveLevel{}) {
		lvl := s.level
		levelPtr = &lvl
	}
	subj := s.subject
	rep := report.Generate(&subj, levelPtr, s.questions, s.answers, reason, c.now())

	s.mode = ModeOverview
	s.questions = nil
	s.answers = nil
	s.current = 0
	s.level = model.ActiveLevel{}
	s.quizError = ""
	s.quizErrCode = ""
	s.gen++

	return rep
}

// finishSession persists the report and clears the answer mirror.
// Both are best-effort: the report was already handed to the caller.
func (c *Controller) finishSession(ctx context.Context, learnerID int, rep *model.SessionReport) {
	if rep != nil {
		if err := c.reports.Set(ctx, learnerID, rep); err != nil {
			c.log.Warn().Err(err).Int("learner_id", learnerID).Msg("persist report")
		}
	}
	if c.mirror != nil {
		if err := c.mirror.Clear(ctx, learnerID); err != nil {
			c.log.Warn().Err(err).Int("learner_id", learnerID).Msg("clear answer autosave")
		}
	}
}

// ensureLocked returns the learner's session for the subject, creating
// one or resetting the existing one when the subject changed.
func (c *Controller) ensureLocked(learnerID int, subj model.Subject) *state {
	s, live := c.sessions[learnerID]
	if live && s.subject.ID == subj.ID {
		return s
	}

	var gen uint64
	if live {
		// Switching subjects abandons everything in flight; the
		// generation bump fences off late results.
		c.stopAdvanceLocked(s)
		c.cancelPendingLocked(s)
		gen = s.gen + 1
	}

	ns := &state{
		learnerID:  learnerID,
		subject:    subj,
		gen:        gen,
		mode:       ModeOverview,
		lastActive: c.now(),
	}
	c.sessions[learnerID] = ns
	return ns
}

func (c *Controller) stopAdvanceLocked(s *state) {
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

func (c *Controller) cancelPendingLocked(s *state) {
	if s.gate != nil {
		s.gate.Cancel()
		s.gate = nil
	}
	s.pendingLevel = 0
}

func (c *Controller) countdownSeconds() int {
	return int(c.countdown / time.Second)
}

func (c *Controller) notify(learnerID int, ev Event) {
	if c.notifier != nil {
		c.notifier.Notify(learnerID, ev)
	}
}

// resolveLevelMeta picks the level metadata for the session: the
// bank's own descriptor when present, else the catalog snapshot's
// entry, else just the requested number.
func resolveLevelMeta(payload *qbank.LevelPayload, catalog *qbank.CatalogPayload, level int) model.ActiveLevel {
	if payload.Level != nil {
		return payload.Level.ActiveLevel(level)
	}
	if catalog != nil {
		for _, entry := range catalog.Levels {
			if entry.Level == level {
				return model.ActiveLevel{
					Number:          entry.Level,
					Title:           entry.Title,
					Summary:         entry.Summary,
					DurationMinutes: entry.DurationMinutes,
					Focus:           entry.Focus,
				}
			}
		}
	}
	return model.ActiveLevel{Number: level}
}

// loadErrorMessage converts a level-load failure into the message
// shown on the overview view. Bank-reported messages pass through
// verbatim; transport and decode failures get the generic fallback.
func loadErrorMessage(err error) string {
	var apiErr *qbank.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return loadFailedMessage
}
