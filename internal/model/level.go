package model

// Level is a practice level as advertised by the question bank.
// Ordering of a subject's levels is server-defined (ascending by
// level number).
type Level struct {
	Level           int    `json:"level"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	DurationMinutes int    `json:"durationMinutes"`
	Focus           string `json:"focus"`
	QuestionCount   int    `json:"questionCount"`
}

// SubjectOverview is the optional subject-level summary the bank
// returns alongside the level list.
type SubjectOverview struct {
	Description    string `json:"description"`
	TotalQuestions int    `json:"totalQuestions"`
}

// ActiveLevel is the metadata snapshot recorded when a level starts,
// used later for report generation. Zero values mean the bank omitted
// the field and no catalog fallback was available.
type ActiveLevel struct {
	Number          int    `json:"number"`
	Title           string `json:"title,omitempty"`
	Summary         string `json:"summary,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Focus           string `json:"focus,omitempty"`
}

// Chapter groups levels in pairs for the overview timeline: the first
// exercise of each pair is startable, the second stays locked.
type Chapter struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Exercises   []Exercise `json:"exercises"`
}

// Exercise is a single startable (or locked) entry inside a chapter.
type Exercise struct {
	Label           string `json:"label"`
	Level           int    `json:"level"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Startable       bool   `json:"startable"`
}
