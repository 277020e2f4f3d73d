package model

// LoginRequest is the payload for the mock-identity login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// StartLevelRequest asks the controller to begin a level for the
// subject in the route.
type StartLevelRequest struct {
	Level int `json:"level" binding:"required,min=1"`
}

// AnswerRequest records an option selection. Exactly one of
// OptionIndex or Key is expected; Key carries the keyboard shortcut
// digits "1" through "4".
type AnswerRequest struct {
	OptionIndex *int   `json:"optionIndex" binding:"omitempty,min=0,max=3"`
	Key         string `json:"key" binding:"omitempty,len=1"`
}
