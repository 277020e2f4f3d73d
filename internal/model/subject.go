package model

// Subject is a static catalog entry for a focus track. Subjects are
// loaded from local configuration at startup and never mutated.
type Subject struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Focus string `json:"focus" yaml:"focus"`
}
