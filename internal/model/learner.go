package model

// Learner is the mock-identity user record. The product's login is a
// front: unknown emails are auto-registered on first login.
type Learner struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
