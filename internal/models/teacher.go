package models

// Teacher is referenced by classes and never owns students or groups.
type Teacher struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
