package models

// Actor identifies who triggered a mutation, for the audit trail.
type Actor struct {
	UserID string
	IP     string
}
