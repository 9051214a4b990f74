package models

import "time"

// AcademicYear tags groups and students in the richer dataset variant.
type AcademicYear struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group is a named subset of students associated with one or more classes.
type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	StudentIDs   []string      `json:"student_ids"`
	ClassIDs     []string      `json:"class_ids"`
	AcademicYear *AcademicYear `json:"academic_year,omitempty"`
	Speciality   string        `json:"speciality,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    *time.Time    `json:"updated_at,omitempty"`
}
