package dto

import (
	"time"

	"github.com/noah-isme/classroll-api/internal/models"
)

// CreateGroupRequest is the payload for creating a group.
type CreateGroupRequest struct {
	Name         string               `json:"name" validate:"required"`
	Description  string               `json:"description"`
	StudentIDs   []string             `json:"student_ids"`
	ClassIDs     []string             `json:"class_ids" validate:"required,min=1"`
	AcademicYear *models.AcademicYear `json:"academic_year"`
	Speciality   string               `json:"speciality"`
}

// UpdateGroupRequest carries only the fields to change. Sending an empty
// list clears it; omitting the field keeps it.
type UpdateGroupRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	StudentIDs  *[]string `json:"student_ids"`
	ClassIDs    *[]string `json:"class_ids"`
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	Name        string `json:"name" validate:"required"`
	TeacherID   string `json:"teacher_id"`
	Description string `json:"description"`
}

// CreateTeacherRequest is the payload for registering a teacher.
type CreateTeacherRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// ImportRowError describes why one row of an import file was refused.
// Row numbers are 1-based and count the header.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult reports the students created by an import.
type ImportResult struct {
	Imported []models.Student `json:"imported"`
	Count    int              `json:"count"`
}

// ConsistencyReport is the outcome of an invariant check.
type ConsistencyReport struct {
	Consistent bool      `json:"consistent"`
	Violation  string    `json:"violation,omitempty"`
	Students   int       `json:"students"`
	Classes    int       `json:"classes"`
	Groups     int       `json:"groups"`
	Teachers   int       `json:"teachers"`
	CheckedAt  time.Time `json:"checked_at"`
}
