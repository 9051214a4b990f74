package models

// Student represents a learner in the working set. GroupID is empty when
// the student belongs to no group.
type Student struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ClassID      string `json:"class_id,omitempty"`
	GroupID      string `json:"group_id,omitempty"`
	Photo        string `json:"photo,omitempty"`
	AcademicYear string `json:"academic_year,omitempty"`
	Speciality   string `json:"speciality,omitempty"`
}

// HasGroup reports whether the student is assigned to any group.
func (s Student) HasGroup() bool {
	return s.GroupID != ""
}

// StudentInput is the payload for creating a student.
type StudentInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	ClassID string `json:"class_id" validate:"required"`
}
