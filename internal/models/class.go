package models

// Class is a teacher-owned course (a subject) that can host several groups.
type Class struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	TeacherID   string   `json:"teacher_id,omitempty"`
	TeacherIDs  []string `json:"teacher_ids,omitempty"`
	GroupIDs    []string `json:"group_ids"`
}
