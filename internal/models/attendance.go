package models

import (
	"strings"
	"time"
)

// AttendanceStatus is the observed status of a student on a date.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusUnknown AttendanceStatus = "unknown"
)

// ParseAttendanceStatus normalises a backend status string. Anything
// unrecognised maps to unknown.
func ParseAttendanceStatus(raw string) AttendanceStatus {
	switch AttendanceStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case AttendanceStatusPresent:
		return AttendanceStatusPresent
	case AttendanceStatusAbsent:
		return AttendanceStatusAbsent
	case AttendanceStatusLate:
		return AttendanceStatusLate
	default:
		return AttendanceStatusUnknown
	}
}

// Code returns the single letter used in the attendance matrix.
func (s AttendanceStatus) Code() string {
	switch s {
	case AttendanceStatusPresent:
		return "P"
	case AttendanceStatusAbsent:
		return "A"
	case AttendanceStatusLate:
		return "L"
	default:
		return "-"
	}
}

// AttendanceRecord is one (student, date, status) observation.
type AttendanceRecord struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name,omitempty"`
	Date        string           `json:"date"`
	Status      AttendanceStatus `json:"status"`
	Notes       string           `json:"notes,omitempty"`
}

// AttendanceSession bundles the records taken for one group/class/year on a date.
type AttendanceSession struct {
	ID             string             `json:"id"`
	Date           string             `json:"date"`
	GroupID        string             `json:"group_id"`
	ClassID        string             `json:"class_id"`
	AcademicYearID string             `json:"academic_year_id"`
	Records        []AttendanceRecord `json:"records"`
}

// AttendanceFilter selects the sessions for one teacher selection.
type AttendanceFilter struct {
	TeacherID      string `form:"teacher_id" json:"teacher_id" validate:"required"`
	GroupID        string `form:"group_id" json:"group_id" validate:"required"`
	ClassID        string `form:"class_id" json:"class_id" validate:"required"`
	AcademicYearID string `form:"academic_year_id" json:"academic_year_id" validate:"required"`
}

// AttendanceStats aggregates record counts.
type AttendanceStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

// AttendanceMatrixRow holds one student's statuses keyed by date plus totals.
type AttendanceMatrixRow struct {
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	Cells       map[string]string `json:"cells"`
	Present     int               `json:"present"`
	Absent      int               `json:"absent"`
	Late        int               `json:"late"`
}

// AttendanceMatrix is the derived student x date view of a set of sessions.
type AttendanceMatrix struct {
	Dates       []string              `json:"dates"`
	Rows        []AttendanceMatrixRow `json:"rows"`
	Stats       AttendanceStats       `json:"stats"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// AttendanceSubmission is a captured frame sent to the backend for recognition.
type AttendanceSubmission struct {
	TeacherID      string
	ClassID        string
	GroupID        string
	AcademicYearID string
	Photo          []byte
	Filename       string
}

// AttendanceSubmissionResult is what the backend reports for a submission.
type AttendanceSubmissionResult struct {
	PresentCount int `json:"present_count"`
	AbsentCount  int `json:"absent_count"`
}
