package dto

import (
	"time"

	"github.com/noah-isme/classroll-api/internal/models"
)

// SyncRequest selects what to pull from the backend. Empty fields fall back
// to the configured defaults and the caller's teacher id.
type SyncRequest struct {
	TeacherID      string `json:"teacher_id"`
	GroupID        string `json:"group_id"`
	AcademicYearID string `json:"academic_year_id"`
}

// SyncResult summarises a completed refresh.
type SyncResult struct {
	Students    int       `json:"students"`
	Classes     int       `json:"classes"`
	Groups      int       `json:"groups"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// ExportRequest asks for a rendered attendance matrix.
type ExportRequest struct {
	models.AttendanceFilter
	Format string `form:"format" json:"format" validate:"required,oneof=pdf csv xlsx"`
}

// ExportResult points at a stored export.
type ExportResult struct {
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CaptureRequest is one attendance capture attempt. Photo may be empty, in
// which case a frame is pulled from the camera.
type CaptureRequest struct {
	TeacherID      string `validate:"required"`
	ClassID        string `validate:"required"`
	GroupID        string `validate:"required"`
	AcademicYearID string `validate:"required"`
	Photo          []byte
}

// CaptureResult reports the recognition outcome.
type CaptureResult struct {
	PresentCount int       `json:"present_count"`
	AbsentCount  int       `json:"absent_count"`
	CapturedAt   time.Time `json:"captured_at"`
}
