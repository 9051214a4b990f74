package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type attendanceGateway interface {
	ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceSession, error)
}

// AttendanceService reads attendance sessions from the backend and derives
// the student by date matrix shown on the teacher dashboard.
type AttendanceService struct {
	gateway   attendanceGateway
	engine    *membership.Engine
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs an AttendanceService. cache may be nil.
func NewAttendanceService(gateway attendanceGateway, engine *membership.Engine, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		gateway:   gateway,
		engine:    engine,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Sessions returns the sessions recorded for one selection.
func (s *AttendanceService) Sessions(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceSession, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance filter")
	}

	key := attendanceCacheKey(filter)
	var cached []models.AttendanceSession
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	sessions, err := s.gateway.ListAttendance(ctx, filter)
	if err != nil {
		s.logger.Warn("failed to load attendance", zap.String("teacher_id", filter.TeacherID), zap.Error(err))
		return nil, err
	}
	s.cache.Set(ctx, key, sessions, 0)
	return sessions, nil
}

// Matrix builds the attendance matrix for one selection.
func (s *AttendanceService) Matrix(ctx context.Context, filter models.AttendanceFilter) (*models.AttendanceMatrix, error) {
	sessions, err := s.Sessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	matrix := BuildMatrix(s.engine.StudentsInGroup(filter.GroupID), sessions)
	matrix.GeneratedAt = s.now()
	return &matrix, nil
}

// Stats aggregates the status counts for one selection.
func (s *AttendanceService) Stats(ctx context.Context, filter models.AttendanceFilter) (*models.AttendanceStats, error) {
	sessions, err := s.Sessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats := statsFor(flattenRecords(sessions))
	return &stats, nil
}

// BuildMatrix derives the matrix from a roster and a set of sessions. Dates
// are unique and newest first. A student's cell holds the code of the first
// record for that date, or "-" when there is none. When the roster is empty
// the rows come from the students named in the records.
func BuildMatrix(roster []models.Student, sessions []models.AttendanceSession) models.AttendanceMatrix {
	records := flattenRecords(sessions)

	dates := uniqueDates(records)
	if len(roster) == 0 {
		roster = studentsFromRecords(records)
	}

	first := make(map[string]models.AttendanceStatus, len(records))
	for _, r := range records {
		k := r.StudentID + "|" + r.Date
		if _, ok := first[k]; !ok {
			first[k] = r.Status
		}
	}

	rows := make([]models.AttendanceMatrixRow, 0, len(roster))
	for _, st := range roster {
		row := models.AttendanceMatrixRow{
			StudentID:   st.ID,
			StudentName: st.Name,
			Cells:       make(map[string]string, len(dates)),
		}
		for _, d := range dates {
			status, ok := first[st.ID+"|"+d]
			if !ok {
				row.Cells[d] = "-"
				continue
			}
			row.Cells[d] = status.Code()
		}
		for _, r := range records {
			if r.StudentID != st.ID {
				continue
			}
			switch r.Status {
			case models.AttendanceStatusPresent:
				row.Present++
			case models.AttendanceStatusAbsent:
				row.Absent++
			case models.AttendanceStatusLate:
				row.Late++
			}
		}
		rows = append(rows, row)
	}

	return models.AttendanceMatrix{
		Dates: dates,
		Rows:  rows,
		Stats: statsFor(records),
	}
}

func flattenRecords(sessions []models.AttendanceSession) []models.AttendanceRecord {
	var out []models.AttendanceRecord
	for _, session := range sessions {
		for _, r := range session.Records {
			if r.Date == "" {
				r.Date = session.Date
			}
			out = append(out, r)
		}
	}
	return out
}

func statsFor(records []models.AttendanceRecord) models.AttendanceStats {
	stats := models.AttendanceStats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case models.AttendanceStatusPresent:
			stats.Present++
		case models.AttendanceStatusAbsent:
			stats.Absent++
		case models.AttendanceStatusLate:
			stats.Late++
		}
	}
	return stats
}

func uniqueDates(records []models.AttendanceRecord) []string {
	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for _, r := range records {
		if r.Date == "" {
			continue
		}
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	sort.SliceStable(dates, func(i, j int) bool {
		ti, okI := parseDate(dates[i])
		tj, okJ := parseDate(dates[j])
		if okI && okJ {
			return ti.After(tj)
		}
		return dates[i] > dates[j]
	})
	return dates
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func studentsFromRecords(records []models.AttendanceRecord) []models.Student {
	seen := make(map[string]struct{})
	out := make([]models.Student, 0)
	for _, r := range records {
		if _, ok := seen[r.StudentID]; ok {
			continue
		}
		seen[r.StudentID] = struct{}{}
		name := r.StudentName
		if name == "" {
			name = r.StudentID
		}
		out = append(out, models.Student{ID: r.StudentID, Name: name})
	}
	return out
}

func attendanceCacheKey(filter models.AttendanceFilter) string {
	return fmt.Sprintf("attendance:%s:%s:%s:%s", filter.TeacherID, filter.GroupID, filter.ClassID, filter.AcademicYearID)
}
