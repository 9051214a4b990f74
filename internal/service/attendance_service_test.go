package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type fakeAttendance struct {
	sessions []models.AttendanceSession
	err      error
	calls    int
}

func (f *fakeAttendance) ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceSession, error) {
	f.calls++
	return f.sessions, f.err
}

var testFilter = models.AttendanceFilter{TeacherID: "t1", GroupID: "g-new", ClassID: "c1", AcademicYearID: "2024"}

func sampleSessions() []models.AttendanceSession {
	return []models.AttendanceSession{
		{ID: "a", Date: "2024-03-01", Records: []models.AttendanceRecord{
			{StudentID: "s1", Status: models.AttendanceStatusPresent},
			{StudentID: "s2", Status: models.AttendanceStatusAbsent},
		}},
		{ID: "b", Date: "2024-03-05", Records: []models.AttendanceRecord{
			{StudentID: "s1", Status: models.AttendanceStatusLate},
			{StudentID: "s2", Status: models.AttendanceStatusUnknown},
		}},
		{ID: "c", Date: "2024-03-05", Records: []models.AttendanceRecord{
			{StudentID: "s1", Status: models.AttendanceStatusAbsent},
		}},
	}
}

func TestBuildMatrix(t *testing.T) {
	roster := []models.Student{{ID: "s1", Name: "Ada"}, {ID: "s2", Name: "Ben"}, {ID: "s9", Name: "Zed"}}
	matrix := BuildMatrix(roster, sampleSessions())

	assert.Equal(t, []string{"2024-03-05", "2024-03-01"}, matrix.Dates)
	require.Len(t, matrix.Rows, 3)

	ada := matrix.Rows[0]
	assert.Equal(t, map[string]string{"2024-03-05": "L", "2024-03-01": "P"}, ada.Cells)
	assert.Equal(t, 1, ada.Present)
	assert.Equal(t, 1, ada.Absent)
	assert.Equal(t, 1, ada.Late)

	ben := matrix.Rows[1]
	assert.Equal(t, "-", ben.Cells["2024-03-05"])
	assert.Equal(t, "A", ben.Cells["2024-03-01"])

	zed := matrix.Rows[2]
	assert.Equal(t, map[string]string{"2024-03-05": "-", "2024-03-01": "-"}, zed.Cells)

	assert.Equal(t, models.AttendanceStats{Total: 5, Present: 1, Absent: 2, Late: 1}, matrix.Stats)
}

func TestBuildMatrixWithoutRoster(t *testing.T) {
	sessions := []models.AttendanceSession{{Date: "2024-01-02", Records: []models.AttendanceRecord{
		{StudentID: "x", StudentName: "Xena", Status: models.AttendanceStatusPresent},
		{StudentID: "y", Status: models.AttendanceStatusPresent},
	}}}
	matrix := BuildMatrix(nil, sessions)
	require.Len(t, matrix.Rows, 2)
	assert.Equal(t, "Xena", matrix.Rows[0].StudentName)
	assert.Equal(t, "y", matrix.Rows[1].StudentName)

	empty := BuildMatrix(nil, nil)
	assert.Empty(t, empty.Dates)
	assert.Empty(t, empty.Rows)
}

func TestAttendanceServiceMatrixUsesGroupRoster(t *testing.T) {
	engine := newTestEngine(t)
	group, err := NewGroupService(engine, nil, nil, nil, nil, nil).Create(context.Background(), testActor, dto.CreateGroupRequest{
		Name: "A", StudentIDs: []string{"s1", "s2"}, ClassIDs: []string{"c1"},
	})
	require.NoError(t, err)

	gw := &fakeAttendance{sessions: sampleSessions()}
	svc := NewAttendanceService(gw, engine, nil, nil, nil)
	filter := testFilter
	filter.GroupID = group.ID

	matrix, err := svc.Matrix(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, matrix.Rows, 2)
	assert.Equal(t, "Ada", matrix.Rows[0].StudentName)
	assert.False(t, matrix.GeneratedAt.IsZero())

	stats, err := svc.Stats(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
}

func TestAttendanceServiceSessionsCachedAndValidated(t *testing.T) {
	gw := &fakeAttendance{sessions: sampleSessions()}
	cache := NewCacheService(newMemoryCache(), nil, 0, nil, true)
	svc := NewAttendanceService(gw, newTestEngine(t), cache, nil, nil)
	ctx := context.Background()

	_, err := svc.Sessions(ctx, testFilter)
	require.NoError(t, err)
	sessions, err := svc.Sessions(ctx, testFilter)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
	assert.Equal(t, 1, gw.calls)

	_, err = svc.Sessions(ctx, models.AttendanceFilter{TeacherID: "t1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAttendanceServiceGatewayError(t *testing.T) {
	gw := &fakeAttendance{err: appErrors.Clone(appErrors.ErrGatewayUnavailable, "down")}
	svc := NewAttendanceService(gw, newTestEngine(t), nil, nil, nil)
	_, err := svc.Matrix(context.Background(), testFilter)
	assert.True(t, errors.Is(err, appErrors.ErrGatewayUnavailable))
}
