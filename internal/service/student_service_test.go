package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

func newStudentService(t *testing.T) (*StudentService, *mockAuditRepo) {
	t.Helper()
	repo := &mockAuditRepo{}
	return NewStudentService(newTestEngine(t), nil, NewAuditService(repo, nil), nil), repo
}

func TestStudentServiceCreate(t *testing.T) {
	svc, _ := newStudentService(t)
	ctx := context.Background()

	student, err := svc.Create(ctx, testActor, models.StudentInput{Name: "Eve", Email: "eve@example.com", ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "new-1", student.ID)
	assert.False(t, student.HasGroup())

	_, err = svc.Create(ctx, testActor, models.StudentInput{Name: "Eve 2", Email: "EVE@example.com", ClassID: "c1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Create(ctx, testActor, models.StudentInput{Name: "Fay", Email: "not-an-email", ClassID: "c1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(ctx, testActor, models.StudentInput{Name: "Fay", Email: "fay@example.com", ClassID: "nope"})
	assert.True(t, errors.Is(err, appErrors.ErrUnknownReference))
}

func TestStudentServiceListAndGroups(t *testing.T) {
	svc, _ := newStudentService(t)
	ctx := context.Background()

	assert.Len(t, svc.List(ctx, ""), 4)
	assert.Len(t, svc.List(ctx, "c2"), 2)

	groups, err := svc.Groups(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = svc.Groups(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestStudentServiceImportCSV(t *testing.T) {
	svc, audit := newStudentService(t)
	csvData := "name,email,class_id\nEve,eve@example.com,c1\n\nFay,fay@example.com,c2\n"

	result, err := svc.Import(context.Background(), testActor, "roster.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "Fay", result.Imported[1].Name)
	assert.Len(t, svc.List(context.Background(), ""), 6)
	assert.Equal(t, []string{models.AuditActionStudentImport}, audit.actions())
}

func TestStudentServiceImportRejectsWholeFile(t *testing.T) {
	svc, audit := newStudentService(t)
	csvData := strings.Join([]string{
		"name,email,class_id",
		"Eve,eve@example.com,c1",
		"Fay,broken,c1",
		"Gus,eve@example.com,c1",
		"Hal,ada@example.com,c1",
		"Ivy,ivy@example.com",
		"Jon,jon@example.com,c9",
	}, "\n")

	_, err := svc.Import(context.Background(), testActor, "roster.csv", strings.NewReader(csvData))
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	rows, ok := appErr.Details.([]dto.ImportRowError)
	require.True(t, ok)
	require.Len(t, rows, 5)
	assert.Equal(t, 3, rows[0].Row)
	assert.Equal(t, "invalid email", rows[0].Message)
	assert.Equal(t, "email duplicates row 2", rows[1].Message)
	assert.Equal(t, "email already registered", rows[2].Message)
	assert.Contains(t, rows[3].Message, "expected 3 columns")
	assert.Contains(t, rows[4].Message, "unknown class")

	assert.Len(t, svc.List(context.Background(), ""), 4)
	assert.Empty(t, audit.actions())
}

func TestStudentServiceImportHeader(t *testing.T) {
	svc, _ := newStudentService(t)

	_, err := svc.Import(context.Background(), testActor, "roster.csv", strings.NewReader("name,email\nEve,eve@example.com\n"))
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	rows := appErr.Details.([]dto.ImportRowError)
	assert.Equal(t, 1, rows[0].Row)

	_, err = svc.Import(context.Background(), testActor, "roster.csv", strings.NewReader("name,email,class_id\n"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStudentServiceImportXLSX(t *testing.T) {
	svc, _ := newStudentService(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"name", "email", "class_id"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Eve", "eve@example.com", "c1"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Fay", "fay@example.com", "c2"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	result, err := svc.Import(context.Background(), testActor, "roster.XLSX", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Len(t, svc.List(context.Background(), "c2"), 3)
}
