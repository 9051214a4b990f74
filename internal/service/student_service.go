package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

const importColumns = 3

// StudentService manages students and bulk imports.
type StudentService struct {
	engine    *membership.Engine
	validator *validator.Validate
	audit     *AuditService
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(engine *membership.Engine, validate *validator.Validate, audit *AuditService, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{engine: engine, validator: validate, audit: audit, logger: logger}
}

// List returns every student, optionally filtered by class.
func (s *StudentService) List(ctx context.Context, classID string) []models.Student {
	if classID != "" {
		return s.engine.StudentsInClass(classID)
	}
	return s.engine.Students()
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.engine.StudentByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

// Groups returns the groups a student belongs to.
func (s *StudentService) Groups(ctx context.Context, id string) ([]models.Group, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.engine.GroupsForStudent(id), nil
}

// Create adds one student.
func (s *StudentService) Create(ctx context.Context, actor models.Actor, req models.StudentInput) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if _, ok := s.engine.ClassByID(req.ClassID); !ok {
		return nil, appErrors.WithDetails(appErrors.ErrUnknownReference, "", membership.UnknownReferences{ClassIDs: []string{req.ClassID}})
	}
	if s.engine.EmailTaken(req.Email) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}
	return s.engine.CreateStudent(req)
}

// Import parses a CSV or XLSX roster with the columns name, email and
// class id, and creates every student or none. The format is chosen by the
// file extension.
func (s *StudentService) Import(ctx context.Context, actor models.Actor, filename string, r io.Reader) (*dto.ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		rows, err = readXLSXRows(r)
	} else {
		rows, err = readCSVRows(r)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unreadable import file")
	}

	inputs, rowErrors := s.parseRoster(rows)
	if len(rowErrors) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, "import rejected", rowErrors)
	}

	created, err := s.engine.CreateStudents(inputs)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionStudentImport, "student", "", nil, map[string]interface{}{
		"file":  filename,
		"count": len(created),
	})
	s.logger.Info("students imported", zap.String("file", filename), zap.Int("count", len(created)))
	return &dto.ImportResult{Imported: created, Count: len(created)}, nil
}

// parseRoster validates rows[0] as the header and every later row as a
// student. Blank rows are skipped.
func (s *StudentService) parseRoster(rows [][]string) ([]models.StudentInput, []dto.ImportRowError) {
	if len(rows) == 0 {
		return nil, []dto.ImportRowError{{Row: 1, Message: "file is empty"}}
	}
	if len(rows[0]) != importColumns {
		return nil, []dto.ImportRowError{{Row: 1, Message: fmt.Sprintf("header must have %d columns: name, email, class_id", importColumns)}}
	}

	var (
		inputs    []models.StudentInput
		rowErrors []dto.ImportRowError
		seen      = make(map[string]int)
	)
	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		if len(row) != importColumns {
			rowErrors = append(rowErrors, dto.ImportRowError{Row: line, Message: fmt.Sprintf("expected %d columns, got %d", importColumns, len(row))})
			continue
		}
		in := models.StudentInput{
			Name:    strings.TrimSpace(row[0]),
			Email:   strings.TrimSpace(row[1]),
			ClassID: strings.TrimSpace(row[2]),
		}
		if err := s.validator.Struct(in); err != nil {
			rowErrors = append(rowErrors, dto.ImportRowError{Row: line, Message: describeValidation(err)})
			continue
		}
		key := strings.ToLower(in.Email)
		if first, dup := seen[key]; dup {
			rowErrors = append(rowErrors, dto.ImportRowError{Row: line, Message: fmt.Sprintf("email duplicates row %d", first)})
			continue
		}
		seen[key] = line
		if s.engine.EmailTaken(in.Email) {
			rowErrors = append(rowErrors, dto.ImportRowError{Row: line, Message: "email already registered"})
			continue
		}
		if _, ok := s.engine.ClassByID(in.ClassID); !ok {
			rowErrors = append(rowErrors, dto.ImportRowError{Row: line, Message: fmt.Sprintf("unknown class %q", in.ClassID)})
			continue
		}
		inputs = append(inputs, in)
	}
	if len(rowErrors) == 0 && len(inputs) == 0 {
		rowErrors = append(rowErrors, dto.ImportRowError{Row: 1, Message: "file has no student rows"})
	}
	return inputs, rowErrors
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "email":
			parts = append(parts, "invalid email")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
