package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
	"github.com/noah-isme/classroll-api/pkg/export"
	"github.com/noah-isme/classroll-api/pkg/storage"
)

type fileStorage interface {
	Save(key string, data []byte) (string, error)
	Open(key string) (*os.File, error)
	Delete(key string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type matrixSource interface {
	Matrix(ctx context.Context, filter models.AttendanceFilter) (*models.AttendanceMatrix, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix       string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportDownload is a resolved download token.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// ExportService renders attendance matrices and serves them through signed
// download links.
type ExportService struct {
	attendance matrixSource
	engine     *membership.Engine
	storage    fileStorage
	signer     *storage.SignedURLSigner
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        ExportConfig
	now        func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(attendance matrixSource, engine *membership.Engine, store fileStorage, signer *storage.SignedURLSigner, validate *validator.Validate, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = signer.TTL()
	}
	return &ExportService{
		attendance: attendance,
		engine:     engine,
		storage:    store,
		signer:     signer,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Export renders the matrix for one selection, stores it and returns a
// signed link to it.
func (s *ExportService) Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportResult, error) {
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	matrix, err := s.attendance.Matrix(ctx, req.AttendanceFilter)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(s.buildDataset(req.AttendanceFilter, matrix))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := s.buildFilename(req.AttendanceFilter, renderer.Extension())
	key, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Sign(key, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("attendance exported",
		zap.String("file", key),
		zap.String("format", string(format)),
		zap.Int("rows", len(matrix.Rows)))

	return &dto.ExportResult{
		URL:       fmt.Sprintf("%s/exports/%s", prefix, token),
		Token:     token,
		Filename:  filename,
		Format:    string(format),
		ExpiresAt: expiresAt,
	}, nil
}

// Open resolves a download token to the stored file. The caller closes it.
func (s *ExportService) Open(ctx context.Context, token string) (*ExportDownload, error) {
	grant, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	file, err := s.storage.Open(grant.Key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ExportDownload{
		File:        file,
		Filename:    grant.Filename,
		ContentType: contentTypeFor(grant.Filename),
		ExpiresAt:   grant.ExpiresAt,
	}, nil
}

// Cleanup removes exports older than the configured lifetime.
func (s *ExportService) Cleanup() ([]string, error) {
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		return removed, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}

// StartCleanup purges expired exports periodically until ctx is done.
func (s *ExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Cleanup(); err != nil {
					s.logger.Sugar().Warnw("export cleanup failed", "error", err)
				}
			}
		}
	}()
}

func (s *ExportService) buildDataset(filter models.AttendanceFilter, matrix *models.AttendanceMatrix) export.Dataset {
	columns := make([]string, 0, len(matrix.Dates)+4)
	columns = append(columns, "Student")
	columns = append(columns, matrix.Dates...)
	columns = append(columns, "P", "A", "L")

	rows := make([][]string, 0, len(matrix.Rows))
	for _, r := range matrix.Rows {
		row := make([]string, 0, len(columns))
		row = append(row, r.StudentName)
		for _, d := range matrix.Dates {
			row = append(row, r.Cells[d])
		}
		row = append(row, strconv.Itoa(r.Present), strconv.Itoa(r.Absent), strconv.Itoa(r.Late))
		rows = append(rows, row)
	}

	return export.Dataset{
		Title:    "Attendance matrix",
		Subtitle: s.describe(filter),
		Columns:  columns,
		Rows:     rows,
		Footer: []string{
			fmt.Sprintf("Records: %d  Present: %d  Absent: %d  Late: %d",
				matrix.Stats.Total, matrix.Stats.Present, matrix.Stats.Absent, matrix.Stats.Late),
			"P = Present | A = Absent | L = Late",
			"Generated " + s.now().Format(time.RFC3339),
		},
	}
}

func (s *ExportService) describe(filter models.AttendanceFilter) string {
	group := filter.GroupID
	if g, ok := s.engine.GroupByID(filter.GroupID); ok {
		group = g.Name
	}
	class := filter.ClassID
	if c, ok := s.engine.ClassByID(filter.ClassID); ok {
		class = c.Name
	}
	return fmt.Sprintf("Group %s / Class %s / Year %s", group, class, filter.AcademicYearID)
}

func (s *ExportService) buildFilename(filter models.AttendanceFilter, ext string) string {
	timestamp := s.now().Format("20060102_150405")
	return fmt.Sprintf("attendance_%s_%s_%s.%s", sanitizeFilename(filter.GroupID), sanitizeFilename(filter.ClassID), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 64 {
		return result[:64]
	}
	return result
}

func contentTypeFor(filename string) string {
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
	if err != nil {
		return "application/octet-stream"
	}
	renderer, err := export.ForFormat(format)
	if err != nil {
		return "application/octet-stream"
	}
	return renderer.ContentType()
}
