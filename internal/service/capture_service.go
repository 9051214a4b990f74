package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for uploaded frames
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/gateway"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type captureGateway interface {
	SubmitAttendance(ctx context.Context, sub models.AttendanceSubmission) (*models.AttendanceSubmissionResult, error)
}

// CaptureConfig tunes frame acquisition.
type CaptureConfig struct {
	SnapshotURL  string
	FrameTimeout time.Duration
	JPEGQuality  int
	MaxUpload    int64
}

// CaptureService turns one camera frame into an attendance submission. At
// most one capture per teacher runs at a time.
type CaptureService struct {
	gateway   captureGateway
	cache     *CacheService
	audit     *AuditService
	metrics   *MetricsService
	validator *validator.Validate
	http      *http.Client
	logger    *zap.Logger
	cfg       CaptureConfig

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCaptureService constructs a CaptureService. cache, audit and metrics
// may be nil.
func NewCaptureService(gw captureGateway, cache *CacheService, audit *AuditService, metrics *MetricsService, validate *validator.Validate, cfg CaptureConfig, logger *zap.Logger) *CaptureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FrameTimeout <= 0 {
		cfg.FrameTimeout = 5 * time.Second
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 90
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = 8 << 20
	}
	return &CaptureService{
		gateway:   gw,
		cache:     cache,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		http:      &http.Client{},
		logger:    logger,
		cfg:       cfg,
		inFlight:  make(map[string]struct{}),
	}
}

// InProgress reports whether a capture is running for teacherID.
func (s *CaptureService) InProgress(teacherID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[teacherID]
	return busy
}

// Submit captures a frame and sends it to the backend for recognition. The
// in-progress flag is always cleared, whatever the outcome.
func (s *CaptureService) Submit(ctx context.Context, actor models.Actor, req dto.CaptureRequest) (*dto.CaptureResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "class, group and academic year are required")
	}
	if !s.acquire(req.TeacherID) {
		return nil, appErrors.ErrCaptureInProgress
	}
	defer s.release(req.TeacherID)

	start := time.Now()
	result, err := s.submit(ctx, actor, req)
	outcome := "ok"
	if err != nil {
		outcome = appErrors.FromError(err).Code
	}
	s.metrics.ObserveCapture(outcome, time.Since(start))
	if err != nil {
		s.logger.Warn("attendance capture failed",
			zap.String("teacher_id", req.TeacherID),
			zap.String("group_id", req.GroupID),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (s *CaptureService) submit(ctx context.Context, actor models.Actor, req dto.CaptureRequest) (*dto.CaptureResult, error) {
	raw := req.Photo
	if len(raw) == 0 {
		frame, err := s.fetchFrame(ctx)
		if err != nil {
			return nil, err
		}
		raw = frame
	}

	photo, err := s.normalise(raw)
	if err != nil {
		return nil, err
	}

	res, err := s.gateway.SubmitAttendance(ctx, models.AttendanceSubmission{
		TeacherID:      req.TeacherID,
		ClassID:        req.ClassID,
		GroupID:        req.GroupID,
		AcademicYearID: req.AcademicYearID,
		Photo:          photo,
		Filename:       "attendance.jpg",
	})
	if err != nil {
		var se *gateway.StatusError
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
			return nil, appErrors.Wrap(err, appErrors.ErrCaptureFailed.Code, appErrors.ErrCaptureFailed.Status, se.Detail)
		}
		return nil, err
	}

	filter := models.AttendanceFilter{
		TeacherID:      req.TeacherID,
		GroupID:        req.GroupID,
		ClassID:        req.ClassID,
		AcademicYearID: req.AcademicYearID,
	}
	s.cache.Invalidate(ctx, attendanceCacheKey(filter))

	result := &dto.CaptureResult{
		PresentCount: res.PresentCount,
		AbsentCount:  res.AbsentCount,
		CapturedAt:   time.Now().UTC(),
	}
	s.audit.Record(ctx, actor, models.AuditActionCapture, "attendance", req.GroupID, nil, map[string]interface{}{
		"class_id":         req.ClassID,
		"academic_year_id": req.AcademicYearID,
		"present_count":    result.PresentCount,
		"absent_count":     result.AbsentCount,
	})
	return result, nil
}

// fetchFrame pulls one still image from the camera snapshot endpoint.
func (s *CaptureService) fetchFrame(ctx context.Context) ([]byte, error) {
	if s.cfg.SnapshotURL == "" {
		return nil, appErrors.Clone(appErrors.ErrCaptureFailed, "no photo uploaded and no camera configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FrameTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.SnapshotURL, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCaptureFailed.Code, appErrors.ErrCaptureFailed.Status, "invalid camera snapshot url")
	}
	resp, err := s.http.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, appErrors.Wrap(err, appErrors.ErrCaptureTimeout.Code, appErrors.ErrCaptureTimeout.Status, appErrors.ErrCaptureTimeout.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrCaptureFailed.Code, appErrors.ErrCaptureFailed.Status, "camera is not reachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Clone(appErrors.ErrCaptureFailed, fmt.Sprintf("camera responded %d", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxUpload+1))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, appErrors.Wrap(err, appErrors.ErrCaptureTimeout.Code, appErrors.ErrCaptureTimeout.Status, appErrors.ErrCaptureTimeout.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrCaptureFailed.Code, appErrors.ErrCaptureFailed.Status, "failed to read camera frame")
	}
	if int64(len(data)) > s.cfg.MaxUpload {
		return nil, appErrors.Clone(appErrors.ErrCaptureFailed, "camera frame is too large")
	}
	return data, nil
}

// normalise decodes a JPEG or PNG frame and re-encodes it as JPEG.
func (s *CaptureService) normalise(raw []byte) ([]byte, error) {
	if int64(len(raw)) > s.cfg.MaxUpload {
		return nil, appErrors.Clone(appErrors.ErrCaptureFailed, "photo is too large")
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCaptureFailed.Code, appErrors.ErrCaptureFailed.Status, "photo is not a valid JPEG or PNG image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.cfg.JPEGQuality}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCaptureFailed.Code, appErrors.ErrCaptureFailed.Status, "failed to encode photo")
	}
	return buf.Bytes(), nil
}

func (s *CaptureService) acquire(teacherID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[teacherID]; busy {
		return false
	}
	s.inFlight[teacherID] = struct{}{}
	return true
}

func (s *CaptureService) release(teacherID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, teacherID)
}
