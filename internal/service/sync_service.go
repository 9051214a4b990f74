package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/dto"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

const snapshotCacheTTL = 24 * time.Hour

type directoryGateway interface {
	Enabled() bool
	ListSubjects(ctx context.Context, teacherID string) ([]models.Class, error)
	ListGroups(ctx context.Context, teacherID string) ([]models.Group, error)
	ListStudents(ctx context.Context, groupID, yearID string) ([]models.Student, error)
}

// SyncConfig holds the default selection pulled from the backend.
type SyncConfig struct {
	TeacherID      string
	GroupID        string
	AcademicYearID string
	Interval       time.Duration
}

// SyncService refreshes the membership working set from the backend. The
// backend is the system of record, so a refresh overwrites local changes.
type SyncService struct {
	gateway directoryGateway
	engine  *membership.Engine
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     SyncConfig
	now     func() time.Time
}

// NewSyncService constructs a SyncService. cache and metrics may be nil.
func NewSyncService(gateway directoryGateway, engine *membership.Engine, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg SyncConfig) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		gateway: gateway,
		engine:  engine,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Refresh pulls classes, groups and students for one teacher and replaces
// the working set. On any gateway failure the working set is left as is.
func (s *SyncService) Refresh(ctx context.Context, req dto.SyncRequest) (*dto.SyncResult, error) {
	req = s.withDefaults(req)
	if req.TeacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher_id is required")
	}
	if s.gateway == nil || !s.gateway.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrGatewayUnavailable, "remote data gateway is not configured")
	}

	snapshot, err := s.fetch(ctx, req)
	s.metrics.RecordSync(err)
	if err != nil {
		s.logger.Warn("sync failed, keeping current working set",
			zap.String("teacher_id", req.TeacherID),
			zap.Error(err))
		return nil, err
	}

	s.engine.Replace(snapshot)
	s.cache.Set(ctx, snapshotCacheKey(req.TeacherID), snapshot, snapshotCacheTTL)

	result := s.summarise()
	s.logger.Info("working set refreshed",
		zap.String("teacher_id", req.TeacherID),
		zap.Int("classes", result.Classes),
		zap.Int("groups", result.Groups),
		zap.Int("students", result.Students))
	return result, nil
}

// Warm loads the last snapshot cached for teacherID into an empty engine.
// It reports whether a snapshot was restored.
func (s *SyncService) Warm(ctx context.Context, teacherID string) bool {
	if teacherID == "" {
		teacherID = s.cfg.TeacherID
	}
	if teacherID == "" || len(s.engine.Classes()) > 0 {
		return false
	}
	var snapshot models.Snapshot
	if !s.cache.Get(ctx, snapshotCacheKey(teacherID), &snapshot) {
		return false
	}
	s.engine.Replace(snapshot)
	s.logger.Info("working set restored from cache", zap.String("teacher_id", teacherID))
	return true
}

// Start refreshes once and then on every tick of the configured interval
// until ctx is cancelled. A zero interval disables the loop.
func (s *SyncService) Start(ctx context.Context) {
	if s.gateway == nil || !s.gateway.Enabled() || s.cfg.TeacherID == "" {
		return
	}
	if _, err := s.Refresh(ctx, dto.SyncRequest{}); err != nil {
		s.Warm(ctx, s.cfg.TeacherID)
	}
	if s.cfg.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = s.Refresh(ctx, dto.SyncRequest{})
			}
		}
	}()
}

func (s *SyncService) fetch(ctx context.Context, req dto.SyncRequest) (models.Snapshot, error) {
	classes, err := s.gateway.ListSubjects(ctx, req.TeacherID)
	if err != nil {
		return models.Snapshot{}, err
	}
	groups, err := s.gateway.ListGroups(ctx, req.TeacherID)
	if err != nil {
		return models.Snapshot{}, err
	}

	var students []models.Student
	if req.GroupID != "" {
		students, err = s.gateway.ListStudents(ctx, req.GroupID, req.AcademicYearID)
		if err != nil {
			return models.Snapshot{}, err
		}
	} else {
		seen := make(map[string]struct{})
		for _, g := range groups {
			yearID := req.AcademicYearID
			if yearID == "" && g.AcademicYear != nil {
				yearID = g.AcademicYear.ID
			}
			members, err := s.gateway.ListStudents(ctx, g.ID, yearID)
			if err != nil {
				return models.Snapshot{}, err
			}
			for _, st := range members {
				if _, dup := seen[st.ID]; dup {
					continue
				}
				seen[st.ID] = struct{}{}
				students = append(students, st)
			}
		}
	}

	// Teachers are not served by the backend; keep the local registry.
	return models.Snapshot{
		Students: students,
		Classes:  classes,
		Groups:   groups,
		Teachers: s.engine.Teachers(),
	}, nil
}

func (s *SyncService) withDefaults(req dto.SyncRequest) dto.SyncRequest {
	if req.TeacherID == "" {
		req.TeacherID = s.cfg.TeacherID
	}
	if req.GroupID == "" {
		req.GroupID = s.cfg.GroupID
	}
	if req.AcademicYearID == "" {
		req.AcademicYearID = s.cfg.AcademicYearID
	}
	return req
}

func (s *SyncService) summarise() *dto.SyncResult {
	snap := s.engine.Snapshot()
	return &dto.SyncResult{
		Students:    len(snap.Students),
		Classes:     len(snap.Classes),
		Groups:      len(snap.Groups),
		RefreshedAt: s.now(),
	}
}

func snapshotCacheKey(teacherID string) string {
	return "snapshot:" + teacherID
}
