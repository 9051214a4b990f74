package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
)

var testActor = models.Actor{UserID: "admin-1", IP: "127.0.0.1"}

// newTestEngine seeds two classes, four ungrouped students and two teachers.
func newTestEngine(t *testing.T) *membership.Engine {
	t.Helper()
	n := 0
	engine := membership.New(
		membership.WithClock(func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }),
		membership.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		}),
	)
	engine.Replace(models.Snapshot{
		Classes: []models.Class{
			{ID: "c1", Name: "Maths", TeacherID: "t1", TeacherIDs: []string{"t1"}},
			{ID: "c2", Name: "Physics", TeacherID: "t2", TeacherIDs: []string{"t2"}},
		},
		Students: []models.Student{
			{ID: "s1", Name: "Ada", Email: "ada@example.com", ClassID: "c1"},
			{ID: "s2", Name: "Ben", Email: "ben@example.com", ClassID: "c1"},
			{ID: "s3", Name: "Cleo", Email: "cleo@example.com", ClassID: "c2"},
			{ID: "s4", Name: "Dan", Email: "dan@example.com", ClassID: "c2"},
		},
		Teachers: []models.Teacher{
			{ID: "t1", Name: "Tess", Email: "tess@example.com"},
			{ID: "t2", Name: "Tom", Email: "tom@example.com"},
		},
	})
	return engine
}

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
	err     error
}

func (m *mockAuditRepo) Create(ctx context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *log)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AuditLog(nil), m.entries...), m.err
}

func (m *mockAuditRepo) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}
