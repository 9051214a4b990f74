// Package membership keeps students, classes and groups mutually consistent.
//
// The Engine owns the in-memory working set and is the only place where
// group membership changes. It guarantees that a student belongs to at most
// one group, that Group.ClassIDs and Class.GroupIDs are inverse indexes of
// each other, and that deleting a group leaves no dangling references.
// Every rejected mutation leaves the working set untouched.
package membership

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/classroll-api/internal/models"
)

// Engine is safe for concurrent use; mutations are serialised.
type Engine struct {
	mu       sync.RWMutex
	students []models.Student
	classes  []models.Class
	groups   []models.Group
	teachers []models.Teacher

	now   func() time.Time
	newID func() string
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides id allocation for new entities.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// New returns an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Replace swaps the whole working set for a fresh snapshot, typically one
// fetched from the remote gateway. The last write wins: any local change
// not yet reflected remotely is overwritten.
//
// Remote snapshots are not trusted to be consistent. Only the first entity
// carrying a given id is kept and dangling ids are dropped. Class/group links
// are made symmetric and group member lists are recomputed from the
// students' group ids.
func (e *Engine) Replace(snapshot models.Snapshot) {
	students := make([]models.Student, 0, len(snapshot.Students))
	seen := make(map[string]struct{})
	for _, s := range snapshot.Students {
		if firstID(seen, "s:"+s.ID) {
			students = append(students, s)
		}
	}
	classes := make([]models.Class, 0, len(snapshot.Classes))
	for _, c := range snapshot.Classes {
		if firstID(seen, "c:"+c.ID) {
			classes = append(classes, cloneClass(c))
		}
	}
	groups := make([]models.Group, 0, len(snapshot.Groups))
	for _, g := range snapshot.Groups {
		if firstID(seen, "g:"+g.ID) {
			groups = append(groups, cloneGroup(g))
		}
	}
	teachers := make([]models.Teacher, 0, len(snapshot.Teachers))
	for _, t := range snapshot.Teachers {
		if firstID(seen, "t:"+t.ID) {
			teachers = append(teachers, t)
		}
	}

	normalise(students, classes, groups)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.students = students
	e.classes = classes
	e.groups = groups
	e.teachers = teachers
}

// Snapshot returns a deep copy of the working set.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Students: make([]models.Student, len(e.students)),
		Classes:  make([]models.Class, len(e.classes)),
		Groups:   make([]models.Group, len(e.groups)),
		Teachers: make([]models.Teacher, len(e.teachers)),
	}
	copy(snap.Students, e.students)
	copy(snap.Teachers, e.teachers)
	for i, c := range e.classes {
		snap.Classes[i] = cloneClass(c)
	}
	for i, g := range e.groups {
		snap.Groups[i] = cloneGroup(g)
	}
	return snap
}

// Verify checks the membership invariants and reports the first violation.
func (e *Engine) Verify() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make(map[string]struct{})
	for _, st := range e.students {
		if !firstID(ids, "s:"+st.ID) {
			return fmt.Errorf("student id %s is used twice", st.ID)
		}
	}
	for _, c := range e.classes {
		if !firstID(ids, "c:"+c.ID) {
			return fmt.Errorf("class id %s is used twice", c.ID)
		}
	}
	for _, g := range e.groups {
		if !firstID(ids, "g:"+g.ID) {
			return fmt.Errorf("group id %s is used twice", g.ID)
		}
	}

	for _, g := range e.groups {
		seen := make(map[string]struct{}, len(g.StudentIDs))
		for _, sid := range g.StudentIDs {
			if _, dup := seen[sid]; dup {
				return fmt.Errorf("group %s lists student %s twice", g.ID, sid)
			}
			seen[sid] = struct{}{}
			i := e.studentIndex(sid)
			if i < 0 {
				return fmt.Errorf("group %s lists unknown student %s", g.ID, sid)
			}
			if e.students[i].GroupID != g.ID {
				return fmt.Errorf("group %s lists student %s whose group is %q", g.ID, sid, e.students[i].GroupID)
			}
		}
		for _, cid := range g.ClassIDs {
			ci := e.classIndex(cid)
			if ci < 0 {
				return fmt.Errorf("group %s references unknown class %s", g.ID, cid)
			}
			if !contains(e.classes[ci].GroupIDs, g.ID) {
				return fmt.Errorf("class %s does not list group %s", cid, g.ID)
			}
		}
	}
	for _, s := range e.students {
		if !s.HasGroup() {
			continue
		}
		gi := e.groupIndex(s.GroupID)
		if gi < 0 {
			return fmt.Errorf("student %s references unknown group %s", s.ID, s.GroupID)
		}
		if !contains(e.groups[gi].StudentIDs, s.ID) {
			return fmt.Errorf("group %s does not list student %s", s.GroupID, s.ID)
		}
	}
	for _, c := range e.classes {
		for _, gid := range c.GroupIDs {
			gi := e.groupIndex(gid)
			if gi < 0 {
				return fmt.Errorf("class %s references unknown group %s", c.ID, gid)
			}
			if !contains(e.groups[gi].ClassIDs, c.ID) {
				return fmt.Errorf("group %s does not list class %s", gid, c.ID)
			}
		}
	}
	return nil
}

func (e *Engine) studentIndex(id string) int {
	for i := range e.students {
		if e.students[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) classIndex(id string) int {
	for i := range e.classes {
		if e.classes[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) groupIndex(id string) int {
	for i := range e.groups {
		if e.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func normalise(students []models.Student, classes []models.Class, groups []models.Group) {
	groupPos := make(map[string]int, len(groups))
	for i, g := range groups {
		groupPos[g.ID] = i
	}
	classPos := make(map[string]int, len(classes))
	for i, c := range classes {
		classPos[c.ID] = i
	}
	studentPos := make(map[string]int, len(students))
	for i, s := range students {
		studentPos[s.ID] = i
	}

	// Class links: union of both sides, restricted to known entities.
	for gi := range groups {
		kept := make([]string, 0, len(groups[gi].ClassIDs))
		for _, cid := range dedupe(groups[gi].ClassIDs) {
			if _, ok := classPos[cid]; ok {
				kept = append(kept, cid)
			}
		}
		groups[gi].ClassIDs = kept
	}
	for ci := range classes {
		kept := make([]string, 0, len(classes[ci].GroupIDs))
		for _, gid := range dedupe(classes[ci].GroupIDs) {
			gi, ok := groupPos[gid]
			if !ok {
				continue
			}
			kept = append(kept, gid)
			if !contains(groups[gi].ClassIDs, classes[ci].ID) {
				groups[gi].ClassIDs = append(groups[gi].ClassIDs, classes[ci].ID)
			}
		}
		classes[ci].GroupIDs = kept
	}
	for _, g := range groups {
		for _, cid := range g.ClassIDs {
			ci := classPos[cid]
			if !contains(classes[ci].GroupIDs, g.ID) {
				classes[ci].GroupIDs = append(classes[ci].GroupIDs, g.ID)
			}
		}
	}

	// Student links: a student's own group id wins; group lists may only
	// claim students that have no group yet.
	for si := range students {
		if _, ok := groupPos[students[si].GroupID]; !ok {
			students[si].GroupID = ""
		}
	}
	for _, g := range groups {
		for _, sid := range dedupe(g.StudentIDs) {
			si, ok := studentPos[sid]
			if ok && !students[si].HasGroup() {
				students[si].GroupID = g.ID
			}
		}
	}
	for gi := range groups {
		members := make([]string, 0, len(groups[gi].StudentIDs))
		for _, sid := range dedupe(groups[gi].StudentIDs) {
			if si, ok := studentPos[sid]; ok && students[si].GroupID == groups[gi].ID {
				members = append(members, sid)
			}
		}
		for _, s := range students {
			if s.GroupID == groups[gi].ID && !contains(members, s.ID) {
				members = append(members, s.ID)
			}
		}
		groups[gi].StudentIDs = members
	}
}

// firstID records key in seen and reports whether it was new.
func firstID(seen map[string]struct{}, key string) bool {
	if _, dup := seen[key]; dup {
		return false
	}
	seen[key] = struct{}{}
	return true
}

func cloneClass(c models.Class) models.Class {
	c.GroupIDs = cloneStrings(c.GroupIDs)
	if c.TeacherIDs != nil {
		c.TeacherIDs = cloneStrings(c.TeacherIDs)
	}
	return c
}

func cloneGroup(g models.Group) models.Group {
	g.StudentIDs = cloneStrings(g.StudentIDs)
	g.ClassIDs = cloneStrings(g.ClassIDs)
	if g.AcademicYear != nil {
		year := *g.AcademicYear
		g.AcademicYear = &year
	}
	if g.UpdatedAt != nil {
		ts := *g.UpdatedAt
		g.UpdatedAt = &ts
	}
	return g
}
