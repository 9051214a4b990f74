package membership

import (
	"strings"

	"github.com/noah-isme/classroll-api/internal/models"
)

// Students returns every student.
func (e *Engine) Students() []models.Student {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Student, len(e.students))
	copy(out, e.students)
	return out
}

// Classes returns every class.
func (e *Engine) Classes() []models.Class {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Class, len(e.classes))
	for i, c := range e.classes {
		out[i] = cloneClass(c)
	}
	return out
}

// Groups returns every group.
func (e *Engine) Groups() []models.Group {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Group, len(e.groups))
	for i, g := range e.groups {
		out[i] = cloneGroup(g)
	}
	return out
}

// Teachers returns every teacher.
func (e *Engine) Teachers() []models.Teacher {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Teacher, len(e.teachers))
	copy(out, e.teachers)
	return out
}

// StudentsInClass returns the students whose class is classID.
func (e *Engine) StudentsInClass(classID string) []models.Student {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Student, 0)
	for _, s := range e.students {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out
}

// StudentsInGroup returns the students assigned to groupID.
func (e *Engine) StudentsInGroup(groupID string) []models.Student {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Student, 0)
	if groupID == "" {
		return out
	}
	for _, s := range e.students {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	return out
}

// GroupsForClass returns the groups associated with classID.
func (e *Engine) GroupsForClass(classID string) []models.Group {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Group, 0)
	for _, g := range e.groups {
		if contains(g.ClassIDs, classID) {
			out = append(out, cloneGroup(g))
		}
	}
	return out
}

// GroupsForStudent returns the groups listing studentID. Under the
// membership invariants this has at most one element.
func (e *Engine) GroupsForStudent(studentID string) []models.Group {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Group, 0, 1)
	for _, g := range e.groups {
		if contains(g.StudentIDs, studentID) {
			out = append(out, cloneGroup(g))
		}
	}
	return out
}

// GroupsForTeacher returns the groups attached to any class taught by teacherID.
func (e *Engine) GroupsForTeacher(teacherID string) []models.Group {
	e.mu.RLock()
	defer e.mu.RUnlock()
	taught := make(map[string]struct{})
	for _, c := range e.classes {
		if c.TeacherID == teacherID || contains(c.TeacherIDs, teacherID) {
			taught[c.ID] = struct{}{}
		}
	}
	out := make([]models.Group, 0)
	for _, g := range e.groups {
		for _, cid := range g.ClassIDs {
			if _, ok := taught[cid]; ok {
				out = append(out, cloneGroup(g))
				break
			}
		}
	}
	return out
}

// GroupByID looks up a group.
func (e *Engine) GroupByID(id string) (*models.Group, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if i := e.groupIndex(id); i >= 0 {
		g := cloneGroup(e.groups[i])
		return &g, true
	}
	return nil, false
}

// ClassByID looks up a class.
func (e *Engine) ClassByID(id string) (*models.Class, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if i := e.classIndex(id); i >= 0 {
		c := cloneClass(e.classes[i])
		return &c, true
	}
	return nil, false
}

// StudentByID looks up a student.
func (e *Engine) StudentByID(id string) (*models.Student, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if i := e.studentIndex(id); i >= 0 {
		s := e.students[i]
		return &s, true
	}
	return nil, false
}

// TeacherByID looks up a teacher.
func (e *Engine) TeacherByID(id string) (*models.Teacher, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, t := range e.teachers {
		if t.ID == id {
			teacher := t
			return &teacher, true
		}
	}
	return nil, false
}

// EmailTaken reports whether any student already uses email, ignoring case.
func (e *Engine) EmailTaken(email string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, s := range e.students {
		if strings.ToLower(s.Email) == email {
			return true
		}
	}
	return false
}
