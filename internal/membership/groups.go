package membership

import (
	"strings"

	"github.com/noah-isme/classroll-api/internal/models"
)

// CreateGroupInput describes a new group.
type CreateGroupInput struct {
	Name         string
	Description  string
	StudentIDs   []string
	ClassIDs     []string
	AcademicYear *models.AcademicYear
	Speciality   string
}

// GroupUpdate lists the fields to change. A nil field is left as is; a
// non-nil pointer to an empty slice clears the list.
type GroupUpdate struct {
	Name        *string
	Description *string
	StudentIDs  *[]string
	ClassIDs    *[]string
}

// CreateGroup validates and inserts a new group. It is rejected when the
// name is blank, no class is given, an id is unknown, or any listed student
// already belongs to a group; in that case nothing changes.
func (e *Engine) CreateGroup(in CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("group name is required")
	}
	classIDs := dedupe(in.ClassIDs)
	if len(classIDs) == 0 {
		return nil, validationError("at least one class is required")
	}
	studentIDs := dedupe(in.StudentIDs)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkReferences(studentIDs, classIDs); err != nil {
		return nil, err
	}

	var conflicts []string
	for _, sid := range studentIDs {
		if e.students[e.studentIndex(sid)].HasGroup() {
			conflicts = append(conflicts, sid)
		}
	}
	if len(conflicts) > 0 {
		return nil, conflictError(conflicts)
	}

	group := models.Group{
		ID:          e.newID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		StudentIDs:  studentIDs,
		ClassIDs:    classIDs,
		Speciality:  in.Speciality,
		CreatedAt:   e.now(),
	}
	if in.AcademicYear != nil {
		year := *in.AcademicYear
		group.AcademicYear = &year
	}
	for _, sid := range studentIDs {
		e.students[e.studentIndex(sid)].GroupID = group.ID
	}
	for _, cid := range classIDs {
		e.linkClass(cid, group.ID)
	}
	e.groups = append(e.groups, group)

	created := cloneGroup(group)
	return &created, nil
}

// UpdateGroup applies a partial update and returns the group after and
// before the change. Student and class edits are both validated before
// either is applied, so a rejection leaves the working set exactly as it was.
func (e *Engine) UpdateGroup(groupID string, upd GroupUpdate) (updated, previous *models.Group, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateLocked(groupID, upd)
}

// AssignClass links one class to a group and returns the group after and
// before the change.
func (e *Engine) AssignClass(groupID, classID string) (updated, previous *models.Group, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gi := e.groupIndex(groupID)
	if gi < 0 {
		return nil, nil, ErrGroupNotFound
	}
	classIDs := append(cloneStrings(e.groups[gi].ClassIDs), classID)
	return e.updateLocked(groupID, GroupUpdate{ClassIDs: &classIDs})
}

func (e *Engine) updateLocked(groupID string, upd GroupUpdate) (*models.Group, *models.Group, error) {
	gi := e.groupIndex(groupID)
	if gi < 0 {
		return nil, nil, ErrGroupNotFound
	}
	previous := cloneGroup(e.groups[gi])
	current := cloneGroup(e.groups[gi])

	var name string
	if upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, nil, validationError("group name is required")
		}
	}

	var newStudents, newClasses []string
	if upd.StudentIDs != nil {
		newStudents = dedupe(*upd.StudentIDs)
	}
	if upd.ClassIDs != nil {
		newClasses = dedupe(*upd.ClassIDs)
	}
	if err := e.checkReferences(newStudents, newClasses); err != nil {
		return nil, nil, err
	}

	var toAdd, toRemove []string
	if upd.StudentIDs != nil {
		toAdd = difference(newStudents, current.StudentIDs)
		toRemove = difference(current.StudentIDs, newStudents)

		var conflicts []string
		for _, sid := range toAdd {
			owner := e.students[e.studentIndex(sid)].GroupID
			if owner != "" && owner != groupID {
				conflicts = append(conflicts, sid)
			}
		}
		if len(conflicts) > 0 {
			return nil, nil, conflictError(conflicts)
		}
	}

	// Everything validated; apply.
	if upd.StudentIDs != nil {
		for _, sid := range toRemove {
			if i := e.studentIndex(sid); i >= 0 && e.students[i].GroupID == groupID {
				e.students[i].GroupID = ""
			}
		}
		for _, sid := range toAdd {
			e.students[e.studentIndex(sid)].GroupID = groupID
		}
		current.StudentIDs = newStudents
	}
	if upd.ClassIDs != nil {
		for _, cid := range difference(current.ClassIDs, newClasses) {
			e.unlinkClass(cid, groupID)
		}
		for _, cid := range difference(newClasses, current.ClassIDs) {
			e.linkClass(cid, groupID)
		}
		current.ClassIDs = newClasses
	}
	if upd.Name != nil {
		current.Name = name
	}
	if upd.Description != nil {
		current.Description = strings.TrimSpace(*upd.Description)
	}
	ts := e.now()
	current.UpdatedAt = &ts
	e.groups[gi] = current

	updated := cloneGroup(current)
	return &updated, &previous, nil
}

// DeleteGroup removes a group and every reference to it and returns the
// removed group. Deleting an unknown id is a no-op and reports false.
func (e *Engine) DeleteGroup(groupID string) (*models.Group, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var removed *models.Group
	if gi := e.groupIndex(groupID); gi >= 0 {
		g := cloneGroup(e.groups[gi])
		removed = &g
		e.groups = append(e.groups[:gi], e.groups[gi+1:]...)
	}
	for i := range e.students {
		if e.students[i].GroupID == groupID {
			e.students[i].GroupID = ""
		}
	}
	for i := range e.classes {
		e.classes[i].GroupIDs = without(e.classes[i].GroupIDs, groupID)
	}
	return removed, removed != nil
}

func (e *Engine) checkReferences(studentIDs, classIDs []string) error {
	var missingStudents, missingClasses []string
	for _, sid := range studentIDs {
		if e.studentIndex(sid) < 0 {
			missingStudents = append(missingStudents, sid)
		}
	}
	for _, cid := range classIDs {
		if e.classIndex(cid) < 0 {
			missingClasses = append(missingClasses, cid)
		}
	}
	if len(missingStudents) > 0 || len(missingClasses) > 0 {
		return unknownError(missingStudents, missingClasses)
	}
	return nil
}

func (e *Engine) linkClass(classID, groupID string) {
	ci := e.classIndex(classID)
	if ci < 0 || contains(e.classes[ci].GroupIDs, groupID) {
		return
	}
	e.classes[ci].GroupIDs = append(cloneStrings(e.classes[ci].GroupIDs), groupID)
}

func (e *Engine) unlinkClass(classID, groupID string) {
	if ci := e.classIndex(classID); ci >= 0 {
		e.classes[ci].GroupIDs = without(e.classes[ci].GroupIDs, groupID)
	}
}
