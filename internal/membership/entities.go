package membership

import (
	"strings"

	"github.com/noah-isme/classroll-api/internal/models"
)

// ClassInput describes a new class.
type ClassInput struct {
	Name        string
	TeacherID   string
	Description string
}

// CreateClass adds a class hosting no groups.
func (e *Engine) CreateClass(in ClassInput) (*models.Class, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("class name is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	class := models.Class{
		ID:          e.newID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		TeacherID:   in.TeacherID,
		GroupIDs:    []string{},
	}
	if in.TeacherID != "" {
		class.TeacherIDs = []string{in.TeacherID}
	}
	e.classes = append(e.classes, class)

	created := cloneClass(class)
	return &created, nil
}

// CreateStudent adds a student with no group.
func (e *Engine) CreateStudent(in models.StudentInput) (*models.Student, error) {
	created, err := e.CreateStudents([]models.StudentInput{in})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateStudents adds a batch of independent students. The batch is
// rejected as a whole if any row has a blank name; emails are not checked
// for duplicates here.
func (e *Engine) CreateStudents(batch []models.StudentInput) ([]models.Student, error) {
	for _, in := range batch {
		if strings.TrimSpace(in.Name) == "" {
			return nil, validationError("student name is required")
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	created := make([]models.Student, 0, len(batch))
	for _, in := range batch {
		student := models.Student{
			ID:      e.newID(),
			Name:    strings.TrimSpace(in.Name),
			Email:   strings.TrimSpace(in.Email),
			ClassID: strings.TrimSpace(in.ClassID),
		}
		e.students = append(e.students, student)
		created = append(created, student)
	}
	return created, nil
}

// CreateTeacher registers a teacher.
func (e *Engine) CreateTeacher(name, email string) (*models.Teacher, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, validationError("teacher name and email are required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	teacher := models.Teacher{ID: e.newID(), Name: name, Email: email}
	e.teachers = append(e.teachers, teacher)
	return &teacher, nil
}
