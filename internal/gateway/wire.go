package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/noah-isme/classroll-api/internal/models"
)

// flexID accepts ids encoded as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// yearRef accepts either a bare id or a {id, name} object.
type yearRef struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

func (y *yearRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain yearRef
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*y = yearRef(p)
		return nil
	}
	return y.ID.UnmarshalJSON(data)
}

func ids(in []flexID) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		if id != "" {
			out = append(out, string(id))
		}
	}
	return out
}

type subjectWire struct {
	ID          flexID   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Teacher     flexID   `json:"teacher"`
	Teachers    []flexID `json:"teachers"`
	Groups      []flexID `json:"groups"`
}

func (w subjectWire) model() models.Class {
	class := models.Class{
		ID:          string(w.ID),
		Name:        w.Name,
		Description: w.Description,
		TeacherID:   string(w.Teacher),
		TeacherIDs:  ids(w.Teachers),
		GroupIDs:    ids(w.Groups),
	}
	if class.TeacherID == "" && len(class.TeacherIDs) > 0 {
		class.TeacherID = class.TeacherIDs[0]
	}
	return class
}

type groupWire struct {
	ID          flexID   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Year        *yearRef `json:"year"`
	Speciality  string   `json:"speciality"`
	Students    []flexID `json:"students"`
	Subjects    []flexID `json:"subjects"`
}

func (w groupWire) model() models.Group {
	group := models.Group{
		ID:          string(w.ID),
		Name:        w.Name,
		Description: w.Description,
		Speciality:  w.Speciality,
		StudentIDs:  ids(w.Students),
		ClassIDs:    ids(w.Subjects),
	}
	if w.Year != nil && w.Year.ID != "" {
		group.AcademicYear = &models.AcademicYear{ID: string(w.Year.ID), Name: w.Year.Name}
	}
	return group
}

type studentWire struct {
	ID           flexID  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Group        flexID  `json:"group"`
	Subject      flexID  `json:"subject"`
	Photo        string  `json:"photo"`
	AcademicYear yearRef `json:"academic_year"`
	Speciality   string  `json:"speciality"`
}

func (w studentWire) model() models.Student {
	return models.Student{
		ID:           string(w.ID),
		Name:         w.Name,
		Email:        w.Email,
		ClassID:      string(w.Subject),
		GroupID:      string(w.Group),
		Photo:        w.Photo,
		AcademicYear: string(w.AcademicYear.ID),
		Speciality:   w.Speciality,
	}
}

type recordWire struct {
	Student     flexID `json:"student"`
	StudentName string `json:"student_name"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

type sessionWire struct {
	ID           flexID       `json:"id"`
	Date         string       `json:"date"`
	Group        flexID       `json:"group"`
	Subject      flexID       `json:"subject"`
	AcademicYear yearRef      `json:"academic_year"`
	Records      []recordWire `json:"records"`
}

func (w sessionWire) model() models.AttendanceSession {
	session := models.AttendanceSession{
		ID:             string(w.ID),
		Date:           w.Date,
		GroupID:        string(w.Group),
		ClassID:        string(w.Subject),
		AcademicYearID: string(w.AcademicYear.ID),
		Records:        make([]models.AttendanceRecord, 0, len(w.Records)),
	}
	for _, r := range w.Records {
		session.Records = append(session.Records, models.AttendanceRecord{
			StudentID:   string(r.Student),
			StudentName: r.StudentName,
			Date:        w.Date,
			Status:      models.ParseAttendanceStatus(r.Status),
			Notes:       r.Notes,
		})
	}
	return session
}

type loginWire struct {
	ID        flexID `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TeacherID flexID `json:"teacher_id"`
	Token     string `json:"token"`
}

type groupPushWire struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Students    []string `json:"students"`
	Subjects    []string `json:"subjects"`
	Year        string   `json:"year,omitempty"`
	Speciality  string   `json:"speciality,omitempty"`
}

func pushPayload(g models.Group) groupPushWire {
	payload := groupPushWire{
		Name:        g.Name,
		Description: g.Description,
		Students:    g.StudentIDs,
		Subjects:    g.ClassIDs,
		Speciality:  g.Speciality,
	}
	if g.AcademicYear != nil {
		payload.Year = g.AcademicYear.ID
	}
	return payload
}

type submissionWire struct {
	PresentCount flexCount `json:"present_count"`
	AbsentCount  flexCount `json:"absent_count"`
}

// flexCount accepts counts encoded as numbers or numeric strings.
type flexCount int

func (c *flexCount) UnmarshalJSON(data []byte) error {
	var id flexID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	if id == "" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return err
	}
	*c = flexCount(n)
	return nil
}

type errorWire struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func (e errorWire) text() string {
	if len(e.Detail) > 0 {
		var s string
		if err := json.Unmarshal(e.Detail, &s); err == nil {
			return s
		}
		return string(e.Detail)
	}
	return e.Message
}
