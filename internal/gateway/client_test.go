package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/config"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordingObserver) ObserveGatewayRequest(op string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.GatewayConfig{BaseURL: srv.URL + "/", Token: "secret", Timeout: time.Second}, nil, opts...)
}

func TestListSubjectsMapsWireShape(t *testing.T) {
	obs := &recordingObserver{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teacher/7/subjects/", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id": 3, "name": "Math", "teachers": [7, "8"], "groups": [11]}]`)
	}, WithObserver(obs))

	classes, err := client.ListSubjects(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, models.Class{ID: "3", Name: "Math", TeacherID: "7", TeacherIDs: []string{"7", "8"}, GroupIDs: []string{"11"}}, classes[0])
	assert.Equal(t, []string{"list_subjects"}, obs.ops)
}

func TestListGroupsAndStudents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/teacher/7/groups/":
			_, _ = io.WriteString(w, `[{"id": 11, "name": "G1", "year": {"id": 2024, "name": "2024/25"}, "speciality": "CS"}]`)
		case "/students/filter/":
			assert.Equal(t, "11", r.URL.Query().Get("group_id"))
			assert.Equal(t, "2024", r.URL.Query().Get("year_id"))
			_, _ = io.WriteString(w, `[{"id": 1, "name": "Ana", "email": "ana@example.com", "group": 11, "photo": "/p.jpg", "academic_year": 2024, "speciality": "CS"},
				{"id": "2", "name": "Ben", "email": "ben@example.com", "group": null, "academic_year": {"id": 2024}}]`)
		default:
			http.NotFound(w, r)
		}
	})

	groups, err := client.ListGroups(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, &models.AcademicYear{ID: "2024", Name: "2024/25"}, groups[0].AcademicYear)
	assert.Equal(t, "CS", groups[0].Speciality)

	students, err := client.ListStudents(context.Background(), "11", "2024")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "11", students[0].GroupID)
	assert.Equal(t, "2024", students[0].AcademicYear)
	assert.False(t, students[1].HasGroup())
	assert.Equal(t, "2024", students[1].AcademicYear)
}

func TestListAttendance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teacher/7/attendances/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "11", q.Get("group"))
		assert.Equal(t, "3", q.Get("subject"))
		assert.Equal(t, "2024", q.Get("academic_year"))
		_, _ = io.WriteString(w, `[{"id": 1, "date": "2024-09-02", "group": 11, "subject": 3, "academic_year": 2024,
			"records": [{"student": 1, "student_name": "Ana", "status": "present"}, {"student": 2, "student_name": "Ben", "status": "excused"}]}]`)
	})

	sessions, err := client.ListAttendance(context.Background(), models.AttendanceFilter{TeacherID: "7", GroupID: "11", ClassID: "3", AcademicYearID: "2024"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "3", sessions[0].ClassID)
	require.Len(t, sessions[0].Records, 2)
	assert.Equal(t, models.AttendanceStatusPresent, sessions[0].Records[0].Status)
	assert.Equal(t, models.AttendanceStatusUnknown, sessions[0].Records[1].Status)
	assert.Equal(t, "2024-09-02", sessions[0].Records[1].Date)
}

func TestSubmitAttendanceSendsMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/attendance/taketwo/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "7", r.FormValue("teacher_id"))
		assert.Equal(t, "3", r.FormValue("subject_id"))
		assert.Equal(t, "11", r.FormValue("group_id"))
		assert.Equal(t, "2024", r.FormValue("academic_year_id"))
		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "attendance.jpg", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, []byte("jpeg-bytes"), data)
		_ = json.NewEncoder(w).Encode(map[string]int{"present_count": 12, "absent_count": 3})
	})

	result, err := client.SubmitAttendance(context.Background(), models.AttendanceSubmission{
		TeacherID: "7", ClassID: "3", GroupID: "11", AcademicYearID: "2024", Photo: []byte("jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, &models.AttendanceSubmissionResult{PresentCount: 12, AbsentCount: 3}, result)
}

func TestErrorResponsesCarryDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail": "No faces detected"}`)
	})

	_, err := client.SubmitAttendance(context.Background(), models.AttendanceSubmission{Photo: []byte("x")})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrGatewayUnavailable.Code, appErr.Code)
	assert.Equal(t, "No faces detected", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestLoginMapsRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"id": 5, "name": "Tom", "email": "tom@example.com", "role": "Teacher", "teacher_id": 7}`)
	})

	_, err := client.Login(context.Background(), "tom@example.com", "wrong")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	user, err := client.Login(context.Background(), "tom@example.com", "right")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
	assert.Equal(t, "7", user.TeacherID)
}

func TestPushAndDeleteGroup(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var payload groupPushWire
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "G1", payload.Name)
		assert.Equal(t, []string{"s1"}, payload.Students)
		w.WriteHeader(http.StatusCreated)
	})

	group := models.Group{ID: "g1", Name: "G1", StudentIDs: []string{"s1"}, ClassIDs: []string{"c1"}}
	require.NoError(t, client.PushGroup(context.Background(), group, true))
	require.NoError(t, client.PushGroup(context.Background(), group, false))
	require.NoError(t, client.DeleteGroup(context.Background(), "g1"))
	assert.Equal(t, []string{"POST /groups/", "PUT /groups/g1/", "DELETE /groups/g1/"}, calls)
}

func TestDisabledClient(t *testing.T) {
	client := New(config.GatewayConfig{}, nil)
	assert.False(t, client.Enabled())
	_, err := client.ListGroups(context.Background(), "7")
	assert.ErrorIs(t, err, ErrDisabled)
}
