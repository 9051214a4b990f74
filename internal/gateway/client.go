// Package gateway talks to the external backend that owns classes, groups,
// students and attendance records.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/config"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

const maxErrorBody = 64 << 10

// ErrDisabled is returned by every call when no base URL is configured.
var ErrDisabled = appErrors.New("GATEWAY_DISABLED", http.StatusServiceUnavailable, "remote data gateway is not configured")

// StatusError records a non-2xx response from the backend.
type StatusError struct {
	Op     string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: backend responded %d: %s", e.Op, e.Status, e.Detail)
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// Observer receives one call per completed request.
type Observer interface {
	ObserveGatewayRequest(op string, status int, duration time.Duration)
}

// Client is an HTTP client for the backend API.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
}

// Option customises a Client.
type Option func(*Client)

// WithObserver records request metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New builds a client from configuration.
func New(cfg config.GatewayConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With(zap.String("component", "gateway")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// ListSubjects returns the classes taught by teacherID.
func (c *Client) ListSubjects(ctx context.Context, teacherID string) ([]models.Class, error) {
	var wire []subjectWire
	if err := c.getJSON(ctx, "list_subjects", "/teacher/"+url.PathEscape(teacherID)+"/subjects/", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]models.Class, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.model())
	}
	return out, nil
}

// ListGroups returns the groups visible to teacherID.
func (c *Client) ListGroups(ctx context.Context, teacherID string) ([]models.Group, error) {
	var wire []groupWire
	if err := c.getJSON(ctx, "list_groups", "/teacher/"+url.PathEscape(teacherID)+"/groups/", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]models.Group, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.model())
	}
	return out, nil
}

// ListStudents returns the students of a group for an academic year.
func (c *Client) ListStudents(ctx context.Context, groupID, yearID string) ([]models.Student, error) {
	query := url.Values{}
	query.Set("group_id", groupID)
	query.Set("year_id", yearID)
	var wire []studentWire
	if err := c.getJSON(ctx, "list_students", "/students/filter/", query, &wire); err != nil {
		return nil, err
	}
	out := make([]models.Student, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.model())
	}
	return out, nil
}

// ListAttendance returns the sessions recorded for one selection.
func (c *Client) ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceSession, error) {
	query := url.Values{}
	query.Set("group", filter.GroupID)
	query.Set("subject", filter.ClassID)
	query.Set("academic_year", filter.AcademicYearID)
	var wire []sessionWire
	path := "/teacher/" + url.PathEscape(filter.TeacherID) + "/attendances/"
	if err := c.getJSON(ctx, "list_attendance", path, query, &wire); err != nil {
		return nil, err
	}
	out := make([]models.AttendanceSession, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.model())
	}
	return out, nil
}

// SubmitAttendance uploads a captured frame for recognition.
func (c *Client) SubmitAttendance(ctx context.Context, sub models.AttendanceSubmission) (*models.AttendanceSubmissionResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	filename := sub.Filename
	if filename == "" {
		filename = "attendance.jpg"
	}
	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return nil, wrapInternal(err, "failed to build attendance upload")
	}
	if _, err := part.Write(sub.Photo); err != nil {
		return nil, wrapInternal(err, "failed to build attendance upload")
	}
	fields := [][2]string{
		{"teacher_id", sub.TeacherID},
		{"subject_id", sub.ClassID},
		{"group_id", sub.GroupID},
		{"academic_year_id", sub.AcademicYearID},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, wrapInternal(err, "failed to build attendance upload")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, wrapInternal(err, "failed to build attendance upload")
	}

	var wire submissionWire
	if err := c.do(ctx, "submit_attendance", http.MethodPost, "/attendance/taketwo/", nil, writer.FormDataContentType(), body, &wire); err != nil {
		return nil, err
	}
	return &models.AttendanceSubmissionResult{
		PresentCount: int(wire.PresentCount),
		AbsentCount:  int(wire.AbsentCount),
	}, nil
}

// Login authenticates a dashboard user against the backend.
func (c *Client) Login(ctx context.Context, email, password string) (*models.SessionUser, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, wrapInternal(err, "failed to encode login request")
	}
	var wire loginWire
	err = c.do(ctx, "login", http.MethodPost, "/auth/login/", nil, "application/json", bytes.NewReader(payload), &wire)
	if err != nil {
		if status := StatusCode(err); status == http.StatusUnauthorized || status == http.StatusBadRequest {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	return &models.SessionUser{
		ID:        string(wire.ID),
		Name:      wire.Name,
		Email:     wire.Email,
		Role:      models.UserRole(strings.ToLower(wire.Role)),
		TeacherID: string(wire.TeacherID),
		Token:     wire.Token,
	}, nil
}

// PushGroup mirrors a local group to the backend. New groups are created,
// existing ones replaced.
func (c *Client) PushGroup(ctx context.Context, group models.Group, create bool) error {
	payload, err := json.Marshal(pushPayload(group))
	if err != nil {
		return wrapInternal(err, "failed to encode group")
	}
	method, path := http.MethodPut, "/groups/"+url.PathEscape(group.ID)+"/"
	if create {
		method, path = http.MethodPost, "/groups/"
	}
	return c.do(ctx, "push_group", method, path, nil, "application/json", bytes.NewReader(payload), nil)
}

// DeleteGroup removes a group on the backend. A 404 counts as success.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	err := c.do(ctx, "delete_group", http.MethodDelete, "/groups/"+url.PathEscape(groupID)+"/", nil, "", nil, nil)
	if StatusCode(err) == http.StatusNotFound {
		return nil
	}
	return err
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, dest interface{}) error {
	return c.do(ctx, op, http.MethodGet, path, query, "", nil, dest)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, contentType string, body io.Reader, dest interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return wrapInternal(err, "failed to build gateway request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, 0, start)
		c.logger.Warn("gateway request failed", zap.String("op", op), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrGatewayUnavailable.Code, appErrors.ErrGatewayUnavailable.Status, appErrors.ErrGatewayUnavailable.Message)
	}
	defer resp.Body.Close()
	c.observe(op, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp)
		c.logger.Warn("gateway responded with error",
			zap.String("op", op), zap.Int("status", resp.StatusCode), zap.String("detail", detail))
		return appErrors.Wrap(&StatusError{Op: op, Status: resp.StatusCode, Detail: detail},
			appErrors.ErrGatewayUnavailable.Code, appErrors.ErrGatewayUnavailable.Status, detail)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(fmt.Errorf("%s: decode response: %w", op, err),
			appErrors.ErrGatewayUnavailable.Code, appErrors.ErrGatewayUnavailable.Status, "unexpected response from backend")
	}
	return nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveGatewayRequest(op, status, time.Since(start))
	}
}

func readDetail(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var wire errorWire
	if err := json.Unmarshal(raw, &wire); err == nil {
		if text := wire.text(); text != "" {
			return text
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func wrapInternal(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
