package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/classroll-api/internal/handler"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/internal/service"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type staticTokens map[string]*models.JWTClaims

func (s staticTokens) ValidateToken(ctx context.Context, token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := membership.New()
	engine.Replace(models.Snapshot{
		Classes:  []models.Class{{ID: "c1", Name: "Math", TeacherID: "t1"}},
		Teachers: []models.Teacher{{ID: "t1", Name: "Tess"}, {ID: "t2", Name: "Tom"}},
	})
	classes := service.NewClassService(engine, nil, nil, nil)
	metrics := service.NewMetricsService()

	r := gin.New()
	SetupRoutes(r, Dependencies{
		Groups:   handler.NewGroupHandler(service.NewGroupService(engine, nil, nil, nil, metrics, nil)),
		Classes:  handler.NewClassHandler(classes),
		Teachers: handler.NewTeacherHandler(service.NewTeacherService(engine, nil, nil), classes),
		Metrics:  handler.NewMetricsHandler(metrics),
		Tokens: staticTokens{
			"admin":   {UserID: "u1", Role: models.RoleAdmin},
			"teacher": {UserID: "u2", Role: models.RoleTeacher, TeacherID: "t1"},
		},
	})
	return r
}

func serve(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesRequireToken(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v1/groups", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v1/groups", "forged", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "", "").Code)
}

func TestRoutesGroupMutationsAreAdminOnly(t *testing.T) {
	r := newTestRouter()
	payload := `{"name":"Morning","class_ids":["c1"]}`

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/api/v1/groups", "teacher", payload).Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/v1/groups", "admin", payload).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/groups", "teacher", "").Code)
}

func TestRoutesTeacherSelfAccess(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/teachers/t1/classes", "teacher", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/v1/teachers/t2/classes", "teacher", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/teachers/t2/classes", "admin", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/v1/teachers", "teacher", "").Code)
}

func TestRoutesConsistency(t *testing.T) {
	r := newTestRouter()

	w := serve(r, http.MethodGet, "/api/v1/consistency", "admin", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"consistent":true`)
}
