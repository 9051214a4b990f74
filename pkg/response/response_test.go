package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
	"github.com/noah-isme/classroll-api/pkg/middleware/requestid"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestid.Middleware())
	r.GET("/", handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestid.HeaderKey, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestListCountsItems(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { List(c, []string{"a", "b"}) })

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `["a","b"]`, string(body["data"]))
	assert.JSONEq(t, `{"request_id":"req-1","count":2}`, string(body["meta"]))
}

func TestListSendsEmptyArrayForNil(t *testing.T) {
	_, body := serve(t, func(c *gin.Context) {
		var items []string
		List(c, items)
	})

	assert.JSONEq(t, `[]`, string(body["data"]))
	assert.JSONEq(t, `{"request_id":"req-1","count":0}`, string(body["meta"]))
}

func TestErrorUsesAppErrorStatus(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Error(c, appErrors.ErrNotFound) })

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, body, "data")
	assert.Contains(t, string(body["error"]), appErrors.ErrNotFound.Code)
	assert.JSONEq(t, `{"request_id":"req-1"}`, string(body["meta"]))
}

func TestErrorRecordsServerFailures(t *testing.T) {
	var recorded int
	w, _ := serve(t, func(c *gin.Context) {
		Error(c, errors.New("boom"))
		recorded = len(c.Errors)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, recorded)
}

func TestMetaOmittedWithoutRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, map[string]string{"id": "g1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"id":"g1"}}`, w.Body.String())
}
