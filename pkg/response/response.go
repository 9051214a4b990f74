package response

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
	"github.com/noah-isme/classroll-api/pkg/middleware/requestid"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Data  interface{}      `json:"data,omitempty"`
	Error *appErrors.Error `json:"error,omitempty"`
	Meta  *Meta            `json:"meta,omitempty"`
}

// Meta carries request correlation and list sizes.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Count     *int   `json:"count,omitempty"`
}

// JSON writes data with the given status.
func JSON(c *gin.Context, status int, data interface{}) {
	write(c, status, Envelope{Data: data, Meta: meta(c, nil)})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// List responds with HTTP 200 and the number of items in meta.count.
// items must be a slice or array; a nil slice is sent as [].
func List(c *gin.Context, items interface{}) {
	count := 0
	if v := reflect.ValueOf(items); v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		count = v.Len()
		if v.Kind() == reflect.Slice && v.IsNil() {
			items = []struct{}{}
		}
	}
	write(c, http.StatusOK, Envelope{Data: items, Meta: meta(c, &count)})
}

// Error converts err to the common error body. Server side failures are also
// attached to the gin context for the request logger.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	write(c, appErr.Status, Envelope{Error: appErr, Meta: meta(c, nil)})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func meta(c *gin.Context, count *int) *Meta {
	id := requestid.Value(c)
	if id == "" && count == nil {
		return nil
	}
	return &Meta{RequestID: id, Count: count}
}

func write(c *gin.Context, status int, body Envelope) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, body)
}
