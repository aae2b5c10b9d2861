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
)

func init() { gin.SetMode(gin.TestMode) }

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOKWritesBodyVerbatim(t *testing.T) {
	w := record(func(c *gin.Context) { OK(c, gin.H{"message": "hi"}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"message": "hi"}, decode(t, w))
}

func TestErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name    string
		fn      func(c *gin.Context)
		status  int
		message string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "bad") }, http.StatusBadRequest, "bad"},
		{"not found", NotFound, http.StatusNotFound, "Not Found"},
		{"method", MethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unprocessable", func(c *gin.Context) { UnprocessableEntity(c, "nope") }, http.StatusUnprocessableEntity, "nope"},
		{"internal", func(c *gin.Context) { InternalError(c, errors.New("boom")) }, http.StatusInternalServerError, "internal server error"},
		{"unavailable", func(c *gin.Context) { ServiceUnavailable(c, "down") }, http.StatusServiceUnavailable, "down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := record(tc.fn)
			assert.Equal(t, tc.status, w.Code)
			body := decode(t, w)
			assert.EqualValues(t, 0, body["ok"])
			assert.EqualValues(t, tc.status, body["code"])
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestValidationFailedIncludesFields(t *testing.T) {
	w := record(func(c *gin.Context) {
		ValidationFailed(c, map[string][]string{"email": {"email"}})
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "validation failed", body["message"])
	assert.Equal(t, map[string]interface{}{"email": []interface{}{"email"}}, body["fields"])
}

func TestInternalErrorHidesCauseFromClient(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	InternalError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	require.Len(t, c.Errors, 1)
	assert.Equal(t, gin.ErrorTypePrivate, c.Errors[0].Type)
	assert.EqualError(t, c.Errors[0].Err, "dial tcp 10.0.0.5:3306: connection refused")
}
