package campaign

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/mailcast/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestRouter(d *Dispatcher) *gin.Engine {
	r := gin.New()
	NewHandler(d).RegisterRoutes(r.Group(""))
	return r
}

func postJSON(r http.Handler, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/send-bulk", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSendBulkReturnsProviderBody(t *testing.T) {
	provider := &fakeProvider{result: map[string]interface{}{"success": true, "queued": float64(2)}}
	r := newTestRouter(NewDispatcher(&fakeSource{subs: sampleSubscribers()}, provider, zaptest.NewLogger(t)))

	w := postJSON(r, sampleRequest("newsletter"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, map[string]interface{}{"success": true, "queued": float64(2)}, decodeBody(t, w))
}

func TestSendBulkPassesNonObjectProviderBody(t *testing.T) {
	tests := []struct {
		name   string
		result mail.SendResult
		want   string
	}{
		{"array", []interface{}{map[string]interface{}{"id": "m1"}, map[string]interface{}{"id": "m2"}}, `[{"id":"m1"},{"id":"m2"}]`},
		{"text", "accepted", `"accepted"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{result: tt.result}
			r := newTestRouter(NewDispatcher(&fakeSource{subs: sampleSubscribers()}, provider, zaptest.NewLogger(t)))

			w := postJSON(r, sampleRequest("newsletter"))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestSendBulkEmptyCategoryIsOK(t *testing.T) {
	provider := &fakeProvider{}
	r := newTestRouter(NewDispatcher(&fakeSource{}, provider, zaptest.NewLogger(t)))

	w := postJSON(r, sampleRequest("promotional"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "No subscribers found in this category"}, decodeBody(t, w))
	assert.Empty(t, provider.sent)
}

func TestSendBulkValidation(t *testing.T) {
	provider := &fakeProvider{}
	r := newTestRouter(NewDispatcher(&fakeSource{subs: sampleSubscribers()}, provider, zaptest.NewLogger(t)))

	req := sampleRequest("newsletter")
	req.FromEmail = "nope"
	w := postJSON(r, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields["from_email"], "email")
	assert.Empty(t, provider.sent)
}

func TestSendBulkStrictUnknownCategory(t *testing.T) {
	provider := &fakeProvider{}
	d := NewDispatcher(&fakeSource{subs: sampleSubscribers()}, provider, zaptest.NewLogger(t), WithStrictCategory(true))
	r := newTestRouter(d)

	w := postJSON(r, sampleRequest("weekly"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields["category"], "oneof")
}

func TestSendBulkProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("timeout talking to provider")}
	r := newTestRouter(NewDispatcher(&fakeSource{subs: sampleSubscribers()}, provider, zaptest.NewLogger(t)))

	w := postJSON(r, sampleRequest("technical"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "timeout talking to provider")
	assert.Len(t, provider.sent, 1)
}
