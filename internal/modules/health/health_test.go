package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/mx-space/mailcast/internal/database"
	pkgredis "github.com/mx-space/mailcast/internal/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func checkHealth(t *testing.T, pingErr error, rc *pkgredis.Client) (int, map[string]interface{}) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer conn.Close()

	// gorm pings once while opening.
	mock.ExpectPing()
	db, err := database.FromConn(conn)
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(pingErr)

	r := gin.New()
	RegisterRoutes(r.Group(""), db, rc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthUp(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := pkgredis.Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	defer rc.Close()

	code, body := checkHealth(t, nil, rc)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"status": "ok", "db": "up", "redis": "up"}, body)
}

func TestHealthDatabaseDown(t *testing.T) {
	code, body := checkHealth(t, errors.New("gone"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "down", body["db"])
	assert.Equal(t, "disabled", body["redis"])
}
