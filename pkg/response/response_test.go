package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "rid-1")
	return c, w
}

func TestSuccessDefaultsToOK(t *testing.T) {
	c, w := testContext()
	JSON(c, Success(c, 0, map[string]string{"auth_token": "x"}, "ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "rid-1", body["request_id"])
	assert.Equal(t, "ok", body["message"])
	assert.Equal(t, map[string]any{"auth_token": "x"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestAbortError(t *testing.T) {
	c, w := testContext()
	Abort(c, Error[any](c, 0, "bad", map[string]string{"payload": "invalid json"}))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(400), body["status"])
	assert.NotContains(t, body, "data")
}

func TestNoContent(t *testing.T) {
	c, w := testContext()
	NoContent(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}
