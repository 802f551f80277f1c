package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

func record(t *testing.T, handler gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handler(c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "mapped", err: errMissing, want: http.StatusNotFound},
		{name: "wrapped", err: fmt.Errorf("lookup: %w", errMissing), want: http.StatusNotFound},
		{name: "unmapped", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := record(t, func(c *gin.Context) {
				ServiceError(c, tt.err, Status{Err: errMissing, Code: http.StatusNotFound})
			})
			assert.Equal(t, tt.want, code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(tt.want), body["code"])
			assert.Equal(t, tt.err.Error(), body["extras"].(map[string]any)["message"])
		})
	}
}

func TestSuccessResponseList(t *testing.T) {
	code, body := record(t, func(c *gin.Context) {
		SuccessResponseList[string](c, nil)
	})

	assert.Equal(t, http.StatusOK, code)
	extras := body["extras"].(map[string]any)
	assert.Equal(t, []any{}, extras["list"])
	assert.Equal(t, float64(0), extras["count"])
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, http.StatusUnauthorized, "no token")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"code":401,"extras":{"message":"no token"}}`, w.Body.String())
}
