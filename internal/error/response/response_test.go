package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"huntersrun-http-service/internal/error/apperr"
	"huntersrun-http-service/internal/error/code"
)

func failFromError(t *testing.T, err error) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	FailFromError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestFailFromErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus int
	}{
		{"参数错误", apperr.Validation("标题不能为空"), code.ErrValidation, code.StatusBadRequest},
		{"越权", apperr.AccessDenied("没有权限"), code.ErrAccessDenied, code.StatusForbidden},
		{"不存在", apperr.NotFound("维修工单"), code.ErrRecordNotFound, code.StatusNotFound},
		{"状态不允许", apperr.InvalidState("终态工单不能再指派"), code.ErrInvalidState, code.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := failFromError(t, tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestFailFromErrorConflictDistinctFromInvalidState(t *testing.T) {
	_, conflict := failFromError(t, apperr.ErrConflict)
	_, invalidState := failFromError(t, apperr.ErrInvalidState)

	require.Equal(t, code.ErrConcurrentUpdate, conflict.Code)
	require.NotEqual(t, invalidState.Code, conflict.Code)
}
