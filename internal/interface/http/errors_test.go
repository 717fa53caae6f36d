package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vaccine-accounts/internal/application"
)

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{application.ErrInvalidEmail, http.StatusBadRequest, "The entered email is invalid"},
		{&application.ParamError{}, http.StatusBadRequest, "Not enough/ Wrong params entered"},
		{fmt.Errorf("wrapped: %w", &application.ParamError{Message: "No data to update"}), http.StatusBadRequest, "No data to update"},
		{application.ErrUnauthorized, http.StatusForbidden, "The user is not authorized"},
		{application.ErrAlreadyExists, http.StatusConflict, "User already exists"},
		{application.ErrAuthFailed, http.StatusUnauthorized, "Auth Failed, Valid username/password required"},
		{errors.New("db error: connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(c, logger, tc.err)

			require.Equal(t, tc.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body["message"])
			assert.Equal(t, false, body["success"])
			if tc.status == http.StatusInternalServerError {
				require.Len(t, hook.Entries, 1)
				assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
			} else {
				assert.Empty(t, hook.Entries)
			}
		})
	}
}

func TestWriteError_NotFoundHasNoBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(c, logrus.New(), application.ErrNotFound)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestVaccinationRequestToEntity(t *testing.T) {
	first, bad := "2021-03-01", "tomorrow"
	v, err := vaccinationRequest{FirstDozeDate: &first}.toEntity()
	require.NoError(t, err)
	require.NotNil(t, v.FirstDozeDate)
	assert.Equal(t, first, v.FirstDozeDate.Format(application.DateLayout))
	assert.Nil(t, v.SecondDozeDate)

	_, err = vaccinationRequest{SecondDozeDate: &bad}.toEntity()
	var pe *application.ParamError
	assert.ErrorAs(t, err, &pe)
}
