package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vaccine-accounts/internal/application"
	"github.com/oksasatya/vaccine-accounts/internal/interface/middleware"
	"github.com/oksasatya/vaccine-accounts/pkg/response"
	"github.com/oksasatya/vaccine-accounts/pkg/validation"
)

// writeError maps service errors to HTTP. It is the only place statuses for
// service failures are chosen.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var pe *application.ParamError
	switch {
	case errors.Is(err, application.ErrNotFound):
		response.NoContent(c)
	case errors.As(err, &pe):
		fail(c, http.StatusBadRequest, pe.Error())
	case errors.Is(err, application.ErrInvalidEmail):
		fail(c, http.StatusBadRequest, "The entered email is invalid")
	case errors.Is(err, application.ErrUnauthorized):
		fail(c, http.StatusForbidden, "The user is not authorized")
	case errors.Is(err, application.ErrAlreadyExists):
		fail(c, http.StatusConflict, "User already exists")
	case errors.Is(err, application.ErrAuthFailed):
		fail(c, http.StatusUnauthorized, "Auth Failed, Valid username/password required")
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func fail(c *gin.Context, status int, message string) {
	response.JSON(c, response.Error[any](c, status, message, gin.H{"message": message}))
}

func invalidPayload(c *gin.Context, err error) {
	response.JSON(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
}

// bindBody binds the cached JSON body into dst. An empty payload leaves dst untouched.
func bindBody(c *gin.Context, dst any) error {
	if len(validation.ParamsFrom(c)) == 0 {
		return nil
	}
	return c.ShouldBindBodyWith(dst, binding.JSON)
}

// caller returns the identity injected by middleware.Auth; routes that use it
// are always mounted behind Auth.
func caller(c *gin.Context) (application.Identity, bool) {
	who, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, http.StatusBadRequest, "Auth token required")
	}
	return who, ok
}

func accountID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &application.ParamError{Message: "invalid account id"}
	}
	return id, nil
}
