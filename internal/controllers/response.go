package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/validation"
)

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{"statusCode": status, "data": data, "message": message})
}

// respondError renders err in the error envelope. Internal errors are
// logged and their cause never leaves the server.
func respondError(c *gin.Context, log logging.Logger, err error) {
	appErr := common.As(err)
	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		log.Error(c.Request.Context(), appErr.Message,
			"path", c.FullPath(), "method", c.Request.Method, "error", appErr.Err)
	}
	c.AbortWithStatusJSON(status, gin.H{"statusCode": status, "message": appErr.Message})
}

// respondBindError reports a request that failed to decode or validate.
func respondBindError(c *gin.Context, log logging.Logger, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
			gin.H{"statusCode": http.StatusRequestEntityTooLarge, "message": "Request body too large"})
		return
	}
	respondError(c, log, common.BadRequest(validation.Message(err)))
}
