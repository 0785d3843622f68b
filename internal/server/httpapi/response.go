package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/holidaycal/internal/common"
)

type successBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// notFoundBody is the country lookup failure shape.
type notFoundBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

func writeData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, successBody{Success: true, Data: data})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers client errors with the error's own message and server
// errors with failure as the message and the error text as detail.
func writeError(c *gin.Context, err error, failure string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, errorBody{Success: false, Message: failure, Error: err.Error()})
		return
	}
	writeStatus(c, status, err.Error())
}

func writeStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Success: false, Message: message, Error: http.StatusText(status)})
}

func writeCountryNotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, notFoundBody{
		Success:    false,
		StatusCode: http.StatusNotFound,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}
