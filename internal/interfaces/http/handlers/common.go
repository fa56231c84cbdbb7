// Package handlers contains the gin HTTP handlers of the API server.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/dockprep/pkg/errors"
)

// Response is the uniform JSON envelope of every API reply.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK writes a success envelope with the given payload.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: string(errors.CodeOK), Data: data})
}

// Fail writes an error envelope. The HTTP status and default message are
// derived from the error's code; unknown errors map to 500.
func Fail(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := errors.DefaultMessageForCode(code)
	if appErr, ok := err.(*errors.AppError); ok && appErr.Message != "" {
		message = appErr.Message
	}

	c.JSON(status, Response{Code: string(code), Message: message})
}
