// ABOUTME: Maps application errors onto the {success:false,message} envelope.
// ABOUTME: Internal failures are logged and reported without detail.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/harperreed/healthai/internal/apperr"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const internalMessage = "Internal server error"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorBody(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Message: msg}
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return apperr.KindOf(err).Status()
}

// messageFor returns the client-facing message for err.
func messageFor(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
		return fmt.Sprint(he.Message)
	}
	return apperr.Message(err, internalMessage)
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.Error(err),
			zap.String("uri", c.Request().RequestURI),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorBody(messageFor(err)))
	}
	if writeErr != nil {
		s.logger.Warn("write error response", zap.Error(writeErr))
	}
}
