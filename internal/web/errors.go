package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

// errorResponse is the JSON body of a failed API call.
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusOf maps an error to the HTTP status shown to the user.
func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	switch exception.KindOf(err) {
	case exception.KindIngestionMalformed:
		return http.StatusBadRequest
	case exception.KindSQLExecution:
		return http.StatusUnprocessableEntity
	case exception.KindEnrichmentAPI, exception.KindPlaceNotFound,
		exception.KindSQLGeneration, exception.KindAnswerSynthesis:
		return http.StatusBadGateway
	case exception.KindConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown for err. Internal failures are not detailed.
func userMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
		return http.StatusText(he.Code)
	}
	if statusOf(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return exception.Message(err)
}

// errorHandler renders errors that escaped a handler as JSON.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("Request %s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	kind := string(exception.KindOf(err))
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind = "http"
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Kind: kind, Message: userMessage(err)})
	}
	if err != nil {
		logger.Errorf("Failed to write error response: %v", err)
	}
}
