package middleware

import (
	"errors"
	"myShopHub/pkg/logger"
	"net/http"

	jsonres "myShopHub/pkg/response"

	"github.com/labstack/echo/v4"
)

var codes = map[int]string{
	http.StatusBadRequest:            "BAD_REQUEST",
	http.StatusUnauthorized:          "UNAUTHORIZED",
	http.StatusForbidden:             "FORBIDDEN",
	http.StatusNotFound:              "NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusConflict:              "CONFLICT",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusTooManyRequests:       "TOO_MANY_REQUESTS",
	http.StatusServiceUnavailable:    "SERVICE_UNAVAILABLE",
}

// ErrorHandler renders errors that escaped the handlers, including echo's
// routing errors, in the common error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	} else {
		logger.Error("Unhandled error", err, "path", c.Path())
	}

	code, ok := codes[status]
	if !ok {
		code = "INTERNAL_SERVER_ERROR"
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if err != nil {
		logger.Error("Failed to write error response", err)
	}
}
