package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/gymapi/service"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	// errRejected answers an empty result from an operation that refuses both
	// bad credentials and bad input without saying which.
	errRejected = echo.NewHTTPError(http.StatusBadRequest, "request rejected")
)

// serviceError maps business rule violations to 404/422 and anything else to 500.
func serviceError(err error) error {
	switch {
	case errors.Is(err, service.ErrTraineeNotFound), errors.Is(err, service.ErrTrainerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSpecializationMismatch), errors.Is(err, service.ErrTrainingNotInFuture):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
