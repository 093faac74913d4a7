package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	mw "github.com/padraicbc/gymapi/middleware"
)

type signinRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signin validates credentials and returns a JWT token valid for 30 days.
func (h *Handler) Signin(c echo.Context) error {
	var req signinRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Username = strings.TrimSpace(req.Username)

	ok, err := h.svc.Auth.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return serviceError(err)
	}
	if !ok {
		return errUnauthorized
	}

	token, err := mw.NewToken(req.Username, h.JWTKey, h.now())
	if err != nil {
		h.log.Error("signing token failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}
