package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/gymapi/middleware"
	"github.com/padraicbc/gymapi/service"
)

type trainerRequest struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Specialization string `json:"specialization" validate:"required"`
}

type trainerUpdateRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Specialization string `json:"specialization"`
	IsActive       *bool  `json:"isActive"`
}

// RegisterTrainer creates a trainer and returns the generated credentials.
func (h *Handler) RegisterTrainer(c echo.Context) error {
	var req trainerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	reg, err := h.svc.Trainers.Create(c.Request().Context(), service.TrainerInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
	})
	if err != nil {
		return serviceError(err)
	}
	if reg == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "specialization must name an existing training type")
	}
	return c.JSON(http.StatusCreated, registrationView{Username: reg.Trainer.User.Username, Password: reg.Password})
}

func (h *Handler) GetTrainer(c echo.Context) error {
	username, password := mw.CredentialsFrom(c)
	t, err := h.svc.Trainers.Get(c.Request().Context(), username, password)
	if err != nil {
		return serviceError(err)
	}
	if t == nil {
		return errUnauthorized
	}
	return c.JSON(http.StatusOK, newTrainerView(t))
}

func (h *Handler) UpdateTrainer(c echo.Context) error {
	var req trainerUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	username, password := mw.CredentialsFrom(c)
	t, err := h.svc.Trainers.Update(c.Request().Context(), username, password, service.TrainerUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return serviceError(err)
	}
	if t == nil {
		return errRejected
	}
	return c.JSON(http.StatusOK, newTrainerView(t))
}

func (h *Handler) DeleteTrainer(c echo.Context) error {
	username, password := mw.CredentialsFrom(c)
	ok, err := h.svc.Trainers.Delete(c.Request().Context(), username, password)
	if err != nil {
		return serviceError(err)
	}
	if !ok {
		return errUnauthorized
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetTrainerActive(c echo.Context) error {
	var req activeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	username, password := mw.CredentialsFrom(c)
	ok, err := h.svc.Trainers.SetActive(c.Request().Context(), username, password, *req.IsActive)
	if err != nil {
		return serviceError(err)
	}
	if !ok {
		return errRejected
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ChangeTrainerPassword(c echo.Context) error {
	var req passwordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	username, password := mw.CredentialsFrom(c)
	ok, err := h.svc.Trainers.ChangePassword(c.Request().Context(), username, password, req.NewPassword)
	if err != nil {
		return serviceError(err)
	}
	if !ok {
		return errUnauthorized
	}
	return c.NoContent(http.StatusNoContent)
}

// TrainerTrainings lists the caller's trainings; name filters on the trainee.
func (h *Handler) TrainerTrainings(c echo.Context) error {
	cr, err := criteriaFrom(c)
	if err != nil {
		return err
	}
	username, password := mw.CredentialsFrom(c)
	trainings, err := h.svc.Trainers.Trainings(c.Request().Context(), username, password, cr)
	if err != nil {
		return serviceError(err)
	}
	if trainings == nil {
		return errUnauthorized
	}
	return c.JSON(http.StatusOK, newTrainingViews(trainings))
}
