package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/gymapi/middleware"
	"github.com/padraicbc/gymapi/service"
)

type traineeRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address     string `json:"address"`
}

type traineeUpdateRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address     string `json:"address"`
	IsActive    *bool  `json:"isActive"`
}

type activeRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type passwordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

type trainersRequest struct {
	Trainers []string `json:"trainers" validate:"dive,required"`
}

// RegisterTrainee creates a trainee and returns the generated credentials.
func (h *Handler) RegisterTrainee(c echo.Context) error {
	var req traineeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	dob, err := parseDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		return err
	}

	reg, err := h.svc.Trainees.Create(c.Request().Context(), service.TraineeInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		Address:     req.Address,
	})
	if err != nil {
		return serviceError(err)
	}
	if reg == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "first and last name are required and date of birth must be in the past")
	}
	return c.JSON(http.StatusCreated, registrationView{Username: reg.Trainee.User.Username, Password: reg.Password})
}

// GetTrainee returns the caller's trainee profile.
func (h *Handler) GetTrainee(c echo.Context) error {
	username, password := mw.CredentialsFrom(c)
	t, err := h.svc.Trainees.Get(c.Request().Context(), username, password)
	if err != nil {
		return serviceError(err)
	}
	if t == nil {
		return errUnauthorized
	}
	return c.JSON(http.StatusOK, newTraineeView(t))
}

// UpdateTrainee overwrites the supplied profile fields.
func (h *Handler) UpdateTrainee(c echo.Context) error {
	var req traineeUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	dob, err := parseDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		return err
	}

	username, password := mw.CredentialsFrom(c)
	t, err := h.svc.Trainees.Update(c.Request().Context(), username, password, service.TraineeUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		Address:     req.Address,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return serviceError(err)
	}
	if t == nil {
		return errRejected
	}
	return c.JSON(http.StatusOK, newTraineeView(t))
}

// DeleteTrainee removes the caller's profile and trainings.
func (h *Handler) DeleteTrainee(c echo.Context) error {
	username, password := mw.CredentialsFrom(c)
	ok, err := h.svc.Trainees.Delete(c.Request().Context(), username, password)
	if err != nil {
		return serviceError(err)
	}
	if !ok {
		return errUnauthorized
	}
	return c.NoContent(http.StatusNoContent)
}

// SetTraineeActive activates or deactivates the caller.
func (h *Handler) SetTraineeActive(c echo.Context) error {
	var req activeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	username, password := mw.CredentialsFrom(c)
	ok, err := h.svc.Trainees.SetActive(c.Request().Context(), username, password, *req.IsActive)
	if err != nil {
		return serviceError(err)
	}
	if !ok {
		return errRejected
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeTraineePassword replaces the caller's password.
func (h *Handler) ChangeTraineePassword(c echo.Context) error {
	var req passwordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	username, password := mw.CredentialsFrom(c)
	ok, err := h.svc.Trainees.ChangePassword(c.Request().Context(), username, password, req.NewPassword)
	if err != nil {
		return serviceError(err)
	}
	if !ok {
		return errUnauthorized
	}
	return c.NoContent(http.StatusNoContent)
}

// TraineeTrainings lists the caller's trainings; name filters on the trainer.
func (h *Handler) TraineeTrainings(c echo.Context) error {
	cr, err := criteriaFrom(c)
	if err != nil {
		return err
	}
	username, password := mw.CredentialsFrom(c)
	trainings, err := h.svc.Trainees.Trainings(c.Request().Context(), username, password, cr)
	if err != nil {
		return serviceError(err)
	}
	if trainings == nil {
		return errUnauthorized
	}
	return c.JSON(http.StatusOK, newTrainingViews(trainings))
}

// UnassignedTrainers lists active trainers the caller does not work with yet.
func (h *Handler) UnassignedTrainers(c echo.Context) error {
	username, password := mw.CredentialsFrom(c)
	trainers, err := h.svc.Trainees.UnassignedTrainers(c.Request().Context(), username, password)
	if err != nil {
		return serviceError(err)
	}
	if trainers == nil {
		return errUnauthorized
	}
	return c.JSON(http.StatusOK, newTrainerSummaries(trainers))
}

// UpdateTraineeTrainers replaces the caller's trainer list.
func (h *Handler) UpdateTraineeTrainers(c echo.Context) error {
	var req trainersRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	username, password := mw.CredentialsFrom(c)
	trainers, err := h.svc.Trainees.UpdateTrainers(c.Request().Context(), username, password, req.Trainers)
	if err != nil {
		return serviceError(err)
	}
	if trainers == nil {
		return errRejected
	}
	return c.JSON(http.StatusOK, newTrainerSummaries(trainers))
}
