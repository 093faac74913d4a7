package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/gymapi/middleware"
	"github.com/padraicbc/gymapi/service"
)

type trainingRequest struct {
	TrainerUsername string `json:"trainerUsername" validate:"required"`
	TrainingType    string `json:"trainingType" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Duration        int    `json:"duration" validate:"required,min=1"`
}

type trainingTypeRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddTraining schedules a training for the calling trainee.
func (h *Handler) AddTraining(c echo.Context) error {
	var req trainingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}

	username, password := mw.CredentialsFrom(c)
	t, err := h.svc.Trainings.Add(c.Request().Context(), service.NewTraining{
		TraineeUsername: username,
		Password:        password,
		TrainerUsername: req.TrainerUsername,
		TrainingType:    req.TrainingType,
		Name:            req.Name,
		Date:            *date,
		Duration:        req.Duration,
	})
	if err != nil {
		return serviceError(err)
	}
	if t == nil {
		return errRejected
	}
	return c.JSON(http.StatusCreated, newTrainingView(t))
}

// TrainingTypes lists every training type.
func (h *Handler) TrainingTypes(c echo.Context) error {
	types, err := h.svc.Trainings.Types(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	out := make([]trainingTypeView, 0, len(types))
	for _, tt := range types {
		out = append(out, trainingTypeView{ID: tt.ID, Name: tt.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateTrainingType adds a training type, returning the existing one on a name clash.
func (h *Handler) CreateTrainingType(c echo.Context) error {
	var req trainingTypeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	tt, err := h.svc.Trainings.CreateType(c.Request().Context(), req.Name)
	if err != nil {
		return serviceError(err)
	}
	if tt == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return c.JSON(http.StatusCreated, trainingTypeView{ID: tt.ID, Name: tt.Name})
}
