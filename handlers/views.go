package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/gymapi/models"
	"github.com/padraicbc/gymapi/repository"
)

type registrationView struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type trainerSummary struct {
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Specialization string `json:"specialization,omitempty"`
}

type traineeView struct {
	Username    string           `json:"username"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	IsActive    bool             `json:"isActive"`
	DateOfBirth string           `json:"dateOfBirth,omitempty"`
	Address     string           `json:"address,omitempty"`
	Trainers    []trainerSummary `json:"trainers"`
}

type trainerView struct {
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	IsActive       bool   `json:"isActive"`
	Specialization string `json:"specialization"`
}

type trainingView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	Duration     int    `json:"duration"`
	TrainingType string `json:"trainingType"`
	Trainee      string `json:"trainee,omitempty"`
	TraineeName  string `json:"traineeName,omitempty"`
	Trainer      string `json:"trainer,omitempty"`
	TrainerName  string `json:"trainerName,omitempty"`
}

type trainingTypeView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTraineeView(t *models.Trainee) traineeView {
	v := traineeView{Trainers: []trainerSummary{}}
	if t.User != nil {
		v.Username, v.FirstName, v.LastName, v.IsActive = t.User.Username, t.User.FirstName, t.User.LastName, t.User.IsActive
	}
	if t.DateOfBirth != nil {
		v.DateOfBirth = t.DateOfBirth.Format(time.DateOnly)
	}
	if t.Address != nil {
		v.Address = *t.Address
	}
	for _, tr := range t.Trainers {
		v.Trainers = append(v.Trainers, newTrainerSummary(tr))
	}
	return v
}

func newTrainerSummary(t *models.Trainer) trainerSummary {
	s := trainerSummary{}
	if t.User != nil {
		s.Username, s.FirstName, s.LastName = t.User.Username, t.User.FirstName, t.User.LastName
	}
	if t.Specialization != nil {
		s.Specialization = t.Specialization.Name
	}
	return s
}

func newTrainerSummaries(trainers []*models.Trainer) []trainerSummary {
	out := make([]trainerSummary, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, newTrainerSummary(t))
	}
	return out
}

func newTrainerView(t *models.Trainer) trainerView {
	v := trainerView{}
	if t.User != nil {
		v.Username, v.FirstName, v.LastName, v.IsActive = t.User.Username, t.User.FirstName, t.User.LastName, t.User.IsActive
	}
	if t.Specialization != nil {
		v.Specialization = t.Specialization.Name
	}
	return v
}

func newTrainingViews(trainings []*models.Training) []trainingView {
	out := make([]trainingView, 0, len(trainings))
	for _, t := range trainings {
		out = append(out, newTrainingView(t))
	}
	return out
}

func newTrainingView(t *models.Training) trainingView {
	v := trainingView{
		ID:       t.ID,
		Name:     t.Name,
		Date:     t.Date.Format(time.DateOnly),
		Duration: t.Duration,
	}
	if t.TrainingType != nil {
		v.TrainingType = t.TrainingType.Name
	}
	if t.Trainee != nil && t.Trainee.User != nil {
		v.Trainee, v.TraineeName = t.Trainee.User.Username, t.Trainee.User.FullName()
	}
	if t.Trainer != nil && t.Trainer.User != nil {
		v.Trainer, v.TrainerName = t.Trainer.User.Username, t.Trainer.User.FullName()
	}
	return v
}

// parseDate reads an optional YYYY-MM-DD value.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a YYYY-MM-DD date", field))
	}
	return &d, nil
}

// criteriaFrom reads the from, to, name and type query parameters.
func criteriaFrom(c echo.Context) (repository.TrainingCriteria, error) {
	cr := repository.TrainingCriteria{
		PartnerName:  c.QueryParam("name"),
		TrainingType: c.QueryParam("type"),
	}
	from, err := parseDate("from", c.QueryParam("from"))
	if err != nil {
		return cr, err
	}
	to, err := parseDate("to", c.QueryParam("to"))
	if err != nil {
		return cr, err
	}
	if from != nil {
		cr.From = *from
	}
	if to != nil {
		cr.To = *to
	}
	return cr, nil
}
