// Package service holds the gym business logic.
//
// Operations follow one convention: a validation, lookup or authentication
// failure yields an empty result (nil or false) with a nil error; store
// failures and broken business rules are returned as errors.
package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/gymapi/credentials"
	"github.com/padraicbc/gymapi/events"
	"github.com/padraicbc/gymapi/logger"
	"github.com/padraicbc/gymapi/repository"
)

// Business rule violations raised while scheduling a training.
var (
	ErrTraineeNotFound        = errors.New("trainee not found")
	ErrTrainerNotFound        = errors.New("trainer not found")
	ErrSpecializationMismatch = errors.New("trainer does not offer this training type")
	ErrTrainingNotInFuture    = errors.New("training date must be in the future")
)

// Deps are the collaborators shared by all services.
type Deps struct {
	Store      repository.Store
	Logger     *zap.Logger
	BcryptCost int
	Publisher  events.Publisher
	// Now defaults to time.Now.
	Now func() time.Time
}

// Services is a container for all service instances.
type Services struct {
	Auth      *AuthService
	Trainees  *TraineeService
	Trainers  *TrainerService
	Trainings *TrainingService
}

// New wires every service over d.
func New(d Deps) *Services {
	if d.BcryptCost == 0 {
		d.BcryptCost = bcrypt.DefaultCost
	}
	if d.Publisher == nil {
		d.Publisher = events.Noop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	auth := NewAuthService(d.Store, d.BcryptCost, logger.Component(d.Logger, "auth"))
	gen := credentials.NewGenerator()

	return &Services{
		Auth:      auth,
		Trainees:  NewTraineeService(d.Store, auth, gen, d.BcryptCost, d.Now, logger.Component(d.Logger, "trainee")),
		Trainers:  NewTrainerService(d.Store, auth, gen, d.BcryptCost, logger.Component(d.Logger, "trainer")),
		Trainings: NewTrainingService(d.Store, auth, d.Publisher, d.Now, logger.Component(d.Logger, "training")),
	}
}
