package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/gymapi/events"
	"github.com/padraicbc/gymapi/models"
	"github.com/padraicbc/gymapi/repository"
)

// NewTraining is a request to schedule a training on behalf of a trainee.
type NewTraining struct {
	TraineeUsername string
	Password        string
	TrainerUsername string
	TrainingType    string
	Name            string
	Date            time.Time
	// Duration in minutes.
	Duration int
}

// TrainingService schedules trainings and manages training types.
type TrainingService struct {
	store     repository.Store
	auth      *AuthService
	publisher events.Publisher
	now       func() time.Time
	log       *zap.Logger
}

// NewTrainingService returns a TrainingService.
func NewTrainingService(store repository.Store, auth *AuthService, publisher events.Publisher, now func() time.Time, log *zap.Logger) *TrainingService {
	return &TrainingService{store: store, auth: auth, publisher: publisher, now: now, log: log}
}

// Add schedules a training. It returns nil when authentication or input
// validation fails, and a business rule error when the trainee or trainer is
// missing, the trainer's specialization differs from the requested type or
// the date is not in the future. Nothing is written in those cases.
func (s *TrainingService) Add(ctx context.Context, in NewTraining) (*models.Training, error) {
	s.log.Info("adding training",
		zap.String("trainee", in.TraineeUsername),
		zap.String("trainer", in.TrainerUsername),
		zap.String("type", in.TrainingType),
		zap.Time("date", in.Date))

	name := strings.TrimSpace(in.Name)
	if name == "" || in.Duration <= 0 || strings.TrimSpace(in.TrainingType) == "" {
		s.log.Warn("training validation failed: name, type and a positive duration are required")
		return nil, nil
	}

	u, err := s.auth.authenticate(ctx, s.store.Users(), in.TraineeUsername, in.Password)
	if err != nil || u == nil {
		return nil, err
	}

	var training *models.Training
	err = s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		trainee, err := tx.Trainees().FindByUsername(ctx, in.TraineeUsername)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTraineeNotFound, in.TraineeUsername)
		}
		if err != nil {
			return fmt.Errorf("loading trainee: %w", err)
		}
		trainer, err := tx.Trainers().FindByUsername(ctx, in.TrainerUsername)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTrainerNotFound, in.TrainerUsername)
		}
		if err != nil {
			return fmt.Errorf("loading trainer: %w", err)
		}
		if trainer.Specialization == nil || !strings.EqualFold(trainer.Specialization.Name, strings.TrimSpace(in.TrainingType)) {
			return ErrSpecializationMismatch
		}
		if !in.Date.After(s.now()) {
			return ErrTrainingNotInFuture
		}

		t := &models.Training{
			TraineeID:      trainee.ID,
			TrainerID:      trainer.ID,
			TrainingTypeID: trainer.Specialization.ID,
			Name:           name,
			Date:           in.Date,
			Duration:       in.Duration,
		}
		if err := tx.Trainings().Insert(ctx, t); err != nil {
			return fmt.Errorf("saving training: %w", err)
		}
		if err := tx.Trainees().AddTrainer(ctx, trainee.ID, trainer.ID); err != nil {
			return fmt.Errorf("linking trainer: %w", err)
		}
		t.Trainee = trainee
		t.Trainer = trainer
		t.TrainingType = trainer.Specialization
		training = t
		return nil
	})
	if err != nil {
		s.log.Error("adding training failed", zap.String("trainee", in.TraineeUsername), zap.Error(err))
		return nil, fmt.Errorf("adding training: %w", err)
	}

	s.log.Info("training created", zap.Int64("id", training.ID), zap.String("trainee", in.TraineeUsername))
	s.publish(ctx, training, in.TraineeUsername, in.TrainerUsername)
	return training, nil
}

func (s *TrainingService) publish(ctx context.Context, t *models.Training, trainee, trainer string) {
	ev := events.TrainingScheduled{
		TrainingID:      t.ID,
		Name:            t.Name,
		Date:            t.Date.Format(time.DateOnly),
		Duration:        t.Duration,
		TrainingType:    t.TrainingType.Name,
		TraineeUsername: trainee,
		TrainerUsername: trainer,
		ScheduledAt:     s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishTrainingScheduled(ctx, ev); err != nil {
		s.log.Warn("publishing training event failed", zap.Int64("id", t.ID), zap.Error(err))
	}
}

// Types lists all training types by name.
func (s *TrainingService) Types(ctx context.Context) ([]*models.TrainingType, error) {
	types, err := s.store.TrainingTypes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing training types: %w", err)
	}
	return types, nil
}

// CreateType adds a training type, or returns the existing one with the same
// name ignoring case. A blank name returns nil.
func (s *TrainingService) CreateType(ctx context.Context, name string) (*models.TrainingType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.log.Warn("training type validation failed: name is required")
		return nil, nil
	}

	existing, err := s.store.TrainingTypes().FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading training type: %w", err)
	}

	tt := &models.TrainingType{Name: name}
	if err := s.store.TrainingTypes().Upsert(ctx, tt); err != nil {
		return nil, fmt.Errorf("saving training type: %w", err)
	}
	s.log.Info("training type created", zap.String("name", tt.Name))
	return tt, nil
}
