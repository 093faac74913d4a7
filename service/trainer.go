package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/padraicbc/gymapi/credentials"
	"github.com/padraicbc/gymapi/models"
	"github.com/padraicbc/gymapi/repository"
)

// TrainerInput is the data needed to register a trainer.
// Specialization names an existing training type.
type TrainerInput struct {
	FirstName      string
	LastName       string
	Specialization string
}

// TrainerUpdate lists the fields to overwrite. Blank strings and nil pointers are left as they are.
type TrainerUpdate struct {
	FirstName      string
	LastName       string
	Specialization string
	IsActive       *bool
}

// TrainerRegistration is returned once on creation with the generated password.
type TrainerRegistration struct {
	Trainer  *models.Trainer
	Password string
}

// TrainerService manages trainer profiles.
type TrainerService struct {
	profiles
}

// NewTrainerService returns a TrainerService.
func NewTrainerService(store repository.Store, auth *AuthService, gen *credentials.Generator, bcryptCost int, log *zap.Logger) *TrainerService {
	return &TrainerService{profiles{
		store:      store,
		auth:       auth,
		gen:        gen,
		bcryptCost: bcryptCost,
		log:        log,
		kind:       "trainer",
		exists: func(ctx context.Context, tx repository.Store, username string) (bool, error) {
			_, err := tx.Trainers().FindByUsername(ctx, username)
			if errors.Is(err, repository.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		},
	}}
}

// Create registers a trainer with generated credentials.
func (s *TrainerService) Create(ctx context.Context, in TrainerInput) (*TrainerRegistration, error) {
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	specialty := strings.TrimSpace(in.Specialization)
	s.log.Info("creating trainer profile", zap.String("firstName", first), zap.String("lastName", last))

	if first == "" || last == "" || specialty == "" {
		s.log.Warn("trainer validation failed: first name, last name and specialization are required")
		return nil, nil
	}

	var reg *TrainerRegistration
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		tt, err := s.trainingType(ctx, tx, specialty)
		if err != nil || tt == nil {
			return err
		}
		u, password, err := s.newUser(ctx, tx, first, last)
		if err != nil {
			return err
		}
		t := &models.Trainer{UserID: u.ID, SpecializationID: tt.ID}
		if err := tx.Trainers().Insert(ctx, t); err != nil {
			return fmt.Errorf("saving trainer: %w", err)
		}
		t.User = u
		t.Specialization = tt
		reg = &TrainerRegistration{Trainer: t, Password: password}
		return nil
	})
	if err != nil {
		s.log.Error("creating trainer profile failed", zap.Error(err))
		return nil, fmt.Errorf("creating trainer profile: %w", err)
	}
	if reg != nil {
		s.log.Info("trainer profile created", zap.String("username", reg.Trainer.User.Username))
	}
	return reg, nil
}

// Get returns the trainer with its user and specialization.
func (s *TrainerService) Get(ctx context.Context, username, password string) (*models.Trainer, error) {
	return s.authenticated(ctx, username, password)
}

// Update overwrites the supplied fields and saves the profile.
func (s *TrainerService) Update(ctx context.Context, username, password string, upd TrainerUpdate) (*models.Trainer, error) {
	s.log.Info("updating trainer profile", zap.String("username", username))

	var out *models.Trainer
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u, err := s.lockAuthenticated(ctx, tx, username, password, true)
		if err != nil || u == nil {
			return err
		}
		t, err := tx.Trainers().FindByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("loading trainer: %w", err)
		}
		if specialty := strings.TrimSpace(upd.Specialization); specialty != "" {
			tt, err := s.trainingType(ctx, tx, specialty)
			if err != nil || tt == nil {
				return err
			}
			t.SpecializationID = tt.ID
			t.Specialization = tt
		}

		applyNames(u, upd.FirstName, upd.LastName, upd.IsActive)

		if err := tx.Users().Update(ctx, u); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		if err := tx.Trainers().Update(ctx, t); err != nil {
			return fmt.Errorf("saving trainer: %w", err)
		}
		t.User = u
		out = t
		return nil
	})
	if err != nil {
		s.log.Error("updating trainer profile failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("updating trainer profile: %w", err)
	}
	if out != nil {
		s.log.Info("trainer profile updated", zap.String("username", username))
	}
	return out, nil
}

// SetActive activates or deactivates the trainer. It returns false when the
// profile is already in the requested state.
func (s *TrainerService) SetActive(ctx context.Context, username, password string, active bool) (bool, error) {
	return s.setActive(ctx, username, password, active)
}

// ChangePassword replaces the trainer's password.
func (s *TrainerService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) (bool, error) {
	return s.changePassword(ctx, username, oldPassword, newPassword)
}

// Delete removes the trainer, its trainings and its user.
func (s *TrainerService) Delete(ctx context.Context, username, password string) (bool, error) {
	s.log.Info("deleting trainer profile", zap.String("username", username))

	deleted := false
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u, err := s.lockAuthenticated(ctx, tx, username, password, true)
		if err != nil || u == nil {
			return err
		}
		t, err := tx.Trainers().FindByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("loading trainer: %w", err)
		}
		if err := tx.Trainers().Delete(ctx, t); err != nil {
			return fmt.Errorf("deleting trainer: %w", err)
		}
		if err := tx.Users().Delete(ctx, u.ID); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		s.log.Error("deleting trainer profile failed", zap.String("username", username), zap.Error(err))
		return false, fmt.Errorf("deleting trainer profile: %w", err)
	}
	if deleted {
		s.log.Info("trainer profile deleted", zap.String("username", username))
	}
	return deleted, nil
}

// Trainings lists the trainer's trainings matching c; c.PartnerName matches trainees.
func (s *TrainerService) Trainings(ctx context.Context, username, password string, c repository.TrainingCriteria) ([]*models.Training, error) {
	s.log.Info("fetching trainer trainings",
		zap.String("username", username),
		zap.Time("from", c.From),
		zap.Time("to", c.To),
		zap.String("traineeName", c.PartnerName),
		zap.String("trainingType", c.TrainingType))

	t, err := s.authenticated(ctx, username, password)
	if err != nil || t == nil {
		return nil, err
	}
	trainings, err := s.store.Trainings().FindByTrainerUsername(ctx, username, c)
	if err != nil {
		s.log.Error("fetching trainer trainings failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("fetching trainer trainings: %w", err)
	}
	s.log.Info("trainer trainings found", zap.String("username", username), zap.Int("count", len(trainings)))
	return trainings, nil
}

func (s *TrainerService) authenticated(ctx context.Context, username, password string) (*models.Trainer, error) {
	u, err := s.auth.authenticate(ctx, s.store.Users(), username, password)
	if err != nil || u == nil {
		return nil, err
	}
	t, err := s.store.Trainers().FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("trainer not found", zap.String("username", username))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading trainer: %w", err)
	}
	return t, nil
}

// trainingType resolves a specialization name; unknown names return nil.
func (s *TrainerService) trainingType(ctx context.Context, tx repository.Store, name string) (*models.TrainingType, error) {
	tt, err := tx.TrainingTypes().FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("unknown specialization", zap.String("specialization", name))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading training type: %w", err)
	}
	return tt, nil
}
