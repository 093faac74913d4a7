package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/gymapi/credentials"
	"github.com/padraicbc/gymapi/models"
	"github.com/padraicbc/gymapi/repository"
)

// TraineeInput is the data needed to register a trainee.
type TraineeInput struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Address     string
}

// TraineeUpdate lists the fields to overwrite. Blank strings and nil pointers are left as they are.
type TraineeUpdate struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Address     string
	IsActive    *bool
}

// TraineeRegistration is returned once on creation; Password is the only copy
// of the generated plaintext password.
type TraineeRegistration struct {
	Trainee  *models.Trainee
	Password string
}

// TraineeService manages trainee profiles.
type TraineeService struct {
	profiles
	now func() time.Time
}

// NewTraineeService returns a TraineeService.
func NewTraineeService(store repository.Store, auth *AuthService, gen *credentials.Generator, bcryptCost int, now func() time.Time, log *zap.Logger) *TraineeService {
	return &TraineeService{
		profiles: profiles{
			store:      store,
			auth:       auth,
			gen:        gen,
			bcryptCost: bcryptCost,
			log:        log,
			kind:       "trainee",
			exists: func(ctx context.Context, tx repository.Store, username string) (bool, error) {
				_, err := tx.Trainees().FindByUsername(ctx, username)
				if errors.Is(err, repository.ErrNotFound) {
					return false, nil
				}
				return err == nil, err
			},
		},
		now: now,
	}
}

// Create registers a trainee with generated credentials.
func (s *TraineeService) Create(ctx context.Context, in TraineeInput) (*TraineeRegistration, error) {
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	s.log.Info("creating trainee profile", zap.String("firstName", first), zap.String("lastName", last))

	if first == "" || last == "" {
		s.log.Warn("trainee validation failed: first name and last name are required")
		return nil, nil
	}
	if in.DateOfBirth != nil && in.DateOfBirth.After(s.now()) {
		s.log.Warn("trainee validation failed: date of birth is in the future")
		return nil, nil
	}

	var reg *TraineeRegistration
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u, password, err := s.newUser(ctx, tx, first, last)
		if err != nil {
			return err
		}
		t := &models.Trainee{
			UserID:      u.ID,
			DateOfBirth: in.DateOfBirth,
			Address:     optionalString(in.Address),
		}
		if err := tx.Trainees().Insert(ctx, t); err != nil {
			return fmt.Errorf("saving trainee: %w", err)
		}
		t.User = u
		reg = &TraineeRegistration{Trainee: t, Password: password}
		return nil
	})
	if err != nil {
		s.log.Error("creating trainee profile failed", zap.Error(err))
		return nil, fmt.Errorf("creating trainee profile: %w", err)
	}

	s.log.Info("trainee profile created", zap.String("username", reg.Trainee.User.Username))
	return reg, nil
}

// Get returns the trainee with its user and trainers.
func (s *TraineeService) Get(ctx context.Context, username, password string) (*models.Trainee, error) {
	t, err := s.authenticated(ctx, username, password)
	if err != nil || t == nil {
		return nil, err
	}
	trainers, err := s.store.Trainees().Trainers(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("loading trainers: %w", err)
	}
	t.Trainers = trainers
	return t, nil
}

// Update overwrites the supplied fields and saves the profile.
func (s *TraineeService) Update(ctx context.Context, username, password string, upd TraineeUpdate) (*models.Trainee, error) {
	s.log.Info("updating trainee profile", zap.String("username", username))

	if upd.DateOfBirth != nil && upd.DateOfBirth.After(s.now()) {
		s.log.Warn("trainee validation failed: date of birth is in the future")
		return nil, nil
	}

	var out *models.Trainee
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u, err := s.lockAuthenticated(ctx, tx, username, password, true)
		if err != nil || u == nil {
			return err
		}
		t, err := tx.Trainees().FindByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("loading trainee: %w", err)
		}

		applyNames(u, upd.FirstName, upd.LastName, upd.IsActive)
		if upd.DateOfBirth != nil {
			t.DateOfBirth = upd.DateOfBirth
		}
		if addr := optionalString(upd.Address); addr != nil {
			t.Address = addr
		}

		if err := tx.Users().Update(ctx, u); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		if err := tx.Trainees().Update(ctx, t); err != nil {
			return fmt.Errorf("saving trainee: %w", err)
		}
		t.User = u
		out = t
		return nil
	})
	if err != nil {
		s.log.Error("updating trainee profile failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("updating trainee profile: %w", err)
	}
	if out != nil {
		s.log.Info("trainee profile updated", zap.String("username", username))
	}
	return out, nil
}

// SetActive activates or deactivates the trainee. It returns false when the
// profile is already in the requested state.
func (s *TraineeService) SetActive(ctx context.Context, username, password string, active bool) (bool, error) {
	return s.setActive(ctx, username, password, active)
}

// ChangePassword replaces the trainee's password.
func (s *TraineeService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) (bool, error) {
	return s.changePassword(ctx, username, oldPassword, newPassword)
}

// Delete removes the trainee, its trainings and its user.
func (s *TraineeService) Delete(ctx context.Context, username, password string) (bool, error) {
	s.log.Info("deleting trainee profile", zap.String("username", username))

	deleted := false
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u, err := s.lockAuthenticated(ctx, tx, username, password, true)
		if err != nil || u == nil {
			return err
		}
		t, err := tx.Trainees().FindByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("loading trainee: %w", err)
		}
		if err := tx.Trainees().Delete(ctx, t); err != nil {
			return fmt.Errorf("deleting trainee: %w", err)
		}
		if err := tx.Users().Delete(ctx, u.ID); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		s.log.Error("deleting trainee profile failed", zap.String("username", username), zap.Error(err))
		return false, fmt.Errorf("deleting trainee profile: %w", err)
	}
	if deleted {
		s.log.Info("trainee profile deleted", zap.String("username", username))
	}
	return deleted, nil
}

// UnassignedTrainers lists active trainers the trainee is not linked to.
func (s *TraineeService) UnassignedTrainers(ctx context.Context, username, password string) ([]*models.Trainer, error) {
	t, err := s.authenticated(ctx, username, password)
	if err != nil || t == nil {
		return nil, err
	}
	trainers, err := s.store.Trainees().UnassignedTrainers(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("loading unassigned trainers: %w", err)
	}
	return trainers, nil
}

// UpdateTrainers replaces the trainee's trainers with the given usernames.
// Unknown usernames leave the links untouched and return nil.
func (s *TraineeService) UpdateTrainers(ctx context.Context, username, password string, trainerUsernames []string) ([]*models.Trainer, error) {
	wanted := dedupe(trainerUsernames)

	var out []*models.Trainer
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u, err := s.lockAuthenticated(ctx, tx, username, password, true)
		if err != nil || u == nil {
			return err
		}
		t, err := tx.Trainees().FindByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("loading trainee: %w", err)
		}
		trainers, err := tx.Trainers().FindByUsernames(ctx, wanted)
		if err != nil {
			return fmt.Errorf("loading trainers: %w", err)
		}
		if len(trainers) != len(wanted) {
			s.log.Warn("trainer list contains unknown usernames", zap.String("username", username), zap.Strings("trainers", wanted))
			return nil
		}

		ids := make([]int64, len(trainers))
		for i, tr := range trainers {
			ids[i] = tr.ID
		}
		if err := tx.Trainees().ReplaceTrainers(ctx, t.ID, ids); err != nil {
			return fmt.Errorf("saving trainer links: %w", err)
		}
		out = trainers
		return nil
	})
	if err != nil {
		s.log.Error("updating trainee trainers failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("updating trainee trainers: %w", err)
	}
	return out, nil
}

// Trainings lists the trainee's trainings matching c; c.PartnerName matches trainers.
func (s *TraineeService) Trainings(ctx context.Context, username, password string, c repository.TrainingCriteria) ([]*models.Training, error) {
	s.log.Info("fetching trainee trainings",
		zap.String("username", username),
		zap.Time("from", c.From),
		zap.Time("to", c.To),
		zap.String("trainerName", c.PartnerName),
		zap.String("trainingType", c.TrainingType))

	t, err := s.authenticated(ctx, username, password)
	if err != nil || t == nil {
		return nil, err
	}
	trainings, err := s.store.Trainings().FindByTraineeUsername(ctx, username, c)
	if err != nil {
		s.log.Error("fetching trainee trainings failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("fetching trainee trainings: %w", err)
	}
	s.log.Info("trainee trainings found", zap.String("username", username), zap.Int("count", len(trainings)))
	return trainings, nil
}

// authenticated returns the trainee for valid credentials, nil otherwise.
func (s *TraineeService) authenticated(ctx context.Context, username, password string) (*models.Trainee, error) {
	u, err := s.auth.authenticate(ctx, s.store.Users(), username, password)
	if err != nil || u == nil {
		return nil, err
	}
	t, err := s.store.Trainees().FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("trainee not found", zap.String("username", username))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading trainee: %w", err)
	}
	return t, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
