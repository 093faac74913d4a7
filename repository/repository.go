// Package repository persists gym entities through bun.
//
// Every repository is reachable from a Store; Store.InTx hands the callback
// a Store bound to one transaction so multi-row writes commit together.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/gymapi/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// UserRepository stores login identities.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// LockByUsername loads the user with a row lock; only meaningful inside InTx.
	LockByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int64) error
}

// TraineeRepository stores trainee profiles and their trainer links.
type TraineeRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Trainee, error)
	Insert(ctx context.Context, t *models.Trainee) error
	Update(ctx context.Context, t *models.Trainee) error
	// Delete removes the trainee, its trainings and its trainer links.
	Delete(ctx context.Context, t *models.Trainee) error
	Trainers(ctx context.Context, traineeID int64) ([]*models.Trainer, error)
	UnassignedTrainers(ctx context.Context, traineeID int64) ([]*models.Trainer, error)
	ReplaceTrainers(ctx context.Context, traineeID int64, trainerIDs []int64) error
	AddTrainer(ctx context.Context, traineeID, trainerID int64) error
}

// TrainerRepository stores trainer profiles.
type TrainerRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Trainer, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]*models.Trainer, error)
	Insert(ctx context.Context, t *models.Trainer) error
	Update(ctx context.Context, t *models.Trainer) error
	// Delete removes the trainer, its trainings and its trainee links.
	Delete(ctx context.Context, t *models.Trainer) error
}

// TrainingRepository stores training sessions and answers criteria queries.
type TrainingRepository interface {
	Insert(ctx context.Context, t *models.Training) error
	FindByTraineeUsername(ctx context.Context, username string, c TrainingCriteria) ([]*models.Training, error)
	FindByTrainerUsername(ctx context.Context, username string, c TrainingCriteria) ([]*models.Training, error)
}

// TrainingTypeRepository stores training types.
type TrainingTypeRepository interface {
	// FindByName matches case-insensitively on the trimmed name.
	FindByName(ctx context.Context, name string) (*models.TrainingType, error)
	List(ctx context.Context) ([]*models.TrainingType, error)
	// Upsert inserts the type or loads the existing row with the same name.
	Upsert(ctx context.Context, tt *models.TrainingType) error
}

// TrainingCriteria narrows a training list. Zero values mean "no filter".
type TrainingCriteria struct {
	From time.Time
	To   time.Time
	// PartnerName is matched against the other party's first, last or full name.
	PartnerName  string
	TrainingType string
}

// Store groups the repositories over one connection or transaction.
type Store interface {
	Users() UserRepository
	Trainees() TraineeRepository
	Trainers() TrainerRepository
	Trainings() TrainingRepository
	TrainingTypes() TrainingTypeRepository
	// InTx runs fn inside a transaction. Nested calls reuse the outer transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type bunStore struct {
	root *bun.DB
	db   bun.IDB
	inTx bool
}

// NewStore returns a Store backed by db.
func NewStore(db *bun.DB) Store {
	return &bunStore{root: db, db: db}
}

func (s *bunStore) Users() UserRepository                 { return &userRepo{db: s.db} }
func (s *bunStore) Trainees() TraineeRepository           { return &traineeRepo{db: s.db} }
func (s *bunStore) Trainers() TrainerRepository           { return &trainerRepo{db: s.db} }
func (s *bunStore) Trainings() TrainingRepository         { return &trainingRepo{db: s.db} }
func (s *bunStore) TrainingTypes() TrainingTypeRepository { return &trainingTypeRepo{db: s.db} }

func (s *bunStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.root.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &bunStore{root: s.root, db: tx, inTx: true})
	})
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
