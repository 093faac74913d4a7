// Package repotest provides an in-memory repository.Store for tests.
package repotest

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/padraicbc/gymapi/models"
	"github.com/padraicbc/gymapi/repository"
)

// Store is an in-memory repository.Store. Rows are copied on the way in
// and out so callers cannot mutate stored state without an Update.
type Store struct {
	nextID int64

	UserRows     map[int64]models.User
	TraineeRows  map[int64]models.Trainee
	TrainerRows  map[int64]models.Trainer
	TypeRows     map[int64]models.TrainingType
	TrainingRows map[int64]models.Training
	// Links holds trainee_trainers pairs keyed by {traineeID, trainerID}.
	Links map[[2]int64]bool

	UserUpdates    int
	TraineeUpdates int
	TrainerUpdates int
	// LastCriteria is the criteria of the most recent training query.
	LastCriteria repository.TrainingCriteria

	// FailWrites, when set, is returned by every insert and update.
	FailWrites error
	// FailReads, when set, is returned by user lookups.
	FailReads error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		UserRows:     map[int64]models.User{},
		TraineeRows:  map[int64]models.Trainee{},
		TrainerRows:  map[int64]models.Trainer{},
		TypeRows:     map[int64]models.TrainingType{},
		TrainingRows: map[int64]models.Training{},
		Links:        map[[2]int64]bool{},
	}
}

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Store) Users() repository.UserRepository                 { return memUsers{m} }
func (m *Store) Trainees() repository.TraineeRepository           { return memTrainees{m} }
func (m *Store) Trainers() repository.TrainerRepository           { return memTrainers{m} }
func (m *Store) Trainings() repository.TrainingRepository         { return memTrainings{m} }
func (m *Store) TrainingTypes() repository.TrainingTypeRepository { return memTypes{m} }

func (m *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, m)
}

func (m *Store) userByName(username string) (models.User, bool) {
	for _, u := range m.UserRows {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

func (m *Store) trainerByID(id int64) *models.Trainer {
	t := m.TrainerRows[id]
	u := m.UserRows[t.UserID]
	tt := m.TypeRows[t.SpecializationID]
	t.User = &u
	t.Specialization = &tt
	return &t
}

type memUsers struct{ m *Store }

func (r memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if r.m.FailReads != nil {
		return nil, r.m.FailReads
	}
	u, ok := r.m.userByName(username)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) LockByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindByUsername(ctx, username)
}

func (r memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.m.userByName(username)
	return ok, nil
}

func (r memUsers) Insert(_ context.Context, u *models.User) error {
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	if _, ok := r.m.userByName(u.Username); ok {
		return errors.New("duplicate username")
	}
	u.ID = r.m.id()
	r.m.UserRows[u.ID] = *u
	return nil
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	r.m.UserUpdates++
	r.m.UserRows[u.ID] = *u
	return nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	delete(r.m.UserRows, id)
	return nil
}

type memTrainees struct{ m *Store }

func (r memTrainees) FindByUsername(_ context.Context, username string) (*models.Trainee, error) {
	u, ok := r.m.userByName(username)
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, t := range r.m.TraineeRows {
		if t.UserID == u.ID {
			t.User = &u
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memTrainees) Insert(_ context.Context, t *models.Trainee) error {
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	t.ID = r.m.id()
	row := *t
	row.User = nil
	r.m.TraineeRows[t.ID] = row
	return nil
}

func (r memTrainees) Update(_ context.Context, t *models.Trainee) error {
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	r.m.TraineeUpdates++
	row := *t
	row.User = nil
	r.m.TraineeRows[t.ID] = row
	return nil
}

func (r memTrainees) Delete(_ context.Context, t *models.Trainee) error {
	for id, tr := range r.m.TrainingRows {
		if tr.TraineeID == t.ID {
			delete(r.m.TrainingRows, id)
		}
	}
	for k := range r.m.Links {
		if k[0] == t.ID {
			delete(r.m.Links, k)
		}
	}
	delete(r.m.TraineeRows, t.ID)
	return nil
}

func (r memTrainees) Trainers(_ context.Context, traineeID int64) ([]*models.Trainer, error) {
	out := []*models.Trainer{}
	for k := range r.m.Links {
		if k[0] == traineeID {
			out = append(out, r.m.trainerByID(k[1]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTrainees) UnassignedTrainers(_ context.Context, traineeID int64) ([]*models.Trainer, error) {
	out := []*models.Trainer{}
	for id := range r.m.TrainerRows {
		t := r.m.trainerByID(id)
		if !t.User.IsActive || r.m.Links[[2]int64{traineeID, id}] {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTrainees) ReplaceTrainers(_ context.Context, traineeID int64, trainerIDs []int64) error {
	for k := range r.m.Links {
		if k[0] == traineeID {
			delete(r.m.Links, k)
		}
	}
	for _, id := range trainerIDs {
		r.m.Links[[2]int64{traineeID, id}] = true
	}
	return nil
}

func (r memTrainees) AddTrainer(_ context.Context, traineeID, trainerID int64) error {
	r.m.Links[[2]int64{traineeID, trainerID}] = true
	return nil
}

type memTrainers struct{ m *Store }

func (r memTrainers) FindByUsername(_ context.Context, username string) (*models.Trainer, error) {
	u, ok := r.m.userByName(username)
	if !ok {
		return nil, repository.ErrNotFound
	}
	for id, t := range r.m.TrainerRows {
		if t.UserID == u.ID {
			return r.m.trainerByID(id), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memTrainers) FindByUsernames(ctx context.Context, usernames []string) ([]*models.Trainer, error) {
	out := []*models.Trainer{}
	for _, name := range usernames {
		t, err := r.FindByUsername(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r memTrainers) Insert(_ context.Context, t *models.Trainer) error {
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	t.ID = r.m.id()
	row := *t
	row.User, row.Specialization = nil, nil
	r.m.TrainerRows[t.ID] = row
	return nil
}

func (r memTrainers) Update(_ context.Context, t *models.Trainer) error {
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	r.m.TrainerUpdates++
	row := *t
	row.User, row.Specialization = nil, nil
	r.m.TrainerRows[t.ID] = row
	return nil
}

func (r memTrainers) Delete(_ context.Context, t *models.Trainer) error {
	for id, tr := range r.m.TrainingRows {
		if tr.TrainerID == t.ID {
			delete(r.m.TrainingRows, id)
		}
	}
	for k := range r.m.Links {
		if k[1] == t.ID {
			delete(r.m.Links, k)
		}
	}
	delete(r.m.TrainerRows, t.ID)
	return nil
}

type memTrainings struct{ m *Store }

func (r memTrainings) Insert(_ context.Context, t *models.Training) error {
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	t.ID = r.m.id()
	row := *t
	row.Trainee, row.Trainer, row.TrainingType = nil, nil, nil
	r.m.TrainingRows[t.ID] = row
	return nil
}

func (r memTrainings) FindByTraineeUsername(_ context.Context, username string, c repository.TrainingCriteria) ([]*models.Training, error) {
	r.m.LastCriteria = c
	return r.find(func(t models.Training) bool {
		tr := r.m.TraineeRows[t.TraineeID]
		return r.m.UserRows[tr.UserID].Username == username
	}), nil
}

func (r memTrainings) FindByTrainerUsername(_ context.Context, username string, c repository.TrainingCriteria) ([]*models.Training, error) {
	r.m.LastCriteria = c
	return r.find(func(t models.Training) bool {
		tr := r.m.TrainerRows[t.TrainerID]
		return r.m.UserRows[tr.UserID].Username == username
	}), nil
}

func (r memTrainings) find(match func(models.Training) bool) []*models.Training {
	out := []*models.Training{}
	for _, t := range r.m.TrainingRows {
		if match(t) {
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTypes struct{ m *Store }

func (r memTypes) FindByName(_ context.Context, name string) (*models.TrainingType, error) {
	for _, tt := range r.m.TypeRows {
		if strings.EqualFold(tt.Name, strings.TrimSpace(name)) {
			return &tt, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memTypes) List(_ context.Context) ([]*models.TrainingType, error) {
	out := []*models.TrainingType{}
	for _, tt := range r.m.TypeRows {
		out = append(out, &tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memTypes) Upsert(ctx context.Context, tt *models.TrainingType) error {
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	if existing, err := r.FindByName(ctx, tt.Name); err == nil {
		*tt = *existing
		return nil
	}
	tt.ID = r.m.id()
	r.m.TypeRows[tt.ID] = *tt
	return nil
}
