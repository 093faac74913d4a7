package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/gymapi/events"
	"github.com/padraicbc/gymapi/repository/repotest"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	events []events.TrainingScheduled
	err    error
}

func (p *recordingPublisher) PublishTrainingScheduled(_ context.Context, ev events.TrainingScheduled) error {
	p.events = append(p.events, ev)
	return p.err
}

func newTestServices(t *testing.T) (*Services, *repotest.Store, *recordingPublisher) {
	t.Helper()
	store := repotest.New()
	pub := &recordingPublisher{}
	svc := New(Deps{
		Store:      store,
		Logger:     zap.NewNop(),
		BcryptCost: bcrypt.MinCost,
		Publisher:  pub,
		Now:        func() time.Time { return fixedNow },
	})
	return svc, store, pub
}

func createTrainee(t *testing.T, svc *Services, first, last string) *TraineeRegistration {
	t.Helper()
	reg, err := svc.Trainees.Create(context.Background(), TraineeInput{FirstName: first, LastName: last})
	require.NoError(t, err)
	require.NotNil(t, reg)
	return reg
}

func createTrainer(t *testing.T, svc *Services, first, last, specialty string) *TrainerRegistration {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Trainings.CreateType(ctx, specialty)
	require.NoError(t, err)
	reg, err := svc.Trainers.Create(ctx, TrainerInput{FirstName: first, LastName: last, Specialization: specialty})
	require.NoError(t, err)
	require.NotNil(t, reg)
	return reg
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)
	reg := createTrainee(t, svc, "John", "Smith")
	username := reg.Trainee.User.Username

	ok, err := svc.Auth.Authenticate(ctx, username, reg.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Auth.Authenticate(ctx, username, "wrong")
	require.NoError(t, err)
	assert.False(t, ok, "wrong password")

	ok, err = svc.Auth.Authenticate(ctx, "nobody", reg.Password)
	require.NoError(t, err)
	assert.False(t, ok, "unknown user")

	changed, err := svc.Trainees.SetActive(ctx, username, reg.Password, false)
	require.NoError(t, err)
	require.True(t, changed)

	ok, err = svc.Auth.Authenticate(ctx, username, reg.Password)
	require.NoError(t, err)
	assert.False(t, ok, "inactive user")
}

func TestAuthenticateStoreError(t *testing.T) {
	svc, store, _ := newTestServices(t)
	store.FailReads = errors.New("connection refused")

	ok, err := svc.Auth.Authenticate(context.Background(), "john.smith", "secret")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestNewDefaults(t *testing.T) {
	svc := New(Deps{Store: repotest.New(), BcryptCost: bcrypt.MinCost})
	assert.IsType(t, events.Noop{}, svc.Trainings.publisher)
	assert.NotNil(t, svc.Trainings.now)
}
