package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/gymapi/repository"
)

func TestTrainerCreate(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestServices(t)
	_, err := svc.Trainings.CreateType(ctx, "Yoga")
	require.NoError(t, err)

	reg, err := svc.Trainers.Create(ctx, TrainerInput{FirstName: "Alice", LastName: "Smith", Specialization: "yoga"})
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, "alice.smith", reg.Trainer.User.Username)
	assert.Equal(t, "Yoga", reg.Trainer.Specialization.Name)
	assert.Len(t, store.TrainerRows, 1)

	reg, err = svc.Trainers.Create(ctx, TrainerInput{FirstName: "Bob", LastName: "Jones", Specialization: "Boxing"})
	require.NoError(t, err)
	assert.Nil(t, reg, "unknown specialization")

	reg, err = svc.Trainers.Create(ctx, TrainerInput{FirstName: "Bob", LastName: "Jones"})
	require.NoError(t, err)
	assert.Nil(t, reg, "missing specialization")

	assert.Len(t, store.UserRows, 1, "no user is created for rejected input")
}

func TestTrainerUsernamesShareNamespaceWithTrainees(t *testing.T) {
	svc, _, _ := newTestServices(t)
	createTrainee(t, svc, "Alice", "Smith")
	reg := createTrainer(t, svc, "Alice", "Smith", "Yoga")
	assert.Equal(t, "alice.smith1", reg.Trainer.User.Username)
}

func TestTrainerUpdate(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestServices(t)
	reg := createTrainer(t, svc, "Alice", "Smith", "Yoga")
	_, err := svc.Trainings.CreateType(ctx, "Pilates")
	require.NoError(t, err)

	got, err := svc.Trainers.Update(ctx, "alice.smith", reg.Password, TrainerUpdate{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, store.TrainerUpdates)
	assert.Equal(t, reg.Trainer.SpecializationID, store.TrainerRows[reg.Trainer.ID].SpecializationID)

	got, err = svc.Trainers.Update(ctx, "alice.smith", reg.Password, TrainerUpdate{FirstName: "Alicia", Specialization: "pilates"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pilates", got.Specialization.Name)
	assert.Equal(t, "Alicia", store.UserRows[reg.Trainer.UserID].FirstName)

	got, err = svc.Trainers.Update(ctx, "alice.smith", reg.Password, TrainerUpdate{Specialization: "Boxing"})
	require.NoError(t, err)
	assert.Nil(t, got, "unknown specialization")
	assert.Equal(t, 2, store.TrainerUpdates)
}

func TestTrainerSetActiveAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestServices(t)
	reg := createTrainer(t, svc, "Alice", "Smith", "Yoga")
	trainee := createTrainee(t, svc, "John", "Smith")

	_, err := svc.Trainees.UpdateTrainers(ctx, "john.smith", trainee.Password, []string{"alice.smith"})
	require.NoError(t, err)
	require.Len(t, store.Links, 1)

	changed, err := svc.Trainers.SetActive(ctx, "alice.smith", reg.Password, false)
	require.NoError(t, err)
	assert.True(t, changed)

	deleted, err := svc.Trainers.Delete(ctx, "alice.smith", reg.Password)
	require.NoError(t, err)
	assert.False(t, deleted, "inactive trainers must be re-activated first")

	changed, err = svc.Trainers.SetActive(ctx, "alice.smith", reg.Password, true)
	require.NoError(t, err)
	require.True(t, changed)

	deleted, err = svc.Trainers.Delete(ctx, "alice.smith", reg.Password)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, store.TrainerRows)
	assert.Empty(t, store.Links)
	assert.NotContains(t, store.UserRows, reg.Trainer.UserID)
	assert.Contains(t, store.TraineeRows, trainee.Trainee.ID)
}

func TestTrainerTrainings(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestServices(t)
	reg := createTrainer(t, svc, "Alice", "Smith", "Yoga")
	trainee := createTrainee(t, svc, "John", "Smith")

	_, err := svc.Trainings.Add(ctx, NewTraining{
		TraineeUsername: "john.smith",
		Password:        trainee.Password,
		TrainerUsername: "alice.smith",
		TrainingType:    "Yoga",
		Name:            "Evening stretch",
		Date:            fixedNow.AddDate(0, 1, 0),
		Duration:        45,
	})
	require.NoError(t, err)

	c := repository.TrainingCriteria{To: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), PartnerName: "john"}
	got, err := svc.Trainers.Trainings(ctx, "alice.smith", reg.Password, c)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Evening stretch", got[0].Name)
	assert.Equal(t, c, store.LastCriteria)

	got, err = svc.Trainers.Trainings(ctx, "john.smith", trainee.Password, c)
	require.NoError(t, err)
	assert.Nil(t, got, "trainee credentials do not open trainer trainings")
}
