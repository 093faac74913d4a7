package models

import "github.com/uptrace/bun"

// TraineeTrainer links a trainee to a trainer they work with.
type TraineeTrainer struct {
	bun.BaseModel `bun:"table:trainee_trainers,alias:ttr"`

	TraineeID int64 `bun:"trainee_id,pk" json:"traineeID"`
	TrainerID int64 `bun:"trainer_id,pk" json:"trainerID"`
}
