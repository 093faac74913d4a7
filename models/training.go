package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Training is a scheduled session between a trainee and a trainer.
// Duration is in minutes.
type Training struct {
	bun.BaseModel `bun:"table:trainings,alias:tr"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	TraineeID      int64     `bun:"trainee_id,notnull" json:"traineeID"`
	TrainerID      int64     `bun:"trainer_id,notnull" json:"trainerID"`
	TrainingTypeID int64     `bun:"training_type_id,notnull" json:"trainingTypeID"`
	Name           string    `bun:"name,notnull" json:"name"`
	Date           time.Time `bun:"date,notnull,type:date" json:"date"`
	Duration       int       `bun:"duration,notnull" json:"duration"`

	Trainee      *Trainee      `bun:"rel:belongs-to,join:trainee_id=id" json:"trainee,omitempty"`
	Trainer      *Trainer      `bun:"rel:belongs-to,join:trainer_id=id" json:"trainer,omitempty"`
	TrainingType *TrainingType `bun:"rel:belongs-to,join:training_type_id=id" json:"trainingType,omitempty"`
}
