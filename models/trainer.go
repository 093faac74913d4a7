package models

import "github.com/uptrace/bun"

// Trainer is a coach profile owned by a User, specialised in one training type.
type Trainer struct {
	bun.BaseModel `bun:"table:trainers,alias:trn"`

	ID               int64 `bun:"id,pk,autoincrement" json:"id"`
	UserID           int64 `bun:"user_id,notnull,unique" json:"userID"`
	SpecializationID int64 `bun:"specialization_id,notnull" json:"specializationID"`

	User           *User         `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Specialization *TrainingType `bun:"rel:belongs-to,join:specialization_id=id" json:"specialization,omitempty"`
}
