package models

import "github.com/uptrace/bun"

// TrainingType is a kind of training (Yoga, Pilates, ...).
type TrainingType struct {
	bun.BaseModel `bun:"table:training_types,alias:tt"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}
