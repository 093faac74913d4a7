package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Trainee is a gym member profile owned by a User.
type Trainee struct {
	bun.BaseModel `bun:"table:trainees,alias:t"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64      `bun:"user_id,notnull,unique" json:"userID"`
	DateOfBirth *time.Time `bun:"date_of_birth,type:date" json:"dateOfBirth,omitempty"`
	Address     *string    `bun:"address" json:"address,omitempty"`

	User     *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Trainers []*Trainer `bun:"-" json:"trainers,omitempty"`
}
