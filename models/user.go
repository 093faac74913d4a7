package models

import "github.com/uptrace/bun"

// User holds the login identity shared by trainees and trainers.
// Password is a bcrypt hash and never leaves the server.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	FirstName string `bun:"first_name,notnull" json:"firstName"`
	LastName  string `bun:"last_name,notnull" json:"lastName"`
	Username  string `bun:"username,notnull,unique" json:"username"`
	Password  string `bun:"password,notnull" json:"-"`
	IsActive  bool   `bun:"is_active,notnull,default:true" json:"isActive"`
}

// FullName returns "first last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
