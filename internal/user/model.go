package user

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RoleFor decides a new user's role: admin if and only if the username is
// the reserved admin identity. Decided once at registration, immutable after.
func RoleFor(username, reservedAdmin string) Role {
	if username == reservedAdmin {
		return RoleAdmin
	}
	return RoleUser
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
