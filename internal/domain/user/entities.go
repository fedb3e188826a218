package user

import (
	"time"

	"contrack-backend/internal/domain/apperr"
)

var (
	ErrNotFound   = apperr.New(apperr.KindNotFound, "", "user not found")
	ErrEmailInUse = apperr.New(apperr.KindConflict, "", "email already registered")
)

type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleVendor   Role = "VENDOR"
	RoleInvestor Role = "INVESTOR"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleVendor, RoleInvestor, RoleAdmin:
		return true
	}
	return false
}

// User is only ever referenced by UserID from the ledgers.
type User struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID    string    `gorm:"column:user_id;size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex:ux_users_email" json:"email"`
	Name      string    `gorm:"column:name;size:100" json:"name"`
	Role      Role      `gorm:"column:role;size:16;not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
