package auth

import (
	"time"
)

// Role identifiers form a strict ordering; access checks compare membership,
// never names. Roles are reference data and are seeded at startup.
const (
	RoleUser       uint = 1
	RoleAdmin      uint = 2
	RoleSuperAdmin uint = 3
)

type Role struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Role) TableName() string {
	return "roles"
}

// User rows are soft-deactivated, never hard-deleted, so historical records
// keep a valid subject to point at.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	RoleID       uint       `json:"role_id" gorm:"not null;default:1"`
	TokenVersion int        `json:"-" gorm:"not null;default:0"`
	LastLogin    *time.Time `json:"last_login"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
