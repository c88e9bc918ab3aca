package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user account can hold.
const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// User represents a mess member: a student who books and votes, or a
// staff/admin account that scans check-ins.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:20;not null;default:'student';index"`
	Points       int       `json:"points" gorm:"not null;default:0"`
	Level        int       `json:"level" gorm:"not null;default:1"`
	Streak       int       `json:"streak" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// CanCheckIn reports whether an account with the given role may scan
// booking credentials.
func CanCheckIn(role string) bool {
	return role == RoleStaff || role == RoleAdmin
}
