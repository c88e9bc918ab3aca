package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote records one user's current choice for a (week, day, slot, category).
// The unique index makes a repeat vote an update, never a second row.
type Vote struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_vote_choice"`
	WeekStart string    `json:"weekStart" gorm:"size:10;not null;uniqueIndex:idx_vote_choice"`
	Day       string    `json:"day" gorm:"size:16;not null;uniqueIndex:idx_vote_choice"`
	MealSlot  string    `json:"mealType" gorm:"size:16;not null;uniqueIndex:idx_vote_choice"`
	Category  string    `json:"category" gorm:"size:32;not null;uniqueIndex:idx_vote_choice"`
	OptionID  string    `json:"optionId" gorm:"size:64;not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
