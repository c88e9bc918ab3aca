package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus represents the lifecycle state of a meal booking.
type BookingStatus string

const (
	BookingStatusUpcoming  BookingStatus = "upcoming"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// OptionSelection is the snapshot of chosen options per category,
// e.g. {"main": "dal-rice", "bread": "roti"}. Stored as a JSON column.
type OptionSelection map[string]string

// Value implements driver.Valuer.
func (o OptionSelection) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner.
func (o *OptionSelection) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("unsupported type for OptionSelection: %T", value)
	}
}

// Booking is one user's reservation for a meal slot on a date. Rows are
// never deleted; cancellation keeps the row for the audit trail. The
// Active column is 1 while the booking is live and NULL once cancelled,
// so the unique index allows rebooking a slot after a cancellation while
// still rejecting a second live booking at the storage layer (MySQL
// unique indexes permit repeated NULLs).
type Booking struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID          uuid.UUID       `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_active_booking"`
	Date            string          `json:"date" gorm:"size:10;not null;uniqueIndex:idx_active_booking"`
	MealSlot        string          `json:"mealType" gorm:"size:16;not null;uniqueIndex:idx_active_booking"`
	Active          *bool           `json:"-" gorm:"uniqueIndex:idx_active_booking"`
	SelectedOptions OptionSelection `json:"selectedOptions" gorm:"type:json"`
	QRData          string          `json:"qrData" gorm:"type:text"`
	QRCode          string          `json:"qrCode" gorm:"type:mediumtext"`
	Status          BookingStatus   `json:"status" gorm:"type:varchar(20);not null;default:'upcoming';index"`
	WasteRating     int             `json:"wasteRating,omitempty"`
	WasteRated      bool            `json:"wasteRated" gorm:"not null;default:false"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	CheckedInAt     *time.Time      `json:"checkedInAt,omitempty"`
	RatedAt         *time.Time      `json:"ratedAt,omitempty"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
