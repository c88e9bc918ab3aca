package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal slots served by the mess.
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotSnacks    = "snacks"
	SlotDinner    = "dinner"
)

// Option categories within a meal slot.
const (
	CategoryMain  = "main"
	CategoryBread = "bread"
	CategorySide  = "side"
)

// WeeklyMenu holds the candidate meal options for one voting week,
// identified by its week-start date.
type WeeklyMenu struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	WeekStart string    `json:"weekStart" gorm:"size:10;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Options []MealOption `json:"options,omitempty" gorm:"foreignKey:MenuID"`
}

// BeforeCreate sets UUID before creating the record.
func (m *WeeklyMenu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MealOption is one dish students can vote for under a (slot, category)
// of a weekly menu. Votes is a denormalized counter kept in sync with the
// vote rows by atomic increments; MenuService.RecountVotes rebuilds it.
type MealOption struct {
	MenuID      uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	ID          string    `json:"id" gorm:"size:64;primaryKey"`
	MealSlot    string    `json:"mealSlot" gorm:"size:16;not null;index"`
	Category    string    `json:"category" gorm:"size:32;not null"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:500"`
	Votes       int       `json:"votes" gorm:"not null;default:0"`
	Position    int       `json:"-" gorm:"not null;default:0"`
}

// ValidMealSlot reports whether slot names one of the four meal slots.
func ValidMealSlot(slot string) bool {
	switch slot {
	case SlotBreakfast, SlotLunch, SlotSnacks, SlotDinner:
		return true
	}
	return false
}

var weekDays = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// ValidDay reports whether day is one of the seven canonical weekday
// names (lowercase).
func ValidDay(day string) bool {
	return weekDays[day]
}

// DefaultWeeklyMenu builds the seed menu used when a week is read for the
// first time. Counters start at zero; ids are stable slugs so votes can
// reference them across reads.
func DefaultWeeklyMenu(weekStart string) *WeeklyMenu {
	menu := &WeeklyMenu{ID: uuid.New(), WeekStart: weekStart}
	seed := []MealOption{
		{ID: "poha", MealSlot: SlotBreakfast, Category: CategoryMain, Name: "Poha", Description: "Flattened rice with peanuts"},
		{ID: "upma", MealSlot: SlotBreakfast, Category: CategoryMain, Name: "Upma", Description: "Semolina with spices"},
		{ID: "idli-sambar", MealSlot: SlotBreakfast, Category: CategoryMain, Name: "Idli Sambar", Description: "Steamed rice cakes with lentil stew"},
		{ID: "toast", MealSlot: SlotBreakfast, Category: CategoryBread, Name: "Butter Toast", Description: "Toasted bread with butter"},
		{ID: "paratha", MealSlot: SlotBreakfast, Category: CategoryBread, Name: "Plain Paratha", Description: "Layered wheat flatbread"},
		{ID: "dal-rice", MealSlot: SlotLunch, Category: CategoryMain, Name: "Dal Rice", Description: "Lentils with steamed rice"},
		{ID: "rajma", MealSlot: SlotLunch, Category: CategoryMain, Name: "Rajma Chawal", Description: "Kidney beans with rice"},
		{ID: "chole", MealSlot: SlotLunch, Category: CategoryMain, Name: "Chole", Description: "Spiced chickpea curry"},
		{ID: "roti", MealSlot: SlotLunch, Category: CategoryBread, Name: "Tawa Roti", Description: "Whole wheat flatbread"},
		{ID: "salad", MealSlot: SlotLunch, Category: CategorySide, Name: "Green Salad", Description: "Cucumber, onion and carrot"},
		{ID: "curd", MealSlot: SlotLunch, Category: CategorySide, Name: "Curd", Description: "Plain yogurt"},
		{ID: "samosa", MealSlot: SlotSnacks, Category: CategoryMain, Name: "Samosa", Description: "Fried pastry with potato filling"},
		{ID: "vada-pav", MealSlot: SlotSnacks, Category: CategoryMain, Name: "Vada Pav", Description: "Potato fritter in a bun"},
		{ID: "paneer-butter", MealSlot: SlotDinner, Category: CategoryMain, Name: "Paneer Butter Masala", Description: "Cottage cheese in tomato gravy"},
		{ID: "veg-biryani", MealSlot: SlotDinner, Category: CategoryMain, Name: "Veg Biryani", Description: "Spiced rice with vegetables"},
		{ID: "naan", MealSlot: SlotDinner, Category: CategoryBread, Name: "Butter Naan", Description: "Leavened flatbread"},
		{ID: "raita", MealSlot: SlotDinner, Category: CategorySide, Name: "Boondi Raita", Description: "Yogurt with fried gram pearls"},
	}
	for i := range seed {
		seed[i].MenuID = menu.ID
		seed[i].Position = i
	}
	menu.Options = seed
	return menu
}
