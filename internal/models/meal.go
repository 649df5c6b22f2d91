package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealType is the fixed meal category enumeration.
type MealType string

const (
	MealTypeBreakfast MealType = "BREAKFAST"
	MealTypeLunch     MealType = "LUNCH"
	MealTypeDinner    MealType = "DINNER"
	MealTypeSnack     MealType = "SNACK"
	MealTypeOther     MealType = "OTHER"
)

// Valid reports whether t is one of the known meal types.
func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack, MealTypeOther:
		return true
	}
	return false
}

// StringArray stores an ordered list of strings in a JSON column
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported ingredients type %T", value)
	}

	return json.Unmarshal(bytes, a)
}

type Meal struct {
	ID          uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:varchar(36);not null;index:idx_meals_user_logged" json:"user_id"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	MealType    MealType    `gorm:"size:20;not null" json:"meal_type"`
	Ingredients StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Notes       string      `gorm:"type:text" json:"notes,omitempty"`
	LoggedAt    time.Time   `gorm:"not null;index:idx_meals_user_logged" json:"logged_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Meal) TableName() string {
	return "meals"
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Ingredients == nil {
		m.Ingredients = StringArray{}
	}
	return nil
}
