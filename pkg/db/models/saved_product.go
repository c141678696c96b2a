package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HarmfulIngredient is one flagged ingredient of a product analysis.
type HarmfulIngredient struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SavedProduct is an append-only product analysis.
type SavedProduct struct {
	ID                 uuid.UUID                              `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID                              `gorm:"type:uuid;not null;index"`
	Source             enums.ScanSource                       `gorm:"column:source;type:text;not null"`
	Barcode            *string                                `gorm:"column:barcode"`
	ProductName        string                                 `gorm:"column:product_name;not null"`
	Description        string                                 `gorm:"column:description;type:text;not null"`
	HarmfulIngredients datatypes.JSONSlice[HarmfulIngredient] `gorm:"column:harmful_ingredients"`
	Comedogenicity     string                                 `gorm:"column:comedogenicity;not null"`
	SuitableSkinTypes  datatypes.JSONSlice[string]            `gorm:"column:suitable_skin_types"`
	SolvesProblems     datatypes.JSONSlice[string]            `gorm:"column:solves_problems"`
	ScannedAt          time.Time                              `gorm:"column:scanned_at;not null"`
}

func (p *SavedProduct) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ScannedAt.IsZero() {
		p.ScannedAt = time.Now().UTC()
	}
	return nil
}
