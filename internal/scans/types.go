// Package scans analyzes skincare products from a label photo or a barcode
// and keeps each analysis in the user's history.
package scans

import (
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	"github.com/me0hharryy/dermaGo/pkg/enums"
)

// Ingredient is a flagged ingredient and why it was flagged.
type Ingredient struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Analysis is the model's read of one product.
type Analysis struct {
	ProductName        string       `json:"productName"`
	Description        string       `json:"description"`
	HarmfulIngredients []Ingredient `json:"harmfulIngredients"`
	Comedogenicity     string       `json:"comedogenicity"`
	SuitableSkinTypes  []string     `json:"suitableSkinTypes"`
	SolvesProblems     []string     `json:"solvesProblems"`
}

// SavedProductDTO is one stored analysis.
type SavedProductDTO struct {
	ID        uuid.UUID        `json:"id"`
	Source    enums.ScanSource `json:"source"`
	Barcode   *string          `json:"barcode,omitempty"`
	Analysis  Analysis         `json:"analysis"`
	ScannedAt time.Time        `json:"scanned_at"`
}

func toModel(userID uuid.UUID, source enums.ScanSource, barcode *string, a Analysis) *models.SavedProduct {
	harmful := make([]models.HarmfulIngredient, 0, len(a.HarmfulIngredients))
	for _, ing := range a.HarmfulIngredients {
		harmful = append(harmful, models.HarmfulIngredient{Name: ing.Name, Reason: ing.Reason})
	}
	return &models.SavedProduct{
		UserID:             userID,
		Source:             source,
		Barcode:            barcode,
		ProductName:        a.ProductName,
		Description:        a.Description,
		HarmfulIngredients: harmful,
		Comedogenicity:     a.Comedogenicity,
		SuitableSkinTypes:  nonNil(a.SuitableSkinTypes),
		SolvesProblems:     nonNil(a.SolvesProblems),
	}
}

func savedFromModel(m models.SavedProduct) SavedProductDTO {
	harmful := make([]Ingredient, 0, len(m.HarmfulIngredients))
	for _, ing := range m.HarmfulIngredients {
		harmful = append(harmful, Ingredient{Name: ing.Name, Reason: ing.Reason})
	}
	return SavedProductDTO{
		ID:      m.ID,
		Source:  m.Source,
		Barcode: m.Barcode,
		Analysis: Analysis{
			ProductName:        m.ProductName,
			Description:        m.Description,
			HarmfulIngredients: harmful,
			Comedogenicity:     m.Comedogenicity,
			SuitableSkinTypes:  nonNil(m.SuitableSkinTypes),
			SolvesProblems:     nonNil(m.SolvesProblems),
		},
		ScannedAt: m.ScannedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
