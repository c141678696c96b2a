// Package routines generates, stores and parses AM/PM skincare routines.
package routines

import (
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
)

// Result is a generated routine. AM and PM are newline-delimited step lists.
type Result struct {
	AM  string  `json:"am"`
	PM  string  `json:"pm"`
	Tip *string `json:"tip,omitempty"`
}

// Steps holds both halves of a routine after parsing.
type Steps struct {
	AM []Step `json:"am"`
	PM []Step `json:"pm"`
}

// StepsOf parses both halves of r.
func StepsOf(r Result) Steps {
	return Steps{AM: ParseRoutine(r.AM), PM: ParseRoutine(r.PM)}
}

// Generated is the response to a quiz submission.
type Generated struct {
	Routine Result `json:"routine"`
	Steps   Steps  `json:"steps"`
}

// SavedRoutineDTO is one stored routine with its steps recomputed.
type SavedRoutineDTO struct {
	ID        uuid.UUID `json:"id"`
	Routine   Result    `json:"routine"`
	Steps     Steps     `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
}

func savedFromModel(m models.SavedRoutine) SavedRoutineDTO {
	result := Result{AM: m.AM, PM: m.PM, Tip: m.Tip}
	return SavedRoutineDTO{
		ID:        m.ID,
		Routine:   result,
		Steps:     StepsOf(result),
		CreatedAt: m.CreatedAt,
	}
}
