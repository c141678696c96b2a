package routines

import (
	"context"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/internal/repo"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists generated routines. Rows are append-only.
type Repository struct {
	repo.Base
}

// NewRepository constructs a routines repo bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Append stores r for userID with a server-assigned timestamp.
func (r *Repository) Append(ctx context.Context, userID uuid.UUID, result Result) (*models.SavedRoutine, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}
	row := &models.SavedRoutine{UserID: userID, AM: result.AM, PM: result.PM, Tip: result.Tip}
	if err := r.DB(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// List returns one page of userID's routines, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[models.SavedRoutine], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.SavedRoutine]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	var rows []models.SavedRoutine
	q := repo.OwnedNewestFirst(r.DB(ctx).Model(&models.SavedRoutine{}), userID, "created_at", cursor, params.Limit)
	if err := q.Find(&rows).Error; err != nil {
		return pagination.Page[models.SavedRoutine]{}, err
	}
	return pagination.Trim(rows, params.Limit, func(m models.SavedRoutine) pagination.Cursor {
		return pagination.Cursor{At: m.CreatedAt, ID: m.ID}
	}), nil
}
