package scans

import (
	"context"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/internal/repo"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists product analyses. Rows are append-only.
type Repository struct {
	repo.Base
}

// NewRepository constructs a scans repo bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Append stores one analysis for userID.
func (r *Repository) Append(ctx context.Context, userID uuid.UUID, source enums.ScanSource, barcode *string, a Analysis) (*models.SavedProduct, error) {
	if userID == uuid.Nil || !source.IsValid() {
		return nil, gorm.ErrInvalidValue
	}
	row := toModel(userID, source, barcode, a)
	if err := r.DB(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// List returns one page of userID's analyses, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedProductDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[SavedProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	var rows []models.SavedProduct
	q := repo.OwnedNewestFirst(r.DB(ctx).Model(&models.SavedProduct{}), userID, "scanned_at", cursor, params.Limit)
	if err := q.Find(&rows).Error; err != nil {
		return pagination.Page[SavedProductDTO]{}, err
	}
	page := pagination.Trim(rows, params.Limit, func(m models.SavedProduct) pagination.Cursor {
		return pagination.Cursor{At: m.ScannedAt, ID: m.ID}
	})

	items := make([]SavedProductDTO, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, savedFromModel(m))
	}
	return pagination.Page[SavedProductDTO]{Items: items, NextCursor: page.NextCursor}, nil
}
