// Package repo holds helpers shared by the per-user document repositories.
package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/pkg/pagination"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// OwnedNewestFirst scopes q to one owner's rows ordered by (timeColumn, id)
// descending, resuming after cursor when one is given. It fetches one extra
// row so pagination.Trim can tell whether another page exists.
func OwnedNewestFirst(q *gorm.DB, userID uuid.UUID, timeColumn string, cursor *pagination.Cursor, limit int) *gorm.DB {
	q = q.Where("user_id = ?", userID)
	if cursor != nil {
		q = q.Where("("+timeColumn+" < ?) OR ("+timeColumn+" = ? AND id < ?)", cursor.At, cursor.At, cursor.ID)
	}
	return q.Order(timeColumn + " DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(limit))
}
