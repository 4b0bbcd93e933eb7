package repositories

import (
	"gorm.io/gorm"
)

// BaseRepository is the shared gorm handle embedded by the parent-account,
// content-bank and retry-queue repositories. Child progress documents do not
// live here; they are kept in the document store.
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB exposes the raw connection for one-off queries and tests.
func (r *BaseRepository) DB() *gorm.DB {
	return r.db
}
