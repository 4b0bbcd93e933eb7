package repositories

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coinquest-app/quest_api/model"
)

type RetryRepository struct {
	BaseRepository
}

func NewRetryRepository(db *gorm.DB) *RetryRepository {
	return &RetryRepository{NewBaseRepository(db)}
}

func (r *RetryRepository) Enqueue(parentID, childID, kind string, patch json.RawMessage) (*model.PendingOperation, error) {
	id, _ := uuid.NewV7()
	op := &model.PendingOperation{
		ID:         id.String(),
		ParentID:   parentID,
		ChildID:    childID,
		Kind:       kind,
		Patch:      patch,
		EnqueuedAt: time.Now(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := r.db.Create(op).Error; err != nil {
		return nil, err
	}
	return op, nil
}

// ListPending returns queued operations oldest-first so replay preserves the
// order writes were attempted in.
func (r *RetryRepository) ListPending(limit int) ([]model.PendingOperation, error) {
	var ops []model.PendingOperation
	err := r.db.Order("enqueued_at asc").Limit(limit).Find(&ops).Error
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func (r *RetryRepository) MarkFailed(opID string, lastError string) error {
	return r.db.Model(&model.PendingOperation{}).
		Where("id = ?", opID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
			"updated_at": time.Now(),
		}).Error
}

func (r *RetryRepository) Delete(opID string) error {
	return r.db.Where("id = ?", opID).Delete(&model.PendingOperation{}).Error
}

func (r *RetryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.PendingOperation{}).Count(&count).Error
	return count, err
}
