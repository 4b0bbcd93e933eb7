package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coinquest-app/quest_api/model"
)

type ParentRepository struct {
	BaseRepository
}

func NewParentRepository(db *gorm.DB) *ParentRepository {
	return &ParentRepository{NewBaseRepository(db)}
}

func (r *ParentRepository) GetParent(parentID string) (*model.Parent, error) {
	var parent model.Parent
	if err := r.db.Where("id = ?", parentID).First(&parent).Error; err != nil {
		return nil, err
	}
	return &parent, nil
}

func (r *ParentRepository) GetParentByEmailOrUsername(emailOrUsername string) (*model.Parent, error) {
	var parent model.Parent
	err := r.db.Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).
		First(&parent).Error
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

func (r *ParentRepository) CreateParent(email, username, hashedPassword string) (*model.Parent, error) {
	id, _ := uuid.NewV7()
	parent := &model.Parent{
		ID:        id.String(),
		Email:     email,
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := r.db.Create(parent).Error; err != nil {
		return nil, err
	}
	return parent, nil
}

func (r *ParentRepository) UpdateLastLogin(parentID string) error {
	return r.db.Model(&model.Parent{}).
		Where("id = ?", parentID).
		Updates(map[string]interface{}{
			"last_login": time.Now(),
			"updated_at": time.Now(),
		}).Error
}

func (r *ParentRepository) IsUsernameAvailable(username string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Parent{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *ParentRepository) IsEmailAvailable(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Parent{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
