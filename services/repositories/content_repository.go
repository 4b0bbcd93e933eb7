package repositories

import (
	"gorm.io/gorm"

	"github.com/coinquest-app/quest_api/model"
)

type ContentRepository struct {
	BaseRepository
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{NewBaseRepository(db)}
}

func (r *ContentRepository) GetTriviaQuestions(stage string, level int) ([]model.TriviaQuestion, error) {
	var questions []model.TriviaQuestion
	err := r.db.Where("stage = ? AND level = ? AND is_active = ?", stage, level, true).
		Order("id").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *ContentRepository) GetVocabWords(level int) ([]model.VocabWord, error) {
	var words []model.VocabWord
	err := r.db.Where("level = ? AND is_active = ?", level, true).
		Order("id").
		Find(&words).Error
	if err != nil {
		return nil, err
	}
	return words, nil
}

func (r *ContentRepository) GetVocabWord(wordID string) (*model.VocabWord, error) {
	var word model.VocabWord
	if err := r.db.Where("id = ?", wordID).First(&word).Error; err != nil {
		return nil, err
	}
	return &word, nil
}

func (r *ContentRepository) UpsertTriviaQuestion(q *model.TriviaQuestion) error {
	return r.db.Save(q).Error
}

func (r *ContentRepository) UpsertVocabWord(w *model.VocabWord) error {
	return r.db.Save(w).Error
}

func (r *ContentRepository) GetLessonAsset(unitID, stage string, level int, kind string) (*model.LessonAsset, error) {
	var asset model.LessonAsset
	err := r.db.Where("unit_id = ? AND stage = ? AND level = ? AND kind = ?", unitID, stage, level, kind).
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *ContentRepository) CreateLessonAsset(asset *model.LessonAsset) error {
	return r.db.Create(asset).Error
}

func (r *ContentRepository) DeleteLessonAsset(assetID string) error {
	return r.db.Where("id = ?", assetID).Delete(&model.LessonAsset{}).Error
}
