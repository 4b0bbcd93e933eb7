package seeders

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/coinquest-app/quest_api/model"
)

// VocabSeeder populates the vocabulary word bank.
type VocabSeeder struct {
	db *gorm.DB
}

func NewVocabSeeder(db *gorm.DB) *VocabSeeder {
	return &VocabSeeder{db: db}
}

func (s *VocabSeeder) SeedVocab() error {
	words := s.getWords()

	for _, w := range words {
		var existing model.VocabWord
		if err := s.db.Where("id = ?", w.ID).First(&existing).Error; err == nil {
			continue
		}
		if err := s.db.Create(&w).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d vocab words", len(words))
	return nil
}

func (s *VocabSeeder) getWords() []model.VocabWord {
	now := time.Now()

	type spec struct {
		level   int
		word    string
		meaning string
	}

	specs := []spec{
		{1, "coin", "A small round piece of metal money"},
		{1, "money", "What we use to buy things"},
		{1, "buy", "To get something by paying for it"},
		{1, "shop", "A place where things are sold"},
		{2, "price", "How much something costs"},
		{2, "save", "To keep money so you can use it later"},
		{2, "spend", "To use money to buy something"},
		{2, "change", "Money you get back when you pay too much"},
		{3, "earn", "To get money by working"},
		{3, "bank", "A safe place that keeps money"},
		{3, "wallet", "A small case for carrying money"},
		{3, "piggy bank", "A box for saving coins at home"},
	}

	words := make([]model.VocabWord, 0, len(specs))
	perLevel := map[int]int{}
	for _, sp := range specs {
		perLevel[sp.level]++
		words = append(words, model.VocabWord{
			ID:        fmt.Sprintf("vocab-%02d-w%d", sp.level, perLevel[sp.level]),
			Level:     sp.level,
			Word:      sp.word,
			Meaning:   sp.meaning,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return words
}
