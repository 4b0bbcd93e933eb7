package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	triviaSeeder := NewTriviaSeeder(s.db)
	if err := triviaSeeder.SeedTrivia(); err != nil {
		log.Printf("Trivia seeding failed: %v", err)
		return err
	}

	vocabSeeder := NewVocabSeeder(s.db)
	if err := vocabSeeder.SeedVocab(); err != nil {
		log.Printf("Vocab seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedTriviaOnly() error {
	return NewTriviaSeeder(s.db).SeedTrivia()
}

func (s *MainSeeder) SeedVocabOnly() error {
	return NewVocabSeeder(s.db).SeedVocab()
}
