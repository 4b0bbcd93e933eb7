package seeders

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/shared"
)

// TriviaSeeder populates the static trivia question bank.
type TriviaSeeder struct {
	db *gorm.DB
}

func NewTriviaSeeder(db *gorm.DB) *TriviaSeeder {
	return &TriviaSeeder{db: db}
}

func (s *TriviaSeeder) SeedTrivia() error {
	questions := s.getQuestions()

	for _, q := range questions {
		var existing model.TriviaQuestion
		if err := s.db.Where("id = ?", q.ID).First(&existing).Error; err == nil {
			continue
		}
		if err := s.db.Create(&q).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d trivia questions", len(questions))
	return nil
}

func options(choices ...string) json.RawMessage {
	b, _ := json.Marshal(choices)
	return b
}

func (s *TriviaSeeder) getQuestions() []model.TriviaQuestion {
	now := time.Now()

	type spec struct {
		stage    string
		level    int
		qType    string
		question string
		options  json.RawMessage
		answer   string
	}

	specs := []spec{
		{"maingame", 1, shared.QuestionTypeMultipleChoice, "Which coin is worth the most?",
			options("1 cent", "5 cents", "10 cents", "25 cents"), "25 cents"},
		{"maingame", 1, shared.QuestionTypeMultipleChoice, "How many cents make one dollar?",
			options("10", "50", "100", "1000"), "100"},
		{"maingame", 2, shared.QuestionTypeCurrencyMatch, "Match the coin to its value: nickel",
			options("1 cent", "5 cents", "10 cents"), "5 cents"},
		{"maingame", 2, shared.QuestionTypeMultipleChoice, "You have 2 dimes. How much money is that?",
			options("2 cents", "10 cents", "20 cents", "25 cents"), "20 cents"},
		{"maingame", 3, shared.QuestionTypeNumberMatch, "Which is more: 3 nickels or 1 dime?",
			options("3 nickels", "1 dime", "same"), "3 nickels"},
		{"maingame", 3, shared.QuestionTypeMultipleChoice, "A toy costs 30 cents. You pay with a quarter and a dime. What is your change?",
			options("0 cents", "5 cents", "10 cents", "15 cents"), "5 cents"},
		{"maingame", 4, shared.QuestionTypeMultipleChoice, "Saving means...",
			options("spending all your money", "keeping money for later", "losing money"), "keeping money for later"},
		{"maingame", 5, shared.QuestionTypeMultipleChoice, "Which is a need, not a want?",
			options("candy", "food", "toys", "games"), "food"},

		{"minigames", 1, shared.QuestionTypeDragDrop, "Drag the coins to make 10 cents",
			options("penny", "nickel", "dime"), "dime"},
		{"minigames", 2, shared.QuestionTypeCurrencyMatch, "Match the bill: which is worth 5 dollars?",
			options("$1 bill", "$5 bill", "$10 bill"), "$5 bill"},

		{"vocabs", 1, shared.QuestionTypeMultipleChoice, "What does 'coin' mean?",
			options("paper money", "metal money", "a bank"), "metal money"},
		{"vocabs", 2, shared.QuestionTypeMultipleChoice, "What does 'price' mean?",
			options("how much something costs", "a kind of coin", "a shop"), "how much something costs"},

		{"calculator", 1, shared.QuestionTypeNumberMatch, "5 + 3 = ?",
			options("6", "7", "8", "9"), "8"},
		{"calculator", 2, shared.QuestionTypeNumberMatch, "12 - 4 = ?",
			options("6", "7", "8", "9"), "8"},
	}

	questions := make([]model.TriviaQuestion, 0, len(specs))
	perLevel := map[string]int{}
	for _, sp := range specs {
		key := fmt.Sprintf("%s-%02d", sp.stage, sp.level)
		perLevel[key]++
		questions = append(questions, model.TriviaQuestion{
			ID:        fmt.Sprintf("%s-q%d", key, perLevel[key]),
			Stage:     sp.stage,
			Level:     sp.level,
			Type:      sp.qType,
			Question:  sp.question,
			Options:   sp.options,
			Answer:    sp.answer,
			Points:    10,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return questions
}
