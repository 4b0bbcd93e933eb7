package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, trivia, vocab")
		dbPath   = flag.String("db", "", "Database path (overrides DB_DATABASE env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_DATABASE")
		if databasePath == "" {
			databasePath = "quest.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&model.TriviaQuestion{}, &model.VocabWord{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "trivia":
		log.Println("Seeding trivia questions only...")
		if err := mainSeeder.SeedTriviaOnly(); err != nil {
			log.Fatalf("Failed to seed trivia: %v", err)
		}
	case "vocab":
		log.Println("Seeding vocab words only...")
		if err := mainSeeder.SeedVocabOnly(); err != nil {
			log.Fatalf("Failed to seed vocab: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'trivia', or 'vocab'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the CoinQuest API

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, trivia, vocab
  -db string
        Database path (overrides DB_DATABASE environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only trivia questions
  go run seed/main.go -type=trivia

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  DB_DATABASE - Default database path (default: quest.db)
`)
}
