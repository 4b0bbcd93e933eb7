package services

import (
	"fmt"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/coinquest-app/quest_api/model"
)

// PostgresService mirrors SqliteService for production deployments. It stays
// dormant unless DB_DRIVER=postgres; when selected, SqliteService hands out
// this service's connection instead of opening a local file.
type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		name := os.Getenv("DB_NAME")
		if name == "" {
			name = "quest"
		}

		ds.database = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, name)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	if os.Getenv("DB_DRIVER") != "postgres" {
		return nil
	}

	ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	models := []interface{}{
		&model.Parent{},
		&model.PendingOperation{},
		&model.TriviaQuestion{},
		&model.VocabWord{},
		&model.LessonAsset{},
	}

	if err = ds.db.AutoMigrate(models...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Postgres connected and migrated successfully")
	return nil
}

func (ds *PostgresService) Shutdown() {
}
