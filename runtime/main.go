package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/coinquest-app/quest_api/services"
)

// @title CoinQuest API
// @version 1.0
// @description Daily progression and unlock API for the CoinQuest learning game
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("Error loading .env file")
	}

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.SqliteService{},
		&services.RedisService{},
		&services.FirestoreService{},
		&services.ClockService{},
		&services.ConnectivityService{},
		&services.SnapshotService{},
		&services.ProgressWriterService{},
		&services.ContentService{},
		&services.ProgressionService{},
		&services.ChildService{},
		&services.JWTService{},
		&services.AuthService{},
		&services.MinIOService{},
		&services.MediaService{},
		&services.RateLimitService{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
