package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/coinquest-app/quest_api/docs"
	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/services/handlers"
	"github.com/coinquest-app/quest_api/shared"
)

// HttpService owns the public API surface. Routes delegate to handlers;
// handlers delegate to services and bubble AppErrors up to the fiber error
// handler.
type HttpService struct {
	context.DefaultService

	authSvc        *AuthService
	childSvc       *ChildService
	progressionSvc *ProgressionService
	contentSvc     *ContentService
	mediaSvc       *MediaService
	rateLimitSvc   *RateLimitService
	monitoringSvc  *MonitoringService
	connSvc        *ConnectivityService
	clockSvc       *ClockService
	writerSvc      *ProgressWriterService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.childSvc = svc.Service(CHILD_SVC).(*ChildService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.connSvc = svc.Service(CONNECTIVITY_SVC).(*ConnectivityService)
	svc.clockSvc = svc.Service(CLOCK_SVC).(*ClockService)
	svc.writerSvc = svc.Service(WRITER_SVC).(*ProgressWriterService)

	app := fiber.New(fiber.Config{
		AppName:      "quest_api",
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnvDefault("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))
	app.Use(svc.rateLimitMiddleware)

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", svc.health)

	svc.registerRoutes(app)

	svc.server = app
	log.WithField("port", svc.port).Info("HTTP server starting")
	return app.Listen(fmt.Sprintf(":%d", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	childHandler := handlers.NewChildHandler(svc.childSvc)
	progressionHandler := handlers.NewProgressionHandler(svc.progressionSvc)
	contentHandler := handlers.NewContentHandler(svc.contentSvc)
	mediaHandler := handlers.NewMediaHandler(svc.mediaSvc)

	v1 := app.Group("/api/v1")

	v1.Post("/register", svc.authRateLimit, authHandler.Register)
	v1.Post("/login", svc.authRateLimit, authHandler.Login)

	authed := v1.Group("", svc.authSvc.RequiredAuth())

	authed.Post("/children", childHandler.CreateChild)
	authed.Get("/children", childHandler.ListChildren)
	authed.Get("/children/:childId", childHandler.GetChild)
	authed.Delete("/children/:childId", childHandler.DeleteChild)
	authed.Post("/children/:childId/verify_pin", childHandler.VerifyPin)

	stages := authed.Group("/children/:childId/units/:unitId/stages/:stage")
	stages.Get("/status", progressionHandler.StageStatus)
	stages.Post("/start", progressionHandler.StartStage)
	stages.Post("/complete", progressionHandler.CompleteLevel)
	stages.Post("/advance", progressionHandler.Advance)
	stages.Post("/quiz/complete", progressionHandler.CompleteQuiz)

	units := authed.Group("/children/:childId/units/:unitId")
	units.Post("/lose_life", progressionHandler.LoseLife)
	units.Post("/recover_life", progressionHandler.RecoverLife)
	units.Post("/passes/earn", progressionHandler.EarnPass)
	units.Post("/passes/collect", progressionHandler.CollectPass)
	units.Put("/words", progressionHandler.UpdateWords)

	authed.Post("/children/:childId/quiz/answer", progressionHandler.AnswerQuiz)

	authed.Get("/content/trivia/:stage/:level", contentHandler.GetTriviaQuestions)
	authed.Get("/content/vocab/:level", contentHandler.GetVocabWords)
	authed.Get("/media/:unitId/:stage/:level/:kind", mediaHandler.AssetURL)

	admin := authed.Group("/admin")
	admin.Post("/trivia", contentHandler.UpsertTriviaQuestion)
	admin.Post("/vocab", contentHandler.UpsertVocabWord)
	admin.Post("/media/:unitId/:stage/:level/:kind", mediaHandler.UploadAsset)
	admin.Delete("/media/:assetId", mediaHandler.DeleteAsset)
}

// @Summary Service health
// @Description Connectivity, clock sync and retry backlog
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=dto.HealthResponse}
// @Router /health [get]
func (svc *HttpService) health(c *fiber.Ctx) error {
	online := svc.connSvc.Check(c.Context())

	status := "healthy"
	if !online {
		status = "degraded"
	}

	return shared.ResponseOK(c, dto.HealthResponse{
		Status:       status,
		Online:       online,
		ClockSynced:  svc.clockSvc.Synced(),
		PendingCount: svc.writerSvc.PendingCount(),
	})
}

func (svc *HttpService) rateLimitMiddleware(c *fiber.Ctx) error {
	if err := svc.rateLimitSvc.Allow(c.Context(), c.IP()); err != nil {
		return err
	}
	return c.Next()
}

func (svc *HttpService) authRateLimit(c *fiber.Ctx) error {
	if err := svc.rateLimitSvc.AllowAuth(c.Context(), c.IP()); err != nil {
		return err
	}
	return c.Next()
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= 500 {
			log.WithError(err).Error("Request failed")
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}
