package handlers

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/progression"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	RequiredAuth() fiber.Handler
}

type ChildServiceInterface interface {
	CreateChild(ctx context.Context, parentID string, req dto.CreateChildRequest) (*dto.ChildSummary, error)
	ListChildren(ctx context.Context, parentID string) ([]dto.ChildSummary, error)
	GetChild(ctx context.Context, parentID, childID string) (*dto.ChildResponse, error)
	VerifyPin(ctx context.Context, parentID, childID, pin string) error
	DeleteChild(ctx context.Context, parentID, childID string) error
}

type ProgressionServiceInterface interface {
	StageStatus(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*dto.StageStatusResponse, error)
	StartStage(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*dto.StartStageResponse, error)
	CompleteLevel(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind, gamePoints int) (*dto.TransitionResponse, error)
	Advance(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*dto.AdvanceResponse, error)
	CompleteQuiz(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*dto.TransitionResponse, error)
	AnswerQuiz(ctx context.Context, parentID, childID string, questionID, answer string) (*dto.QuizAnswerResponse, error)
	LoseLife(ctx context.Context, parentID, childID, unitID string, count int) (*dto.TransitionResponse, error)
	RecoverLife(ctx context.Context, parentID, childID, unitID string) (*dto.TransitionResponse, error)
	MarkPassEarned(parentID, childID, unitID string, kind progression.PassKind)
	CollectPass(ctx context.Context, parentID, childID, unitID string, kind progression.PassKind) (*dto.CollectPassResponse, error)
	UpdateWords(ctx context.Context, parentID, childID, unitID string, words map[string]bool) (*dto.TransitionResponse, error)
}

type ContentServiceInterface interface {
	TriviaQuestions(stage string, level int) ([]model.TriviaQuestion, error)
	VocabWords(level int) ([]model.VocabWord, error)
	UpsertTriviaQuestion(q *model.TriviaQuestion) error
	UpsertVocabWord(w *model.VocabWord) error
}

type MediaServiceInterface interface {
	AssetURL(ctx context.Context, unitID, stage string, level int, kind string) (*dto.MediaURLResponse, error)
	UploadAsset(unitID, stage string, level int, kind, mimeType string, reader io.Reader, size int64) (*model.LessonAsset, error)
	DeleteAsset(assetID string) error
}
