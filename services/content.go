package services

import (
	"github.com/alphabatem/common/context"

	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/services/repositories"
	"github.com/coinquest-app/quest_api/shared"
)

// ContentService serves the static question and vocabulary banks. Trivia sets
// are copied opaquely into a child's document when a stage level is created;
// vocab word ids seed the per-level availability map.
type ContentService struct {
	context.DefaultService

	sqlSvc     *SqliteService
	contentRep *repositories.ContentRepository
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.contentRep = repositories.NewContentRepository(svc.sqlSvc.Db())
	return nil
}

// TriviaSet returns the question set for a stage level in the shape embedded
// into the child document: question id -> question payload. An empty bank is
// a valid (empty) set, not an error.
func (svc *ContentService) TriviaSet(stage string, level int) (map[string]interface{}, error) {
	questions, err := svc.contentRep.GetTriviaQuestions(stage, level)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	set := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		set[q.ID] = map[string]interface{}{
			"type":     q.Type,
			"question": q.Question,
			"options":  q.Options,
			"answer":   q.Answer,
			"points":   q.Points,
		}
	}
	return set, nil
}

// TriviaQuestions returns the bank entries for a stage level for API serving.
func (svc *ContentService) TriviaQuestions(stage string, level int) ([]model.TriviaQuestion, error) {
	questions, err := svc.contentRep.GetTriviaQuestions(stage, level)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return questions, nil
}

// WordAvailability returns the vocab availability map seeded into a fresh
// vocabs level: every word id in the bank, all still askable.
func (svc *ContentService) WordAvailability(level int) (map[string]bool, error) {
	words, err := svc.contentRep.GetVocabWords(level)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	avail := make(map[string]bool, len(words))
	for _, w := range words {
		avail[w.ID] = true
	}
	return avail, nil
}

func (svc *ContentService) VocabWords(level int) ([]model.VocabWord, error) {
	words, err := svc.contentRep.GetVocabWords(level)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return words, nil
}

// CheckAnswer grades a trivia answer against the bank. Returns the points
// awarded; zero for a wrong answer.
func (svc *ContentService) CheckAnswer(questionID, answer string) (correct bool, points int, err error) {
	var q model.TriviaQuestion
	if err := svc.contentRep.DB().Where("id = ?", questionID).First(&q).Error; err != nil {
		return false, 0, shared.NewNotFoundError(svc.sqlSvc.HandleError(err), "question not found")
	}
	if q.Answer != answer {
		return false, 0, nil
	}
	return true, q.Points, nil
}

func (svc *ContentService) UpsertTriviaQuestion(q *model.TriviaQuestion) error {
	if err := svc.contentRep.UpsertTriviaQuestion(q); err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	return nil
}

func (svc *ContentService) UpsertVocabWord(w *model.VocabWord) error {
	if err := svc.contentRep.UpsertVocabWord(w); err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	return nil
}

func (svc *ContentService) LessonAsset(unitID, stage string, level int, kind string) (*model.LessonAsset, error) {
	asset, err := svc.contentRep.GetLessonAsset(unitID, stage, level, kind)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return asset, nil
}
