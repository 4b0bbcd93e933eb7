package services

import (
	"context"
	"fmt"
	"sync"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/progression"
	"github.com/coinquest-app/quest_api/shared"
)

// ProgressionService drives the daily progression state machine: it loads the
// child snapshot, asks the pure engine what the current level permits, builds
// the merge patch for the requested transition and hands it to the writer.
//
// Transitions on the same (child, stage) are serialized by an in-flight
// guard; a second concurrent call gets a conflict instead of racing the
// first one's read-modify-write.
type ProgressionService struct {
	appContext.DefaultService

	snapSvc    *SnapshotService
	writerSvc  *ProgressWriterService
	contentSvc *ContentService
	clockSvc   *ClockService

	inflight sync.Map

	sessMu   sync.Mutex
	sessions map[string]*progression.SessionContext
}

const PROGRESSION_SVC = "progression_svc"

func (svc ProgressionService) Id() string {
	return PROGRESSION_SVC
}

func (svc *ProgressionService) Configure(ctx *appContext.Context) error {
	svc.sessions = map[string]*progression.SessionContext{}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressionService) Start() error {
	svc.snapSvc = svc.Service(SNAPSHOT_SVC).(*SnapshotService)
	svc.writerSvc = svc.Service(WRITER_SVC).(*ProgressWriterService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.clockSvc = svc.Service(CLOCK_SVC).(*ClockService)
	return nil
}

func guardKey(childID string, kind progression.StageKind) string {
	return fmt.Sprintf("%s:%s", childID, kind)
}

// acquire takes the per-(child, stage) transition lock. Callers must release
// via the returned func; a held lock means another transition is mid-flight.
func (svc *ProgressionService) acquire(childID string, kind progression.StageKind) (func(), error) {
	key := guardKey(childID, kind)
	if _, loaded := svc.inflight.LoadOrStore(key, struct{}{}); loaded {
		return nil, shared.NewConflictError(nil, "another transition is in progress for this stage")
	}
	return func() { svc.inflight.Delete(key) }, nil
}

func (svc *ProgressionService) session(parentID, childID, unitID string) *progression.SessionContext {
	key := fmt.Sprintf("%s:%s:%s", parentID, childID, unitID)

	svc.sessMu.Lock()
	defer svc.sessMu.Unlock()
	sess, ok := svc.sessions[key]
	if !ok {
		sess = progression.NewSessionContext(parentID, childID, unitID)
		svc.sessions[key] = sess
	}
	return sess
}

// stageView is the loaded state one evaluation runs against.
type stageView struct {
	cfg      progression.StageConfig
	unit     model.UnitStageBlock
	level    int
	state    progression.LevelState
	quizDone bool
}

func (svc *ProgressionService) loadStage(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*stageView, error) {
	cfg, ok := progression.ConfigFor(kind)
	if !ok {
		return nil, shared.NewBadRequestError(nil, "unknown stage")
	}

	doc, err := svc.snapSvc.Document(ctx, parentID, childID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to load progress")
	}

	unit := doc.UnitStageData[unitID]

	view := &stageView{cfg: cfg, unit: unit}
	switch kind {
	case progression.StageMainGame:
		view.level = unit.MainGame.Level
		if view.level == 0 {
			view.level = 1
		}
		view.state = progression.MainGameLevelState(&unit.MainGame, view.level)
	default:
		block := svc.miniBlock(&unit, kind)
		view.level = block.Level
		if view.level == 0 {
			view.level = 1
		}
		view.state = progression.MiniGameLevelState(block, view.level)
	}
	view.quizDone = progression.QuizDone(unit.Quizzes, cfg.QuizKey, view.level)
	return view, nil
}

func (svc *ProgressionService) miniBlock(unit *model.UnitStageBlock, kind progression.StageKind) *model.MiniGameStageBlock {
	switch kind {
	case progression.StageMinigames:
		return &unit.Minigames
	case progression.StageVocabs:
		return &unit.Vocabs
	case progression.StageCalculator:
		return &unit.Calculator
	}
	return &model.MiniGameStageBlock{}
}

func (svc *ProgressionService) evaluate(parentID, childID string, view *stageView) progression.Decision {
	decision := progression.Evaluate(view.cfg, view.level, view.state, view.quizDone, svc.clockSvc.Now())
	if decision.DateAnomaly {
		recordDateAnomaly()
		log.WithFields(log.Fields{
			"parent": parentID,
			"child":  childID,
			"stage":  view.cfg.Kind,
			"level":  view.level,
			"date":   view.state.Date,
		}).Warn("Stored level date is unparsable, treating as epoch")
	}
	return decision
}

// StageStatus evaluates a stage without mutating anything.
func (svc *ProgressionService) StageStatus(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*dto.StageStatusResponse, error) {
	view, err := svc.loadStage(ctx, parentID, childID, unitID, kind)
	if err != nil {
		return nil, err
	}

	decision := svc.evaluate(parentID, childID, view)
	return &dto.StageStatusResponse{
		UnitID:      unitID,
		Stage:       string(kind),
		Level:       view.level,
		State:       string(decision.State),
		Life:        view.state.Life,
		QuizDone:    view.quizDone,
		DateAnomaly: decision.DateAnomaly,
	}, nil
}

// StartStage makes the stage playable for today. On first-ever play it
// creates the level-1 skeleton seeded with the level's trivia set (and the
// vocab availability map for the vocabs stage). Already-created stages are a
// no-op unless the evaluator says play is not allowed right now.
func (svc *ProgressionService) StartStage(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*dto.StartStageResponse, error) {
	release, err := svc.acquire(childID, kind)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := svc.loadStage(ctx, parentID, childID, unitID, kind)
	if err != nil {
		return nil, err
	}

	decision := svc.evaluate(parentID, childID, view)
	switch decision.State {
	case progression.NeedsInitialCreation:
		patch, err := svc.buildCreationPatch(view.cfg, unitID, view.level)
		if err != nil {
			return nil, err
		}
		queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "stage_create", patch)
		if err != nil {
			return nil, shared.NewInternalError(err, "failed to create stage data")
		}
		recordTransition(string(kind), "stage_create")
		return &dto.StartStageResponse{UnitID: unitID, Stage: string(kind), Level: view.level, Created: true, Queued: queued}, nil

	case progression.PlayableSameDay:
		return &dto.StartStageResponse{UnitID: unitID, Stage: string(kind), Level: view.level}, nil

	case progression.NeedsLifeRecovery:
		return nil, shared.NewForbiddenError(nil, "no attempts left, recover a life first")

	case progression.AllLevelsExhausted:
		return nil, shared.NewForbiddenError(nil, "all levels completed")

	default:
		// Played already; replays of a completed level are allowed and do not
		// touch the stored state.
		return &dto.StartStageResponse{UnitID: unitID, Stage: string(kind), Level: view.level}, nil
	}
}

func (svc *ProgressionService) buildCreationPatch(cfg progression.StageConfig, unitID string, level int) (progression.Patch, error) {
	trivia, err := svc.contentSvc.TriviaSet(string(cfg.Kind), level)
	if err != nil {
		return nil, err
	}
	var words map[string]bool
	if cfg.Kind == progression.StageVocabs {
		if words, err = svc.contentSvc.WordAvailability(level); err != nil {
			return nil, err
		}
	}
	if level == 1 {
		return progression.BuildInitialStageData(cfg, unitID, svc.clockSvc.Now(), trivia, words), nil
	}
	return progression.BuildNextLevelData(cfg, unitID, level, svc.clockSvc.Now(), trivia, words), nil
}

// LoseLife burns main-game attempts. Life never goes below zero; the response
// carries the state after the write so the client knows whether recovery is
// needed.
func (svc *ProgressionService) LoseLife(ctx context.Context, parentID, childID, unitID string, count int) (*dto.TransitionResponse, error) {
	release, err := svc.acquire(childID, progression.StageMainGame)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := svc.loadStage(ctx, parentID, childID, unitID, progression.StageMainGame)
	if err != nil {
		return nil, err
	}
	if !view.state.Exists {
		return nil, shared.NewBadRequestError(nil, "stage not started")
	}
	if count < 1 {
		count = 1
	}

	newLife := view.state.Life - count
	if newLife < 0 {
		newLife = 0
	}
	patch := progression.BuildLifeResetPatch(view.cfg, unitID, view.level, newLife)
	queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "life_lost", patch)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to update life")
	}

	state := progression.PlayableSameDay
	if newLife == 0 {
		state = progression.NeedsLifeRecovery
	}
	return &dto.TransitionResponse{
		UnitID: unitID, Stage: string(progression.StageMainGame),
		Level: view.level, State: string(state), Life: newLife, Queued: queued,
	}, nil
}

// RecoverLife refills main-game life to the cap after the reward video.
func (svc *ProgressionService) RecoverLife(ctx context.Context, parentID, childID, unitID string) (*dto.TransitionResponse, error) {
	release, err := svc.acquire(childID, progression.StageMainGame)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := svc.loadStage(ctx, parentID, childID, unitID, progression.StageMainGame)
	if err != nil {
		return nil, err
	}
	if !view.state.Exists {
		return nil, shared.NewBadRequestError(nil, "stage not started")
	}

	patch := progression.BuildLifeResetPatch(view.cfg, unitID, view.level, progression.MaxLife)
	queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "life_recovered", patch)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to recover life")
	}
	return &dto.TransitionResponse{
		UnitID: unitID, Stage: string(progression.StageMainGame),
		Level: view.level, State: string(progression.PlayableSameDay),
		Life: progression.MaxLife, Queued: queued,
	}, nil
}

// CompleteLevel marks the current level played today and stamps the date the
// next rollover comparison runs against. Completing an already-completed
// level is idempotent; the date stamp stays within the same day.
func (svc *ProgressionService) CompleteLevel(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind, gamePoints int) (*dto.TransitionResponse, error) {
	release, err := svc.acquire(childID, kind)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := svc.loadStage(ctx, parentID, childID, unitID, kind)
	if err != nil {
		return nil, err
	}
	if !view.state.Exists {
		return nil, shared.NewBadRequestError(nil, "stage not started")
	}
	if kind == progression.StageMainGame && !view.state.Played && view.state.Life <= 0 {
		return nil, shared.NewForbiddenError(nil, "no attempts left")
	}

	patch := progression.BuildMarkPlayedPatch(view.cfg, unitID, view.level, svc.clockSvc.Now())
	if kind == progression.StageMainGame && gamePoints > 0 {
		total := view.unit.MainGame.GamePoints + gamePoints
		patch = progression.MergePatches(patch, progression.BuildGamePointsPatch(unitID, total))
	}

	queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "level_completed", patch)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to complete level")
	}
	recordTransition(string(kind), "level_completed")

	state := progression.AwaitingQuizCompletion
	if view.quizDone {
		state = progression.CompletedNotYetAdvanceable
	}
	return &dto.TransitionResponse{
		UnitID: unitID, Stage: string(kind),
		Level: view.level, State: string(state),
		Life: view.state.Life, Queued: queued,
	}, nil
}

// AnswerQuiz grades one trivia answer and credits XP for a correct one.
// Answer grading never flips the quiz flag; CompleteQuiz does that once the
// client reports the round finished.
func (svc *ProgressionService) AnswerQuiz(ctx context.Context, parentID, childID string, questionID, answer string) (*dto.QuizAnswerResponse, error) {
	correct, points, err := svc.contentSvc.CheckAnswer(questionID, answer)
	if err != nil {
		return nil, err
	}

	resp := &dto.QuizAnswerResponse{Correct: correct, Points: points}
	if !correct {
		return resp, nil
	}

	doc, err := svc.snapSvc.Document(ctx, parentID, childID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to load progress")
	}
	score := doc.PointsScore
	score.XP += points
	queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "quiz_points", progression.BuildPointsScorePatch(score))
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to award points")
	}
	resp.Queued = queued
	return resp, nil
}

// CompleteQuiz flips the quiz-answered flag for the stage's current level,
// clearing the quiz gate ahead of the next day's advancement check.
func (svc *ProgressionService) CompleteQuiz(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*dto.TransitionResponse, error) {
	release, err := svc.acquire(childID, kind)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := svc.loadStage(ctx, parentID, childID, unitID, kind)
	if err != nil {
		return nil, err
	}
	if !view.state.Exists {
		return nil, shared.NewBadRequestError(nil, "stage not started")
	}

	patch := progression.BuildQuizCompletedPatch(unitID, view.cfg.QuizKey, view.level)
	queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "quiz_completed", patch)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to record quiz")
	}

	state := progression.CompletedNotYetAdvanceable
	if !view.state.Played {
		state = progression.PlayableSameDay
	}
	return &dto.TransitionResponse{
		UnitID: unitID, Stage: string(kind),
		Level: view.level, State: string(state),
		Life: view.state.Life, Queued: queued,
	}, nil
}

// Advance moves the stage to its next level when, and only when, the
// evaluator reports ReadyToAdvance: gameplay and quiz complete on a strictly
// earlier calendar day. Everything else comes back as a forbidden with the
// evaluator's state so clients can show the right prompt.
func (svc *ProgressionService) Advance(ctx context.Context, parentID, childID, unitID string, kind progression.StageKind) (*dto.AdvanceResponse, error) {
	release, err := svc.acquire(childID, kind)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := svc.loadStage(ctx, parentID, childID, unitID, kind)
	if err != nil {
		return nil, err
	}

	decision := svc.evaluate(parentID, childID, view)
	if decision.State != progression.ReadyToAdvance {
		return &dto.AdvanceResponse{
			UnitID: unitID, Stage: string(kind),
			PreviousLevel: view.level, Level: view.level,
			Advanced: false, State: string(decision.State),
		}, nil
	}

	next := view.level + 1
	if next > view.cfg.TerminalLevel {
		return &dto.AdvanceResponse{
			UnitID: unitID, Stage: string(kind),
			PreviousLevel: view.level, Level: view.level,
			Advanced: false, State: string(progression.AllLevelsExhausted),
		}, nil
	}

	trivia, err := svc.contentSvc.TriviaSet(string(kind), next)
	if err != nil {
		return nil, err
	}
	var words map[string]bool
	if kind == progression.StageVocabs {
		if words, err = svc.contentSvc.WordAvailability(next); err != nil {
			return nil, err
		}
	}

	patch := progression.BuildNextLevelData(view.cfg, unitID, next, svc.clockSvc.Now(), trivia, words)
	queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "level_advanced", patch)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to advance level")
	}
	recordTransition(string(kind), "level_advanced")

	return &dto.AdvanceResponse{
		UnitID: unitID, Stage: string(kind),
		PreviousLevel: view.level, Level: next,
		Advanced: true, State: string(progression.PlayableSameDay), Queued: queued,
	}, nil
}

// MarkPassEarned records a pass earned mid-session; it persists nothing until
// the client collects it.
func (svc *ProgressionService) MarkPassEarned(parentID, childID, unitID string, kind progression.PassKind) {
	svc.session(parentID, childID, unitID).MarkEarned(kind)
}

// CollectPass runs the pass ledger for the current main-game level: flips the
// collected flag if the pass was earned this session and not already banked,
// persists the flag plus whatever button unlocks the flip triggers, and
// credits the passes counter.
func (svc *ProgressionService) CollectPass(ctx context.Context, parentID, childID, unitID string, kind progression.PassKind) (*dto.CollectPassResponse, error) {
	release, err := svc.acquire(childID, progression.StageMainGame)
	if err != nil {
		return nil, err
	}
	defer release()

	doc, err := svc.snapSvc.Document(ctx, parentID, childID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to load progress")
	}

	unit := doc.UnitStageData[unitID]
	level := unit.MainGame.Level
	if level == 0 {
		return nil, shared.NewBadRequestError(nil, "stage not started")
	}
	entry, ok := unit.MainGame.Levels[progression.FormatLevelKey(level)]
	if !ok {
		return nil, shared.NewBadRequestError(nil, "stage not started")
	}

	sess := svc.session(parentID, childID, unitID)
	result := progression.RecordPassCollected(sess, unitID, &entry, kind)
	if !result.Collected {
		return &dto.CollectPassResponse{Kind: string(kind), Collected: false}, nil
	}

	patch := progression.BuildPassFlagsPatch(unitID, level, result.PatchFields)
	patch = progression.MergePatches(patch, progression.BuildButtonUnlockPatch(result.UnlockDeltas))

	score := doc.PointsScore
	score.Passes++
	patch = progression.MergePatches(patch, progression.BuildPointsScorePatch(score))

	queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "pass_collected", patch)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to record pass")
	}

	return &dto.CollectPassResponse{
		Kind:      string(kind),
		Collected: true,
		Unlocked:  result.UnlockDeltas,
		Queued:    queued,
	}, nil
}

// UpdateWords overwrites the vocabs availability map for the current level
// after a round, retiring the words just asked.
func (svc *ProgressionService) UpdateWords(ctx context.Context, parentID, childID, unitID string, words map[string]bool) (*dto.TransitionResponse, error) {
	release, err := svc.acquire(childID, progression.StageVocabs)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := svc.loadStage(ctx, parentID, childID, unitID, progression.StageVocabs)
	if err != nil {
		return nil, err
	}
	if !view.state.Exists {
		return nil, shared.NewBadRequestError(nil, "stage not started")
	}

	patch := progression.BuildWordsPatch(unitID, view.level, words)
	queued, err := svc.writerSvc.Submit(ctx, parentID, childID, "words_updated", patch)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to update words")
	}
	return &dto.TransitionResponse{
		UnitID: unitID, Stage: string(progression.StageVocabs),
		Level: view.level, State: string(progression.PlayableSameDay), Queued: queued,
	}, nil
}
