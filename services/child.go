package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/progression"
	"github.com/coinquest-app/quest_api/shared"
)

// ChildService manages the child subdocuments under a parent account:
// creation with the one-time skeleton write, listing, and PIN checks for
// switching into a child's session.
type ChildService struct {
	appContext.DefaultService

	fsSvc     *FirestoreService
	snapSvc   *SnapshotService
	writerSvc *ProgressWriterService
}

const CHILD_SVC = "child_svc"

func (svc ChildService) Id() string {
	return CHILD_SVC
}

func (svc *ChildService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChildService) Start() error {
	svc.fsSvc = svc.Service(FIRESTORE_SVC).(*FirestoreService)
	svc.snapSvc = svc.Service(SNAPSHOT_SVC).(*SnapshotService)
	svc.writerSvc = svc.Service(WRITER_SVC).(*ProgressWriterService)
	return nil
}

// CreateChild writes the one-time document skeleton: profile, zeroed
// counters, and unit01 with only the lesson button unlocked. Everything else
// is created lazily on first play.
func (svc *ChildService) CreateChild(ctx context.Context, parentID string, req dto.CreateChildRequest) (*dto.ChildSummary, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to secure pin")
	}

	id, _ := uuid.NewV7()
	childID := id.String()

	skeleton := progression.BuildChildSkeleton(model.ChildProfile{
		Name:   req.Name,
		Grade:  req.Grade,
		Avatar: req.Avatar,
		Pin:    string(hash),
	})

	if _, err := svc.writerSvc.Submit(ctx, parentID, childID, "child_created", skeleton); err != nil {
		return nil, shared.NewInternalError(err, "failed to create child")
	}

	return &dto.ChildSummary{
		ChildID: childID,
		Name:    req.Name,
		Grade:   req.Grade,
		Avatar:  req.Avatar,
	}, nil
}

// ListChildren returns the summaries of every child under the parent.
func (svc *ChildService) ListChildren(ctx context.Context, parentID string) ([]dto.ChildSummary, error) {
	ids, err := svc.fsSvc.ListSubdocumentIds(ctx, parentID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to list children")
	}

	summaries := make([]dto.ChildSummary, 0, len(ids))
	for _, childID := range ids {
		doc, err := svc.snapSvc.Document(ctx, parentID, childID)
		if err != nil {
			continue
		}
		summaries = append(summaries, dto.ChildSummary{
			ChildID: childID,
			Name:    doc.Profile.Name,
			Grade:   doc.Profile.Grade,
			Avatar:  doc.Profile.Avatar,
		})
	}
	return summaries, nil
}

// GetChild returns the child's profile, counters and button state.
func (svc *ChildService) GetChild(ctx context.Context, parentID, childID string) (*dto.ChildResponse, error) {
	doc, err := svc.snapSvc.Document(ctx, parentID, childID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to load child")
	}
	if doc.Profile.Name == "" && len(doc.UnitStageBtnState) == 0 {
		return nil, shared.NewNotFoundError(nil, "child not found")
	}

	return &dto.ChildResponse{
		ChildID: childID,
		Name:    doc.Profile.Name,
		Grade:   doc.Profile.Grade,
		Avatar:  doc.Profile.Avatar,
		PointsScore: dto.PointsScoreResponse{
			XP:     doc.PointsScore.XP,
			Coins:  doc.PointsScore.Coins,
			Stars:  doc.PointsScore.Stars,
			Visits: doc.PointsScore.Visits,
			Passes: doc.PointsScore.Passes,
		},
		ButtonState: doc.UnitStageBtnState,
	}, nil
}

// VerifyPin checks a child-session PIN against the stored hash.
func (svc *ChildService) VerifyPin(ctx context.Context, parentID, childID, pin string) error {
	doc, err := svc.snapSvc.Document(ctx, parentID, childID)
	if err != nil {
		return shared.NewInternalError(err, "failed to load child")
	}
	if doc.Profile.Pin == "" {
		return shared.NewNotFoundError(nil, "child not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(doc.Profile.Pin), []byte(pin)); err != nil {
		return shared.NewUnauthorizedError(err, "incorrect pin")
	}
	return nil
}

// DeleteChild removes the child document and drops any cached snapshot.
func (svc *ChildService) DeleteChild(ctx context.Context, parentID, childID string) error {
	if err := svc.fsSvc.DeleteSubdocument(ctx, parentID, childID); err != nil {
		return shared.NewInternalError(err, "failed to delete child")
	}
	svc.snapSvc.Invalidate(ctx, parentID, childID)
	return nil
}
