package services

import (
	"context"
	"fmt"
	"io"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/coinquest-app/quest_api/dto"
	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/services/repositories"
	"github.com/coinquest-app/quest_api/shared"
)

// MediaService resolves lesson assets (videos, flashcard sheets, audio) into
// presigned object-store URLs and handles admin uploads.
type MediaService struct {
	appContext.DefaultService

	sqlSvc     *SqliteService
	minioSvc   *MinIOService
	contentRep *repositories.ContentRepository
}

const MEDIA_SVC = "media_svc"

const mediaURLExpiry = 15 * time.Minute

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	svc.contentRep = repositories.NewContentRepository(svc.sqlSvc.Db())
	return nil
}

// AssetURL returns a presigned download URL for a lesson asset.
func (svc *MediaService) AssetURL(ctx context.Context, unitID, stage string, level int, kind string) (*dto.MediaURLResponse, error) {
	asset, err := svc.contentRep.GetLessonAsset(unitID, stage, level, kind)
	if err != nil {
		return nil, shared.NewNotFoundError(svc.sqlSvc.HandleError(err), "asset not found")
	}

	url, err := svc.minioSvc.PresignedGetURL(ctx, asset.ObjectKey, mediaURLExpiry)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to resolve asset url")
	}

	return &dto.MediaURLResponse{
		URL:       url,
		ExpiresIn: int(mediaURLExpiry.Seconds()),
	}, nil
}

// UploadAsset stores a media object and registers it as the lesson asset for
// a unit, stage and level.
func (svc *MediaService) UploadAsset(unitID, stage string, level int, kind, mimeType string, reader io.Reader, size int64) (*model.LessonAsset, error) {
	id, _ := uuid.NewV7()
	objectKey := fmt.Sprintf("%s/%s/%02d/%s-%s", unitID, stage, level, kind, id.String())

	if _, err := svc.minioSvc.UploadFile(objectKey, reader, size, mimeType); err != nil {
		return nil, shared.NewInternalError(err, "failed to store asset")
	}

	asset := &model.LessonAsset{
		ID:         id.String(),
		UnitID:     unitID,
		Stage:      stage,
		Level:      level,
		Kind:       kind,
		ObjectKey:  objectKey,
		MimeType:   mimeType,
		SizeBytes:  size,
		UploadedAt: time.Now(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := svc.contentRep.CreateLessonAsset(asset); err != nil {
		return nil, shared.NewInternalError(svc.sqlSvc.HandleError(err), "failed to register asset")
	}

	return asset, nil
}

func (svc *MediaService) DeleteAsset(assetID string) error {
	var asset model.LessonAsset
	if err := svc.contentRep.DB().Where("id = ?", assetID).First(&asset).Error; err != nil {
		return shared.NewNotFoundError(svc.sqlSvc.HandleError(err), "asset not found")
	}
	if err := svc.minioSvc.DeleteFile(asset.ObjectKey); err != nil {
		return shared.NewInternalError(err, "failed to delete object")
	}
	if err := svc.contentRep.DeleteLessonAsset(assetID); err != nil {
		return shared.NewInternalError(svc.sqlSvc.HandleError(err), "failed to delete asset")
	}
	return nil
}
