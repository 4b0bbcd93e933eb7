package services

import (
	"context"
	"sync"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/coinquest-app/quest_api/progression"
	"github.com/coinquest-app/quest_api/services/repositories"
)

// ProgressWriterService submits progression patches to the document store.
// Every submit is preceded by a connectivity probe; offline submits are
// persisted in the retry queue and replayed wholesale when connectivity
// returns. Replay is at-least-once with no dedup: replaying a merge patch
// twice writes the same leaves twice, which the store's merge semantics make
// harmless.
//
// The snapshot is updated optimistically before the write and never rolled
// back; on a post-probe write failure the divergence is logged and the patch
// queued, restoring eventual consistency on the next replay.
type ProgressWriterService struct {
	appContext.DefaultService

	fsSvc    *FirestoreService
	connSvc  *ConnectivityService
	snapSvc  *SnapshotService
	sqlSvc   *SqliteService
	retryRep *repositories.RetryRepository

	replayMu sync.Mutex
}

const WRITER_SVC = "writer_svc"

const replayBatchSize = 100

func (svc ProgressWriterService) Id() string {
	return WRITER_SVC
}

func (svc *ProgressWriterService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressWriterService) Start() error {
	svc.fsSvc = svc.Service(FIRESTORE_SVC).(*FirestoreService)
	svc.connSvc = svc.Service(CONNECTIVITY_SVC).(*ConnectivityService)
	svc.snapSvc = svc.Service(SNAPSHOT_SVC).(*SnapshotService)
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.retryRep = repositories.NewRetryRepository(svc.sqlSvc.Db())

	svc.connSvc.OnRestored(func() {
		svc.ReplayPending(context.Background())
	})

	return nil
}

// Submit applies a patch locally, then tries to persist it. queued=true
// means the store was unreachable (or the write failed) and the patch sits
// in the retry queue; gameplay continues against the optimistic snapshot.
func (svc *ProgressWriterService) Submit(ctx context.Context, parentID, childID, kind string, patch progression.Patch) (queued bool, err error) {
	if patch == nil {
		return false, nil
	}

	svc.snapSvc.ApplyLocal(ctx, parentID, childID, patch)

	if !svc.connSvc.Check(ctx) {
		svc.enqueue(parentID, childID, kind, patch)
		return true, nil
	}

	if err := svc.fsSvc.MergeSave(ctx, parentID, childID, patch); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"parent": parentID,
			"child":  childID,
			"kind":   kind,
		}).Error("Write failed after connectivity confirmed, snapshot diverges until replay")
		svc.enqueue(parentID, childID, kind, patch)
		return true, nil
	}

	return false, nil
}

func (svc *ProgressWriterService) enqueue(parentID, childID, kind string, patch progression.Patch) {
	raw, err := sonic.Marshal(patch)
	if err != nil {
		log.WithError(err).Error("Failed to serialize pending operation, dropping")
		return
	}
	if _, err := svc.retryRep.Enqueue(parentID, childID, kind, raw); err != nil {
		log.WithError(err).Error("Failed to enqueue pending operation")
		return
	}
	recordQueuedWrite()
	log.WithFields(log.Fields{
		"parent": parentID,
		"child":  childID,
		"kind":   kind,
	}).Info("Write queued for replay")
}

// ReplayPending fires the whole backlog against the store, oldest first.
// Failures stay queued for the next reconnect.
func (svc *ProgressWriterService) ReplayPending(ctx context.Context) {
	svc.replayMu.Lock()
	defer svc.replayMu.Unlock()

	ops, err := svc.retryRep.ListPending(replayBatchSize)
	if err != nil {
		log.WithError(err).Error("Failed to list pending operations")
		return
	}
	if len(ops) == 0 {
		return
	}

	log.WithField("count", len(ops)).Info("Replaying queued writes")
	for _, op := range ops {
		var patch map[string]interface{}
		if err := sonic.Unmarshal(op.Patch, &patch); err != nil {
			log.WithError(err).WithField("op", op.ID).Error("Corrupt pending operation, dropping")
			_ = svc.retryRep.Delete(op.ID)
			continue
		}

		if err := svc.fsSvc.MergeSave(ctx, op.ParentID, op.ChildID, patch); err != nil {
			recordReplay("failed")
			_ = svc.retryRep.MarkFailed(op.ID, err.Error())
			continue
		}
		recordReplay("success")
		_ = svc.retryRep.Delete(op.ID)
	}
}

// PendingCount exposes the backlog size for health reporting.
func (svc *ProgressWriterService) PendingCount() int64 {
	n, err := svc.retryRep.Count()
	if err != nil {
		return 0
	}
	return n
}
