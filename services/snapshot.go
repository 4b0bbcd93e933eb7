package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/progression"
)

// SnapshotService holds the last-fetched copy of each child's progress
// document. Reads go memory -> redis -> store; Invalidate forces the next
// read through to the store. After a successful (or optimistically assumed)
// write the caller merges the patch locally so the snapshot leads the store
// rather than lagging it.
type SnapshotService struct {
	appContext.DefaultService

	fsSvc    *FirestoreService
	redisSvc *RedisService

	mu    sync.RWMutex
	cache map[string]map[string]interface{}
}

const SNAPSHOT_SVC = "snapshot_svc"

const snapshotTTL = 5 * time.Minute

func (svc SnapshotService) Id() string {
	return SNAPSHOT_SVC
}

func (svc *SnapshotService) Configure(ctx *appContext.Context) error {
	svc.cache = map[string]map[string]interface{}{}
	return svc.DefaultService.Configure(ctx)
}

func (svc *SnapshotService) Start() error {
	svc.fsSvc = svc.Service(FIRESTORE_SVC).(*FirestoreService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func cacheKey(parentID, childID string) string {
	return fmt.Sprintf("snapshot:%s:%s", parentID, childID)
}

// Get returns the child's full document, loading it on first access. Missing
// documents come back as an empty map ("never played"), not an error.
func (svc *SnapshotService) Get(ctx context.Context, parentID, childID string) (map[string]interface{}, error) {
	key := cacheKey(parentID, childID)

	svc.mu.RLock()
	doc, ok := svc.cache[key]
	svc.mu.RUnlock()
	if ok {
		return doc, nil
	}

	if cached, err := svc.redisSvc.Get(ctx, key); err == nil && cached != "" {
		var doc map[string]interface{}
		if err := sonic.Unmarshal([]byte(cached), &doc); err == nil {
			svc.mu.Lock()
			svc.cache[key] = doc
			svc.mu.Unlock()
			return doc, nil
		}
	}

	doc, err := svc.fsSvc.ReadSubdocument(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}

	svc.store(ctx, key, doc)
	return doc, nil
}

// Document returns the typed view of the child's snapshot.
func (svc *SnapshotService) Document(ctx context.Context, parentID, childID string) (*model.ChildProgressDocument, error) {
	raw, err := svc.Get(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	return model.DecodeChildDocument(raw)
}

// GetField walks a path into the snapshot. A missing segment returns an
// empty map sentinel, never an error: callers index into the result without
// existence checks and rely on that.
func (svc *SnapshotService) GetField(ctx context.Context, parentID, childID string, path ...string) map[string]interface{} {
	doc, err := svc.Get(ctx, parentID, childID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"parent": parentID,
			"child":  childID,
		}).Warn("Snapshot load failed, returning empty field")
		return map[string]interface{}{}
	}

	cur := doc
	for _, segment := range path {
		next, ok := cur[segment].(map[string]interface{})
		if !ok {
			return map[string]interface{}{}
		}
		cur = next
	}
	return cur
}

// Invalidate drops the cached copies so the next read goes to the store.
func (svc *SnapshotService) Invalidate(ctx context.Context, parentID, childID string) {
	key := cacheKey(parentID, childID)

	svc.mu.Lock()
	delete(svc.cache, key)
	svc.mu.Unlock()

	if err := svc.redisSvc.Del(ctx, key); err != nil {
		log.WithError(err).Debug("Snapshot redis invalidation failed")
	}
}

// ApplyLocal merges a submitted patch into the cached copy. Called after
// every write, including ones queued offline: the snapshot is deliberately
// optimistic and is not rolled back on write failure.
func (svc *SnapshotService) ApplyLocal(ctx context.Context, parentID, childID string, patch progression.Patch) {
	key := cacheKey(parentID, childID)

	svc.mu.Lock()
	doc, ok := svc.cache[key]
	if !ok {
		doc = map[string]interface{}{}
	}
	doc = mergeValueTree(doc, patch)
	svc.cache[key] = doc
	svc.mu.Unlock()

	svc.storeRedis(ctx, key, doc)
}

func (svc *SnapshotService) store(ctx context.Context, key string, doc map[string]interface{}) {
	svc.mu.Lock()
	svc.cache[key] = doc
	svc.mu.Unlock()

	svc.storeRedis(ctx, key, doc)
}

func (svc *SnapshotService) storeRedis(ctx context.Context, key string, doc map[string]interface{}) {
	b, err := sonic.Marshal(doc)
	if err != nil {
		return
	}
	if err := svc.redisSvc.Set(ctx, key, b, snapshotTTL); err != nil {
		log.WithError(err).Debug("Snapshot redis store failed")
	}
}

// mergeValueTree deep-merges patch into doc, mirroring the store's
// merge-save semantics so the local copy converges to what the store holds.
func mergeValueTree(doc map[string]interface{}, patch map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range doc {
		out[k] = v
	}
	for k, v := range patch {
		pv := toValueMap(v)
		if pv == nil {
			out[k] = v
			continue
		}
		dv, ok := out[k].(map[string]interface{})
		if !ok {
			out[k] = pv
			continue
		}
		out[k] = mergeValueTree(dv, pv)
	}
	return out
}

func toValueMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case progression.Patch:
		return map[string]interface{}(m)
	case map[string]bool:
		out := make(map[string]interface{}, len(m))
		for k, b := range m {
			out[k] = b
		}
		return out
	}
	return nil
}
