package services

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreService is the progress document store. Child documents live at
// parent/{parentId}/children/{childId} and are only ever merge-patched after
// creation.
//
// Absence is not an error here: missing documents and fields come back as an
// empty map so callers can treat "never played" uniformly.
type FirestoreService struct {
	appContext.DefaultService

	client *firestore.Client

	projectID       string
	credentialsFile string
}

const FIRESTORE_SVC = "firestore_svc"

const (
	ParentCollection   = "parent"
	ChildrenCollection = "children"
)

func (svc FirestoreService) Id() string {
	return FIRESTORE_SVC
}

func (svc *FirestoreService) Configure(ctx *appContext.Context) error {
	svc.projectID = os.Getenv("FIREBASE_PROJECT_ID")
	svc.credentialsFile = os.Getenv("FIREBASE_CREDENTIALS_FILE")

	return svc.DefaultService.Configure(ctx)
}

func (svc *FirestoreService) Start() error {
	ctx := context.Background()

	conf := &firebase.Config{ProjectID: svc.projectID}

	var opts []option.ClientOption
	if svc.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(svc.credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return err
	}

	svc.client, err = app.Firestore(ctx)
	if err != nil {
		return err
	}

	log.WithField("project", svc.projectID).Info("Firestore connected")
	return nil
}

func (svc *FirestoreService) Shutdown() {
	if svc.client != nil {
		_ = svc.client.Close()
	}
}

func (svc *FirestoreService) childRef(parentID, childID string) *firestore.DocumentRef {
	return svc.client.Collection(ParentCollection).Doc(parentID).
		Collection(ChildrenCollection).Doc(childID)
}

// ReadSubdocument fetches a full child document. A missing document returns
// an empty map, not an error.
func (svc *FirestoreService) ReadSubdocument(ctx context.Context, parentID, childID string) (map[string]interface{}, error) {
	snap, err := svc.childRef(parentID, childID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	return snap.Data(), nil
}

// ReadField fetches one top-level field of a child document. Missing
// document or field returns an empty map.
func (svc *FirestoreService) ReadField(ctx context.Context, parentID, childID, fieldName string) (map[string]interface{}, error) {
	snap, err := svc.childRef(parentID, childID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}

	value, err := snap.DataAt(fieldName)
	if err != nil {
		return map[string]interface{}{}, nil
	}
	if m, ok := value.(map[string]interface{}); ok {
		return m, nil
	}
	return map[string]interface{}{fieldName: value}, nil
}

// ListSubdocumentIds enumerates the child ids under a parent.
func (svc *FirestoreService) ListSubdocumentIds(ctx context.Context, parentID string) ([]string, error) {
	iter := svc.client.Collection(ParentCollection).Doc(parentID).
		Collection(ChildrenCollection).DocumentRefs(ctx)

	var ids []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

// MergeSave deep-merges a patch into a child document, preserving sibling
// fields not present in the patch. One call covers all fields changed by a
// transition; there is no cross-call transactionality.
func (svc *FirestoreService) MergeSave(ctx context.Context, parentID, childID string, patch map[string]interface{}) error {
	_, err := svc.childRef(parentID, childID).Set(ctx, patch, firestore.MergeAll)
	return err
}

// DeleteSubdocument removes a child document; used only when a child profile
// is deleted.
func (svc *FirestoreService) DeleteSubdocument(ctx context.Context, parentID, childID string) error {
	_, err := svc.childRef(parentID, childID).Delete(ctx)
	return err
}
