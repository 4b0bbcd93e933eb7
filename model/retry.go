package model

import (
	"encoding/json"
	"time"
)

// PendingOperation is a serialized merge-write that could not be submitted
// while the store was unreachable. Persisting descriptors instead of closures
// lets queued writes survive a process restart. Replay is at-least-once with
// no dedup, matching the store's merge semantics (replaying an identical
// patch is harmless).
type PendingOperation struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	ParentID   string          `json:"parent_id" gorm:"not null;index"`
	ChildID    string          `json:"child_id" gorm:"not null;index"`
	Kind       string          `json:"kind" gorm:"not null"` // initial_create, mark_played, advance, life_reset, pass_collect, quiz_complete
	Patch      json.RawMessage `json:"patch" gorm:"type:text;not null"`
	Attempts   int             `json:"attempts" gorm:"default:0;not null"`
	LastError  string          `json:"last_error" gorm:"type:text"`
	EnqueuedAt time.Time       `json:"enqueued_at" gorm:"not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
