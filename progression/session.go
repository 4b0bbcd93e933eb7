package progression

import "sync"

// SessionContext carries the per-session selection and pending-collection
// state that the legacy clients held in global statics. It is owned by the
// active stage flow and passed explicitly into the ledger; nothing here is
// persisted. Earn reports arrive on their own requests, so the pending map
// is guarded against concurrent earns and collects.
type SessionContext struct {
	ParentID string
	ChildID  string
	UnitID   string

	mu            sync.Mutex
	pendingEarned map[PassKind]bool
}

func NewSessionContext(parentID, childID, unitID string) *SessionContext {
	return &SessionContext{
		ParentID:      parentID,
		ChildID:       childID,
		UnitID:        unitID,
		pendingEarned: map[PassKind]bool{},
	}
}

// MarkEarned flags a pass as earned this session but not yet persisted.
func (s *SessionContext) MarkEarned(kind PassKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingEarned[kind] = true
}

func (s *SessionContext) Earned(kind PassKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingEarned[kind]
}

func (s *SessionContext) clearEarned(kind PassKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendingEarned, kind)
}
