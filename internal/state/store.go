package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/numdeck/numdeck/internal/sheet"
)

// Snapshot represents the latest sheet data available to the UI.
type Snapshot struct {
	Rows                []sheet.Number
	Pending             map[sheet.Key]bool
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
	DuplicateKeys       int // Rows in the last snapshot sharing a composite key
}

// IsOffline returns true when the sheet service has been unreachable for
// multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// IsPending reports whether the key has an edit in flight.
func (s Snapshot) IsPending(key sheet.Key) bool {
	return s.Pending[key]
}

// Row resolves a key against the snapshot rows, honoring the
// later-row-wins rule for duplicated keys.
func (s Snapshot) Row(key sheet.Key) (sheet.Number, bool) {
	for i := len(s.Rows) - 1; i >= 0; i-- {
		if s.Rows[i].Key() == key {
			return s.Rows[i], true
		}
	}
	return sheet.Number{}, false
}

// Store coordinates concurrent updates to the sheet snapshot. The sync
// scheduler replaces rows wholesale; the edit coordinator mutates single
// rows optimistically. Both go through one mutex so every step is an
// atomic read-modify-write.
type Store struct {
	mu          sync.RWMutex
	rows        []sheet.Number
	index       map[sheet.Key]int
	pending     map[sheet.Key]bool
	hasData     bool
	lastUpdated time.Time
	lastError   error
	failures    int
	duplicates  int
}

// Replace installs a fresh snapshot: rows are copied in wholesale, the
// pending set is cleared (the new snapshot is authoritative and already
// reflects confirmed edits), failures reset, and the key index rebuilds.
// Duplicated composite keys are returned so the caller can log them; the
// index keeps the later row for each.
func (s *Store) Replace(rows []sheet.Number) []sheet.Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = cloneRows(rows)
	s.index = make(map[sheet.Key]int, len(s.rows))
	var dups []sheet.Key
	for i, row := range s.rows {
		key := row.Key()
		if _, seen := s.index[key]; seen {
			dups = append(dups, key)
		}
		s.index[key] = i
	}
	s.pending = nil
	s.duplicates = len(dups)
	s.hasData = true
	s.lastError = nil
	s.lastUpdated = time.Now()
	s.failures = 0
	return dups
}

// Fail records a refresh failure. Previous rows are kept so the UI can
// keep showing the last good data. Returns the consecutive failure count,
// which callers use to notify only on the first failure of an outage.
func (s *Store) Fail(err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastError = err
	s.lastUpdated = time.Now()
	s.failures++
	return s.failures
}

// BeginEdit atomically gates and applies an optimistic edit. If the key is
// already pending or no longer resolves to a row, nothing changes and ok
// is false. Otherwise the row's status becomes next, the key is marked
// pending, and prev carries the status to restore on rollback.
func (s *Store) BeginEdit(key sheet.Key, next sheet.Status) (prev sheet.Status, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending[key] {
		return "", false
	}
	i, found := s.index[key]
	if !found {
		return "", false
	}
	if s.pending == nil {
		s.pending = make(map[sheet.Key]bool)
	}
	prev = s.rows[i].Status
	s.rows[i].Status = next
	s.pending[key] = true
	return prev, true
}

// FinishEdit clears the pending mark after the remote accepted the edit.
// The optimistic status stays; the follow-up refresh reconciles it.
func (s *Store) FinishEdit(key sheet.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, key)
}

// RevertEdit rolls back a failed edit: the pending mark is cleared and the
// pre-edit status restored. When a refresh already replaced the snapshot
// the pending mark is gone and the optimistic value with it, so the fresh
// data stands untouched.
func (s *Store) RevertEdit(key sheet.Key, prev sheet.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending[key] {
		return
	}
	delete(s.pending, key)
	if i, found := s.index[key]; found {
		s.rows[i].Status = prev
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Rows:                cloneRows(s.rows),
		Pending:             clonePending(s.pending),
		HasData:             s.hasData,
		LastUpdated:         s.lastUpdated,
		ConsecutiveFailures: s.failures,
		DuplicateKeys:       s.duplicates,
	}
	if s.lastError != nil {
		snap.LastError = fmt.Errorf("%w", s.lastError)
	}
	return snap
}

func cloneRows(rows []sheet.Number) []sheet.Number {
	if len(rows) == 0 {
		return nil
	}
	dup := make([]sheet.Number, len(rows))
	copy(dup, rows)
	return dup
}

func clonePending(pending map[sheet.Key]bool) map[sheet.Key]bool {
	if len(pending) == 0 {
		return nil
	}
	dup := make(map[sheet.Key]bool, len(pending))
	for k, v := range pending {
		dup[k] = v
	}
	return dup
}
