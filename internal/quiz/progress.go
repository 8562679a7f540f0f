package quiz

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// Persistence layout: two key families under one namespace prefix.
//   pc_progress_<nodeID>        -> current question index, decimal string
//   pc_answered_<nodeID>_<idx>  -> literal "1" once answered correctly
// Keys are a pure function of (prefix, nodeID[, idx]); the profile ID is the
// storage-medium partition, not part of the key.
const keyPrefix = "pc_"

func progressKey(nodeID string) string {
	return keyPrefix + "progress_" + nodeID
}

func answeredKey(nodeID string, idx int) string {
	return keyPrefix + "answered_" + nodeID + "_" + strconv.Itoa(idx)
}

// Store persists per-profile quiz progress. Reads are fail-soft: absent or
// unparseable values come back as the zero default, never as an error.
// CurrentIndex returns the raw stored value; clamping against the current
// question count is the renderer's read-time responsibility.
type Store interface {
	CurrentIndex(ctx context.Context, profileID, nodeID string) int
	SetCurrentIndex(ctx context.Context, profileID, nodeID string, idx int) error
	IsAnswered(ctx context.Context, profileID, nodeID string, idx int) bool
	SetAnswered(ctx context.Context, profileID, nodeID string, idx int) error
	// ClearAnswered removes the answered flag for every index in
	// [0, questionCount).
	ClearAnswered(ctx context.Context, profileID, nodeID string, questionCount int) error
	// Reset returns the node to its defaults: index 0, nothing answered.
	Reset(ctx context.Context, profileID, nodeID string, questionCount int) error
}

func parseIndex(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// MemoryStore is an in-process Store for tests and ephemeral deployments.
type MemoryStore struct {
	mu sync.RWMutex
	kv map[string]string // profileID + "\x00" + key
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{kv: map[string]string{}}
}

func (s *MemoryStore) get(profileID, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.kv[profileID+"\x00"+key]
	return v, ok
}

func (s *MemoryStore) set(profileID, key, val string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[profileID+"\x00"+key] = val
}

func (s *MemoryStore) delete(profileID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, profileID+"\x00"+key)
}

func (s *MemoryStore) CurrentIndex(_ context.Context, profileID, nodeID string) int {
	raw, ok := s.get(profileID, progressKey(nodeID))
	if !ok {
		return 0
	}
	return parseIndex(raw)
}

func (s *MemoryStore) SetCurrentIndex(_ context.Context, profileID, nodeID string, idx int) error {
	s.set(profileID, progressKey(nodeID), strconv.Itoa(idx))
	return nil
}

func (s *MemoryStore) IsAnswered(_ context.Context, profileID, nodeID string, idx int) bool {
	v, _ := s.get(profileID, answeredKey(nodeID, idx))
	return v == "1"
}

func (s *MemoryStore) SetAnswered(_ context.Context, profileID, nodeID string, idx int) error {
	s.set(profileID, answeredKey(nodeID, idx), "1")
	return nil
}

func (s *MemoryStore) ClearAnswered(_ context.Context, profileID, nodeID string, questionCount int) error {
	for i := 0; i < questionCount; i++ {
		s.delete(profileID, answeredKey(nodeID, i))
	}
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context, profileID, nodeID string, questionCount int) error {
	if err := s.SetCurrentIndex(ctx, profileID, nodeID, 0); err != nil {
		return err
	}
	return s.ClearAnswered(ctx, profileID, nodeID, questionCount)
}
