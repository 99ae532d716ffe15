// Package claims persists claim events in a write-ahead log. The journal is
// an append-only audit trail: wallet and position state stay in memory and
// are never restored from it.
package claims

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/keltra/internal/domain"
)

const (
	defaultJournalDir   = "./wal/claims"
	journalSegmentLimit = 1000
	journalMaxSegments  = 100
	journalKeyPrefix    = "claim_"
)

// WALStore is the WAL-backed claim journal.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes the claim journal under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultJournalDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "journal_",
		SegmentThreshold: journalSegmentLimit,
		MaxSegments:      journalMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init claim journal WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the claim event to the journal.
func (s *WALStore) Save(event domain.ClaimEvent) error {
	if s == nil || s.wal == nil {
		return errors.New("claim journal is not initialized")
	}
	if event.VaultID == "" {
		return fmt.Errorf("claim event vault id is required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal claim event")
	}

	key := fmt.Sprintf("%s%s", journalKeyPrefix, event.VaultID)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// EventsAfter returns all claim events written after the provided WAL index.
func (s *WALStore) EventsAfter(index uint64) ([]domain.ClaimRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("claim journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.ClaimRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, journalKeyPrefix) {
			continue
		}
		var event domain.ClaimEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "decode claim event")
		}
		records = append(records, domain.ClaimRecord{
			Index: idx,
			Event: event,
		})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("claim journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
