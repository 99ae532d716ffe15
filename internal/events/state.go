package events

import (
	"sync"

	"github.com/vadiminshakov/keltra/internal/domain"
)

// StateBroadcaster fans out application-state snapshots to all subscribers
// via buffered channels. The vaultapp container publishes only when a
// mutation or scheduler tick actually changed state, so subscribers never
// see redundant snapshots.
type StateBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan domain.AppState]struct{}
	buffer int
}

// NewStateBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewStateBroadcaster(buffer int) *StateBroadcaster {
	if buffer < 1 {
		buffer = 64
	}
	return &StateBroadcaster{
		subs:   make(map[chan domain.AppState]struct{}),
		buffer: buffer,
	}
}

// Publish sends the snapshot to all subscribers, dropping if a reader is slow.
func (b *StateBroadcaster) Publish(s domain.AppState) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- s:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives snapshots until Unsubscribe is called.
func (b *StateBroadcaster) Subscribe() chan domain.AppState {
	ch := make(chan domain.AppState, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *StateBroadcaster) Unsubscribe(ch chan domain.AppState) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
