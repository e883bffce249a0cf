// ABOUTME: Push-based subscriptions to the history listing.
// ABOUTME: Each subscriber holds at most one pending listing; newer listings replace older ones.
package history

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/bmi/internal/models"
)

// Subscription delivers the newest-first listing after every completed write.
type Subscription struct {
	ID uuid.UUID

	store *Store
	ch    chan []models.Record
	done  chan struct{}
	once  sync.Once
}

// Subscribe registers a listener. The current listing is delivered
// immediately. The subscription ends when ctx is done or Close is called.
func (s *Store) Subscribe(ctx context.Context) *Subscription {
	sub := &Subscription{
		ID:    uuid.New(),
		store: s,
		ch:    make(chan []models.Record, 1),
		done:  make(chan struct{}),
	}

	s.mu.Lock()
	s.subMu.Lock()
	s.subs[sub.ID] = sub
	sub.offer(s.copyLocked())
	s.subMu.Unlock()
	s.mu.Unlock()

	s.log.Debug("subscribed", "id", sub.ID)

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()

	return sub
}

// C returns the delivery channel. It is closed when the subscription ends.
func (sub *Subscription) C() <-chan []models.Record {
	return sub.ch
}

// Done is closed when the subscription ends.
func (sub *Subscription) Done() <-chan struct{} {
	return sub.done
}

// Close unregisters the subscription and closes its channel.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.store.subMu.Lock()
		delete(sub.store.subs, sub.ID)
		close(sub.ch)
		sub.store.subMu.Unlock()

		close(sub.done)
		sub.store.log.Debug("unsubscribed", "id", sub.ID)
	})
}

// offer replaces any undelivered listing with list. Callers hold subMu.
func (sub *Subscription) offer(list []models.Record) {
	select {
	case sub.ch <- list:
		return
	default:
	}
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- list:
	default:
	}
}

// publishLocked pushes the cached listing to every subscriber. Callers hold mu.
func (s *Store) publishLocked() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, sub := range s.subs {
		sub.offer(s.copyLocked())
	}
}

// SubscriberCount returns the number of live subscriptions.
func (s *Store) SubscriberCount() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}
