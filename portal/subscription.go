package portal

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/event"
)

// Watcher can stream NewWave events
type Watcher interface {
	WatchNewWave(ctx context.Context, sink chan<- *NewWave) (event.Subscription, error)
}

// Subscription owns a live NewWave feed for the lifetime of the UI. Events
// come out of Events as Waves; the channel is closed once the feed ends,
// after which Err reports why (nil for Close).
type Subscription struct {
	events chan Wave
	cancel context.CancelFunc
	sub    event.Subscription
	done   chan struct{}

	once sync.Once
	mu   sync.Mutex
	err  error
}

// Subscribe acquires a NewWave feed from w. If setup fails nothing is left
// running.
func Subscribe(ctx context.Context, w Watcher) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	sink := make(chan *NewWave, 16)

	sub, err := w.WatchNewWave(ctx, sink)
	if err != nil {
		cancel()
		return nil, err
	}

	s := &Subscription{
		events: make(chan Wave, 16),
		cancel: cancel,
		sub:    sub,
		done:   make(chan struct{}),
	}
	go s.loop(ctx, sink)
	return s, nil
}

func (s *Subscription) loop(ctx context.Context, sink <-chan *NewWave) {
	defer close(s.events)
	defer close(s.done)
	for {
		select {
		case ev := <-sink:
			select {
			case s.events <- ev.Wave():
			case <-ctx.Done():
				return
			}
		case err, ok := <-s.sub.Err():
			if ok && err != nil {
				s.setErr(err)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

// Events delivers one Wave per NewWave event, in arrival order
func (s *Subscription) Events() <-chan Wave { return s.events }

// Err returns the error that ended the feed, if any
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Close releases the feed and waits for its goroutine. Safe to call more
// than once and on a nil Subscription.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.cancel()
		s.sub.Unsubscribe()
		<-s.done
	})
}
