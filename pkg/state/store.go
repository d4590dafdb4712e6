package state

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// ErrClosed is returned once the store has been closed.
var ErrClosed = errors.New("state store closed")

const queueTimeout = 2 * time.Second

// dispatch envelopes an action for the store goroutine.
type dispatch struct {
	action Action
	reply  chan State
}

// snapshotQuery asks the store goroutine for the current state.
type snapshotQuery struct {
	reply chan State
}

// Store owns the state on a single goroutine. Every change goes through
// Dispatch, so actions are applied one at a time in arrival order.
type Store struct {
	actions   chan dispatch
	snapshots chan snapshotQuery
	quit      chan struct{}
	closeOnce sync.Once
	state     State
	logger    *zap.Logger
}

// NewStore starts the store goroutine with initial as the first state.
func NewStore(initial State, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		actions:   make(chan dispatch),
		snapshots: make(chan snapshotQuery),
		quit:      make(chan struct{}),
		state:     initial,
		logger:    logger,
	}
	go s.loop()
	return s
}

func (s *Store) loop() {
	for {
		select {
		case d := <-s.actions:
			s.state = Reduce(s.state, d.action)
			s.logger.Debug("action applied",
				zap.String("action", Name(d.action)),
				zap.Bool("screen_loading", s.state.ScreenLoading()),
				zap.Uint64("cart_applied", s.state.cartApplied))
			d.reply <- s.state
		case q := <-s.snapshots:
			q.reply <- s.state
		case <-s.quit:
			return
		}
	}
}

// Dispatch applies a and returns the state right after it.
func (s *Store) Dispatch(ctx context.Context, a Action) (State, error) {
	reply := make(chan State, 1)
	select {
	case s.actions <- dispatch{action: a, reply: reply}:
	case <-s.quit:
		return State{}, ErrClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-time.After(queueTimeout):
		return State{}, errors.Errorf("state store busy, dropped %s", Name(a))
	}
	return <-reply, nil
}

// Snapshot returns the current state.
func (s *Store) Snapshot(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	select {
	case s.snapshots <- snapshotQuery{reply: reply}:
	case <-s.quit:
		return State{}, ErrClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-time.After(queueTimeout):
		return State{}, errors.New("state store busy")
	}
	return <-reply, nil
}

// Close stops the store goroutine. Later calls are no-ops.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
}
