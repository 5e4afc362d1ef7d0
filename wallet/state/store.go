package state

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/screwyprof/mixdelegator/pkg/clock"
	"github.com/screwyprof/mixdelegator/wallet/nym"
)

// Option configures the Store
// ------------------------------------------------
type Option func(*Store)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithRefreshInterval re-fetches a loaded list every d. Zero disables it.
// Failed fetches are never retried automatically.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Store) { s.refreshInterval = d }
}

type commandKind int

const (
	cmdSetNetwork commandKind = iota
	cmdRefresh
)

type command struct {
	kind    commandKind
	network string
	reply   chan State
}

type fetchResult struct {
	network    string
	generation uint64
	summary    nym.Summary
	err        error // wrapped with the failure kind
	cause      error // as returned by the collaborator
}

// Store is the single owner of the delegation state.
// Only the loop started by Start writes it; readers get snapshots.
// -----------------------------------------------------------------
type Store struct {
	api             SummaryClient
	clock           clock.Clock
	refreshInterval time.Duration

	events   chan Event
	commands chan command
	results  chan fetchResult
	done     chan struct{}
	snapshot atomic.Pointer[State]
	inflight sync.WaitGroup

	// owned by the loop goroutine
	cancelFetch context.CancelFunc
	tick        <-chan time.Time
	startedAt   time.Time
}

// NewStore constructs a Store for the given network.
// By default, it uses a real clock and no periodic refresh.
func NewStore(api SummaryClient, network string, opts ...Option) *Store {
	s := &Store{
		api:             api,
		clock:           clock.SystemClock{},
		refreshInterval: DefaultRefreshInterval,
		events:          make(chan Event, 10),
		commands:        make(chan command),
		results:         make(chan fetchResult),
		done:            make(chan struct{}),
		cancelFetch:     func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&State{Network: network, Status: StatusLoading})
	return s
}

// Start loads the list for the initial network and returns the events channel and done channel.
//
// Shutdown pattern:
//  1. Cancel context to request shutdown: cancel()
//  2. Store cancels in-flight fetches, emits StoreShutdown and closes events channel
//  3. Wait for complete shutdown: <-done
//
// Events must be drained (see NewSubscriber), otherwise the loop blocks once the buffer is full.
func (s *Store) Start(ctx context.Context) (<-chan Event, <-chan struct{}) {
	go func() {
		defer close(s.events)
		defer close(s.done)
		s.run(ctx)
	}()
	return s.events, s.done
}

// Snapshot returns the latest published state
func (s *Store) Snapshot() State {
	st := *s.snapshot.Load()
	st.Delegations = slices.Clone(st.Delegations)
	return st
}

// SetNetwork switches the active network and reloads the list.
// Selecting the current network is a no-op. Returns the state right after the switch.
func (s *Store) SetNetwork(ctx context.Context, network string) (State, error) {
	return s.send(ctx, command{kind: cmdSetNetwork, network: network})
}

// Refresh resets and reloads the list of the current network
func (s *Store) Refresh(ctx context.Context) (State, error) {
	return s.send(ctx, command{kind: cmdRefresh})
}

func (s *Store) send(ctx context.Context, cmd command) (State, error) {
	cmd.reply = make(chan State, 1)

	select {
	case s.commands <- cmd:
	case <-s.done:
		return State{}, ErrStoreStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}

	select {
	case st := <-cmd.reply:
		return st, nil
	case <-s.done:
		return State{}, ErrStoreStopped
	}
}

// run is the single writer loop
// -----------------------------
func (s *Store) run(ctx context.Context) {
	defer func() {
		s.cancelFetch()
		s.inflight.Wait()
	}()

	s.beginCycle(ctx, s.current().Network)

	for {
		select {
		case <-ctx.Done():
			s.events <- StoreShutdown{Reason: ctx.Err()}
			return
		case cmd := <-s.commands:
			s.handle(ctx, cmd)
		case res := <-s.results:
			s.complete(res)
		case <-s.tick:
			s.tick = nil
			if s.current().Status == StatusLoaded {
				s.beginCycle(ctx, s.current().Network)
			}
		}
	}
}

func (s *Store) handle(ctx context.Context, cmd command) {
	cur := s.current()

	switch cmd.kind {
	case cmdSetNetwork:
		if cmd.network == cur.Network {
			cmd.reply <- s.Snapshot()
			return
		}
		s.beginCycle(ctx, cmd.network)
	case cmdRefresh:
		s.beginCycle(ctx, cur.Network)
	}

	cmd.reply <- s.Snapshot()
}

// beginCycle resets the state to Loading under a new generation and launches one fetch
func (s *Store) beginCycle(ctx context.Context, network string) {
	s.cancelFetch()
	s.tick = nil

	generation := s.current().Generation + 1
	s.publish(&State{Network: network, Status: StatusLoading, Generation: generation})
	s.startedAt = s.clock.Now()

	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel

	s.inflight.Add(1)
	go s.fetch(fetchCtx, ctx.Done(), network, generation)

	s.events <- RefreshStarted{Network: network, Generation: generation, StartedAt: s.startedAt}
}

// fetch runs off the loop and hands its result back through s.results
func (s *Store) fetch(ctx context.Context, stop <-chan struct{}, network string, generation uint64) {
	defer s.inflight.Done()

	res := fetchResult{network: network, generation: generation}

	resp, err := s.api.GetDelegationSummary(ctx, network)
	if err != nil {
		res.cause = err
		res.err = fmt.Errorf("%w: %w", ErrSummaryFetch, err)
	} else {
		res.summary, res.err = convertSummary(resp)
		res.cause = res.err
	}

	select {
	case s.results <- res:
	case <-stop:
	}
}

func (s *Store) complete(res fetchResult) {
	cur := s.current()

	if res.generation != cur.Generation {
		s.events <- StaleResultDiscarded{Network: res.network, Generation: res.generation, Current: cur.Generation}
		return
	}

	s.cancelFetch()
	s.cancelFetch = func() {}
	duration := clock.Since(s.clock, s.startedAt)

	if res.err != nil {
		s.publish(&State{
			Network:    cur.Network,
			Status:     StatusError,
			Error:      failureMessage(res.cause),
			Generation: cur.Generation,
		})
		s.events <- RefreshFailed{Network: cur.Network, Generation: cur.Generation, Err: res.err, Duration: duration}
		return
	}

	s.publish(&State{
		Network:          cur.Network,
		Status:           StatusLoaded,
		Delegations:      res.summary.Delegations,
		TotalDelegations: res.summary.TotalDelegations.String(),
		TotalRewards:     res.summary.TotalRewards.String(),
		Generation:       cur.Generation,
	})
	if s.refreshInterval > 0 {
		s.tick = s.clock.After(s.refreshInterval)
	}
	s.events <- RefreshCompleted{
		Network:     cur.Network,
		Generation:  cur.Generation,
		Delegations: len(res.summary.Delegations),
		Duration:    duration,
	}
}

func (s *Store) current() *State {
	return s.snapshot.Load()
}

func (s *Store) publish(st *State) {
	s.snapshot.Store(st)
}

// Mutations are not supported by the wallet backend yet
// ------------------------------------------------------

func (s *Store) AddDelegation(_ context.Context, _ string, _ nym.Amount) (Transaction, error) {
	return Transaction{}, fmt.Errorf("%w: add delegation", ErrNotImplemented)
}

func (s *Store) UpdateDelegation(_ context.Context, _ string, _ nym.Amount) (Transaction, error) {
	return Transaction{}, fmt.Errorf("%w: update delegation", ErrNotImplemented)
}

func (s *Store) Undelegate(_ context.Context, _ string) (Transaction, error) {
	return Transaction{}, fmt.Errorf("%w: undelegate", ErrNotImplemented)
}

func (s *Store) RedeemRewards(_ context.Context, _ string) (Transaction, error) {
	return Transaction{}, fmt.Errorf("%w: redeem rewards", ErrNotImplemented)
}

func (s *Store) RedeemAllRewards(_ context.Context) (Transaction, error) {
	return Transaction{}, fmt.Errorf("%w: redeem all rewards", ErrNotImplemented)
}
