package state

// Subscriber handles event subscriptions.
type Subscriber struct {
	done             chan struct{}
	startedHandler   func(RefreshStarted)
	completedHandler func(RefreshCompleted)
	failedHandler    func(RefreshFailed)
	staleHandler     func(StaleResultDiscarded)
	shutdownHandler  func(StoreShutdown)
}

// OnRefreshStarted sets the handler for RefreshStarted events
func OnRefreshStarted(fn func(RefreshStarted)) func(*Subscriber) {
	return func(s *Subscriber) { s.startedHandler = fn }
}

// OnRefreshCompleted sets the handler for RefreshCompleted events
func OnRefreshCompleted(fn func(RefreshCompleted)) func(*Subscriber) {
	return func(s *Subscriber) { s.completedHandler = fn }
}

// OnRefreshFailed sets the handler for RefreshFailed events
func OnRefreshFailed(fn func(RefreshFailed)) func(*Subscriber) {
	return func(s *Subscriber) { s.failedHandler = fn }
}

// OnStaleResultDiscarded sets the handler for StaleResultDiscarded events
func OnStaleResultDiscarded(fn func(StaleResultDiscarded)) func(*Subscriber) {
	return func(s *Subscriber) { s.staleHandler = fn }
}

// OnStoreShutdown sets the handler for StoreShutdown events
func OnStoreShutdown(fn func(StoreShutdown)) func(*Subscriber) {
	return func(s *Subscriber) { s.shutdownHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and starts the dispatch loop.
// Returns a closer function that waits for all events to be processed.
//
// Example:
//
//	closer := state.NewSubscriber(events,
//	  state.OnRefreshFailed(func(e state.RefreshFailed) { ... }),
//	)
//	defer closer()
//
// Handlers run on the dispatch goroutine and must not call Store commands synchronously.
func NewSubscriber(events <-chan Event, opts ...func(*Subscriber)) func() {
	s := &Subscriber{
		done:             make(chan struct{}),
		startedHandler:   func(RefreshStarted) {},       // nop by default
		completedHandler: func(RefreshCompleted) {},     // nop by default
		failedHandler:    func(RefreshFailed) {},        // nop by default
		staleHandler:     func(StaleResultDiscarded) {}, // nop by default
		shutdownHandler:  func(StoreShutdown) {},        // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	go func() {
		defer close(s.done)
		for ev := range events {
			switch e := ev.(type) {
			case RefreshStarted:
				s.startedHandler(e)
			case RefreshCompleted:
				s.completedHandler(e)
			case RefreshFailed:
				s.failedHandler(e)
			case StaleResultDiscarded:
				s.staleHandler(e)
			case StoreShutdown:
				s.shutdownHandler(e)
			}
		}
	}()

	return func() {
		<-s.done
	}
}

// Chain combines several option lists so independent consumers can share one events channel
func Chain(groups ...[]func(*Subscriber)) []func(*Subscriber) {
	return []func(*Subscriber){func(s *Subscriber) {
		merged := &Subscriber{}
		for _, group := range groups {
			for _, opt := range group {
				scratch := &Subscriber{}
				opt(scratch)
				merge(merged, scratch)
			}
		}
		apply(s, merged)
	}}
}

func merge(dst, src *Subscriber) {
	dst.startedHandler = both(dst.startedHandler, src.startedHandler)
	dst.completedHandler = both(dst.completedHandler, src.completedHandler)
	dst.failedHandler = both(dst.failedHandler, src.failedHandler)
	dst.staleHandler = both(dst.staleHandler, src.staleHandler)
	dst.shutdownHandler = both(dst.shutdownHandler, src.shutdownHandler)
}

func apply(dst, src *Subscriber) {
	if src.startedHandler != nil {
		dst.startedHandler = src.startedHandler
	}
	if src.completedHandler != nil {
		dst.completedHandler = src.completedHandler
	}
	if src.failedHandler != nil {
		dst.failedHandler = src.failedHandler
	}
	if src.staleHandler != nil {
		dst.staleHandler = src.staleHandler
	}
	if src.shutdownHandler != nil {
		dst.shutdownHandler = src.shutdownHandler
	}
}

func both[E any](first, second func(E)) func(E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	default:
		return func(e E) {
			first(e)
			second(e)
		}
	}
}
