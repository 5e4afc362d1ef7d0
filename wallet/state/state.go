// Package state owns the delegation list of the active network and its refresh lifecycle.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/nym"
)

// Sentinel errors for failure cases
var (
	ErrStoreStopped   = errors.New("delegation store stopped")
	ErrSummaryFetch   = errors.New("delegation summary fetch failed")
	ErrInvalidSummary = errors.New("invalid delegation summary")
	ErrNotImplemented = errors.New("not implemented")
)

// Status tags the lifecycle phase of the state
type Status string

const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// State is an immutable snapshot of the delegation context.
// Delegations and totals are only set when Loaded, Error only when Error.
type State struct {
	Network          string
	Status           Status
	Error            string
	Delegations      []nym.Delegation
	TotalDelegations string
	TotalRewards     string
	Generation       uint64
}

func (s State) IsLoading() bool { return s.Status == StatusLoading }

// Transaction is the receipt of a signing operation
type Transaction struct {
	URL string
}

// SummaryClient fetches the delegation summary of a network
// ---------------------------------------------------------
type SummaryClient interface {
	GetDelegationSummary(ctx context.Context, network string) (nymapi.DelegationsSummaryResponse, error)
}

// Default configuration values
const (
	DefaultRefreshInterval = time.Duration(0) // periodic refresh disabled
)

// Event represents a store lifecycle event
// ----------------------------------------
type Event any

type RefreshStarted struct {
	Network    string
	Generation uint64
	StartedAt  time.Time
}

type RefreshCompleted struct {
	Network     string
	Generation  uint64
	Delegations int
	Duration    time.Duration
}

type RefreshFailed struct {
	Network    string
	Generation uint64
	Err        error
	Duration   time.Duration
}

// StaleResultDiscarded is emitted when a fetch finishes after a newer cycle began
type StaleResultDiscarded struct {
	Network    string
	Generation uint64
	Current    uint64
}

type StoreShutdown struct {
	Reason error // ctx.Err()
}
