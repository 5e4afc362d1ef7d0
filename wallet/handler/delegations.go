package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/screwyprof/mixdelegator/pkg/httpkit"
	"github.com/screwyprof/mixdelegator/wallet/api"
	"github.com/screwyprof/mixdelegator/wallet/handler/bind"
	"github.com/screwyprof/mixdelegator/wallet/nym"
	"github.com/screwyprof/mixdelegator/wallet/state"
)

const (
	GetDelegationsRoute     = http.MethodGet + " " + "/delegations"
	RefreshDelegationsRoute = http.MethodPost + " " + "/delegations/refresh"
	SetNetworkRoute         = http.MethodPost + " " + "/network"
	DelegationActionRoute   = http.MethodPost + " " + "/delegations/{identity}/actions/{action}"
	RedeemAllRoute          = http.MethodPost + " " + "/delegations/actions/redeem-all"
)

// Sentinel errors
var (
	ErrInvalidSorting    = errors.New("invalid sorting")
	ErrUnknownDelegation = errors.New("no delegation to node")
	ErrNothingToRedeem   = errors.New("no rewards to redeem")
	ErrMissingAmount     = errors.New("amount and denom are required to delegate")
	ErrStoreUnavailable  = errors.New("delegation store unavailable")
)

// DelegationStore is the delegation context as seen by the HTTP layer
type DelegationStore interface {
	Snapshot() state.State
	SetNetwork(ctx context.Context, network string) (state.State, error)
	Refresh(ctx context.Context) (state.State, error)
	UpdateDelegation(ctx context.Context, identity string, amount nym.Amount) (state.Transaction, error)
	Undelegate(ctx context.Context, identity string) (state.Transaction, error)
	RedeemRewards(ctx context.Context, identity string) (state.Transaction, error)
	RedeemAllRewards(ctx context.Context) (state.Transaction, error)
}

type Delegations struct {
	store       DelegationStore
	explorerURL string
}

func NewDelegations(store DelegationStore, explorerURL string) *Delegations {
	return &Delegations{
		store:       store,
		explorerURL: explorerURL,
	}
}

func (h *Delegations) AddRoutes(m *http.ServeMux) {
	m.Handle(GetDelegationsRoute, httpkit.HandlerFunc(h.GetDelegations))
	m.Handle(RefreshDelegationsRoute, httpkit.HandlerFunc(h.Refresh))
	m.Handle(SetNetworkRoute, httpkit.HandlerFunc(h.SetNetwork))
	m.Handle(DelegationActionRoute, httpkit.HandlerFunc(h.Act))
	m.Handle(RedeemAllRoute, httpkit.HandlerFunc(h.RedeemAll))
}

func (h *Delegations) GetDelegations(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.GetDelegationsRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	sorting, err := nym.NewSorting(req.Sort, req.Order)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(fmt.Errorf("%w: %w", ErrInvalidSorting, err)))
	}

	if req.Toggle != "" {
		column, err := nym.ParseColumn(req.Toggle)
		if err != nil {
			return httpkit.JsonError(api.BadRequest(fmt.Errorf("%w: %w", ErrInvalidSorting, err)))
		}
		sorting = sorting.Toggle(column)
	}

	st := h.store.Snapshot()
	view := nym.BuildListView(st.Delegations, nym.ListOptions{
		Sorting:     sorting,
		Loading:     st.IsLoading(),
		ExplorerURL: h.explorerURL,
	})

	return httpkit.JSON(bind.GetDelegationsResponse(st, sorting, view))
}

func (h *Delegations) Refresh(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	st, err := h.store.Refresh(r.Context())
	if err != nil {
		return httpkit.JsonError(storeError(err))
	}
	return httpkit.Accepted(bind.StateResponse(st))
}

func (h *Delegations) SetNetwork(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.NetworkRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	st, err := h.store.SetNetwork(r.Context(), req.Network)
	if err != nil {
		return httpkit.JsonError(storeError(err))
	}
	return httpkit.Accepted(bind.StateResponse(st))
}

// Act runs a row action against the delegation to the node in the path
func (h *Delegations) Act(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	identity := r.PathValue("identity")

	action, err := nym.ParseAction(r.PathValue("action"))
	if err != nil || action == nym.ActionRedeemAll {
		return httpkit.JsonError(api.NotFound(fmt.Errorf("%w: %q", nym.ErrUnknownAction, r.PathValue("action"))))
	}

	delegation, ok := nym.FindByIdentity(h.store.Snapshot().Delegations, identity)
	if !ok {
		return httpkit.JsonError(api.NotFound(fmt.Errorf("%w: %s", ErrUnknownDelegation, identity)))
	}

	req, err := bind.ActionRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	var tx state.Transaction
	switch action {
	case nym.ActionDelegate:
		if req.Amount == "" || req.Denom == "" {
			return httpkit.JsonError(api.BadRequest(ErrMissingAmount))
		}
		amount, perr := nym.ParseAmount(req.Amount, req.Denom)
		if perr != nil {
			return httpkit.JsonError(api.BadRequest(perr))
		}
		// the row exists, so delegating more tops up that delegation
		tx, err = h.store.UpdateDelegation(r.Context(), identity, amount)
	case nym.ActionUndelegate:
		tx, err = h.store.Undelegate(r.Context(), identity)
	case nym.ActionRedeem:
		if !delegation.HasRewards() {
			return httpkit.JsonError(api.Conflict(fmt.Errorf("%w: %s", ErrNothingToRedeem, identity)))
		}
		tx, err = h.store.RedeemRewards(r.Context(), identity)
	}

	return outcome(action, tx, err)
}

func (h *Delegations) RedeemAll(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	tx, err := h.store.RedeemAllRewards(r.Context())
	return outcome(nym.ActionRedeemAll, tx, err)
}

func outcome(action nym.Action, tx state.Transaction, err error) http.HandlerFunc {
	if err != nil {
		if errors.Is(err, state.ErrNotImplemented) {
			return httpkit.JsonError(api.NotImplemented(err).WithTitle(nym.FailureHeader))
		}
		return httpkit.JsonError(api.Wrap(err).WithTitle(nym.FailureHeader))
	}
	return httpkit.JSON(bind.OutcomeResponse(nym.Succeeded(action, tx.URL)))
}

func storeError(err error) *api.Error {
	if errors.Is(err, state.ErrStoreStopped) {
		return api.ServiceUnavailable(fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
	}
	return api.Wrap(err)
}
