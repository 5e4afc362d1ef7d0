package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/screwyprof/mixdelegator/pkg/httpkit"
	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/api"
	"github.com/screwyprof/mixdelegator/wallet/handler/bind"
	"github.com/screwyprof/mixdelegator/wallet/state"
)

const UnbondRoute = http.MethodPost + " " + "/bond/unbond"

var ErrUnbondFailed = errors.New("unbond failed")

// Unbonder signs unbond transactions for the main and vesting accounts
type Unbonder interface {
	Unbond(ctx context.Context, nodeType string) (nymapi.TransactionResponse, error)
	VestingUnbond(ctx context.Context, nodeType string) (nymapi.TransactionResponse, error)
}

// Refresher reloads state that depends on the bond
type Refresher interface {
	Refresh(ctx context.Context) (state.State, error)
}

type Bond struct {
	unbonder  Unbonder
	refresher Refresher
	log       *slog.Logger
}

// BondOption configures the Bond handler
type BondOption func(*Bond)

// WithBondLogger sets the logger that reports failed follow-up refreshes
func WithBondLogger(log *slog.Logger) BondOption {
	return func(h *Bond) {
		h.log = log
	}
}

func NewBond(unbonder Unbonder, refresher Refresher, opts ...BondOption) *Bond {
	h := &Bond{
		unbonder:  unbonder,
		refresher: refresher,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Bond) AddRoutes(m *http.ServeMux) {
	m.Handle(UnbondRoute, httpkit.HandlerFunc(h.Unbond))
}

// Unbond releases the bonded node and refreshes dependent state whatever the outcome
func (h *Bond) Unbond(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.UnbondRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	defer h.refresh(r)

	unbond := h.unbonder.Unbond
	if req.Vesting {
		unbond = h.unbonder.VestingUnbond
	}

	tx, err := unbond(r.Context(), req.NodeType)
	if err != nil {
		return httpkit.JsonError(api.BadGateway(
			fmt.Errorf("%w: %w", ErrUnbondFailed, err),
			"Failed to unbond "+req.NodeType,
		))
	}

	return httpkit.JSON(api.UnbondResponse{
		NodeType:       req.NodeType,
		TransactionURL: tx.TransactionURL,
	})
}

// refresh reloads dependent state after an unbond attempt. A failure only gets logged,
// the unbond outcome is what the caller sees.
func (h *Bond) refresh(r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	if _, err := h.refresher.Refresh(ctx); err != nil {
		h.log.ErrorContext(ctx, "Refresh after unbond failed",
			slog.String("uri", r.RequestURI),
			slog.Any("error", err),
		)
	}
}
