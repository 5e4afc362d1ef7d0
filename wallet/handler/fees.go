package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/screwyprof/mixdelegator/pkg/httpkit"
	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/api"
	"github.com/screwyprof/mixdelegator/wallet/nym"
)

const GetFeeRoute = http.MethodGet + " " + "/fees/{operation}"

var ErrFeeEstimate = errors.New("fee estimate failed")

// FeeEstimator estimates the gas fee of a signing operation
type FeeEstimator interface {
	GetGasFee(ctx context.Context, operation string) (nymapi.MajorCurrencyAmount, error)
}

type Fees struct {
	estimator FeeEstimator
}

func NewFees(estimator FeeEstimator) *Fees {
	return &Fees{estimator: estimator}
}

func (h *Fees) AddRoutes(m *http.ServeMux) {
	m.Handle(GetFeeRoute, httpkit.HandlerFunc(h.GetFee))
}

func (h *Fees) GetFee(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	operation := r.PathValue("operation")

	raw, err := h.estimator.GetGasFee(r.Context(), operation)
	if err != nil {
		return httpkit.JsonError(api.BadGateway(fmt.Errorf("%w: %w", ErrFeeEstimate, err), "Failed to estimate fee"))
	}

	fee, err := nym.ParseAmount(raw.Amount, raw.Denom)
	if err != nil {
		return httpkit.JsonError(api.BadGateway(fmt.Errorf("%w: %w", ErrFeeEstimate, err), "Failed to estimate fee"))
	}

	return httpkit.JSON(api.FeeResponse{
		Operation: operation,
		Fee:       fee.String(),
		Text:      "Estimated fee for this transaction: " + fee.String(),
	})
}
