package state

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/nym"
)

// convertSummary validates the backend payload and turns it into domain records
func convertSummary(resp nymapi.DelegationsSummaryResponse) (nym.Summary, error) {
	var errs []error

	delegations := lo.Map(resp.Delegations, func(d nymapi.DelegationWithEverything, i int) nym.Delegation {
		converted, err := convertDelegation(d)
		if err != nil {
			errs = append(errs, fmt.Errorf("delegation %d: %w", i, err))
		}
		return converted
	})

	totalDelegations, err := nym.ParseAmount(resp.TotalDelegations.Amount, resp.TotalDelegations.Denom)
	if err != nil {
		errs = append(errs, fmt.Errorf("total delegations: %w", err))
	}

	totalRewards, err := nym.ParseAmount(resp.TotalRewards.Amount, resp.TotalRewards.Denom)
	if err != nil {
		errs = append(errs, fmt.Errorf("total rewards: %w", err))
	}

	if len(errs) > 0 {
		return nym.Summary{}, fmt.Errorf("%w: %w", ErrInvalidSummary, errors.Join(errs...))
	}

	return nym.Summary{
		Delegations:      delegations,
		TotalDelegations: totalDelegations,
		TotalRewards:     totalRewards,
	}, nil
}

func convertDelegation(d nymapi.DelegationWithEverything) (nym.Delegation, error) {
	amount, err := convertAmount(d.Amount)
	if err != nil {
		return nym.Delegation{}, fmt.Errorf("amount: %w", err)
	}
	rewards, err := convertAmount(d.AccumulatedRewards)
	if err != nil {
		return nym.Delegation{}, fmt.Errorf("accumulated rewards: %w", err)
	}
	total, err := convertAmount(d.TotalDelegation)
	if err != nil {
		return nym.Delegation{}, fmt.Errorf("total delegation: %w", err)
	}
	pledge, err := convertAmount(d.PledgeAmount)
	if err != nil {
		return nym.Delegation{}, fmt.Errorf("pledge amount: %w", err)
	}

	return nym.Delegation{
		Owner:               d.Owner,
		NodeIdentity:        d.NodeIdentity,
		Amount:              amount,
		AccumulatedRewards:  rewards,
		TotalDelegation:     total,
		PledgeAmount:        pledge,
		BlockHeight:         d.BlockHeight,
		DelegatedOn:         d.DelegatedOnISODatetime,
		ProfitMarginPercent: nym.FromPtr(d.ProfitMarginPercent),
		AvgUptimePercent:    nym.FromPtr(d.AvgUptimePercent),
		StakeSaturation:     nym.FromPtr(d.StakeSaturation),
		Proxy:               nym.FromPtr(d.Proxy),
	}, nil
}

func convertAmount(a *nymapi.MajorCurrencyAmount) (nym.Optional[nym.Amount], error) {
	if a == nil {
		return nym.None[nym.Amount](), nil
	}
	parsed, err := nym.ParseAmount(a.Amount, a.Denom)
	if err != nil {
		return nym.None[nym.Amount](), err
	}
	return nym.Some(parsed), nil
}

// failureMessage is the collaborator's own text: the backend message when it sent one
func failureMessage(err error) string {
	var apiErr *nymapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
