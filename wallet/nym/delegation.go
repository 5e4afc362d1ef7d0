package nym

import "github.com/samber/lo"

// Delegation is one stake delegation from the wallet to a mixnode.
// Records are immutable once fetched.
type Delegation struct {
	Owner               string
	NodeIdentity        string
	Amount              Optional[Amount]
	AccumulatedRewards  Optional[Amount]
	TotalDelegation     Optional[Amount]
	PledgeAmount        Optional[Amount]
	BlockHeight         uint64
	DelegatedOn         string // ISO-8601
	ProfitMarginPercent Optional[float64]
	AvgUptimePercent    Optional[float64]
	StakeSaturation     Optional[float64]
	Proxy               Optional[string]
}

// HasRewards reports whether rewards are known for this delegation
func (d Delegation) HasRewards() bool {
	return d.AccumulatedRewards.IsSome()
}

// Summary is the delegation list of a wallet together with its totals
type Summary struct {
	Delegations      []Delegation
	TotalDelegations Amount
	TotalRewards     Amount
}

// Totals sums present delegation amounts and present rewards of the given denomination.
// Amounts in other denominations are skipped.
func Totals(delegations []Delegation, denom Denom) (delegated Amount, rewards Amount) {
	sum := func(acc Amount, o Optional[Amount]) Amount {
		v, ok := o.Get()
		if !ok {
			return acc
		}
		next, err := acc.Add(v)
		if err != nil {
			return acc
		}
		return next
	}

	delegated = lo.Reduce(delegations, func(acc Amount, d Delegation, _ int) Amount {
		return sum(acc, d.Amount)
	}, ZeroAmount(denom))

	rewards = lo.Reduce(delegations, func(acc Amount, d Delegation, _ int) Amount {
		return sum(acc, d.AccumulatedRewards)
	}, ZeroAmount(denom))

	return delegated, rewards
}

// FindByIdentity returns the delegation to the given node
func FindByIdentity(delegations []Delegation, identity string) (Delegation, bool) {
	return lo.Find(delegations, func(d Delegation) bool {
		return d.NodeIdentity == identity
	})
}
