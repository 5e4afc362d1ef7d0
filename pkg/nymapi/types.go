package nymapi

// MajorCurrencyAmount is a decimal amount in the major denomination
type MajorCurrencyAmount struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

// DelegationWithEverything is a delegation joined with the node metrics the backend knows about
type DelegationWithEverything struct {
	Owner                  string               `json:"owner"`
	NodeIdentity           string               `json:"node_identity"`
	Amount                 *MajorCurrencyAmount `json:"amount"`
	TotalDelegation        *MajorCurrencyAmount `json:"total_delegation"`
	PledgeAmount           *MajorCurrencyAmount `json:"pledge_amount"`
	BlockHeight            uint64               `json:"block_height"`
	DelegatedOnISODatetime string               `json:"delegated_on_iso_datetime"`
	ProfitMarginPercent    *float64             `json:"profit_margin_percent"`
	AvgUptimePercent       *float64             `json:"avg_uptime_percent"`
	StakeSaturation        *float64             `json:"stake_saturation"`
	Proxy                  *string              `json:"proxy"`
	AccumulatedRewards     *MajorCurrencyAmount `json:"accumulated_rewards"`
}

// DelegationsSummaryResponse is the payload of the delegation summary endpoint
type DelegationsSummaryResponse struct {
	Delegations      []DelegationWithEverything `json:"delegations"`
	TotalDelegations MajorCurrencyAmount        `json:"total_delegations"`
	TotalRewards     MajorCurrencyAmount        `json:"total_rewards"`
}

// MixnodeStatusResponse reports whether a mixnode is in the active or rewarded set
type MixnodeStatusResponse struct {
	Status string `json:"status"`
}

// StakeSaturationResponse carries the saturation ratio of a mixnode
type StakeSaturationResponse struct {
	Saturation float64 `json:"saturation"`
	AsAt       int64   `json:"as_at"`
}

// InclusionProbabilityResponse carries the selection chance buckets of a mixnode
type InclusionProbabilityResponse struct {
	InActive  string `json:"in_active"`
	InReserve string `json:"in_reserve"`
}

// TransactionResponse is returned by signing operations
type TransactionResponse struct {
	TransactionHash string `json:"transaction_hash"`
	TransactionURL  string `json:"transaction_url"`
}

type unbondRequest struct {
	NodeType string `json:"node_type"`
}

type errorResponse struct {
	Message string `json:"message"`
}
