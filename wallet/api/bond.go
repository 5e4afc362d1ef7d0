package api

// UnbondRequest is the body of POST /bond/unbond
type UnbondRequest struct {
	NodeType string `json:"node_type"`
	Vesting  bool   `json:"vesting"`
}

// UnbondResponse confirms an unbond transaction
type UnbondResponse struct {
	NodeType       string `json:"node_type"`
	TransactionURL string `json:"transaction_url"`
}

// FeeResponse is an estimated transaction fee
type FeeResponse struct {
	Operation string `json:"operation"`
	Fee       string `json:"fee"`
	Text      string `json:"text"`
}

// InclusionProbability is the selection chance of a mixnode
type InclusionProbability struct {
	InActive  string `json:"in_active"`
	InReserve string `json:"in_reserve"`
}

// SettingsResponse describes a bonded mixnode
type SettingsResponse struct {
	Identity             string               `json:"identity"`
	Status               string               `json:"status"`
	SaturationPercent    int                  `json:"saturation_percent"`
	InclusionProbability InclusionProbability `json:"inclusion_probability"`
}
