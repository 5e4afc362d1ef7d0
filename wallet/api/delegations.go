package api

// DelegationsRequest represents the query parameters for GET /delegations
type DelegationsRequest struct {
	Sort   string `query:"sort"`   // Column to sort by (default: delegated_on_iso_datetime)
	Order  string `query:"order"`  // asc or desc (default: asc)
	Toggle string `query:"toggle"` // Optional header click applied on top of sort/order
}

// HeaderCell is a sortable column header
type HeaderCell struct {
	Column    string `json:"column"`
	Label     string `json:"label"`
	Active    bool   `json:"active"`
	Direction string `json:"direction,omitempty"`
	SortHint  string `json:"sort_hint,omitempty"`
}

// MenuItem is one entry of a row's action menu
type MenuItem struct {
	Action   string `json:"action"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// DelegationRow is a rendered delegation
type DelegationRow struct {
	NodeIdentity    string     `json:"node_identity"`
	IdentityLabel   string     `json:"identity_label"`
	ExplorerURL     string     `json:"explorer_url"`
	DelegatedOn     string     `json:"delegated_on"`
	Amount          string     `json:"amount"`
	Reward          string     `json:"reward"`
	ProfitMargin    string     `json:"profit_margin"`
	StakeSaturation string     `json:"stake_saturation"`
	Uptime          string     `json:"uptime"`
	Actions         []MenuItem `json:"actions"`
}

// DelegationsResponse represents the API response format for GET /delegations
type DelegationsResponse struct {
	Network          string          `json:"network"`
	Status           string          `json:"status"`
	Loading          bool            `json:"loading"`
	Error            string          `json:"error,omitempty"`
	TotalDelegations string          `json:"total_delegations,omitempty"`
	TotalRewards     string          `json:"total_rewards,omitempty"`
	Sort             string          `json:"sort"`
	Order            string          `json:"order"`
	Headers          []HeaderCell    `json:"headers"`
	Rows             []DelegationRow `json:"rows"`
	Placeholder      string          `json:"placeholder,omitempty"`
	Message          string          `json:"message,omitempty"`
}

// NetworkRequest is the body of POST /network
type NetworkRequest struct {
	Network string `json:"network"`
}

// StateResponse summarises the store after a command
type StateResponse struct {
	Network    string `json:"network"`
	Status     string `json:"status"`
	Loading    bool   `json:"loading"`
	Generation uint64 `json:"generation"`
}

// ActionRequest is the optional body of a row action
type ActionRequest struct {
	Amount string `json:"amount,omitempty"`
	Denom  string `json:"denom,omitempty"`
}

// OutcomeResponse is the result of an action
type OutcomeResponse struct {
	Action         string `json:"action"`
	Success        bool   `json:"success"`
	Header         string `json:"header"`
	Message        string `json:"message,omitempty"`
	TransactionURL string `json:"transaction_url,omitempty"`
}
