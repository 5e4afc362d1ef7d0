package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/api"
	"github.com/screwyprof/mixdelegator/wallet/nym"
	"github.com/screwyprof/mixdelegator/wallet/state"
)

// Sentinel errors for request binding
var (
	ErrInvalidBody     = errors.New("invalid request body")
	ErrMissingNetwork  = errors.New("network is required")
	ErrInvalidNodeType = errors.New("node_type must be mixnode or gateway")
	ErrUnknownParam    = errors.New("unknown query parameter")
)

const maxBodyBytes = 1 << 20

var delegationsParams = []string{"sort", "order", "toggle"}

// GetDelegationsRequest binds HTTP request to DelegationsRequest with defaults
func GetDelegationsRequest(r *http.Request) (api.DelegationsRequest, error) {
	req := api.DelegationsRequest{
		Sort:  string(nym.DefaultSorting.Column),
		Order: string(nym.DefaultSorting.Order),
	}

	query := r.URL.Query()
	for key := range query {
		if !lo.Contains(delegationsParams, key) {
			return req, fmt.Errorf("%w: %q", ErrUnknownParam, key)
		}
	}

	if v := query.Get("sort"); v != "" {
		req.Sort = v
	}
	if v := query.Get("order"); v != "" {
		req.Order = strings.ToLower(v)
	}
	req.Toggle = query.Get("toggle")

	return req, nil
}

// NetworkRequest binds the body of POST /network
func NetworkRequest(r *http.Request) (api.NetworkRequest, error) {
	var req api.NetworkRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}

	req.Network = strings.TrimSpace(req.Network)
	if req.Network == "" {
		return req, ErrMissingNetwork
	}

	return req, nil
}

// UnbondRequest binds the body of POST /bond/unbond. The node type defaults to mixnode.
func UnbondRequest(r *http.Request) (api.UnbondRequest, error) {
	req := api.UnbondRequest{NodeType: nymapi.NodeTypeMixnode}
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}

	switch req.NodeType {
	case nymapi.NodeTypeMixnode, nymapi.NodeTypeGateway:
		return req, nil
	default:
		return req, fmt.Errorf("%w: got %q", ErrInvalidNodeType, req.NodeType)
	}
}

// ActionRequest binds the optional body of a row action
func ActionRequest(r *http.Request) (api.ActionRequest, error) {
	var req api.ActionRequest
	err := decodeJSON(r, &req)
	return req, err
}

// decodeJSON reads one JSON object; an empty body leaves dst untouched
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	return nil
}

// GetDelegationsResponse binds the list view and store snapshot to the API response format
func GetDelegationsResponse(st state.State, sorting nym.Sorting, view nym.ListView) api.DelegationsResponse {
	return api.DelegationsResponse{
		Network:          st.Network,
		Status:           string(st.Status),
		Loading:          st.IsLoading(),
		Error:            st.Error,
		TotalDelegations: st.TotalDelegations,
		TotalRewards:     st.TotalRewards,
		Sort:             string(sorting.Column),
		Order:            string(sorting.Order),
		Headers: lo.Map(view.Headers, func(h nym.HeaderCell, _ int) api.HeaderCell {
			return api.HeaderCell{
				Column:    string(h.Column),
				Label:     h.Label,
				Active:    h.Active,
				Direction: string(h.Direction),
				SortHint:  h.SortHint,
			}
		}),
		Rows: lo.Map(view.Rows, func(row nym.Row, _ int) api.DelegationRow {
			return api.DelegationRow{
				NodeIdentity:    row.NodeIdentity,
				IdentityLabel:   row.IdentityLabel,
				ExplorerURL:     row.ExplorerURL,
				DelegatedOn:     row.DelegatedOn,
				Amount:          row.Amount,
				Reward:          row.Reward,
				ProfitMargin:    row.ProfitMargin,
				StakeSaturation: row.StakeSaturation,
				Uptime:          row.Uptime,
				Actions:         menuItems(row.Actions),
			}
		}),
		Placeholder: string(view.Placeholder),
		Message:     view.Message,
	}
}

func menuItems(items []nym.MenuItem) []api.MenuItem {
	return lo.Map(items, func(m nym.MenuItem, _ int) api.MenuItem {
		return api.MenuItem{Action: string(m.Action), Label: m.Label, Disabled: m.Disabled}
	})
}

// StateResponse binds a store snapshot
func StateResponse(st state.State) api.StateResponse {
	return api.StateResponse{
		Network:    st.Network,
		Status:     string(st.Status),
		Loading:    st.IsLoading(),
		Generation: st.Generation,
	}
}

// OutcomeResponse binds an action outcome
func OutcomeResponse(o nym.Outcome) api.OutcomeResponse {
	return api.OutcomeResponse{
		Action:         string(o.Action),
		Success:        o.Success,
		Header:         o.Header,
		Message:        o.Message,
		TransactionURL: o.TransactionURL,
	}
}
