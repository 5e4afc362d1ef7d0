package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/screwyprof/mixdelegator/wallet/nym"
	"github.com/screwyprof/mixdelegator/wallet/state"
)

const (
	ascArrow  = "▲"
	descArrow = "▼"

	defaultDenom nym.Denom = "NYM"
)

func renderList(w io.Writer, st state.State, view nym.ListView) error {
	if view.Placeholder == nym.PlaceholderEmpty {
		_, err := fmt.Fprintln(w, view.Message)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(lo.Map(view.Headers, func(h nym.HeaderCell, _ int) string {
		return headerLabel(h)
	}))

	for _, row := range view.Rows {
		table.Append([]string{
			row.IdentityLabel,
			row.DelegatedOn,
			row.Amount,
			row.Reward,
			row.ProfitMargin,
			row.StakeSaturation,
			row.Uptime,
		})
	}
	delegated, rewards := nym.Totals(st.Delegations, listDenom(st.Delegations))
	table.SetFooter([]string{"Listed", "", delegated.String(), rewards.String(), "", "", ""})
	table.Render()

	_, err := fmt.Fprintf(w, "Network: %s\nTotal delegations: %s\nTotal rewards: %s\n",
		st.Network, st.TotalDelegations, st.TotalRewards)
	return err
}

// listDenom is the denomination of the first known amount
func listDenom(delegations []nym.Delegation) nym.Denom {
	for _, d := range delegations {
		if a, ok := d.Amount.Get(); ok {
			return a.Denom()
		}
	}
	return defaultDenom
}

func headerLabel(h nym.HeaderCell) string {
	if !h.Active {
		return h.Label
	}
	if h.Direction == nym.Desc {
		return h.Label + " " + descArrow
	}
	return h.Label + " " + ascArrow
}
