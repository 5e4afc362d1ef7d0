package nym

import "github.com/samber/lo"

// EmptyListMessage is shown when the wallet has no delegations
const EmptyListMessage = "You have not delegated to any mixnodes"

// PlaceholderKind says what the list shows instead of rows
type PlaceholderKind string

const (
	PlaceholderNone    PlaceholderKind = ""
	PlaceholderSpinner PlaceholderKind = "spinner"
	PlaceholderEmpty   PlaceholderKind = "empty"
)

// HeaderCell is a sortable column header
type HeaderCell struct {
	Column    Column
	Label     string
	Active    bool
	Direction Order  // set on the active column only
	SortHint  string // accessible description of the active direction
}

// Row is one rendered delegation
type Row struct {
	NodeIdentity    string
	IdentityLabel   string
	ExplorerURL     string
	DelegatedOn     string
	Amount          string
	Reward          string
	ProfitMargin    string
	StakeSaturation string
	Uptime          string
	Actions         []MenuItem
}

// ListView is the presentation model of the delegation table
type ListView struct {
	Headers     []HeaderCell
	Rows        []Row
	Placeholder PlaceholderKind
	Message     string
}

// ListOptions are the inputs of BuildListView besides the records
type ListOptions struct {
	Sorting     Sorting
	Loading     bool
	ExplorerURL string
}

// BuildListView sorts the records and renders every cell for display
func BuildListView(delegations []Delegation, opts ListOptions) ListView {
	view := ListView{Headers: headerCells(opts.Sorting)}

	if len(delegations) == 0 {
		if opts.Loading {
			view.Placeholder = PlaceholderSpinner
		} else {
			view.Placeholder = PlaceholderEmpty
			view.Message = EmptyListMessage
		}
		return view
	}

	view.Rows = lo.Map(Sort(delegations, opts.Sorting), func(d Delegation, _ int) Row {
		return renderRow(d, opts.ExplorerURL)
	})

	return view
}

func headerCells(s Sorting) []HeaderCell {
	return lo.Map(Columns, func(c Column, _ int) HeaderCell {
		cell := HeaderCell{Column: c, Label: c.Label()}
		if c == s.Column {
			cell.Active = true
			cell.Direction = s.Order
			cell.SortHint = sortHint(s.Order)
		}
		return cell
	})
}

func sortHint(o Order) string {
	if o == Desc {
		return "sorted descending"
	}
	return "sorted ascending"
}

func renderRow(d Delegation, explorerURL string) Row {
	return Row{
		NodeIdentity:    d.NodeIdentity,
		IdentityLabel:   TruncateIdentity(d.NodeIdentity),
		ExplorerURL:     ExplorerURL(explorerURL, d.NodeIdentity),
		DelegatedOn:     FormatDate(d.DelegatedOn),
		Amount:          FormatAmount(d.Amount),
		Reward:          FormatAmount(d.AccumulatedRewards),
		ProfitMargin:    FormatPercent(d.ProfitMarginPercent),
		StakeSaturation: FormatSaturation(d.StakeSaturation),
		Uptime:          FormatPercent(d.AvgUptimePercent),
		Actions:         ActionMenu(d),
	}
}
