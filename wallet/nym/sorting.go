package nym

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Column is a sortable field of the delegation list
type Column string

const (
	ColumnNodeIdentity        Column = "node_identity"
	ColumnDelegatedOn         Column = "delegated_on_iso_datetime"
	ColumnAmount              Column = "amount"
	ColumnAccumulatedRewards  Column = "accumulated_rewards"
	ColumnProfitMarginPercent Column = "profit_margin_percent"
	ColumnStakeSaturation     Column = "stake_saturation"
	ColumnAvgUptimePercent    Column = "avg_uptime_percent"
)

// Columns lists the table columns in display order
var Columns = []Column{
	ColumnNodeIdentity,
	ColumnDelegatedOn,
	ColumnAmount,
	ColumnAccumulatedRewards,
	ColumnProfitMarginPercent,
	ColumnStakeSaturation,
	ColumnAvgUptimePercent,
}

var columnLabels = map[Column]string{
	ColumnNodeIdentity:        "Node ID",
	ColumnDelegatedOn:         "Delegated on",
	ColumnAmount:              "Delegation",
	ColumnAccumulatedRewards:  "Reward",
	ColumnProfitMarginPercent: "Profit margin",
	ColumnStakeSaturation:     "Stake saturation",
	ColumnAvgUptimePercent:    "Uptime",
}

// Label is the column header text
func (c Column) Label() string {
	return columnLabels[c]
}

// Order is a sort direction
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

var (
	ErrUnknownColumn = errors.New("unknown sort column")
	ErrUnknownOrder  = errors.New("unknown sort order")
)

func ParseColumn(s string) (Column, error) {
	c := Column(s)
	if _, ok := columnLabels[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
	}
	return c, nil
}

func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case Asc, Desc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOrder, s)
	}
}

// Sorting is the active sort column and direction of the list
type Sorting struct {
	Column Column
	Order  Order
}

// DefaultSorting shows oldest delegations first
var DefaultSorting = Sorting{Column: ColumnDelegatedOn, Order: Asc}

// NewSorting validates a column and order pair
func NewSorting(column, order string) (Sorting, error) {
	c, err := ParseColumn(column)
	if err != nil {
		return Sorting{}, err
	}
	o, err := ParseOrder(order)
	if err != nil {
		return Sorting{}, err
	}
	return Sorting{Column: c, Order: o}, nil
}

// Toggle returns the sorting after the user activates a column header.
// The active ascending column flips to descending; anything else sorts the column ascending.
func (s Sorting) Toggle(column Column) Sorting {
	if s.Column == column && s.Order == Asc {
		return Sorting{Column: column, Order: Desc}
	}
	return Sorting{Column: column, Order: Asc}
}

// Comparator returns the ordering function for s
func Comparator(s Sorting) func(a, b Delegation) int {
	if s.Order == Desc {
		return func(a, b Delegation) int { return -Compare(s.Column, a, b) }
	}
	return func(a, b Delegation) int { return Compare(s.Column, a, b) }
}

// Compare orders a and b ascending on column.
// Absent values come before present ones.
func Compare(column Column, a, b Delegation) int {
	switch column {
	case ColumnNodeIdentity:
		return cmp.Compare(a.NodeIdentity, b.NodeIdentity)
	case ColumnDelegatedOn:
		return cmp.Compare(a.DelegatedOn, b.DelegatedOn)
	case ColumnAmount:
		return compareOptional(a.Amount, b.Amount, Amount.Cmp)
	case ColumnAccumulatedRewards:
		return compareOptional(a.AccumulatedRewards, b.AccumulatedRewards, Amount.Cmp)
	case ColumnProfitMarginPercent:
		return compareOptional(a.ProfitMarginPercent, b.ProfitMarginPercent, cmp.Compare[float64])
	case ColumnStakeSaturation:
		return compareOptional(a.StakeSaturation, b.StakeSaturation, cmp.Compare[float64])
	case ColumnAvgUptimePercent:
		return compareOptional(a.AvgUptimePercent, b.AvgUptimePercent, cmp.Compare[float64])
	default:
		return 0
	}
}

func compareOptional[T any](a, b Optional[T], compare func(T, T) int) int {
	av, aok := a.Get()
	bv, bok := b.Get()

	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	default:
		return compare(av, bv)
	}
}

// Sort returns a sorted copy; the input is left untouched. Equal rows keep their order.
func Sort(delegations []Delegation, s Sorting) []Delegation {
	sorted := slices.Clone(delegations)
	slices.SortStableFunc(sorted, Comparator(s))
	return sorted
}
