package nym

import (
	"errors"
	"fmt"
)

// Action is a user operation on a delegation or on the whole list
type Action string

const (
	ActionDelegate   Action = "delegate"
	ActionUndelegate Action = "undelegate"
	ActionRedeem     Action = "redeem"
	ActionRedeemAll  Action = "redeem-all"
)

var ErrUnknownAction = errors.New("unknown action")

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionDelegate, ActionUndelegate, ActionRedeem, ActionRedeemAll:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// FailureHeader is the headline of a failed action outcome
const FailureHeader = "Oh no! Something went wrong..."

// SuccessHeader is the headline of a completed action outcome
func (a Action) SuccessHeader() string {
	switch a {
	case ActionRedeem:
		return "Rewards redeemed successfully"
	case ActionRedeemAll:
		return "All rewards redeemed successfully"
	case ActionDelegate:
		return "Delegation complete"
	case ActionUndelegate:
		return "Undelegation complete"
	default:
		return "Oh no! Something went wrong!"
	}
}

// Outcome is the result of an action as presented to the user
type Outcome struct {
	Action         Action
	Success        bool
	Header         string
	Message        string
	TransactionURL string
}

func Succeeded(a Action, transactionURL string) Outcome {
	return Outcome{Action: a, Success: true, Header: a.SuccessHeader(), TransactionURL: transactionURL}
}

// MenuItem is one entry of a row's action menu
type MenuItem struct {
	Action   Action
	Label    string
	Disabled bool
}

// ActionMenu builds the per-row menu. Redeeming is disabled when rewards are unknown.
func ActionMenu(d Delegation) []MenuItem {
	return []MenuItem{
		{Action: ActionDelegate, Label: "Delegate more"},
		{Action: ActionUndelegate, Label: "Undelegate"},
		{Action: ActionRedeem, Label: "Redeem", Disabled: !d.HasRewards()},
	}
}
