package rewards

import (
	"github.com/shopspring/decimal"

	"github.com/eldamar-labs/epoch-distributor/pkg/numbers"
)

// TokenSummaryStats summarizes the token supply of one account set, split by
// participation state. Active + Inactive == Total, within one base unit of
// integer truncation.
type TokenSummaryStats struct {
	Total    string `json:"total"`
	Active   string `json:"active"`
	Inactive string `json:"inactive"`
}

func sumTokensByState(accounts []*Account, state AccountState) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range accounts {
		if state != "" && a.State != state {
			continue
		}
		amount, err := numbers.FromString(a.Token.Amount)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, nil
}

// ComputeTokenStats sums holdings by state across the account set. Pure
// function, no side effects.
func ComputeTokenStats(accounts []*Account) (*TokenSummaryStats, error) {
	active, err := sumTokensByState(accounts, AccountState_Active)
	if err != nil {
		return nil, err
	}
	inactive, err := sumTokensByState(accounts, AccountState_Inactive)
	if err != nil {
		return nil, err
	}
	return &TokenSummaryStats{
		Total:    numbers.FloorToString(active.Add(inactive)),
		Active:   numbers.FloorToString(active),
		Inactive: numbers.FloorToString(inactive),
	}, nil
}

// ComputeTokenStatsWithSupply summarizes against an authoritative on-chain
// total supply. Active is summed from the snapshot; inactive is derived as
// total - active, which reconciles supply not present in the holder snapshot
// (pending or unindexed deposits).
func ComputeTokenStatsWithSupply(accounts []*Account, totalSupply string) (*TokenSummaryStats, error) {
	total, err := numbers.FromString(totalSupply)
	if err != nil {
		return nil, err
	}
	active, err := sumTokensByState(accounts, AccountState_Active)
	if err != nil {
		return nil, err
	}
	return &TokenSummaryStats{
		Total:    numbers.FloorToString(total),
		Active:   numbers.FloorToString(active),
		Inactive: numbers.FloorToString(total.Sub(active)),
	}, nil
}
