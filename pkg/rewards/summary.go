package rewards

import (
	"github.com/shopspring/decimal"

	"github.com/eldamar-labs/epoch-distributor/pkg/numbers"
)

// RewardSummary is the aggregate view of one track's distribution: the reward
// token, the total amount distributed, and the pro-rata rate per whole
// weighted token. ProRata is rendered without scientific notation.
type RewardSummary struct {
	Token
	Amount  string `json:"amount"`
	ProRata string `json:"proRata"`
}

// GovernanceRewardSummary extends the base summary with the slice of the
// governance distribution that funds the staking track via the manager
// account.
type GovernanceRewardSummary struct {
	RewardSummary
	ToStaking string `json:"toStaking"`
}

// NewGovernanceRewardSummary wraps a base summary with a zero passthrough.
func NewGovernanceRewardSummary(summary *RewardSummary) *GovernanceRewardSummary {
	return &GovernanceRewardSummary{RewardSummary: *summary, ToStaking: "0"}
}

// StakingRewardSummary extends the base summary with the redistribution
// totals for forfeited inactive rewards and the protocol fee taken off the
// track budget.
type StakingRewardSummary struct {
	RewardSummary
	RedistributedTotal       string `json:"redistributedTotal"`
	RedistributedToStakers   string `json:"redistributedToStakers"`
	RedistributedTransferred string `json:"redistributedTransferred"`
	Fee                      string `json:"fee"`
}

// NewStakingRewardSummary wraps a base summary with zeroed redistribution
// figures.
func NewStakingRewardSummary(summary *RewardSummary) *StakingRewardSummary {
	return &StakingRewardSummary{
		RewardSummary:            *summary,
		RedistributedTotal:       "0",
		RedistributedToStakers:   "0",
		RedistributedTransferred: "0",
		Fee:                      "0",
	}
}

// AddRedistributionData records the split of redistributed inactive rewards
// on the summary.
func (s *StakingRewardSummary) AddRedistributionData(toStakers, transferred decimal.Decimal) {
	s.RedistributedToStakers = numbers.FloorToString(toStakers)
	s.RedistributedTransferred = numbers.FloorToString(transferred)
	s.RedistributedTotal = numbers.FloorToString(toStakers.Add(transferred))
}
