package rewards

import (
	"github.com/shopspring/decimal"

	"github.com/eldamar-labs/epoch-distributor/pkg/numbers"
)

// SeparateManager removes the designated manager/custodian account from the
// list and returns it separately, so its accumulated governance reward can
// fund the staking track. The returned list is a new slice; the input is not
// mutated.
//
// The manager must be present: without it the staking track has no funding
// source, so absence is a fatal MissingManagerAccountError rather than a
// recoverable condition.
func SeparateManager(accounts []*Account, managerAddress string) ([]*Account, *Account, error) {
	checksummed, err := ChecksumAddress(managerAddress)
	if err != nil {
		return nil, nil, err
	}

	var manager *Account
	remaining := make([]*Account, 0, len(accounts))
	for _, account := range accounts {
		if account.Address == checksummed && manager == nil {
			manager = account.Clone()
			continue
		}
		remaining = append(remaining, account.Clone())
	}

	if manager == nil {
		return nil, nil, &MissingManagerAccountError{Address: checksummed}
	}
	return remaining, manager, nil
}

// SeparateManagerRewards moves the manager's reward out of the governance
// aggregate: the summary amount is reduced so it reflects only genuine
// governance claimants, and the manager's slice is recorded under ToStaking
// as the staking track's funding figure.
func SeparateManagerRewards(summary *GovernanceRewardSummary, manager *Account) (*GovernanceRewardSummary, error) {
	total, err := numbers.FromString(summary.Amount)
	if err != nil {
		return nil, err
	}
	managerReward, err := numbers.FromString(manager.Rewards.Amount)
	if err != nil {
		return nil, err
	}

	adjusted := &GovernanceRewardSummary{RewardSummary: summary.RewardSummary}
	adjusted.Amount = numbers.FloorToString(decimal.Max(decimal.Zero, total.Sub(managerReward)))
	adjusted.ToStaking = manager.Rewards.Amount
	return adjusted, nil
}
