package rewards

import (
	"github.com/shopspring/decimal"

	"github.com/eldamar-labs/epoch-distributor/pkg/numbers"
)

// RedistributionOption selects where one slice of forfeited inactive rewards
// goes.
type RedistributionOption string

const (
	// RedistributionOption_Transfer credits a fixed address, which may be an
	// account that holds none of the weighted token (a treasury multisig).
	RedistributionOption_Transfer RedistributionOption = "transfer"

	// RedistributionOption_RedistributeStaking folds the slice back into the
	// staking-track pro-rata budget, so activity gating still governs who
	// receives it.
	RedistributionOption_RedistributeStaking RedistributionOption = "redistribute_staking"

	// RedistributionOption_RedistributeGovernance is reserved. Validation
	// rejects it until the governance track supports re-injection.
	RedistributionOption_RedistributeGovernance RedistributionOption = "redistribute_governance"
)

// RedistributionWeight is one policy rule. Weight is relative, not
// normalized; Rewards and Distributed are computed outputs.
type RedistributionWeight struct {
	Weight      float64              `json:"weight"`
	Option      RedistributionOption `json:"option"`
	Address     string               `json:"address,omitempty"`
	Rewards     string               `json:"rewards"`
	Distributed bool                 `json:"distributed"`
}

// ValidateRedistributions checks a rule set once, at config load. Rules must
// carry an address exactly when they transfer, transfer addresses must be
// unique, at most one staking re-injection rule is allowed, and governance
// re-injection is rejected as unsupported. Addresses are checksummed in
// place.
func ValidateRedistributions(rules []*RedistributionWeight) error {
	seenTransferAddresses := make(map[string]bool)
	seenStakingRedistribution := false

	for _, rule := range rules {
		switch rule.Option {
		case RedistributionOption_Transfer:
			if rule.Address == "" {
				return &InvalidRedistributionError{Reason: "transfer rule must provide an address"}
			}
			checksummed, err := ChecksumAddress(rule.Address)
			if err != nil {
				return &InvalidRedistributionError{Reason: err.Error()}
			}
			rule.Address = checksummed
			if seenTransferAddresses[rule.Address] {
				return &InvalidRedistributionError{Reason: "duplicate transfer address " + rule.Address}
			}
			seenTransferAddresses[rule.Address] = true
		case RedistributionOption_RedistributeStaking:
			if rule.Address != "" {
				return &InvalidRedistributionError{Reason: "cannot pass an address when redistributing, got " + rule.Address}
			}
			if seenStakingRedistribution {
				return &InvalidRedistributionError{Reason: "multiple staking redistribution rules"}
			}
			seenStakingRedistribution = true
		case RedistributionOption_RedistributeGovernance:
			return &InvalidRedistributionError{Reason: "governance redistribution is not supported"}
		default:
			return &InvalidRedistributionError{Reason: "unsupported option '" + string(rule.Option) + "'"}
		}
		if rule.Weight < 0 {
			return &InvalidRedistributionError{Reason: "negative weight"}
		}
	}
	return nil
}

// RedistributionContainer holds the rule set for one run plus the total
// amount pushed through it. It is a short-lived computation scratchpad;
// Redistribute mutates it in place.
type RedistributionContainer struct {
	Redistributions    []*RedistributionWeight `json:"redistributions"`
	TotalRedistributed string                  `json:"totalRedistributed"`
	Distributed        bool                    `json:"distributed"`
}

// NewRedistributionContainer validates the rules and wraps a copy of them.
// The container's rules are its own: Redistribute writes per-rule outputs
// without reaching back into the caller's (typically the epoch config's)
// rule set.
func NewRedistributionContainer(rules []*RedistributionWeight) (*RedistributionContainer, error) {
	cloned := make([]*RedistributionWeight, 0, len(rules))
	for _, rule := range rules {
		copied := *rule
		cloned = append(cloned, &copied)
	}
	if err := ValidateRedistributions(cloned); err != nil {
		return nil, err
	}
	return &RedistributionContainer{
		Redistributions:    cloned,
		TotalRedistributed: "0",
	}, nil
}

// TotalWeights sums the raw rule weights.
func (c *RedistributionContainer) TotalWeights() float64 {
	total := float64(0)
	for _, r := range c.Redistributions {
		total += r.Weight
	}
	return total
}

// Redistribute splits amount across the rules, normalizing each weight
// against the total. Each rule receives floor(amount * weight/totalWeights),
// so the rule outputs may fall short of amount by up to len(rules)-1 base
// units. That slippage is accepted, not reconciled.
//
// A zero total weight with a nonzero rule set is a configuration error.
func (c *RedistributionContainer) Redistribute(amount decimal.Decimal) error {
	totalWeights := decimal.NewFromFloat(c.TotalWeights())
	if len(c.Redistributions) > 0 && totalWeights.IsZero() {
		return &InvalidRedistributionError{Reason: "total redistribution weight is zero"}
	}

	assigned := decimal.Zero
	for _, rule := range c.Redistributions {
		normalized := numbers.Div(decimal.NewFromFloat(rule.Weight), totalWeights)
		slice := amount.Mul(normalized).Floor()
		rule.Rewards = slice.String()
		rule.Distributed = true
		assigned = assigned.Add(slice)
	}
	// The total is what the rules actually assigned, not the input amount:
	// flooring can leave a remainder, and with no rules nothing moves at all.
	c.TotalRedistributed = numbers.FloorToString(assigned)
	c.Distributed = true
	return nil
}

func (c *RedistributionContainer) sumByOption(option RedistributionOption) decimal.Decimal {
	if !c.Distributed {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, rule := range c.Redistributions {
		if rule.Option != option {
			continue
		}
		amount, err := numbers.FromString(rule.Rewards)
		if err != nil {
			// Rewards is only ever written by Redistribute as an integer
			// string.
			continue
		}
		total = total.Add(amount)
	}
	return total
}

// Transferred is the total assigned to fixed-address transfer rules. Zero
// until Redistribute has run.
func (c *RedistributionContainer) Transferred() decimal.Decimal {
	return c.sumByOption(RedistributionOption_Transfer)
}

// ToStakers is the total to fold back into the staker pro-rata budget. Zero
// until Redistribute has run.
func (c *RedistributionContainer) ToStakers() decimal.Decimal {
	return c.sumByOption(RedistributionOption_RedistributeStaking)
}

// ApplyTransfers applies every transfer rule in the container to the account
// list and returns a new list; the input is never mutated. An existing
// account at the rule address has the transfer added to its rewards; an
// unknown address is synthesized as a new inactive account with a zero
// holding, which is how addresses that never appear in the holder snapshot
// (treasury multisigs) enter the claim set.
//
// Re-injection rules are deliberately not applied here: their amounts fold
// into the budget of a subsequent ComputeRewards pass instead, so that the
// normal active/inactive gating governs who among current stakers receives
// them.
func ApplyTransfers(accounts []*Account, container *RedistributionContainer, rewardToken Token, holdingToken Token) ([]*Account, error) {
	result := CloneAccounts(accounts)

	for _, rule := range container.Redistributions {
		if rule.Option != RedistributionOption_Transfer {
			continue
		}
		var err error
		result, err = applyTransfer(result, rule, rewardToken, holdingToken)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func applyTransfer(accounts []*Account, rule *RedistributionWeight, rewardToken Token, holdingToken Token) ([]*Account, error) {
	for _, account := range accounts {
		if account.Address != rule.Address {
			continue
		}
		current, err := numbers.FromString(account.Rewards.Amount)
		if err != nil {
			return nil, err
		}
		transfer, err := numbers.FromString(rule.Rewards)
		if err != nil {
			return nil, err
		}
		account.Rewards.Amount = numbers.FloorToString(current.Add(transfer))
		account.AddNote("Transfer of %s", rule.Rewards)
		return accounts, nil
	}

	synthesized := &Account{
		Address: rule.Address,
		Token:   holdingToken.ZeroAmount(),
		Rewards: rewardToken.WithAmount(rule.Rewards),
		State:   AccountState_Inactive,
		Notes:   []string{"Transfer of " + rule.Rewards},
	}
	return append(accounts, synthesized), nil
}
