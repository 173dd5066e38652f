package rewards

import (
	"github.com/shopspring/decimal"

	"github.com/eldamar-labs/epoch-distributor/pkg/numbers"
)

// ComputeRewards applies a reward budget pro-rata across the active accounts.
//
// The rate is budget / activeSupply, scaled to reward base units per whole
// weighted token (10^decimals of the budget token). Each active account
// receives floor(rate * holding / 10^decimals), added on top of any reward it
// already carries so a base allocation followed by a redistribution top-up
// composes. Inactive accounts are untouched.
//
// A zero active supply is not an error: it yields a zero rate and no
// allocations, which is what happens in a month where nobody participated.
//
// The input list is never mutated; a new deep-copied list is returned along
// with the distribution summary. Floor truncation can lose up to one base
// unit per active account; callers reconcile against that bound, not against
// exact equality.
func ComputeRewards(budget TokenAmount, activeSupply decimal.Decimal, accounts []*Account) ([]*Account, *RewardSummary, error) {
	budgetAmount, err := numbers.FromString(budget.Amount)
	if err != nil {
		return nil, nil, err
	}

	scale := numbers.TenPow(budget.Decimals)
	proRata := decimal.Zero
	if !activeSupply.IsZero() {
		proRata = numbers.Div(budgetAmount, activeSupply).Mul(scale)
	}

	distributed := CloneAccounts(accounts)
	for _, account := range distributed {
		if account.State != AccountState_Active {
			continue
		}
		holding, err := numbers.FromString(account.Token.Amount)
		if err != nil {
			return nil, nil, err
		}
		reward := numbers.DivFloor(proRata.Mul(holding), scale)

		current, err := numbers.FromString(account.Rewards.Amount)
		if err != nil {
			return nil, nil, err
		}
		account.Rewards.Amount = numbers.FloorToString(current.Add(reward))
		account.AddNote("active reward of %s", reward.String())
	}

	summary := &RewardSummary{
		Token:   budget.Token,
		Amount:  budget.Amount,
		ProRata: numbers.FormatProRata(proRata),
	}
	return distributed, summary, nil
}
