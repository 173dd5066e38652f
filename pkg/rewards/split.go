package rewards

import (
	"github.com/shopspring/decimal"

	"github.com/eldamar-labs/epoch-distributor/pkg/numbers"
)

// SplitActiveInactiveRewards divides a track budget into the slice earned by
// active holders and the slice forfeited by inactive holders, proportional to
// their share of the total supply. The forfeited slice feeds the
// redistribution rules.
//
// A zero total supply yields two zero slices.
func SplitActiveInactiveRewards(stats *TokenSummaryStats, budget decimal.Decimal) (active decimal.Decimal, inactive decimal.Decimal, err error) {
	total, err := numbers.FromString(stats.Total)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if total.IsZero() {
		return decimal.Zero, decimal.Zero, nil
	}

	activeTokens, err := numbers.FromString(stats.Active)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	inactiveTokens, err := numbers.FromString(stats.Inactive)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	perToken := numbers.Div(budget, total)
	return activeTokens.Mul(perToken).Floor(), inactiveTokens.Mul(perToken).Floor(), nil
}
