package rewards

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func Test_SplitActiveInactiveRewards(t *testing.T) {
	t.Run("Should split the budget proportional to supply shares", func(t *testing.T) {
		stats := &TokenSummaryStats{Total: "500", Active: "300", Inactive: "200"}

		active, inactive, err := SplitActiveInactiveRewards(stats, decimal.NewFromInt(300))
		assert.Nil(t, err)
		assert.Equal(t, "180", active.String())
		assert.Equal(t, "120", inactive.String())
	})

	t.Run("Should floor both slices", func(t *testing.T) {
		stats := &TokenSummaryStats{Total: "3", Active: "2", Inactive: "1"}

		active, inactive, err := SplitActiveInactiveRewards(stats, decimal.NewFromInt(100))
		assert.Nil(t, err)
		assert.Equal(t, "66", active.String())
		assert.Equal(t, "33", inactive.String())
	})

	t.Run("Should return zeros for a zero total supply", func(t *testing.T) {
		stats := &TokenSummaryStats{Total: "0", Active: "0", Inactive: "0"}

		active, inactive, err := SplitActiveInactiveRewards(stats, decimal.NewFromInt(100))
		assert.Nil(t, err)
		assert.True(t, active.IsZero())
		assert.True(t, inactive.IsZero())
	})
}
