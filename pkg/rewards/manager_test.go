package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SeparateManager(t *testing.T) {
	t.Run("Should split the manager out of the account list", func(t *testing.T) {
		accounts := []*Account{
			testAccount(t, addr1, "100", AccountState_Active),
			testAccount(t, addr2, "200", AccountState_Active),
			testAccount(t, addr3, "300", AccountState_Inactive),
		}

		remaining, manager, err := SeparateManager(accounts, addr2)
		assert.Nil(t, err)
		assert.Equal(t, addr2, manager.Address)
		assert.Len(t, remaining, 2)
		assert.Equal(t, addr1, remaining[0].Address)
		assert.Equal(t, addr3, remaining[1].Address)
	})

	t.Run("Should accept the manager address in any casing", func(t *testing.T) {
		accounts := []*Account{
			testAccount(t, addr1, "100", AccountState_Active),
		}
		_, manager, err := SeparateManager(accounts, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
		assert.Nil(t, err)
		assert.Equal(t, addr1, manager.Address)
	})

	t.Run("Should fail when the manager account is absent", func(t *testing.T) {
		accounts := []*Account{
			testAccount(t, addr1, "100", AccountState_Active),
		}
		_, _, err := SeparateManager(accounts, addr4)
		assert.IsType(t, &MissingManagerAccountError{}, err)
	})

	t.Run("Should not mutate the input accounts", func(t *testing.T) {
		accounts := []*Account{
			testAccount(t, addr1, "100", AccountState_Active),
			testAccount(t, addr2, "200", AccountState_Active),
		}

		remaining, manager, err := SeparateManager(accounts, addr1)
		assert.Nil(t, err)

		manager.Rewards.Amount = "999"
		remaining[0].Rewards.Amount = "999"
		assert.Equal(t, "0", accounts[0].Rewards.Amount)
		assert.Equal(t, "0", accounts[1].Rewards.Amount)
	})
}

func Test_SeparateManagerRewards(t *testing.T) {
	_, reward := testTokens(t)

	t.Run("Should move the manager reward into the passthrough figure", func(t *testing.T) {
		manager := testAccount(t, addr2, "200", AccountState_Active)
		manager.Rewards.Amount = "300"

		summary := NewGovernanceRewardSummary(&RewardSummary{
			Token:   reward,
			Amount:  "1000",
			ProRata: "1",
		})

		adjusted, err := SeparateManagerRewards(summary, manager)
		assert.Nil(t, err)
		assert.Equal(t, "700", adjusted.Amount)
		assert.Equal(t, "300", adjusted.ToStaking)
	})

	t.Run("Should clamp the adjusted amount at zero", func(t *testing.T) {
		manager := testAccount(t, addr2, "200", AccountState_Active)
		manager.Rewards.Amount = "1500"

		summary := NewGovernanceRewardSummary(&RewardSummary{
			Token:   reward,
			Amount:  "1000",
			ProRata: "1",
		})

		adjusted, err := SeparateManagerRewards(summary, manager)
		assert.Nil(t, err)
		assert.Equal(t, "0", adjusted.Amount)
		assert.Equal(t, "1500", adjusted.ToStaking)
	})
}
