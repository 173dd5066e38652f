package proofs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eldamar-labs/epoch-distributor/pkg/claims"
	"github.com/eldamar-labs/epoch-distributor/pkg/logger"
	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

const (
	addr1 = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	addr2 = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	addr3 = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"

	wethAddr = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	daiAddr  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
)

func testWindow(t *testing.T, amounts map[string]string) *claims.ClaimsWindow {
	holding, err := rewards.NewToken(daiAddr, "ARV", 18)
	assert.Nil(t, err)
	rewardToken, err := rewards.NewToken(wethAddr, "WETH", 18)
	assert.Nil(t, err)

	accounts := make([]*rewards.Account, 0, len(amounts))
	for _, address := range []string{addr1, addr2, addr3} {
		amount, ok := amounts[address]
		if !ok {
			continue
		}
		account, err := rewards.NewAccount(address, holding.WithAmount("100"), rewards.AccountState_Active, rewardToken)
		assert.Nil(t, err)
		account.Rewards.Amount = amount
		accounts = append(accounts, account)
	}

	window, err := claims.BuildClaims(accounts, 4, 1, nil)
	assert.Nil(t, err)
	return window
}

func Test_BuildDistributionTree(t *testing.T) {
	builder := NewTreeBuilder(logger.NewNoopLogger())

	t.Run("Should produce a root and a proof per recipient", func(t *testing.T) {
		window := testWindow(t, map[string]string{
			addr1: "100",
			addr2: "200",
			addr3: "300",
		})

		tree, err := builder.BuildDistributionTree(window)
		assert.Nil(t, err)

		assert.True(t, strings.HasPrefix(tree.Root, "0x"))
		assert.Len(t, tree.Root, 66)
		assert.Len(t, tree.Recipients, 3)
		assert.Equal(t, 4, tree.WindowIndex)

		for address, recipient := range tree.Recipients {
			assert.NotEmpty(t, recipient.Proof, "recipient %s has no proof", address)
			for _, h := range recipient.Proof {
				assert.True(t, strings.HasPrefix(h, "0x"))
			}
		}
	})

	t.Run("Should be deterministic across rebuilds", func(t *testing.T) {
		amounts := map[string]string{addr1: "100", addr2: "200"}

		first, err := builder.BuildDistributionTree(testWindow(t, amounts))
		assert.Nil(t, err)
		second, err := builder.BuildDistributionTree(testWindow(t, amounts))
		assert.Nil(t, err)

		assert.Equal(t, first.Root, second.Root)
	})

	t.Run("Should change the root when a reward changes", func(t *testing.T) {
		first, err := builder.BuildDistributionTree(testWindow(t, map[string]string{addr1: "100"}))
		assert.Nil(t, err)
		second, err := builder.BuildDistributionTree(testWindow(t, map[string]string{addr1: "101"}))
		assert.Nil(t, err)

		assert.NotEqual(t, first.Root, second.Root)
	})

	t.Run("Should reject an empty window", func(t *testing.T) {
		window := testWindow(t, map[string]string{})
		_, err := builder.BuildDistributionTree(window)
		assert.NotNil(t, err)
	})

	t.Run("Should carry the claim data alongside each proof", func(t *testing.T) {
		tree, err := builder.BuildDistributionTree(testWindow(t, map[string]string{addr1: "100"}))
		assert.Nil(t, err)

		recipient := tree.Recipients[addr1]
		assert.NotNil(t, recipient)
		assert.Equal(t, "100", recipient.Rewards)
		assert.Equal(t, wethAddr, recipient.Token)
	})
}
