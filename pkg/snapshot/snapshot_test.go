package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

const (
	addr1       = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	addr2       = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	addr3       = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	managerAddr = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"

	wethAddr = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	daiAddr  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	usdcAddr = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

func testTokens(t *testing.T) (governance rewards.Token, staking rewards.Token, reward rewards.Token) {
	governance, err := rewards.NewToken(daiAddr, "ARV", 18)
	assert.Nil(t, err)
	staking, err = rewards.NewToken(usdcAddr, "PRV", 18)
	assert.Nil(t, err)
	reward, err = rewards.NewToken(wethAddr, "WETH", 18)
	assert.Nil(t, err)
	return governance, staking, reward
}

func Test_BuildGovernanceAccounts(t *testing.T) {
	governance, _, reward := testTokens(t)

	snap := &GovernanceSnapshot{
		Holders: []Holder{
			{Address: addr1, Amount: "100"},
			{Address: addr2, Amount: "200"},
			{Address: managerAddr, Amount: "0"},
		},
		DecayedBalances: map[string]string{
			addr1: "80",
			addr2: "150",
		},
		Voters: []string{addr1},
	}

	t.Run("Should weight holders by decayed balance and gate on voting", func(t *testing.T) {
		accounts, err := BuildGovernanceAccounts(snap, governance, reward, managerAddr)
		assert.Nil(t, err)
		assert.Len(t, accounts, 3)

		assert.Equal(t, addr1, accounts[0].Address)
		assert.Equal(t, "80", accounts[0].Token.Amount)
		assert.Equal(t, rewards.AccountState_Active, accounts[0].State)

		assert.Equal(t, "150", accounts[1].Token.Amount)
		assert.Equal(t, rewards.AccountState_Inactive, accounts[1].State)
	})

	t.Run("Should mark the manager active and fall back to its raw balance", func(t *testing.T) {
		accounts, err := BuildGovernanceAccounts(snap, governance, reward, managerAddr)
		assert.Nil(t, err)

		manager := accounts[2]
		assert.Equal(t, managerAddr, manager.Address)
		assert.Equal(t, "0", manager.Token.Amount)
		assert.Equal(t, rewards.AccountState_Active, manager.State)
	})

	t.Run("Should fail on a holder with no decayed balance", func(t *testing.T) {
		broken := &GovernanceSnapshot{
			Holders:         []Holder{{Address: addr3, Amount: "100"}},
			DecayedBalances: map[string]string{},
		}
		_, err := BuildGovernanceAccounts(broken, governance, reward, managerAddr)
		assert.IsType(t, &MissingDecayedBalanceError{}, err)
	})

	t.Run("Should join voters and balances case-insensitively", func(t *testing.T) {
		mixed := &GovernanceSnapshot{
			Holders: []Holder{{Address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", Amount: "100"}},
			DecayedBalances: map[string]string{
				"0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED": "90",
			},
			Voters: []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		}

		accounts, err := BuildGovernanceAccounts(mixed, governance, reward, managerAddr)
		assert.Nil(t, err)
		assert.Equal(t, addr1, accounts[0].Address)
		assert.Equal(t, "90", accounts[0].Token.Amount)
		assert.Equal(t, rewards.AccountState_Active, accounts[0].State)
	})
}

func Test_BuildStakingAccounts(t *testing.T) {
	_, staking, reward := testTokens(t)

	snap := &StakingSnapshot{
		Holders: []StakingHolder{
			{Holder: Holder{Address: addr1, Amount: "100"}, Staked: true},
			{Holder: Holder{Address: addr2, Amount: "200"}, Staked: false},
		},
		TotalSupply: "500",
	}

	accounts, err := BuildStakingAccounts(snap, staking, reward)
	assert.Nil(t, err)
	assert.Len(t, accounts, 2)

	assert.Equal(t, rewards.AccountState_Active, accounts[0].State)
	assert.Equal(t, "100", accounts[0].Token.Amount)
	assert.Equal(t, rewards.AccountState_Inactive, accounts[1].State)
}

func Test_LoadSnapshots(t *testing.T) {
	dir := t.TempDir()

	t.Run("Should round-trip a governance snapshot document", func(t *testing.T) {
		snap := &GovernanceSnapshot{
			Holders:         []Holder{{Address: addr1, Amount: "100"}},
			DecayedBalances: map[string]string{addr1: "90"},
			Voters:          []string{addr1},
		}
		contents, err := json.Marshal(snap)
		assert.Nil(t, err)

		path := filepath.Join(dir, GovernanceSnapshotFileName)
		assert.Nil(t, os.WriteFile(path, contents, 0o644))

		loaded, err := LoadGovernanceSnapshot(path)
		assert.Nil(t, err)
		assert.Equal(t, snap, loaded)
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := LoadStakingSnapshot(filepath.Join(dir, "nope.json"))
		assert.NotNil(t, err)
	})

	t.Run("Should fail on malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		assert.Nil(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := LoadGovernanceSnapshot(path)
		assert.NotNil(t, err)
	})
}
