package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

const (
	managerAddr  = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"
	treasuryAddr = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	wethAddr = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	daiAddr  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	usdcAddr = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

func validEpochConfig(t *testing.T) *EpochConfig {
	governance, err := rewards.NewToken(daiAddr, "ARV", 18)
	assert.Nil(t, err)
	staking, err := rewards.NewToken(usdcAddr, "PRV", 18)
	assert.Nil(t, err)
	reward, err := rewards.NewToken(wethAddr, "WETH", 18)
	assert.Nil(t, err)

	return &EpochConfig{
		Date:               "2026-3",
		StartTimestamp:     1740787200,
		EndTimestamp:       1743465599,
		BlockSnapshot:      19000000,
		DistributionWindow: 12,
		ChainId:            1,
		Rewards:            reward.WithAmount("1000000000000000000"),
		GovernanceSplit:    0.7,
		StakingFee:         0,
		ManagerAddress:     managerAddr,
		GovernanceToken:    governance,
		StakingToken:       staking,
		Redistributions: []*rewards.RedistributionWeight{
			{Weight: 1, Option: rewards.RedistributionOption_RedistributeStaking},
		},
	}
}

func Test_EpochConfigValidate(t *testing.T) {
	t.Run("Should accept a valid config", func(t *testing.T) {
		assert.Nil(t, validEpochConfig(t).Validate())
	})

	t.Run("Should reject an empty date", func(t *testing.T) {
		cfg := validEpochConfig(t)
		cfg.Date = ""
		err := cfg.Validate()
		assert.IsType(t, &InvalidEpochConfigError{}, err)
		assert.Equal(t, "date", err.(*InvalidEpochConfigError).Field)
	})

	t.Run("Should reject an inverted time range", func(t *testing.T) {
		cfg := validEpochConfig(t)
		cfg.EndTimestamp = cfg.StartTimestamp
		assert.IsType(t, &InvalidEpochConfigError{}, cfg.Validate())
	})

	t.Run("Should reject an out-of-range governance split", func(t *testing.T) {
		cfg := validEpochConfig(t)
		cfg.GovernanceSplit = 1.5
		assert.IsType(t, &InvalidEpochConfigError{}, cfg.Validate())

		cfg.GovernanceSplit = -0.1
		assert.IsType(t, &InvalidEpochConfigError{}, cfg.Validate())
	})

	t.Run("Should accept the split boundaries", func(t *testing.T) {
		cfg := validEpochConfig(t)
		cfg.GovernanceSplit = 0
		assert.Nil(t, cfg.Validate())
		cfg.GovernanceSplit = 1
		assert.Nil(t, cfg.Validate())
	})

	t.Run("Should reject an out-of-range staking fee", func(t *testing.T) {
		cfg := validEpochConfig(t)
		cfg.StakingFee = 1.01
		assert.IsType(t, &InvalidEpochConfigError{}, cfg.Validate())
	})

	t.Run("Should reject a missing manager address", func(t *testing.T) {
		cfg := validEpochConfig(t)
		cfg.ManagerAddress = ""
		assert.IsType(t, &InvalidEpochConfigError{}, cfg.Validate())
	})

	t.Run("Should reject a non-positive chain id", func(t *testing.T) {
		cfg := validEpochConfig(t)
		cfg.ChainId = 0
		assert.IsType(t, &InvalidEpochConfigError{}, cfg.Validate())
	})

	t.Run("Should surface redistribution rule errors", func(t *testing.T) {
		cfg := validEpochConfig(t)
		cfg.Redistributions = []*rewards.RedistributionWeight{
			{Weight: 1, Option: rewards.RedistributionOption_RedistributeGovernance},
		}
		assert.IsType(t, &rewards.InvalidRedistributionError{}, cfg.Validate())
	})
}

func Test_EpochBoundaries(t *testing.T) {
	t.Run("Should span the full calendar month in UTC", func(t *testing.T) {
		start, end, err := EpochBoundaries(3, 2026)
		assert.Nil(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC), end)
	})

	t.Run("Should handle December rollover", func(t *testing.T) {
		_, end, err := EpochBoundaries(12, 2026)
		assert.Nil(t, err)
		assert.Equal(t, time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC), end)
	})

	t.Run("Should reject invalid months and years", func(t *testing.T) {
		_, _, err := EpochBoundaries(0, 2026)
		assert.IsType(t, &InvalidEpochConfigError{}, err)

		_, _, err = EpochBoundaries(13, 2026)
		assert.IsType(t, &InvalidEpochConfigError{}, err)

		_, _, err = EpochBoundaries(5, 2020)
		assert.IsType(t, &InvalidEpochConfigError{}, err)
	})
}

func Test_EpochConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := validEpochConfig(t)

	epochDir := dir + "/" + cfg.Date
	assert.Nil(t, WriteEpochConfig(epochDir, cfg))

	loaded, err := LoadEpochConfig(epochDir)
	assert.Nil(t, err)
	assert.Equal(t, cfg, loaded)

	t.Run("Should create the input and output layout", func(t *testing.T) {
		for _, sub := range []string{"inputs", "csv", "json"} {
			assert.DirExists(t, epochDir+"/"+sub)
		}
	})

	t.Run("Should fail to load a missing epoch directory", func(t *testing.T) {
		_, err := LoadEpochConfig(dir + "/2026-4")
		assert.NotNil(t, err)
	})

	t.Run("Should refuse to write an invalid config", func(t *testing.T) {
		broken := validEpochConfig(t)
		broken.ChainId = 0
		assert.NotNil(t, WriteEpochConfig(dir+"/broken", broken))
	})
}
