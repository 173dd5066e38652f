package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

// EpochConfigFileName is the per-epoch config document inside an epoch
// directory.
const EpochConfigFileName = "epoch-conf.json"

// InvalidEpochConfigError is a fatal pre-flight configuration error.
type InvalidEpochConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidEpochConfigError) Error() string {
	return fmt.Sprintf("invalid epoch config field '%s': %s", e.Field, e.Reason)
}

// EpochConfig is one distribution period's parameters. It is written once
// when the epoch is initialized and loaded read-only by both track stages.
type EpochConfig struct {
	// Date identifies the epoch, e.g. "2026-3".
	Date           string `json:"date"`
	StartTimestamp int64  `json:"startTimestamp"`
	EndTimestamp   int64  `json:"endTimestamp"`

	// BlockSnapshot is the block height all balances were read at.
	BlockSnapshot uint64 `json:"blockSnapshot"`

	// DistributionWindow is the claim window index for this epoch, unique
	// across the lifetime of the distributor contract.
	DistributionWindow int `json:"distributionWindow"`

	ChainId int `json:"chainId"`

	// Rewards is the total reward budget for the epoch across both tracks.
	Rewards rewards.TokenAmount `json:"rewards"`

	// GovernanceSplit is the fraction of the budget allocated to the
	// governance track. The remainder funds the staking track directly, on
	// top of the manager account's passthrough reward.
	GovernanceSplit float64 `json:"governanceSplit"`

	// StakingFee is the protocol fee carved off the staking track's budget
	// before distribution.
	StakingFee float64 `json:"stakingFee"`

	ManagerAddress  string        `json:"managerAddress"`
	GovernanceToken rewards.Token `json:"governanceToken"`
	StakingToken    rewards.Token `json:"stakingToken"`

	Redistributions []*rewards.RedistributionWeight `json:"redistributions"`
}

// Validate applies every pre-flight constraint. Nothing downstream
// re-validates: a loaded config is trusted.
func (c *EpochConfig) Validate() error {
	if c.Date == "" {
		return &InvalidEpochConfigError{Field: "date", Reason: "must not be empty"}
	}
	if c.EndTimestamp <= c.StartTimestamp {
		return &InvalidEpochConfigError{Field: "endTimestamp", Reason: "must be after startTimestamp"}
	}
	if c.DistributionWindow < 0 {
		return &InvalidEpochConfigError{Field: "distributionWindow", Reason: "must not be negative"}
	}
	if c.ChainId <= 0 {
		return &InvalidEpochConfigError{Field: "chainId", Reason: "must be positive"}
	}
	if c.GovernanceSplit < 0 || c.GovernanceSplit > 1 {
		return &InvalidEpochConfigError{Field: "governanceSplit", Reason: "must be between 0 and 1 inclusive"}
	}
	if c.StakingFee < 0 || c.StakingFee > 1 {
		return &InvalidEpochConfigError{Field: "stakingFee", Reason: "must be between 0 and 1 inclusive"}
	}
	if _, err := rewards.ChecksumAddress(c.ManagerAddress); err != nil {
		return &InvalidEpochConfigError{Field: "managerAddress", Reason: err.Error()}
	}
	if err := rewards.ValidateRedistributions(c.Redistributions); err != nil {
		return err
	}
	return nil
}

// LoadEpochConfig reads and validates the epoch config in the given epoch
// directory.
func LoadEpochConfig(epochDir string) (*EpochConfig, error) {
	path := filepath.Join(epochDir, EpochConfigFileName)
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read epoch config %s", path)
	}

	var cfg EpochConfig
	if err := json.Unmarshal(contents, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse epoch config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EpochBoundaries computes the UTC calendar boundaries of a month. Months
// run from midnight on the 1st to 23:59:59 on the last day.
func EpochBoundaries(month int, year int) (start time.Time, end time.Time, err error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, &InvalidEpochConfigError{Field: "month", Reason: "must be between 1 and 12"}
	}
	if year < 2023 {
		return time.Time{}, time.Time{}, &InvalidEpochConfigError{Field: "year", Reason: "must be 2023 or later"}
	}

	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}

// WriteEpochConfig serializes the config into its epoch directory, creating
// the directory layout for the epoch's inputs and outputs.
func WriteEpochConfig(epochDir string, cfg *EpochConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, dir := range []string{epochDir, filepath.Join(epochDir, "inputs"), filepath.Join(epochDir, "csv"), filepath.Join(epochDir, "json")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create epoch directory %s", dir)
		}
	}

	contents, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize epoch config")
	}
	path := filepath.Join(epochDir, EpochConfigFileName)
	if err := os.WriteFile(path, append(contents, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write epoch config %s", path)
	}
	return nil
}
