// Package snapshot is the ingestion boundary of the distributor. It loads
// fully materialized holder and participation snapshots from local files and
// turns them into the account sets the allocation engine runs over. Fetching
// this data from indexers or RPC nodes happens upstream and out of process;
// by the time a snapshot reaches this package it is expected to be complete,
// deduplicated, and internally consistent.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

// Snapshot documents live under the epoch directory's inputs folder.
const (
	GovernanceSnapshotFileName = "governance-snapshot.json"
	StakingSnapshotFileName    = "staking-snapshot.json"
)

// Holder is one address and its raw token balance at the snapshot block.
type Holder struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// GovernanceSnapshot is the governance track's input: raw lock holders, the
// decay oracle's boosted/decayed balance per holder, and the set of addresses
// that voted during the epoch (delegation already resolved upstream).
type GovernanceSnapshot struct {
	Holders         []Holder          `json:"holders"`
	DecayedBalances map[string]string `json:"decayedBalances"`
	Voters          []string          `json:"voters"`
}

// StakingSnapshot is the staking track's input: holders with a staked flag,
// plus the token's authoritative on-chain total supply at the snapshot block.
type StakingSnapshot struct {
	Holders     []StakingHolder `json:"holders"`
	TotalSupply string          `json:"totalSupply"`
}

type StakingHolder struct {
	Holder
	Staked bool `json:"staked"`
}

// MissingDecayedBalanceError means the decay oracle result set has no entry
// for a known holder. The multicall result is inconsistent; defaulting the
// balance to zero would silently erase a legitimate holder's reward, so this
// is fatal.
type MissingDecayedBalanceError struct {
	Address string
}

func (e *MissingDecayedBalanceError) Error() string {
	return fmt.Sprintf("missing decayed balance for holder %s", e.Address)
}

func loadJSONFile(path string, out interface{}) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read snapshot file %s", path)
	}
	if err := json.Unmarshal(contents, out); err != nil {
		return errors.Wrapf(err, "failed to parse snapshot file %s", path)
	}
	return nil
}

// LoadGovernanceSnapshot reads a governance snapshot document from disk.
func LoadGovernanceSnapshot(path string) (*GovernanceSnapshot, error) {
	var snap GovernanceSnapshot
	if err := loadJSONFile(path, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LoadStakingSnapshot reads a staking snapshot document from disk.
func LoadStakingSnapshot(path string) (*StakingSnapshot, error) {
	var snap StakingSnapshot
	if err := loadJSONFile(path, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// BuildGovernanceAccounts turns the snapshot into the governance track's
// account set. Each holder is weighted by its decayed balance, classified
// ACTIVE iff it voted. The manager account never votes itself and is always
// ACTIVE; it is exempt from the decay requirement for the same reason and
// falls back to its raw balance when the oracle has no entry for it.
func BuildGovernanceAccounts(snap *GovernanceSnapshot, governanceToken rewards.Token, rewardToken rewards.Token, managerAddress string) ([]*rewards.Account, error) {
	manager, err := rewards.ChecksumAddress(managerAddress)
	if err != nil {
		return nil, err
	}

	voters := make(map[string]bool, len(snap.Voters))
	for _, voter := range snap.Voters {
		checksummed, err := rewards.ChecksumAddress(voter)
		if err != nil {
			return nil, err
		}
		voters[checksummed] = true
	}

	decayed := make(map[string]string, len(snap.DecayedBalances))
	for address, balance := range snap.DecayedBalances {
		checksummed, err := rewards.ChecksumAddress(address)
		if err != nil {
			return nil, err
		}
		decayed[checksummed] = balance
	}

	accounts := make([]*rewards.Account, 0, len(snap.Holders))
	for _, holder := range snap.Holders {
		address, err := rewards.ChecksumAddress(holder.Address)
		if err != nil {
			return nil, err
		}

		isManager := address == manager

		balance, ok := decayed[address]
		if !ok {
			if !isManager {
				return nil, &MissingDecayedBalanceError{Address: address}
			}
			balance = holder.Amount
		}

		state := rewards.AccountState_Inactive
		if isManager || voters[address] {
			state = rewards.AccountState_Active
		}

		account, err := rewards.NewAccount(address, governanceToken.WithAmount(balance), state, rewardToken)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// BuildStakingAccounts turns the snapshot into the staking track's account
// set: holders weighted by staked balance, ACTIVE iff currently staked.
func BuildStakingAccounts(snap *StakingSnapshot, stakingToken rewards.Token, rewardToken rewards.Token) ([]*rewards.Account, error) {
	accounts := make([]*rewards.Account, 0, len(snap.Holders))
	for _, holder := range snap.Holders {
		state := rewards.AccountState_Inactive
		if holder.Staked {
			state = rewards.AccountState_Active
		}
		account, err := rewards.NewAccount(holder.Address, stakingToken.WithAmount(holder.Amount), state, rewardToken)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
