// Package rewards implements the distribution engine: the rules that turn a
// set of token-weighted accounts plus a reward budget into exact per-account
// reward amounts, with inactivity gating, weighted redistribution of
// forfeited rewards, and manager/custodian separation between the two reward
// tracks.
package rewards

import (
	"fmt"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// AccountState classifies a holder's participation for the epoch.
type AccountState string

const (
	// AccountState_Active marks an account that voted (governance track) or
	// is currently staked (staking track) and receives a pro-rata reward.
	AccountState_Active AccountState = "active"

	// AccountState_Inactive marks an account that receives zero from the
	// pro-rata step. It may still receive a transfer redistribution.
	AccountState_Inactive AccountState = "inactive"
)

// Token identifies an ERC20 token.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// TokenAmount is a token plus a base-unit integer amount, kept as a decimal
// string to avoid precision loss.
type TokenAmount struct {
	Token
	Amount string `json:"amount"`
}

// NewToken checksums the token address.
func NewToken(address, symbol string, decimals uint8) (Token, error) {
	checksummed, err := ChecksumAddress(address)
	if err != nil {
		return Token{}, err
	}
	return Token{Address: checksummed, Symbol: symbol, Decimals: decimals}, nil
}

// WithAmount returns a TokenAmount of this token.
func (t Token) WithAmount(amount string) TokenAmount {
	return TokenAmount{Token: t, Amount: amount}
}

// ZeroAmount returns a TokenAmount of this token with a zero balance.
func (t Token) ZeroAmount() TokenAmount {
	return t.WithAmount("0")
}

// ChecksumAddress normalizes an address to its EIP-55 checksummed form.
// Every address is passed through this exactly once, at ingestion, so the
// rest of the pipeline can join on raw string equality.
func ChecksumAddress(address string) (string, error) {
	if !gethcommon.IsHexAddress(address) {
		return "", errors.Errorf("invalid ethereum address '%s'", address)
	}
	return gethcommon.HexToAddress(address).Hex(), nil
}

// Account is one holder's state for a single epoch and track. Accounts are
// constructed fresh each epoch; nothing mutates them across epochs.
type Account struct {
	// Address is the checksummed holder address, the join key everywhere.
	Address string `json:"address"`

	// Token is the holder's weighted balance for this track: the
	// decayed/boosted lock balance on the governance track, or the actively
	// staked balance on the staking track.
	Token TokenAmount `json:"token"`

	// Rewards accumulates the reward owed to this account. It starts at zero
	// and only grows, through the pro-rata step and transfer redistributions.
	Rewards TokenAmount `json:"rewards"`

	State AccountState `json:"state"`

	// Notes is an append-only audit log of reward-affecting events. It is
	// informational only and never read back by the engine.
	Notes []string `json:"notes"`
}

// NewAccount builds an account with zero rewards in the given reward token.
func NewAccount(address string, holding TokenAmount, state AccountState, rewardToken Token) (*Account, error) {
	checksummed, err := ChecksumAddress(address)
	if err != nil {
		return nil, err
	}
	return &Account{
		Address: checksummed,
		Token:   holding,
		Rewards: rewardToken.ZeroAmount(),
		State:   state,
		Notes:   []string{},
	}, nil
}

// Clone returns a deep copy of the account. Allocation steps operate on
// copies so no step ever mutates a caller-visible list.
func (a *Account) Clone() *Account {
	notes := make([]string, len(a.Notes))
	copy(notes, a.Notes)
	return &Account{
		Address: a.Address,
		Token:   a.Token,
		Rewards: a.Rewards,
		State:   a.State,
		Notes:   notes,
	}
}

// AddNote appends an audit entry.
func (a *Account) AddNote(format string, args ...interface{}) {
	a.Notes = append(a.Notes, fmt.Sprintf(format, args...))
}

// CloneAccounts deep-copies a full account list, preserving order.
func CloneAccounts(accounts []*Account) []*Account {
	cloned := make([]*Account, 0, len(accounts))
	for _, a := range accounts {
		cloned = append(cloned, a.Clone())
	}
	return cloned
}

// FilterAccountsByState returns the accounts in the given state, preserving
// order.
func FilterAccountsByState(accounts []*Account, state AccountState) []*Account {
	filtered := make([]*Account, 0)
	for _, a := range accounts {
		if a.State == state {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
