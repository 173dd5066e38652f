// Package claims builds the per-window claims ledger consumed by the
// on-chain merkle distributor tooling. The emitted document is treated as
// append-only and immutable per window; reruns against the same stored
// distribution must produce a byte-identical file.
package claims

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/eldamar-labs/epoch-distributor/pkg/numbers"
	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

// ClaimsRecipient is the minimal claim data for one recipient. AccountIndex
// is the recipient's stable position within the window, used by the
// MerkleDistributor to index claims on-chain.
type ClaimsRecipient struct {
	WindowIndex  int    `json:"windowIndex"`
	AccountIndex int    `json:"accountIndex"`
	Rewards      string `json:"rewards"`
	Token        string `json:"token"`
}

// ClaimsWindow is one epoch's immutable claim ledger. Recipients preserves
// insertion order so the serialized document and the accountIndex assignment
// are reproducible independent of any map iteration order.
type ClaimsWindow struct {
	WindowIndex      int                                              `json:"windowIndex"`
	ChainId          int                                              `json:"chainId"`
	AggregateRewards interface{}                                      `json:"aggregateRewards"`
	Recipients       *orderedmap.OrderedMap[string, *ClaimsRecipient] `json:"recipients"`
}

// BuildClaims filters the distribution to accounts with a nonzero reward and
// assigns each a window-scoped account index.
//
// The account list must be in canonical insertion order, i.e. the order rows
// were written to the per-epoch distribution table. The index is assigned by
// enumeration over the filtered set in that order, never by re-sorting: the
// claims file feeds an immutable on-chain merkle root, so index assignment
// has to be byte-reproducible across reruns.
//
// The nonzero filter is a decimal comparison, not a string one, so "0" and
// "0.0" are both excluded.
func BuildClaims(accounts []*rewards.Account, windowIndex int, chainId int, aggregate interface{}) (*ClaimsWindow, error) {
	recipients := orderedmap.New[string, *ClaimsRecipient]()

	accountIndex := 0
	for _, account := range accounts {
		amount, err := numbers.FromString(account.Rewards.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "account %s has an unparseable reward", account.Address)
		}
		if amount.IsZero() || amount.IsNegative() {
			continue
		}
		recipients.Set(account.Address, &ClaimsRecipient{
			WindowIndex:  windowIndex,
			AccountIndex: accountIndex,
			Rewards:      account.Rewards.Amount,
			Token:        account.Rewards.Address,
		})
		accountIndex++
	}

	return &ClaimsWindow{
		WindowIndex:      windowIndex,
		ChainId:          chainId,
		AggregateRewards: aggregate,
		Recipients:       recipients,
	}, nil
}

// WriteFile serializes the window to disk. This is the terminal write of a
// track's run; it only happens after every allocation step has succeeded.
func (w *ClaimsWindow) WriteFile(path string) error {
	contents, err := json.MarshalIndent(w, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize claims window")
	}
	if err := os.WriteFile(path, append(contents, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write claims file %s", path)
	}
	return nil
}
