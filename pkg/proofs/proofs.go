// Package proofs builds the merkle tree for a claims window and generates
// per-recipient inclusion proofs. The leaf encoding follows the distributor
// contract's claim struct: the field order and types must match exactly or
// on-chain verification fails.
package proofs

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/wealdtech/go-merkletree/v2"
	"github.com/wealdtech/go-merkletree/v2/keccak256"
	"go.uber.org/zap"

	"github.com/eldamar-labs/epoch-distributor/pkg/claims"
)

// RecipientProof carries one recipient's claim data plus its merkle proof.
type RecipientProof struct {
	claims.ClaimsRecipient
	Proof []string `json:"proof"`
}

// DistributionTree is a claims window with its merkle root and per-recipient
// proofs attached, ready for root submission and user claims.
type DistributionTree struct {
	WindowIndex int                        `json:"windowIndex"`
	ChainId     int                        `json:"chainId"`
	Root        string                     `json:"root"`
	Recipients  map[string]*RecipientProof `json:"recipients"`
}

// TreeBuilder turns claims windows into distribution trees.
type TreeBuilder struct {
	logger *zap.Logger
}

func NewTreeBuilder(l *zap.Logger) *TreeBuilder {
	return &TreeBuilder{logger: l}
}

var claimLeafArguments = abi.Arguments{
	{Type: mustNewType("address")},
	{Type: mustNewType("uint256")},
	{Type: mustNewType("uint256")},
	{Type: mustNewType("uint256")},
	{Type: mustNewType("address")},
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// encodeLeaf hashes the abi-encoded claim tuple once. The tree hashes each
// datum again, giving the double-keccak leaf convention the claim contract
// verifies against.
func encodeLeaf(address string, recipient *claims.ClaimsRecipient) ([]byte, error) {
	rewardAmount, ok := new(big.Int).SetString(recipient.Rewards, 10)
	if !ok {
		return nil, errors.Errorf("recipient %s has non-integer rewards '%s'", address, recipient.Rewards)
	}

	encoded, err := claimLeafArguments.Pack(
		gethcommon.HexToAddress(address),
		big.NewInt(int64(recipient.AccountIndex)),
		big.NewInt(int64(recipient.WindowIndex)),
		rewardAmount,
		gethcommon.HexToAddress(recipient.Token),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode claim leaf for %s", address)
	}
	return crypto.Keccak256(encoded), nil
}

// BuildDistributionTree builds the merkle tree over every recipient in the
// window and attaches an inclusion proof to each.
func (tb *TreeBuilder) BuildDistributionTree(window *claims.ClaimsWindow) (*DistributionTree, error) {
	if window.Recipients.Len() == 0 {
		return nil, errors.New("cannot build a merkle tree for an empty claims window")
	}

	leaves := make([][]byte, 0, window.Recipients.Len())
	addresses := make([]string, 0, window.Recipients.Len())
	for pair := window.Recipients.Oldest(); pair != nil; pair = pair.Next() {
		leaf, err := encodeLeaf(pair.Key, pair.Value)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
		addresses = append(addresses, pair.Key)
	}

	tree, err := merkletree.NewTree(
		merkletree.WithData(leaves),
		merkletree.WithHashType(keccak256.New()),
		merkletree.WithSorted(true),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build merkle tree")
	}

	recipients := make(map[string]*RecipientProof, len(addresses))
	for i, address := range addresses {
		proof, err := tree.GenerateProof(leaves[i], 0)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to generate proof for %s", address)
		}
		hashes := make([]string, 0, len(proof.Hashes))
		for _, h := range proof.Hashes {
			hashes = append(hashes, "0x"+hex.EncodeToString(h))
		}
		recipient, _ := window.Recipients.Get(address)
		recipients[address] = &RecipientProof{
			ClaimsRecipient: *recipient,
			Proof:           hashes,
		}
	}

	root := "0x" + hex.EncodeToString(tree.Root())
	tb.logger.Sugar().Infow("Built distribution tree",
		zap.Int("windowIndex", window.WindowIndex),
		zap.Int("recipients", len(recipients)),
		zap.String("root", root),
	)

	return &DistributionTree{
		WindowIndex: window.WindowIndex,
		ChainId:     window.ChainId,
		Root:        root,
		Recipients:  recipients,
	}, nil
}

// WriteFile serializes the tree alongside the claims artifact.
func (t *DistributionTree) WriteFile(path string) error {
	contents, err := json.MarshalIndent(t, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize distribution tree")
	}
	if err := os.WriteFile(path, append(contents, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write distribution tree %s", path)
	}
	return nil
}
