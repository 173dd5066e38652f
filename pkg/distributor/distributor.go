// Package distributor orchestrates the two track pipelines. Each stage runs
// to completion in a single pass: build accounts, allocate, redistribute,
// persist, then emit claims. Failures abort the run before the claims
// artifact is written; there is no partial progress or retry inside a stage.
package distributor

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eldamar-labs/epoch-distributor/internal/config"
	"github.com/eldamar-labs/epoch-distributor/pkg/claims"
	"github.com/eldamar-labs/epoch-distributor/pkg/metrics"
	"github.com/eldamar-labs/epoch-distributor/pkg/numbers"
	"github.com/eldamar-labs/epoch-distributor/pkg/proofs"
	"github.com/eldamar-labs/epoch-distributor/pkg/reportWriter"
	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
	"github.com/eldamar-labs/epoch-distributor/pkg/snapshot"
	"github.com/eldamar-labs/epoch-distributor/pkg/storage"
)

// MissingPriorDistributionError means a stage with a hard ordering dependency
// ran before its predecessor. The staking track cannot compute a budget
// without the governance track's stored output.
type MissingPriorDistributionError struct {
	Epoch string
	Track storage.Track
}

func (e *MissingPriorDistributionError) Error() string {
	return fmt.Sprintf("no %s distribution stored for epoch %s; run that stage first", e.Track, e.Epoch)
}

// Distributor runs track pipelines for one epoch directory.
type Distributor struct {
	logger   *zap.Logger
	store    storage.DistributionStore
	sink     *metrics.MetricsSink
	epochDir string
	cfg      *config.EpochConfig
}

func NewDistributor(
	l *zap.Logger,
	store storage.DistributionStore,
	sink *metrics.MetricsSink,
	epochDir string,
	cfg *config.EpochConfig,
) *Distributor {
	return &Distributor{
		logger:   l,
		store:    store,
		sink:     sink,
		epochDir: epochDir,
		cfg:      cfg,
	}
}

// TrackResult is the outcome of one track stage.
type TrackResult struct {
	Track        storage.Track
	Accounts     []*rewards.Account
	Stats        *rewards.TokenSummaryStats
	Summary      interface{}
	ClaimsFile   string
	Claims       *claims.ClaimsWindow
	Distribution *proofs.DistributionTree
}

func (d *Distributor) governanceBudget() (decimal.Decimal, error) {
	total, err := numbers.FromString(d.cfg.Rewards.Amount)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Mul(decimal.NewFromFloat(d.cfg.GovernanceSplit)).Floor(), nil
}

func (d *Distributor) stakingDirectBudget() (decimal.Decimal, error) {
	total, err := numbers.FromString(d.cfg.Rewards.Amount)
	if err != nil {
		return decimal.Zero, err
	}
	governance, err := d.governanceBudget()
	if err != nil {
		return decimal.Zero, err
	}
	// The staking slice is total minus the governance slice rather than
	// total * (1 - split), so the two track budgets always sum exactly to
	// the configured total.
	return total.Sub(governance), nil
}

// RunGovernance executes the governance track stage.
//
// The manager account participates in the allocation like any other active
// holder, then is separated out: it must not appear in the governance claim
// set, and its reward becomes the staking track's passthrough funding.
func (d *Distributor) RunGovernance(snap *snapshot.GovernanceSnapshot) (*TrackResult, error) {
	start := time.Now()
	result, err := d.runGovernance(snap)
	d.observeRun(storage.Track_Governance, start, err)
	return result, err
}

func (d *Distributor) runGovernance(snap *snapshot.GovernanceSnapshot) (*TrackResult, error) {
	d.logger.Sugar().Infow("Running governance distribution",
		zap.String("epoch", d.cfg.Date),
		zap.Int("holders", len(snap.Holders)),
		zap.Int("voters", len(snap.Voters)),
	)

	accounts, err := snapshot.BuildGovernanceAccounts(snap, d.cfg.GovernanceToken, d.cfg.Rewards.Token, d.cfg.ManagerAddress)
	if err != nil {
		return nil, err
	}

	stats, err := rewards.ComputeTokenStats(accounts)
	if err != nil {
		return nil, err
	}
	activeSupply, err := numbers.FromString(stats.Active)
	if err != nil {
		return nil, err
	}

	budget, err := d.governanceBudget()
	if err != nil {
		return nil, err
	}
	budgetAmount := d.cfg.Rewards.Token.WithAmount(numbers.FloorToString(budget))

	distributed, baseSummary, err := rewards.ComputeRewards(budgetAmount, activeSupply, accounts)
	if err != nil {
		return nil, err
	}

	remaining, manager, err := rewards.SeparateManager(distributed, d.cfg.ManagerAddress)
	if err != nil {
		return nil, err
	}
	summary, err := rewards.SeparateManagerRewards(rewards.NewGovernanceRewardSummary(baseSummary), manager)
	if err != nil {
		return nil, err
	}

	d.logger.Sugar().Infow("Governance allocation complete",
		zap.String("proRata", summary.ProRata),
		zap.String("toStaking", summary.ToStaking),
		zap.String("activeSupply", stats.Active),
	)

	return d.finalizeTrack(storage.Track_Governance, remaining, stats, summary)
}

// RunStaking executes the staking track stage. It depends on the stored
// governance output for the manager passthrough figure and fails fast if
// that stage has not run for this epoch.
func (d *Distributor) RunStaking(snap *snapshot.StakingSnapshot) (*TrackResult, error) {
	start := time.Now()
	result, err := d.runStaking(snap)
	d.observeRun(storage.Track_Staking, start, err)
	return result, err
}

func (d *Distributor) runStaking(snap *snapshot.StakingSnapshot) (*TrackResult, error) {
	passthrough, err := d.governancePassthrough()
	if err != nil {
		return nil, err
	}

	direct, err := d.stakingDirectBudget()
	if err != nil {
		return nil, err
	}
	baseBudget := direct.Add(passthrough)

	fee := baseBudget.Mul(decimal.NewFromFloat(d.cfg.StakingFee)).Floor()
	budget := baseBudget.Sub(fee)

	d.logger.Sugar().Infow("Running staking distribution",
		zap.String("epoch", d.cfg.Date),
		zap.Int("holders", len(snap.Holders)),
		zap.String("directBudget", direct.String()),
		zap.String("passthrough", passthrough.String()),
		zap.String("fee", fee.String()),
	)

	accounts, err := snapshot.BuildStakingAccounts(snap, d.cfg.StakingToken, d.cfg.Rewards.Token)
	if err != nil {
		return nil, err
	}

	stats, err := rewards.ComputeTokenStatsWithSupply(accounts, snap.TotalSupply)
	if err != nil {
		return nil, err
	}

	activeRewards, inactiveRewards, err := rewards.SplitActiveInactiveRewards(stats, budget)
	if err != nil {
		return nil, err
	}

	container, err := rewards.NewRedistributionContainer(d.cfg.Redistributions)
	if err != nil {
		return nil, err
	}
	if err := container.Redistribute(inactiveRewards); err != nil {
		return nil, err
	}

	withTransfers, err := rewards.ApplyTransfers(accounts, container, d.cfg.Rewards.Token, d.cfg.StakingToken)
	if err != nil {
		return nil, err
	}

	// Re-inject the staker-bound redistribution slice into the pro-rata
	// budget instead of crediting accounts directly, so activity gating
	// still decides who receives it.
	stakersBudget := d.cfg.Rewards.Token.WithAmount(numbers.FloorToString(activeRewards.Add(container.ToStakers())))

	activeSupply, err := numbers.FromString(stats.Active)
	if err != nil {
		return nil, err
	}
	distributed, baseSummary, err := rewards.ComputeRewards(stakersBudget, activeSupply, withTransfers)
	if err != nil {
		return nil, err
	}

	summary := rewards.NewStakingRewardSummary(baseSummary)
	summary.Amount = numbers.FloorToString(budget)
	summary.Fee = numbers.FloorToString(fee)
	summary.AddRedistributionData(container.ToStakers(), container.Transferred())

	d.logger.Sugar().Infow("Staking allocation complete",
		zap.String("proRata", summary.ProRata),
		zap.String("redistributedTotal", summary.RedistributedTotal),
		zap.String("activeSupply", stats.Active),
	)

	return d.finalizeTrack(storage.Track_Staking, distributed, stats, summary)
}

// governancePassthrough reads the manager's reward out of the stored
// governance summary.
func (d *Distributor) governancePassthrough() (decimal.Decimal, error) {
	stored, err := d.store.GetTrackStats(d.cfg.Date, storage.Track_Governance)
	if err != nil {
		return decimal.Zero, err
	}
	if stored == nil {
		return decimal.Zero, &MissingPriorDistributionError{Epoch: d.cfg.Date, Track: storage.Track_Governance}
	}

	var summary rewards.GovernanceRewardSummary
	if err := json.Unmarshal([]byte(stored.Summary), &summary); err != nil {
		return decimal.Zero, err
	}
	return numbers.FromString(summary.ToStaking)
}

// finalizeTrack persists the distribution, rebuilds the account list from
// the store's insertion order, and emits the claims window, merkle tree, and
// debug reports. The claims file write is last: nothing is published unless
// every preceding step succeeded.
func (d *Distributor) finalizeTrack(track storage.Track, accounts []*rewards.Account, stats *rewards.TokenSummaryStats, summary interface{}) (*TrackResult, error) {
	if err := d.store.SaveDistribution(d.cfg.Date, track, accounts); err != nil {
		return nil, err
	}
	if err := d.store.SaveTrackStats(d.cfg.Date, track, stats, summary); err != nil {
		return nil, err
	}

	stored, err := d.store.ListDistribution(d.cfg.Date, track)
	if err != nil {
		return nil, err
	}

	window, err := claims.BuildClaims(stored, d.cfg.DistributionWindow, d.cfg.ChainId, summary)
	if err != nil {
		return nil, err
	}

	var tree *proofs.DistributionTree
	if window.Recipients.Len() > 0 {
		tree, err = proofs.NewTreeBuilder(d.logger).BuildDistributionTree(window)
		if err != nil {
			return nil, err
		}
	}

	writer := reportWriter.NewReportWriter(d.epochDir)
	if err := writer.WriteAccounts(fmt.Sprintf("%s-distribution", track), stored); err != nil {
		return nil, err
	}
	if err := writer.WriteJSON(fmt.Sprintf("%s-stats", track), map[string]interface{}{
		"tokenStats": stats,
		"rewards":    summary,
	}); err != nil {
		return nil, err
	}

	claimsFile := filepath.Join(d.epochDir, fmt.Sprintf("claims-%s.json", track))
	if err := window.WriteFile(claimsFile); err != nil {
		return nil, err
	}
	if tree != nil {
		treeFile := filepath.Join(d.epochDir, fmt.Sprintf("tree-%s.json", track))
		if err := tree.WriteFile(treeFile); err != nil {
			return nil, err
		}
	}

	d.logger.Sugar().Infow("Track distribution finalized",
		zap.String("track", string(track)),
		zap.String("epoch", d.cfg.Date),
		zap.Int("recipients", window.Recipients.Len()),
		zap.String("claimsFile", claimsFile),
	)

	return &TrackResult{
		Track:        track,
		Accounts:     stored,
		Stats:        stats,
		Summary:      summary,
		ClaimsFile:   claimsFile,
		Claims:       window,
		Distribution: tree,
	}, nil
}

func (d *Distributor) observeRun(track storage.Track, start time.Time, err error) {
	if d.sink == nil {
		return
	}
	tags := []string{fmt.Sprintf("track:%s", track)}
	if err != nil {
		d.sink.Incr(metrics.Metric_Incr_DistributionRunFailed, tags)
	} else {
		d.sink.Incr(metrics.Metric_Incr_DistributionRun, tags)
	}
	d.sink.Timing(metrics.Metric_Timing_DistributionRun, time.Since(start), tags)
	d.sink.Flush()
}
