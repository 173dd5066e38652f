package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eldamar-labs/epoch-distributor/pkg/snapshot"
)

var stakingCmd = &cobra.Command{
	Use:   "staking",
	Short: "Run the staking track distribution for an epoch",
	Long:  "Run the staking track distribution for an epoch. Depends on the governance track having been run for the same epoch, since the manager account's governance reward funds the staking budget.",
	Run: func(cmd *cobra.Command, args []string) {
		run := setupTrackRun(cmd)
		l := run.logger
		defer l.Sync() //nolint:errcheck

		snap, err := snapshot.LoadStakingSnapshot(filepath.Join(run.inputsDir, snapshot.StakingSnapshotFileName))
		if err != nil {
			l.Sugar().Fatalw("Failed to load staking snapshot", zap.Error(err))
		}

		result, err := run.distributor.RunStaking(snap)
		if err != nil {
			l.Sugar().Fatalw("Staking distribution failed", zap.Error(err))
		}

		l.Sugar().Infow("Staking distribution complete",
			zap.String("claimsFile", result.ClaimsFile),
			zap.Int("recipients", result.Claims.Recipients.Len()),
		)
	},
}
