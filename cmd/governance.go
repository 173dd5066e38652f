package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eldamar-labs/epoch-distributor/pkg/snapshot"
)

var governanceCmd = &cobra.Command{
	Use:   "governance",
	Short: "Run the governance track distribution for an epoch",
	Run: func(cmd *cobra.Command, args []string) {
		run := setupTrackRun(cmd)
		l := run.logger
		defer l.Sync() //nolint:errcheck

		snap, err := snapshot.LoadGovernanceSnapshot(filepath.Join(run.inputsDir, snapshot.GovernanceSnapshotFileName))
		if err != nil {
			l.Sugar().Fatalw("Failed to load governance snapshot", zap.Error(err))
		}

		result, err := run.distributor.RunGovernance(snap)
		if err != nil {
			l.Sugar().Fatalw("Governance distribution failed", zap.Error(err))
		}

		l.Sugar().Infow("Governance distribution complete",
			zap.String("claimsFile", result.ClaimsFile),
			zap.Int("recipients", result.Claims.Recipients.Len()),
		)
	},
}
