package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eldamar-labs/epoch-distributor/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "epoch-distributor",
	Short: "Computes and publishes per-epoch token reward distributions for the governance and staking tracks",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	initConfig(rootCmd)

	rootCmd.PersistentFlags().Bool(config.Debug, false, `"true" or "false"`)

	rootCmd.PersistentFlags().String(config.DatabaseHost, "localhost", `PostgreSQL host`)
	rootCmd.PersistentFlags().Int(config.DatabasePort, 5432, `PostgreSQL port`)
	rootCmd.PersistentFlags().String(config.DatabaseUser, "distributor", `PostgreSQL username`)
	rootCmd.PersistentFlags().String(config.DatabasePassword, "", `PostgreSQL password`)
	rootCmd.PersistentFlags().String(config.DatabaseDbName, "distributor", `PostgreSQL database name`)
	rootCmd.PersistentFlags().String(config.DatabaseSchemaName, "", `PostgreSQL schema name (default "public")`)
	rootCmd.PersistentFlags().String(config.DatabaseSSLMode, "disable", `PostgreSQL ssl mode`)

	rootCmd.PersistentFlags().String(config.ReportsRoot, "reports", `Root directory holding per-epoch report directories`)
	rootCmd.PersistentFlags().String(config.StatsdUrl, "", `e.g. "localhost:8125"`)

	rootCmd.AddCommand(runVersionCmd)
	rootCmd.AddCommand(initEpochCmd)
	rootCmd.AddCommand(governanceCmd)
	rootCmd.AddCommand(stakingCmd)

	initEpochCmd.PersistentFlags().Int(EpochMonth, 0, `The epoch's calendar month (1-12)`)
	initEpochCmd.PersistentFlags().Int(EpochYear, 0, `The epoch's calendar year`)
	initEpochCmd.PersistentFlags().String(EpochTemplate, "", `Path to an epoch config to seed the new epoch with (optional)`)

	for _, cmd := range []*cobra.Command{governanceCmd, stakingCmd} {
		cmd.PersistentFlags().String(EpochDate, "", `The epoch to run, e.g. "2026-3"`)
	}

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		viper.BindPFlag(key, f) //nolint:errcheck
		viper.BindEnv(key)      //nolint:errcheck
	})
}

func initConfig(cmd *cobra.Command) {
	viper.SetEnvPrefix(config.ENV_PREFIX)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.AutomaticEnv()
}
