package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eldamar-labs/epoch-distributor/internal/config"
	"github.com/eldamar-labs/epoch-distributor/pkg/logger"
)

const (
	EpochMonth    = "epoch.month"
	EpochYear     = "epoch.year"
	EpochTemplate = "epoch.template"
	EpochDate     = "epoch.date"
)

var initEpochCmd = &cobra.Command{
	Use:   "init-epoch",
	Short: "Create a new epoch directory with its config and input/output layout",
	Run: func(cmd *cobra.Command, args []string) {
		initInitEpochCmd(cmd)
		cfg := config.NewConfig()

		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
		defer l.Sync() //nolint:errcheck

		month := viper.GetInt(config.KebabToSnakeCase(EpochMonth))
		year := viper.GetInt(config.KebabToSnakeCase(EpochYear))

		start, end, err := config.EpochBoundaries(month, year)
		if err != nil {
			l.Sugar().Fatalw("Invalid epoch boundaries", zap.Error(err))
		}

		epochCfg := &config.EpochConfig{}
		if template := viper.GetString(config.KebabToSnakeCase(EpochTemplate)); template != "" {
			contents, err := os.ReadFile(template)
			if err != nil {
				l.Sugar().Fatalw("Failed to read epoch template", zap.Error(err))
			}
			if err := json.Unmarshal(contents, epochCfg); err != nil {
				l.Sugar().Fatalw("Failed to parse epoch template", zap.Error(err))
			}
		}

		epochCfg.Date = fmt.Sprintf("%d-%d", year, month)
		epochCfg.StartTimestamp = start.Unix()
		epochCfg.EndTimestamp = end.Unix()

		epochDir := filepath.Join(cfg.ReportsRoot, epochCfg.Date)
		if err := config.WriteEpochConfig(epochDir, epochCfg); err != nil {
			l.Sugar().Fatalw("Failed to write epoch config", zap.Error(err))
		}

		l.Sugar().Infow("Initialized epoch",
			zap.String("epoch", epochCfg.Date),
			zap.String("epochDir", epochDir),
			zap.Int64("startTimestamp", epochCfg.StartTimestamp),
			zap.Int64("endTimestamp", epochCfg.EndTimestamp),
		)
	},
}

func initInitEpochCmd(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(config.KebabToSnakeCase(f.Name), f); err != nil {
			log.Fatalf("Failed to bind flag '%s' - %v", f.Name, err)
		}
		if err := viper.BindEnv(f.Name); err != nil {
			log.Fatalf("Failed to bind env '%s' - %v", f.Name, err)
		}
	})
}
