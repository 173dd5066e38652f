package cmd

import (
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eldamar-labs/epoch-distributor/internal/config"
	"github.com/eldamar-labs/epoch-distributor/internal/version"
	"github.com/eldamar-labs/epoch-distributor/pkg/distributor"
	"github.com/eldamar-labs/epoch-distributor/pkg/logger"
	"github.com/eldamar-labs/epoch-distributor/pkg/metrics"
	"github.com/eldamar-labs/epoch-distributor/pkg/postgres"
	"github.com/eldamar-labs/epoch-distributor/pkg/postgres/migrations"
	pgStorage "github.com/eldamar-labs/epoch-distributor/pkg/storage/postgres"
)

// trackRun is the shared setup for the per-track commands: logging, metrics,
// database plus migrations, epoch config, and the distributor itself.
type trackRun struct {
	logger      *zap.Logger
	distributor *distributor.Distributor
	epochDir    string
	inputsDir   string
}

func setupTrackRun(cmd *cobra.Command) *trackRun {
	initTrackCmd(cmd)
	cfg := config.NewConfig()

	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})

	epoch := viper.GetString(config.KebabToSnakeCase(EpochDate))
	if epoch == "" {
		l.Sugar().Fatalw("An epoch date is required", zap.String("flag", EpochDate))
	}

	l.Sugar().Infow("epoch-distributor",
		zap.String("version", version.GetVersion()),
		zap.String("commit", version.GetCommit()),
		zap.String("epoch", epoch),
	)

	sink, err := metrics.NewMetricsSink(&metrics.MetricsSinkConfig{StatsdUrl: cfg.StatsdUrl}, l)
	if err != nil {
		l.Sugar().Fatalw("Failed to setup metrics sink", zap.Error(err))
	}

	pg, err := postgres.NewPostgres(&postgres.PostgresConfig{
		Host:       cfg.DatabaseConfig.Host,
		Port:       cfg.DatabaseConfig.Port,
		Username:   cfg.DatabaseConfig.User,
		Password:   cfg.DatabaseConfig.Password,
		DbName:     cfg.DatabaseConfig.DbName,
		SchemaName: cfg.DatabaseConfig.SchemaName,
		SSLMode:    cfg.DatabaseConfig.SSLMode,
	})
	if err != nil {
		l.Sugar().Fatalw("Failed to setup postgres connection", zap.Error(err))
	}

	grm, err := postgres.NewGormFromPostgresConnection(pg.Db)
	if err != nil {
		l.Sugar().Fatalw("Failed to create gorm instance", zap.Error(err))
	}

	migrator := migrations.NewMigrator(pg.Db, grm, l)
	if err = migrator.MigrateAll(); err != nil {
		l.Sugar().Fatalw("Failed to run migrations", zap.Error(err))
	}

	epochDir := filepath.Join(cfg.ReportsRoot, epoch)
	epochCfg, err := config.LoadEpochConfig(epochDir)
	if err != nil {
		l.Sugar().Fatalw("Failed to load epoch config", zap.Error(err))
	}

	store := pgStorage.NewPostgresDistributionStore(grm, l)

	return &trackRun{
		logger:      l,
		distributor: distributor.NewDistributor(l, store, sink, epochDir, epochCfg),
		epochDir:    epochDir,
		inputsDir:   filepath.Join(epochDir, "inputs"),
	}
}

func initTrackCmd(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(config.KebabToSnakeCase(f.Name), f); err != nil {
			log.Fatalf("Failed to bind flag '%s' - %v", f.Name, err)
		}
		if err := viper.BindEnv(f.Name); err != nil {
			log.Fatalf("Failed to bind env '%s' - %v", f.Name, err)
		}
	})
}
