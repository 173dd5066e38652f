// Package migrations applies the schema for the distribution store. Each
// migration runs at most once; applied names are tracked in a migrations
// table.
package migrations

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_202502101200_distributionAccounts "github.com/eldamar-labs/epoch-distributor/pkg/postgres/migrations/202502101200_distributionAccounts"
	_202502101205_trackStats "github.com/eldamar-labs/epoch-distributor/pkg/postgres/migrations/202502101205_trackStats"
)

type Migration interface {
	Up(db *sql.DB, grm *gorm.DB) error
	GetName() string
}

type Migrations struct {
	Name      string `gorm:"primaryKey"`
	CreatedAt time.Time
}

type Migrator struct {
	Db     *sql.DB
	GDb    *gorm.DB
	Logger *zap.Logger
}

func NewMigrator(db *sql.DB, gDb *gorm.DB, l *zap.Logger) *Migrator {
	gDb.AutoMigrate(&Migrations{}) //nolint:errcheck
	return &Migrator{
		Db:     db,
		GDb:    gDb,
		Logger: l,
	}
}

func (m *Migrator) MigrateAll() error {
	migrations := []Migration{
		&_202502101200_distributionAccounts.Migration{},
		&_202502101205_trackStats.Migration{},
	}

	for _, migration := range migrations {
		if err := m.Migrate(migration); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) Migrate(migration Migration) error {
	name := migration.GetName()

	var record Migrations
	result := m.GDb.First(&record, "name = ?", name)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return errors.Wrapf(result.Error, "failed to check migration state for %s", name)
	}

	if err := migration.Up(m.Db, m.GDb); err != nil {
		m.Logger.Sugar().Errorw("Failed to run migration", zap.String("name", name), zap.Error(err))
		return errors.Wrapf(err, "migration %s failed", name)
	}

	if res := m.GDb.Create(&Migrations{Name: name}); res.Error != nil {
		return errors.Wrapf(res.Error, "failed to record migration %s", name)
	}
	m.Logger.Sugar().Debugw("Applied migration", zap.String("name", name))
	return nil
}
