// Package storage defines the durable per-epoch distribution store. One row
// per account per track, written once per run; rerunning an epoch wipes and
// rebuilds that epoch's rows rather than accumulating duplicates.
package storage

import (
	"time"

	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

// Track names one of the two parallel reward computations.
type Track string

const (
	Track_Governance Track = "governance"
	Track_Staking    Track = "staking"
)

// DistributionAccount is one stored account row. Id is a monotonically
// increasing insertion-order key; claim indices are assigned by reading rows
// back in Id order, never by re-sorting, so reruns against the same stored
// data produce identical claims.
type DistributionAccount struct {
	Id                  uint64 `gorm:"type:bigserial;primaryKey"`
	Epoch               string `gorm:"index:idx_distribution_accounts_epoch_track"`
	Track               string `gorm:"index:idx_distribution_accounts_epoch_track"`
	Address             string
	TokenAddress        string
	TokenSymbol         string
	TokenDecimals       uint8
	TokenAmount         string
	RewardToken         string
	RewardTokenSymbol   string
	RewardTokenDecimals uint8
	RewardAmount        string
	State               string
	Notes               string `gorm:"type:text"`
	CreatedAt           time.Time
}

// TrackStats is the stored aggregate for one epoch+track: supply stats plus
// the serialized reward summary.
type TrackStats struct {
	Id        uint64 `gorm:"type:bigserial;primaryKey"`
	Epoch     string `gorm:"uniqueIndex:idx_track_stats_epoch_track"`
	Track     string `gorm:"uniqueIndex:idx_track_stats_epoch_track"`
	Total     string
	Active    string
	Inactive  string
	Summary   string `gorm:"type:text"`
	CreatedAt time.Time
}

// DistributionStore persists distributions and their aggregates.
//
// Callers open the store exclusively for the duration of one stage; two
// invocations must not write the same epoch concurrently. That discipline is
// operational, not enforced here.
type DistributionStore interface {
	// SaveDistribution replaces the epoch+track's rows with the given
	// accounts, preserving list order as insertion order, in one
	// transaction.
	SaveDistribution(epoch string, track Track, accounts []*rewards.Account) error

	// ListDistribution returns the epoch+track's accounts in insertion
	// order.
	ListDistribution(epoch string, track Track) ([]*rewards.Account, error)

	// SaveTrackStats upserts the epoch+track's supply stats and summary.
	SaveTrackStats(epoch string, track Track, stats *rewards.TokenSummaryStats, summary interface{}) error

	// GetTrackStats returns the stored stats row, or nil if the stage has
	// not run.
	GetTrackStats(epoch string, track Track) (*TrackStats, error)
}
