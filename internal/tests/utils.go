// Package tests holds shared helpers for package tests: env juggling and an
// in-memory DistributionStore so pipeline tests run without a database.
package tests

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/eldamar-labs/epoch-distributor/internal/config"
	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
	"github.com/eldamar-labs/epoch-distributor/pkg/storage"
)

func GetConfig() *config.Config {
	return config.NewConfig()
}

func ReplaceEnv(newValues map[string]string, previousValues *map[string]string) {
	for k, v := range newValues {
		(*previousValues)[k] = os.Getenv(k)
		os.Setenv(k, v)
	}
}

func RestoreEnv(previousValues map[string]string) {
	for k, v := range previousValues {
		os.Setenv(k, v)
	}
}

// InMemoryDistributionStore mirrors the postgres store's contract: saves are
// wipe-and-replace per (epoch, track), and ListDistribution returns accounts
// in the order they were saved.
type InMemoryDistributionStore struct {
	distributions map[string][]*rewards.Account
	stats         map[string]*storage.TrackStats
}

func NewInMemoryDistributionStore() *InMemoryDistributionStore {
	return &InMemoryDistributionStore{
		distributions: make(map[string][]*rewards.Account),
		stats:         make(map[string]*storage.TrackStats),
	}
}

func key(epoch string, track storage.Track) string {
	return fmt.Sprintf("%s/%s", epoch, track)
}

func (s *InMemoryDistributionStore) SaveDistribution(epoch string, track storage.Track, accounts []*rewards.Account) error {
	s.distributions[key(epoch, track)] = rewards.CloneAccounts(accounts)
	return nil
}

func (s *InMemoryDistributionStore) ListDistribution(epoch string, track storage.Track) ([]*rewards.Account, error) {
	return rewards.CloneAccounts(s.distributions[key(epoch, track)]), nil
}

func (s *InMemoryDistributionStore) SaveTrackStats(epoch string, track storage.Track, stats *rewards.TokenSummaryStats, summary interface{}) error {
	serialized, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	s.stats[key(epoch, track)] = &storage.TrackStats{
		Epoch:    epoch,
		Track:    string(track),
		Total:    stats.Total,
		Active:   stats.Active,
		Inactive: stats.Inactive,
		Summary:  string(serialized),
	}
	return nil
}

func (s *InMemoryDistributionStore) GetTrackStats(epoch string, track storage.Track) (*storage.TrackStats, error) {
	stats, ok := s.stats[key(epoch, track)]
	if !ok {
		return nil, nil
	}
	return stats, nil
}
