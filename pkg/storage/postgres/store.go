package postgres

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
	"github.com/eldamar-labs/epoch-distributor/pkg/storage"
)

// PostgresDistributionStore is the gorm-backed DistributionStore.
type PostgresDistributionStore struct {
	Db     *gorm.DB
	Logger *zap.Logger
}

func NewPostgresDistributionStore(db *gorm.DB, l *zap.Logger) *PostgresDistributionStore {
	return &PostgresDistributionStore{
		Db:     db,
		Logger: l,
	}
}

func accountToRow(epoch string, track storage.Track, account *rewards.Account) (*storage.DistributionAccount, error) {
	notes, err := json.Marshal(account.Notes)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize notes for %s", account.Address)
	}
	return &storage.DistributionAccount{
		Epoch:               epoch,
		Track:               string(track),
		Address:             account.Address,
		TokenAddress:        account.Token.Address,
		TokenSymbol:         account.Token.Symbol,
		TokenDecimals:       account.Token.Decimals,
		TokenAmount:         account.Token.Amount,
		RewardToken:         account.Rewards.Address,
		RewardTokenSymbol:   account.Rewards.Symbol,
		RewardTokenDecimals: account.Rewards.Decimals,
		RewardAmount:        account.Rewards.Amount,
		State:               string(account.State),
		Notes:               string(notes),
	}, nil
}

func rowToAccount(row *storage.DistributionAccount) (*rewards.Account, error) {
	notes := make([]string, 0)
	if row.Notes != "" {
		if err := json.Unmarshal([]byte(row.Notes), &notes); err != nil {
			return nil, errors.Wrapf(err, "corrupt notes for stored account %s", row.Address)
		}
	}
	token := rewards.Token{
		Address:  row.TokenAddress,
		Symbol:   row.TokenSymbol,
		Decimals: row.TokenDecimals,
	}
	return &rewards.Account{
		Address: row.Address,
		Token:   token.WithAmount(row.TokenAmount),
		Rewards: rewards.TokenAmount{
			Token:  rewards.Token{Address: row.RewardToken, Symbol: row.RewardTokenSymbol, Decimals: row.RewardTokenDecimals},
			Amount: row.RewardAmount,
		},
		State: rewards.AccountState(row.State),
		Notes: notes,
	}, nil
}

func (s *PostgresDistributionStore) SaveDistribution(epoch string, track storage.Track, accounts []*rewards.Account) error {
	rows := make([]*storage.DistributionAccount, 0, len(accounts))
	for _, account := range accounts {
		row, err := accountToRow(epoch, track, account)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return s.Db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("epoch = ? and track = ?", epoch, string(track)).Delete(&storage.DistributionAccount{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to clear distribution rows for %s/%s", epoch, track)
		}
		if len(rows) == 0 {
			return nil
		}
		// CreateInBatches preserves slice order, which ListDistribution
		// relies on for claim index stability.
		res = tx.CreateInBatches(rows, 500)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to insert distribution rows for %s/%s", epoch, track)
		}
		return nil
	})
}

func (s *PostgresDistributionStore) ListDistribution(epoch string, track storage.Track) ([]*rewards.Account, error) {
	var rows []*storage.DistributionAccount
	res := s.Db.
		Where("epoch = ? and track = ?", epoch, string(track)).
		Order("id asc").
		Find(&rows)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "failed to list distribution for %s/%s", epoch, track)
	}

	accounts := make([]*rewards.Account, 0, len(rows))
	for _, row := range rows {
		account, err := rowToAccount(row)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (s *PostgresDistributionStore) SaveTrackStats(epoch string, track storage.Track, stats *rewards.TokenSummaryStats, summary interface{}) error {
	serialized, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrapf(err, "failed to serialize summary for %s/%s", epoch, track)
	}

	row := &storage.TrackStats{
		Epoch:    epoch,
		Track:    string(track),
		Total:    stats.Total,
		Active:   stats.Active,
		Inactive: stats.Inactive,
		Summary:  string(serialized),
	}

	return s.Db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("epoch = ? and track = ?", epoch, string(track)).Delete(&storage.TrackStats{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to clear track stats for %s/%s", epoch, track)
		}
		if res := tx.Create(row); res.Error != nil {
			return errors.Wrapf(res.Error, "failed to insert track stats for %s/%s", epoch, track)
		}
		return nil
	})
}

func (s *PostgresDistributionStore) GetTrackStats(epoch string, track storage.Track) (*storage.TrackStats, error) {
	var row storage.TrackStats
	res := s.Db.Where("epoch = ? and track = ?", epoch, string(track)).First(&row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(res.Error, "failed to get track stats for %s/%s", epoch, track)
	}
	return &row, nil
}
