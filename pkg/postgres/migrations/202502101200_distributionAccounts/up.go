package _202502101200_distributionAccounts

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS distribution_accounts (
			id bigserial primary key,
			epoch varchar not null,
			track varchar not null,
			address varchar not null,
			token_address varchar not null,
			token_symbol varchar not null,
			token_decimals smallint not null,
			token_amount numeric not null,
			reward_token varchar not null,
			reward_token_symbol varchar not null,
			reward_token_decimals smallint not null,
			reward_amount numeric not null,
			state varchar not null,
			notes text,
			created_at timestamp with time zone default current_timestamp
		)`,
		`CREATE INDEX IF NOT EXISTS idx_distribution_accounts_epoch_track ON distribution_accounts (epoch, track)`,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202502101200_distributionAccounts"
}
