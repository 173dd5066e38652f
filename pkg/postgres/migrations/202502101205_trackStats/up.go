package _202502101205_trackStats

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS track_stats (
			id bigserial primary key,
			epoch varchar not null,
			track varchar not null,
			total numeric not null,
			active numeric not null,
			inactive numeric not null,
			summary text,
			created_at timestamp with time zone default current_timestamp,
			unique (epoch, track)
		)`,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202502101205_trackStats"
}
