// Package reportWriter emits the human-readable CSV and JSON artifacts that
// accompany a distribution run. These files are for operator review and
// debugging only; the claims file is the binding output.
package reportWriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

// AccountRow is the flattened CSV projection of one account.
type AccountRow struct {
	Address      string `csv:"address"`
	TokenSymbol  string `csv:"token_symbol"`
	TokenAmount  string `csv:"token_amount"`
	RewardAmount string `csv:"reward_amount"`
	State        string `csv:"state"`
	Notes        string `csv:"notes"`
}

type ReportWriter struct {
	epochDir string
}

func NewReportWriter(epochDir string) *ReportWriter {
	return &ReportWriter{epochDir: epochDir}
}

// WriteAccounts writes the account set as both csv/<name>.csv and
// json/<name>.json under the epoch directory.
func (w *ReportWriter) WriteAccounts(name string, accounts []*rewards.Account) error {
	rows := make([]*AccountRow, 0, len(accounts))
	for _, account := range accounts {
		rows = append(rows, &AccountRow{
			Address:      account.Address,
			TokenSymbol:  account.Token.Symbol,
			TokenAmount:  account.Token.Amount,
			RewardAmount: account.Rewards.Amount,
			State:        string(account.State),
			Notes:        strings.Join(account.Notes, "; "),
		})
	}

	csvPath := filepath.Join(w.epochDir, "csv", name+".csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create report %s", csvPath)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return errors.Wrapf(err, "failed to write report %s", csvPath)
	}

	return w.WriteJSON(name, accounts)
}

// WriteJSON writes any value as json/<name>.json under the epoch directory.
func (w *ReportWriter) WriteJSON(name string, v interface{}) error {
	contents, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "failed to serialize report %s", name)
	}
	path := filepath.Join(w.epochDir, "json", name+".json")
	if err := os.WriteFile(path, append(contents, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write report %s", path)
	}
	return nil
}
