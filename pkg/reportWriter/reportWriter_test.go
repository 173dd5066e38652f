package reportWriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eldamar-labs/epoch-distributor/pkg/rewards"
)

func setupEpochDir(t *testing.T) string {
	dir := t.TempDir()
	assert.Nil(t, os.MkdirAll(filepath.Join(dir, "csv"), 0o755))
	assert.Nil(t, os.MkdirAll(filepath.Join(dir, "json"), 0o755))
	return dir
}

func testAccounts(t *testing.T) []*rewards.Account {
	holding, err := rewards.NewToken("0x6B175474E89094C44Da98b954EedeAC495271d0F", "ARV", 18)
	assert.Nil(t, err)
	reward, err := rewards.NewToken("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "WETH", 18)
	assert.Nil(t, err)

	account, err := rewards.NewAccount("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", holding.WithAmount("100"), rewards.AccountState_Active, reward)
	assert.Nil(t, err)
	account.Rewards.Amount = "250"
	account.AddNote("active reward of 250")
	return []*rewards.Account{account}
}

func Test_WriteAccounts(t *testing.T) {
	dir := setupEpochDir(t)
	writer := NewReportWriter(dir)

	assert.Nil(t, writer.WriteAccounts("governance-distribution", testAccounts(t)))

	t.Run("Should write a csv projection", func(t *testing.T) {
		contents, err := os.ReadFile(filepath.Join(dir, "csv", "governance-distribution.csv"))
		assert.Nil(t, err)

		lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
		assert.Len(t, lines, 2)
		assert.Contains(t, lines[0], "address")
		assert.Contains(t, lines[1], "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
		assert.Contains(t, lines[1], "250")
	})

	t.Run("Should write the json counterpart", func(t *testing.T) {
		contents, err := os.ReadFile(filepath.Join(dir, "json", "governance-distribution.json"))
		assert.Nil(t, err)

		var parsed []map[string]interface{}
		assert.Nil(t, json.Unmarshal(contents, &parsed))
		assert.Len(t, parsed, 1)
		assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", parsed[0]["address"])
	})
}

func Test_WriteJSON(t *testing.T) {
	dir := setupEpochDir(t)
	writer := NewReportWriter(dir)

	assert.Nil(t, writer.WriteJSON("governance-stats", map[string]string{"total": "600"}))

	contents, err := os.ReadFile(filepath.Join(dir, "json", "governance-stats.json"))
	assert.Nil(t, err)
	assert.Contains(t, string(contents), `"total": "600"`)
}
