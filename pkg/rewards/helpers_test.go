package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	addr1        = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	addr2        = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	addr3        = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	addr4        = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"
	treasuryAddr = "0x27b1fdb04752bbc536007a920d24acb045561c26"

	wethAddr = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	daiAddr  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
)

func testTokens(t *testing.T) (holding Token, reward Token) {
	holding, err := NewToken(daiAddr, "ARV", 18)
	assert.Nil(t, err)
	reward, err = NewToken(wethAddr, "WETH", 18)
	assert.Nil(t, err)
	return holding, reward
}

func testAccount(t *testing.T, address string, amount string, state AccountState) *Account {
	holding, reward := testTokens(t)
	account, err := NewAccount(address, holding.WithAmount(amount), state, reward)
	assert.Nil(t, err)
	return account
}
