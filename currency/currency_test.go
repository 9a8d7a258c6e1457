package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Code("BTC"), NewCode("btc"))
	assert.Equal(t, Code("USDT"), NewCode(" usdt "))
	assert.True(t, NewCode("").IsEmpty())
	assert.True(t, NewCode("eth").Equal(Code("ETH")))
}

func TestPair(t *testing.T) {
	t.Parallel()
	p := NewPair("btc", "usdt")
	assert.Equal(t, "BTC/USDT", p.String())
	assert.Equal(t, "btc_usdt", p.Format("_", false))
	assert.Equal(t, "BTC-USDT", p.Format("-", true))
	assert.False(t, p.IsEmpty())
	assert.True(t, EMPTYPAIR.IsEmpty())
	assert.True(t, p.Equal(NewPair("BTC", "USDT")))
	assert.False(t, p.Equal(NewPair("BTC", "USDC")))
}
