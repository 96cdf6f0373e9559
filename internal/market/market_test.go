package market

import (
	"errors"
	"runtime"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefloor/internal/good"
	"tradefloor/pkg/types"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestGetGoodsRatesWithinBand(t *testing.T) {
	t.Parallel()
	m := NewMarket("alpha", d("500000"), d("200000"), d("100000"), d("100000"))

	for _, label := range m.GetGoods() {
		if label.Kind == types.EUR {
			continue
		}
		def := label.Kind.DefaultExchangeRate()
		lo := def.Mul(d("0.75"))
		hi := def.Mul(d("1.25"))
		assert.True(t, label.ExchangeRateBuy.GreaterThanOrEqual(lo), "buy rate below band for %s", label.Kind)
		assert.True(t, label.ExchangeRateBuy.LessThanOrEqual(hi), "buy rate above band for %s", label.Kind)
		assert.True(t, label.ExchangeRateSell.GreaterThanOrEqual(lo), "sell rate below band for %s", label.Kind)
		assert.True(t, label.ExchangeRateSell.LessThanOrEqual(hi), "sell rate above band for %s", label.Kind)
		assert.True(t, label.ExchangeRateBuy.LessThan(label.ExchangeRateSell), "buy rate must be strictly cheaper than sell rate for %s", label.Kind)
	}
}

func TestLockBuyThenBuySettlesAtAgreedPrice(t *testing.T) {
	t.Parallel()
	m := NewMarket("beta", d("500000"), d("200000"), d("100000"), d("100000"))

	price, err := m.GetBuyPrice(types.USD, d("1000"))
	require.NoError(t, err)

	bid := price.Mul(d("1.5"))
	token, err := m.LockBuy("trader-1", types.USD, d("1000"), bid)
	require.NoError(t, err)

	cash := good.New(types.EUR, price.Mul(d("2")))
	usd, err := m.Buy(token, &cash)
	require.NoError(t, err)
	assert.True(t, usd.Quantity().Equal(d("1000")))
	assert.True(t, cash.Quantity().Equal(price.Mul(d("2")).Sub(bid)), "Buy must settle at the trader's own bid, leaving the rest as surplus")

	_, err = m.Buy(token, &cash)
	require.Error(t, err)
	var unrecognized UnrecognizedToken
	assert.ErrorAs(t, err, &unrecognized, "a settled token cannot be reused")
}

func TestLockBuyErrorPriorityNonPositiveQuantityBeatsEverythingElse(t *testing.T) {
	t.Parallel()
	m := NewMarket("gamma", d("500000"), d("200000"), d("100000"), d("100000"))

	_, err := m.LockBuy("trader-1", types.USD, d("-5"), d("-1"))
	var nonPositiveQty NonPositiveQuantityToBuy
	assert.True(t, errors.As(err, &nonPositiveQty), "non-positive quantity must take priority over non-positive bid")
}

func TestLockBuyRejectsLowBid(t *testing.T) {
	t.Parallel()
	m := NewMarket("delta", d("500000"), d("200000"), d("100000"), d("100000"))

	price, err := m.GetBuyPrice(types.USD, d("1000"))
	require.NoError(t, err)

	_, err = m.LockBuy("trader-1", types.USD, d("1000"), price.Sub(d("0.01")))
	var tooLow BidTooLow
	assert.ErrorAs(t, err, &tooLow)
}

func TestLockBuyRejectsInsufficientSupplyBeforeBidTooLow(t *testing.T) {
	t.Parallel()
	m := NewMarket("delta2", d("500000"), d("200000"), d("100000"), d("100000"))

	avail := m.availableLocked(types.USD)
	tooMuch := avail.Add(d("1"))

	_, err := m.LockBuy("trader-1", types.USD, tooMuch, d("1"))
	var insufficient InsufficientGoodQuantityAvailable
	require.True(t, errors.As(err, &insufficient), "an over-large quantity must fail as insufficient supply, not as a bid issue")
	assert.Equal(t, types.USD, insufficient.Kind)
}

func TestMaxAllowedLocksReached(t *testing.T) {
	t.Parallel()
	m := NewMarket("epsilon", d("500000"), d("200000"), d("100000"), d("100000"))

	for i := 0; i < maxLocksPerTrader; i++ {
		price, err := m.GetBuyPrice(types.USD, d("10"))
		require.NoError(t, err)
		_, err = m.LockBuy("trader-1", types.USD, d("10"), price.Mul(d("2")))
		require.NoError(t, err)
	}

	price, err := m.GetBuyPrice(types.USD, d("10"))
	require.NoError(t, err)
	_, err = m.LockBuy("trader-1", types.USD, d("10"), price.Mul(d("2")))
	var maxReached MaxAllowedLocksReached
	assert.ErrorAs(t, err, &maxReached)
}

func TestBuyRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	m := NewMarket("zeta", d("500000"), d("200000"), d("100000"), d("100000"))

	price, err := m.GetBuyPrice(types.USD, d("10"))
	require.NoError(t, err)
	token, err := m.LockBuy("trader-1", types.USD, d("10"), price.Mul(d("2")))
	require.NoError(t, err)

	for i := 0; i < lockExpiryTicks; i++ {
		m.Tick()
	}

	cash := good.New(types.EUR, price.Mul(d("2")))
	_, err = m.Buy(token, &cash)
	var expired ExpiredToken
	assert.ErrorAs(t, err, &expired)
}

func TestLockSellThenSellSettlesAtAgreedPrice(t *testing.T) {
	t.Parallel()
	m := NewMarket("eta", d("500000"), d("200000"), d("100000"), d("100000"))

	price, err := m.GetSellPrice(types.YEN, d("5000"))
	require.NoError(t, err)

	offer := price.Mul(d("0.5"))
	token, err := m.LockSell("trader-1", types.YEN, d("5000"), offer)
	require.NoError(t, err)

	offered := good.New(types.YEN, d("5000"))
	eur, err := m.Sell(token, &offered)
	require.NoError(t, err)
	assert.True(t, eur.Quantity().Equal(offer), "Sell must settle at the trader's own offer")
	assert.True(t, offered.IsZero(), "surrendered good must be fully consumed on exact settlement")
}

func TestSellRejectsWrongKind(t *testing.T) {
	t.Parallel()
	m := NewMarket("theta", d("500000"), d("200000"), d("100000"), d("100000"))

	price, err := m.GetSellPrice(types.YEN, d("1000"))
	require.NoError(t, err)
	token, err := m.LockSell("trader-1", types.YEN, d("1000"), price.Mul(d("0.5")))
	require.NoError(t, err)

	wrongKind := good.New(types.YUAN, d("1000"))
	_, err = m.Sell(token, &wrongKind)
	var wrongGoodKind WrongGoodKind
	assert.ErrorAs(t, err, &wrongGoodKind)
}

func TestEURBuyIsOneToOne(t *testing.T) {
	t.Parallel()
	m := NewMarket("iota", d("500000"), d("200000"), d("100000"), d("100000"))
	price, err := m.GetBuyPrice(types.EUR, d("42"))
	require.NoError(t, err)
	assert.True(t, price.Equal(d("42")))
}

func TestSubscriberObservesEventsAndAdvancesClock(t *testing.T) {
	t.Parallel()
	origin := NewMarket("origin", d("500000"), d("200000"), d("100000"), d("100000"))
	peer := NewMarket("peer", d("500000"), d("200000"), d("100000"), d("100000"))
	origin.AddSubscriber(peer)

	before := peer.tick
	origin.Tick()
	assert.Equal(t, before+1, peer.tick, "a peer's clock advances on every observed Event")
}

func TestSubscriberAdjustsRatesOnObservedTrade(t *testing.T) {
	t.Parallel()
	origin := NewMarket("origin3", d("500000"), d("200000"), d("100000"), d("100000"))
	peer := NewMarket("peer3", d("500000"), d("200000"), d("100000"), d("100000"))
	origin.AddSubscriber(peer)

	peer.mu.RLock()
	buyBefore, sellBefore := peer.rates[types.USD].buy, peer.rates[types.USD].sell
	peer.mu.RUnlock()

	peer.OnEvent(types.Event{Kind: types.Bought, GoodKind: types.USD, Quantity: d("10"), Price: d("5"), OriginMarket: "origin3"})

	peer.mu.RLock()
	buyAfter, sellAfter := peer.rates[types.USD].buy, peer.rates[types.USD].sell
	def := types.USD.DefaultExchangeRate()
	peer.mu.RUnlock()

	assert.True(t, buyAfter.GreaterThan(buyBefore), "a realized buy observed from a peer must raise this market's buy rate")
	assert.True(t, sellAfter.LessThan(sellBefore), "a realized buy observed from a peer must lower this market's sell rate")
	lo, hi := def.Mul(d("0.75")), def.Mul(d("1.25"))
	assert.True(t, buyAfter.GreaterThanOrEqual(lo) && buyAfter.LessThanOrEqual(hi), "adjusted buy rate must stay within the band")
	assert.True(t, sellAfter.GreaterThanOrEqual(lo) && sellAfter.LessThanOrEqual(hi), "adjusted sell rate must stay within the band")
}

func TestWeakSubscriberIsSkippedOnceCollected(t *testing.T) {
	t.Parallel()
	origin := NewMarket("origin2", d("500000"), d("200000"), d("100000"), d("100000"))
	func() {
		peer := NewMarket("peer2", d("500000"), d("200000"), d("100000"), d("100000"))
		origin.AddSubscriber(peer)
	}()
	runtime.GC()
	runtime.GC()
	// peer2 is now only weakly reachable; broadcasting must not panic even
	// if it has already been collected.
	assert.NotPanics(t, func() { origin.Tick() })
}
