package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"tradefloor/internal/good"
	"tradefloor/internal/market"
	"tradefloor/pkg/types"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func testGoods(eur string) Goods {
	goods := make(Goods, len(types.AllGoodKinds))
	for _, k := range types.AllGoodKinds {
		qty := decimal.Zero
		if k == types.EUR {
			qty = d(eur)
		}
		g := good.New(k, qty)
		goods[k] = &g
	}
	return goods
}

func TestMostSimpleBuysAndCreditsHeldGoods(t *testing.T) {
	t.Parallel()
	m := market.NewMarket("sgx", d("1000000"), d("500000"), d("500000"), d("500000"))
	goods := testGoods("1000000")

	strat := NewMostSimple("trader-1", []*market.Market{m}, zap.NewNop().Sugar())
	strat.Apply(goods)

	held := decimal.Zero
	for _, k := range []types.GoodKind{types.USD, types.YEN, types.YUAN} {
		held = held.Add(goods[k].Quantity())
	}
	assert.True(t, held.GreaterThan(decimal.Zero), "MostSimple should have bought some non-EUR kind")
	assert.True(t, goods[types.EUR].Quantity().LessThan(d("1000000")), "EUR balance should have dropped after a buy")
}

func TestMostSimpleSellRemainingGoodsLiquidates(t *testing.T) {
	t.Parallel()
	m := market.NewMarket("smse", d("1000000"), d("500000"), d("500000"), d("500000"))
	goods := testGoods("1000000")
	goods[types.USD].Merge(good.New(types.USD, d("50")))

	strat := NewMostSimple("trader-1", []*market.Market{m}, zap.NewNop().Sugar())
	strat.SellRemainingGoods(goods)

	assert.True(t, goods[types.USD].IsZero(), "SellRemainingGoods should liquidate all held USD")
	assert.True(t, goods[types.EUR].Quantity().GreaterThan(d("1000000")), "EUR balance should rise after liquidation")
}

func TestStingyRefusesExpensiveBuys(t *testing.T) {
	t.Parallel()
	m := market.NewMarket("tase", d("1000000"), d("500000"), d("500000"), d("500000"))
	goods := testGoods("1000000")

	strat := NewStingy("trader-1", []*market.Market{m}, zap.NewNop().Sugar())
	strat.Apply(goods)

	for i := 0; i < 50; i++ {
		strat.Apply(goods)
	}
	assert.True(t, goods[types.EUR].Quantity().Equal(d("1000000")), "no buy rate reaches the threshold, so Stingy must not spend any EUR")
}

func TestBuyAndHoldNeverSellsUntilAskedTo(t *testing.T) {
	t.Parallel()
	m := market.NewMarket("zse", d("1000000"), d("500000"), d("500000"), d("500000"))
	goods := testGoods("1000000")

	strat := NewBuyAndHold("trader-1", []*market.Market{m}, zap.NewNop().Sugar())
	strat.Apply(goods)
	heldAfterFirstTick := goods[types.USD].Quantity()

	strat.Apply(goods)
	assert.True(t, goods[types.USD].Quantity().Equal(heldAfterFirstTick), "BuyAndHold only allocates once")

	strat.SellRemainingGoods(goods)
	assert.True(t, goods[types.USD].IsZero())
}
