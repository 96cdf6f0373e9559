package strategy

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradefloor/internal/market"
	"tradefloor/pkg/types"
)

// fixedLotSize is the quantity MostSimple always tries to trade.
var fixedLotSize = decimal.NewFromInt(10)

// MostSimple buys a fixed lot of the first non-EUR kind it can afford on
// every tick, bidding exactly the market's lowest acceptable price, and
// settles immediately. It keeps no history and never sells until the run
// ends.
type MostSimple struct {
	traderName string
	markets    []*market.Market
	log        *zap.SugaredLogger
}

// NewMostSimple constructs a MostSimple strategy over markets for trader.
func NewMostSimple(traderName string, markets []*market.Market, log *zap.SugaredLogger) *MostSimple {
	return &MostSimple{traderName: traderName, markets: markets, log: log.Named("mostsimple")}
}

func (s *MostSimple) Apply(goods Goods) {
	eur := goods[types.EUR]
	for _, m := range s.markets {
		for _, kind := range m.GoodKinds() {
			if kind == types.EUR {
				continue
			}
			price, err := m.GetBuyPrice(kind, fixedLotSize)
			if err != nil {
				continue
			}
			if eur.Quantity().LessThan(price) {
				continue
			}

			token, err := m.LockBuy(s.traderName, kind, fixedLotSize, price)
			if err != nil {
				s.log.Debugw("lock buy failed", "market", m.Name(), "kind", kind, "error", err)
				continue
			}
			bought, err := m.Buy(token, eur)
			if err != nil {
				s.log.Debugw("buy failed", "market", m.Name(), "kind", kind, "error", err)
				continue
			}
			if _, err := goods[kind].Merge(bought); err != nil {
				s.log.Errorw("unexpected merge failure crediting purchase", "kind", kind, "error", err)
			}
			return
		}
	}
}

func (s *MostSimple) SellRemainingGoods(goods Goods) {
	for _, m := range s.markets {
		for _, kind := range m.GoodKinds() {
			if kind == types.EUR {
				continue
			}
			held := goods[kind]
			if held == nil || held.IsZero() {
				continue
			}
			price, err := m.GetSellPrice(kind, held.Quantity())
			if err != nil {
				continue
			}
			token, err := m.LockSell(s.traderName, kind, held.Quantity(), price)
			if err != nil {
				continue
			}
			received, err := m.Sell(token, held)
			if err != nil {
				continue
			}
			if _, err := goods[types.EUR].Merge(received); err != nil {
				s.log.Errorw("unexpected merge failure crediting sale", "kind", kind, "error", err)
			}
		}
	}
}
