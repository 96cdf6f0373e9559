package strategy

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradefloor/internal/good"
	"tradefloor/internal/market"
	"tradefloor/pkg/types"
)

// stingyLot is the quantity Stingy trades per decision.
var stingyLot = decimal.NewFromInt(5)

// stingyDiscount is how far above a kind's default exchange rate (more units
// of the kind per EUR, so a cheaper EUR price) the published buy rate must
// sit before Stingy is willing to buy at all.
var stingyDiscount = decimal.NewFromFloat(0.1)

// Stingy only buys when a kind's buy rate is at least 10% more generous
// than its default exchange rate, and always bids exactly the lowest
// accepted price — it never pays a premium. It never sells except at the
// end of the run.
type Stingy struct {
	traderName string
	markets    []*market.Market
	log        *zap.SugaredLogger
}

// NewStingy constructs a Stingy strategy over markets for trader.
func NewStingy(traderName string, markets []*market.Market, log *zap.SugaredLogger) *Stingy {
	return &Stingy{traderName: traderName, markets: markets, log: log.Named("stingy")}
}

func (s *Stingy) Apply(goods Goods) {
	eur := goods[types.EUR]
	for _, m := range s.markets {
		for _, label := range m.GetGoods() {
			if label.Kind == types.EUR {
				continue
			}
			threshold := label.Kind.DefaultExchangeRate().Mul(decimal.NewFromInt(1).Add(stingyDiscount))
			if label.ExchangeRateBuy.LessThan(threshold) {
				continue // not cheap enough
			}

			price, err := m.GetBuyPrice(label.Kind, stingyLot)
			if err != nil || eur.Quantity().LessThan(price) {
				continue
			}
			s.buy(m, label.Kind, stingyLot, price, eur, goods[label.Kind])
		}
	}
}

func (s *Stingy) buy(m *market.Market, kind types.GoodKind, qty, price decimal.Decimal, eur, credit *good.Good) {
	token, err := m.LockBuy(s.traderName, kind, qty, price)
	if err != nil {
		s.log.Debugw("lock buy failed", "market", m.Name(), "kind", kind, "error", err)
		return
	}
	bought, err := m.Buy(token, eur)
	if err != nil {
		s.log.Debugw("buy failed", "market", m.Name(), "kind", kind, "error", err)
		return
	}
	if _, err := credit.Merge(bought); err != nil {
		s.log.Errorw("unexpected merge failure crediting purchase", "kind", kind, "error", err)
	}
}

func (s *Stingy) SellRemainingGoods(goods Goods) {
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
