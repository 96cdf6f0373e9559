package strategy

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradefloor/internal/good"
	"tradefloor/internal/market"
	"tradefloor/pkg/types"
)

// buyAndHoldAllocationFrac is the fraction of remaining EUR BuyAndHold
// commits to its single opening purchase of each kind.
var buyAndHoldAllocationFrac = decimal.NewFromFloat(0.1)

// BuyAndHold spends a fixed fraction of its EUR once on each non-EUR kind
// the first time Apply runs, then does nothing until the run ends, when it
// liquidates everything back to EUR.
type BuyAndHold struct {
	traderName string
	markets    []*market.Market
	log        *zap.SugaredLogger
	bought     bool
}

// NewBuyAndHold constructs a BuyAndHold strategy over markets for trader.
func NewBuyAndHold(traderName string, markets []*market.Market, log *zap.SugaredLogger) *BuyAndHold {
	return &BuyAndHold{traderName: traderName, markets: markets, log: log.Named("buyandhold")}
}

func (s *BuyAndHold) Apply(goods Goods) {
	if s.bought {
		return
	}
	s.bought = true

	eur := goods[types.EUR]
	for _, m := range s.markets {
		for _, kind := range m.GoodKinds() {
			if kind == types.EUR {
				continue
			}
			budget := eur.Quantity().Mul(buyAndHoldAllocationFrac)
			if !budget.IsPositive() {
				continue
			}
			qty := s.quantityForBudget(m, kind, budget)
			if !qty.IsPositive() {
				continue
			}
			price, err := m.GetBuyPrice(kind, qty)
			if err != nil || eur.Quantity().LessThan(price) {
				continue
			}
			s.buy(m, kind, qty, price, eur, goods[kind])
		}
	}
}

// quantityForBudget finds, by binary search over acceptable quantities, how
// much of kind budget EUR can buy at m's current rate.
func (s *BuyAndHold) quantityForBudget(m *market.Market, kind types.GoodKind, budget decimal.Decimal) decimal.Decimal {
	lo, hi := decimal.Zero, decimal.NewFromInt(1_000_000)
	for range 40 {
		mid := lo.Add(hi).Div(decimal.NewFromInt(2))
		price, err := m.GetBuyPrice(kind, mid)
		if err != nil || price.GreaterThan(budget) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo.Round(6)
}

func (s *BuyAndHold) buy(m *market.Market, kind types.GoodKind, qty, price decimal.Decimal, eur, credit *good.Good) {
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

func (s *BuyAndHold) SellRemainingGoods(goods Goods) {
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
