package strategy

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradefloor/internal/good"
	"tradefloor/internal/market"
	"tradefloor/pkg/types"
)

// averageSellerLot is the quantity AverageSeller trades per decision.
var averageSellerLot = decimal.NewFromInt(20)

// AverageSeller tracks a running average of each kind's observed sell
// price. It sells a kind once its current sell price exceeds that running
// average, and buys a kind once its current buy price sits below the same
// average — building inventory in weakness, disposing of it in strength.
type AverageSeller struct {
	traderName string
	markets    []*market.Market
	log        *zap.SugaredLogger

	priceSum   map[types.GoodKind]decimal.Decimal
	priceCount map[types.GoodKind]int
}

// NewAverageSeller constructs an AverageSeller strategy over markets for trader.
func NewAverageSeller(traderName string, markets []*market.Market, log *zap.SugaredLogger) *AverageSeller {
	return &AverageSeller{
		traderName: traderName,
		markets:    markets,
		log:        log.Named("averageseller"),
		priceSum:   make(map[types.GoodKind]decimal.Decimal),
		priceCount: make(map[types.GoodKind]int),
	}
}

// observe folds a freshly observed sell price into kind's running average
// and returns the average as it stood *before* this observation, or false
// if this is the first observation.
func (s *AverageSeller) observe(kind types.GoodKind, price decimal.Decimal) (decimal.Decimal, bool) {
	var prior decimal.Decimal
	hadPrior := s.priceCount[kind] > 0
	if hadPrior {
		prior = s.priceSum[kind].Div(decimal.NewFromInt(int64(s.priceCount[kind])))
	}
	s.priceSum[kind] = s.priceSum[kind].Add(price)
	s.priceCount[kind]++
	return prior, hadPrior
}

func (s *AverageSeller) Apply(goods Goods) {
	eur := goods[types.EUR]
	for _, m := range s.markets {
		for _, kind := range m.GoodKinds() {
			if kind == types.EUR {
				continue
			}

			sellPrice, sellErr := m.GetSellPrice(kind, averageSellerLot)
			if sellErr == nil {
				avg, hadPrior := s.observe(kind, sellPrice)
				held := goods[kind]
				if hadPrior && held != nil && held.Quantity().GreaterThanOrEqual(averageSellerLot) && sellPrice.GreaterThan(avg) {
					s.sell(m, kind, held, averageSellerLot, sellPrice, goods[types.EUR])
					continue
				}
			}

			buyPrice, buyErr := m.GetBuyPrice(kind, averageSellerLot)
			if buyErr != nil {
				continue
			}
			if s.priceCount[kind] == 0 {
				continue
			}
			avg := s.priceSum[kind].Div(decimal.NewFromInt(int64(s.priceCount[kind])))
			if buyPrice.LessThan(avg) && eur.Quantity().GreaterThanOrEqual(buyPrice) {
				s.buy(m, kind, averageSellerLot, buyPrice, eur, goods[kind])
			}
		}
	}
}

func (s *AverageSeller) buy(m *market.Market, kind types.GoodKind, qty, price decimal.Decimal, eur, credit *good.Good) {
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

func (s *AverageSeller) sell(m *market.Market, kind types.GoodKind, held *good.Good, qty, price decimal.Decimal, eur *good.Good) {
	token, err := m.LockSell(s.traderName, kind, qty, price)
	if err != nil {
		s.log.Debugw("lock sell failed", "market", m.Name(), "kind", kind, "error", err)
		return
	}
	received, err := m.Sell(token, held)
	if err != nil {
		s.log.Debugw("sell failed", "market", m.Name(), "kind", kind, "error", err)
		return
	}
	if _, err := eur.Merge(received); err != nil {
		s.log.Errorw("unexpected merge failure crediting sale", "kind", kind, "error", err)
	}
}

func (s *AverageSeller) SellRemainingGoods(goods Goods) {
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
			s.sell(m, kind, held, held.Quantity(), price, goods[types.EUR])
		}
	}
}
