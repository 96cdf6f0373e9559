// Package trader implements the Trader driver: the sole principal that
// calls Market methods directly. It invokes a configured Strategy at a
// fixed per-day cadence and accumulates a HistoryDay snapshot at the end
// of each simulated day.
package trader

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradefloor/internal/good"
	"tradefloor/internal/market"
	"tradefloor/internal/strategy"
	"tradefloor/pkg/types"
)

// Trader holds everything one simulated agent needs to run: its strategy,
// the markets it trades on, its own goods, and the accumulated history.
type Trader struct {
	name     string
	strat    strategy.Strategy
	markets  []*market.Market
	goods    strategy.Goods
	day      int
	history  []types.HistoryDay
	log      *zap.SugaredLogger
}

// New constructs a Trader named name, starting with startingCapital EUR
// and zero of every other kind (spec.md §3: "EUR starts at configured
// starting capital, others at 0").
func New(name string, strat strategy.Strategy, markets []*market.Market, startingCapital decimal.Decimal, log *zap.SugaredLogger) *Trader {
	goods := make(strategy.Goods, len(types.AllGoodKinds))
	for _, k := range types.AllGoodKinds {
		qty := decimal.Zero
		if k == types.EUR {
			qty = startingCapital
		}
		g := good.New(k, qty)
		goods[k] = &g
	}

	t := &Trader{
		name:    name,
		strat:   strat,
		markets: markets,
		goods:   goods,
		log:     log.Named("trader").With("trader", name),
	}
	t.history = append(t.history, t.snapshot(0))
	return t
}

// Name returns the trader's name.
func (t *Trader) Name() string { return t.name }

func (t *Trader) snapshot(day int) types.HistoryDay {
	return types.HistoryDay{
		Day:  day,
		EUR:  t.goods[types.EUR].Quantity(),
		USD:  t.goods[types.USD].Quantity(),
		YEN:  t.goods[types.YEN].Quantity(),
		YUAN: t.goods[types.YUAN].Quantity(),
	}
}

// ApplyStrategy simulates days simulated days. Within each day the
// strategy is invoked once per minute-tick, spaced by minuteInterval
// minutes (1440/minuteInterval ticks per day, rounded down, at least one),
// followed by a terminal per-day event that appends a HistoryDay snapshot
// (spec.md §4.5).
func (t *Trader) ApplyStrategy(days, minuteInterval int) {
	ticksPerDay := (24 * 60) / minuteInterval
	if ticksPerDay < 1 {
		ticksPerDay = 1
	}

	for d := 1; d <= days; d++ {
		for tick := 0; tick < ticksPerDay; tick++ {
			t.strat.Apply(t.goods)
		}
		t.day = d
		t.history = append(t.history, t.snapshot(d))
		t.log.Debugw("day complete", "day", d,
			"eur", t.goods[types.EUR].Quantity().String(),
			"usd", t.goods[types.USD].Quantity().String(),
			"yen", t.goods[types.YEN].Quantity().String(),
			"yuan", t.goods[types.YUAN].Quantity().String(),
		)
	}
}

// SellRemainingGoods gives the strategy one final chance to liquidate
// non-EUR holdings back to EUR. Not invoked automatically by
// ApplyStrategy; the caller decides when the run truly ends.
func (t *Trader) SellRemainingGoods() {
	t.strat.SellRemainingGoods(t.goods)
}

// Tick broadcasts an explicit Wait event on every market this trader
// holds, without invoking the strategy. Resolves spec.md §9's open
// question about day-counter cadence: the day counter advances purely by
// minute-tick count inside ApplyStrategy, and does not itself emit market
// events; a caller that wants deadlock mitigation to stay live on a day
// with no strategy activity can call Tick explicitly.
func (t *Trader) Tick() {
	for _, m := range t.markets {
		m.Tick()
	}
}

// GetHistory returns the recorded HistoryDay sequence, starting at day 0.
func (t *Trader) GetHistory() []types.HistoryDay {
	return append([]types.HistoryDay(nil), t.history...)
}

// Goods returns the trader's currently held goods, keyed by kind.
func (t *Trader) Goods() strategy.Goods {
	return t.goods
}
