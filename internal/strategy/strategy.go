// Package strategy defines the abstract contract a trading strategy
// satisfies, plus a handful of example strategies grounded on simple,
// clearly-bounded policies. The Trader driver invokes a Strategy's hooks;
// the strategy never drives the clock itself.
package strategy

import (
	"tradefloor/internal/good"
	"tradefloor/pkg/types"
)

// Goods is the trader's held inventory, keyed by kind, as passed to a
// Strategy. A strategy mutates it only through the Good values' own
// Split/Merge methods — there is no other way to move custody.
type Goods map[types.GoodKind]*good.Good

// Strategy is invoked once per minute-tick while a Trader's run is active,
// and once more at the end of the run to liquidate. It owns no state the
// driver needs: running averages, buy/sell counters, or anything else a
// concrete strategy tracks between calls is its own private memory.
type Strategy interface {
	// Apply is called once per minute-tick. It may lock/settle freely
	// against any of the markets it was constructed with.
	Apply(goods Goods)

	// SellRemainingGoods is called once, at the end of the run, to give
	// the strategy a chance to liquidate non-EUR holdings back to EUR.
	SellRemainingGoods(goods Goods)
}
