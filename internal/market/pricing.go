package market

import (
	"github.com/shopspring/decimal"

	"tradefloor/internal/good"
	"tradefloor/pkg/types"
)

// halfSpreadFrac is half the gap recomputeRatesLocked opens between a kind's
// buy and sell rate, as a fraction of its default exchange rate. Clamping the
// widened rates to the ±25% band can leave a narrower gap at the band edges.
var halfSpreadFrac = decimal.NewFromFloat(0.02)

// demandStepFrac is how far a realized trade nudges a kind's buy/sell bias,
// as a fraction of its supply reference rate (spec.md §4.4: "a realized
// buy... raises that kind's buy rate and lowers its sell rate").
var demandStepFrac = decimal.NewFromFloat(0.01)

// maxAdjFrac bounds the accumulated bias so repeated one-directional trading
// cannot push a rate out of the ±25% band on its own.
var maxAdjFrac = decimal.NewFromFloat(0.2)

// internalTradeCeiling is the maximum EUR-equivalent value of a single
// internal trade (spec.md §4.4).
var internalTradeCeiling = decimal.NewFromInt(10_000)

// internalTradeCooldown is the tick gap between internal trades touching
// the same kind, and the minimum gap between role switches or shortage
// windows for one kind (spec.md §4.4: "at most once per 100 ticks").
const internalTradeCooldown = 100

// shortageProbabilityPct is the percent chance, each eligible tick, that a
// kind rolls into a supply shortage and is blocked from internal trading.
const shortageProbabilityPct = 5

// supplyReferenceRateLocked returns the supply-informed reference rate for
// kind: EUR held per unit of kind for an importer-designated kind, or its
// inverse for an exporter-designated kind, clamped to the ±25% band around
// the kind's default exchange rate. Falls back to the default rate itself
// when the relevant inventory is empty. Must be called with m.mu held.
func (m *Market) supplyReferenceRateLocked(kind types.GoodKind) decimal.Decimal {
	def := kind.DefaultExchangeRate()
	eurHeld := m.inventory[types.EUR].Quantity()
	kindHeld := m.inventory[kind].Quantity()

	var ref decimal.Decimal
	switch m.trade[kind].role {
	case roleImporter:
		if kindHeld.IsZero() {
			ref = def
		} else {
			ref = eurHeld.Div(kindHeld)
		}
	default: // roleExporter
		if eurHeld.IsZero() {
			ref = def
		} else {
			ref = kindHeld.Div(eurHeld)
		}
	}
	return clampToBand(ref, def)
}

// clampToBand restricts rate to [default*(1-bandWidth), default*(1+bandWidth)].
func clampToBand(rate, def decimal.Decimal) decimal.Decimal {
	lo := def.Mul(decimal.NewFromInt(1).Sub(bandWidth))
	hi := def.Mul(decimal.NewFromInt(1).Add(bandWidth))
	if rate.LessThan(lo) {
		return lo
	}
	if rate.GreaterThan(hi) {
		return hi
	}
	return rate
}

// recomputeRatesLocked refreshes the published buy/sell rate for every
// kind from its current supply reference and accumulated demand bias, then
// enforces buy < sell. Must be called with m.mu held for writing.
func (m *Market) recomputeRatesLocked() {
	for _, k := range types.AllGoodKinds {
		if k == types.EUR {
			continue
		}
		def := k.DefaultExchangeRate()
		ref := m.supplyReferenceRateLocked(k)
		st := m.rates[k]

		buy := clampToBand(ref.Mul(decimal.NewFromInt(1).Add(st.buyAdj)), def)
		sell := clampToBand(ref.Mul(decimal.NewFromInt(1).Add(st.sellAdj)), def)

		minGap := def.Mul(halfSpreadFrac).Mul(decimal.NewFromInt(2))
		if sell.Sub(buy).LessThan(minGap) {
			mid := buy.Add(sell).Div(decimal.NewFromInt(2))
			buy = mid.Sub(def.Mul(halfSpreadFrac))
			sell = mid.Add(def.Mul(halfSpreadFrac))
			buy = clampToBand(buy, def)
			sell = clampToBand(sell, def)
			if !sell.GreaterThan(buy) {
				// band too narrow to fit the spread; pin to the extremes.
				lo := def.Mul(decimal.NewFromInt(1).Sub(bandWidth))
				hi := def.Mul(decimal.NewFromInt(1).Add(bandWidth))
				buy, sell = lo, hi
			}
		}

		st.buy, st.sell = buy, sell
	}
}

// applyDemandLocked nudges kind's buy/sell bias after a realized trade and
// recomputes rates. isBuy is true when a trader just bought kind from this
// market, false when a trader just sold kind to it. Must be called with
// m.mu held for writing.
func (m *Market) applyDemandLocked(kind types.GoodKind, isBuy bool) {
	if kind == types.EUR {
		return
	}
	st := m.rates[kind]
	step := demandStepFrac
	if !isBuy {
		step = step.Neg()
	}
	st.buyAdj = clampAdj(st.buyAdj.Add(step))
	st.sellAdj = clampAdj(st.sellAdj.Sub(step))
	m.recomputeRatesLocked()
}

func clampAdj(v decimal.Decimal) decimal.Decimal {
	if v.GreaterThan(maxAdjFrac) {
		return maxAdjFrac
	}
	if v.LessThan(maxAdjFrac.Neg()) {
		return maxAdjFrac.Neg()
	}
	return v
}

// maybeInternalTradeLocked performs at most one bounded, currency-
// conserving internal trade between two non-EUR kinds when conditions
// allow: neither kind is in its cooldown or shortage window. The market
// converts up to internalTradeCeiling EUR-equivalent value from the
// exporter-role kind into the importer-role kind, at current rates, so no
// value is created or destroyed. A 5% chance per eligible tick instead
// rolls the trade's target kind into a 100-tick shortage. Must be called
// with m.mu held for writing.
func (m *Market) maybeInternalTradeLocked() {
	var source, target types.GoodKind
	haveSource, haveTarget := false, false
	for _, k := range types.AllGoodKinds {
		if k == types.EUR {
			continue
		}
		ts := m.trade[k]
		if m.tick < ts.shortageUntil {
			continue
		}
		if ts.role == roleExporter && !haveSource {
			source, haveSource = k, true
		}
		if ts.role == roleImporter && !haveTarget {
			target, haveTarget = k, true
		}
	}
	if !haveSource || !haveTarget || source == target {
		return
	}
	if m.tick%internalTradeCooldown != 0 {
		return
	}

	if m.rollLocked(shortageProbabilityPct) {
		m.trade[target].shortageUntil = m.tick + internalTradeCooldown
		return
	}

	tradeValue := internalTradeCeiling
	sourceHeld := m.inventory[source]
	sourceRate := m.rates[source].sell // market acquiring more of source internally, valued at its own sell side
	// sourceRate is in units of kind per EUR (supplyReferenceRateLocked's
	// convention, same as priceFor): EUR value = quantity / rate.
	maxSourceValue := sourceHeld.Quantity().Div(sourceRate)
	if maxSourceValue.LessThan(tradeValue) {
		tradeValue = maxSourceValue
	}
	if !tradeValue.IsPositive() {
		return
	}

	sourceUnits := tradeValue.Mul(sourceRate)
	moved, err := sourceHeld.Split(sourceUnits)
	if err != nil {
		return
	}
	m.inventory[source] = sourceHeld

	targetRate := m.rates[target].buy
	targetUnits := tradeValue.Mul(targetRate)
	targetHeld := m.inventory[target]
	_, err = targetHeld.Merge(good.New(target, targetUnits))
	if err != nil {
		// roll back the source deduction; no value may be lost.
		_, _ = sourceHeld.Merge(moved)
		m.inventory[source] = sourceHeld
		return
	}
	m.inventory[target] = targetHeld

	m.recomputeRatesLocked()
	m.emit("internal-trade")

	if m.tick >= m.trade[source].roleSwitchAtTick && m.tick >= m.trade[target].roleSwitchAtTick {
		if m.rollLocked(10) {
			m.trade[source].role, m.trade[target].role = m.trade[target].role, m.trade[source].role
			m.trade[source].roleSwitchAtTick = m.tick + internalTradeCooldown
			m.trade[target].roleSwitchAtTick = m.tick + internalTradeCooldown
		}
	}
}

// rollLocked reports true with probability pct/100, seeded from the
// market's own tick and name so results are deterministic given a replayed
// event sequence rather than drawn from a global random source. Must be
// called with m.mu held.
func (m *Market) rollLocked(pct int) bool {
	h := fnv32(m.name, m.tick)
	return int(h%100) < pct
}

func fnv32(name string, tick int64) uint32 {
	var h uint32 = 2166136261
	for _, c := range name {
		h ^= uint32(c)
		h *= 16777619
	}
	h ^= uint32(tick)
	h *= 16777619
	return h
}
