package market

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradefloor/internal/good"
	"tradefloor/pkg/types"
)

// snapshot is the on-disk representation of a Market's inventory, used by
// NewMarketFromFile and Persist. Atomic replacement (write to .tmp, rename
// over the target) avoids ever leaving a half-written file behind.
type snapshot struct {
	Name string                        `json:"name"`
	Held map[types.GoodKind]string     `json:"held"`
}

// NewRandomMarket builds a Market named name with a randomized starting
// inventory whose total valuation, at default exchange rates, stays within
// the 1,000,000 EUR ceiling (spec.md §3).
func NewRandomMarket(name string) *Market {
	m := newEmptyMarket(name, zap.NewNop().Sugar())

	shares := make([]float64, len(types.AllGoodKinds))
	var total float64
	for i := range shares {
		shares[i] = rand.Float64() + 0.1
		total += shares[i]
	}

	remaining := startingCapital
	for i, k := range types.AllGoodKinds {
		var eurValue decimal.Decimal
		if i == len(types.AllGoodKinds)-1 {
			eurValue = remaining // last kind absorbs any rounding remainder
		} else {
			frac := decimal.NewFromFloat(shares[i] / total)
			eurValue = startingCapital.Mul(frac).Round(2)
			remaining = remaining.Sub(eurValue)
		}
		qty := eurValue
		if k != types.EUR {
			qty = eurValue.Mul(k.DefaultExchangeRate())
		}
		m.inventory[k] = good.New(k, qty)
	}
	m.recomputeRatesLocked()
	return m
}

// NewMarket builds a Market named name with exactly the given starting
// quantities of each kind.
func NewMarket(name string, eur, usd, yen, yuan decimal.Decimal) *Market {
	m := newEmptyMarket(name, zap.NewNop().Sugar())
	m.inventory[types.EUR] = good.New(types.EUR, eur)
	m.inventory[types.USD] = good.New(types.USD, usd)
	m.inventory[types.YEN] = good.New(types.YEN, yen)
	m.inventory[types.YUAN] = good.New(types.YUAN, yuan)
	m.recomputeRatesLocked()
	return m
}

// NewMarketFromFile loads a Market's inventory from a JSON snapshot at
// path. Any read or parse failure falls back silently to a fresh
// NewRandomMarket, named from the file's base name, so a missing or
// corrupted save never prevents startup.
func NewMarketFromFile(path string) *Market {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return NewRandomMarket(name)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return NewRandomMarket(name)
	}

	m := newEmptyMarket(snap.Name, zap.NewNop().Sugar())
	for _, k := range types.AllGoodKinds {
		raw, ok := snap.Held[k]
		if !ok {
			continue
		}
		qty, err := decimal.NewFromString(raw)
		if err != nil {
			return NewRandomMarket(name)
		}
		m.inventory[k] = good.New(k, qty)
	}
	m.recomputeRatesLocked()
	return m
}

// Persist atomically writes m's current inventory to path as JSON.
func (m *Market) Persist(path string) error {
	m.mu.RLock()
	snap := snapshot{Name: m.name, Held: make(map[types.GoodKind]string, len(types.AllGoodKinds))}
	for _, k := range types.AllGoodKinds {
		snap.Held[k] = m.inventory[k].Quantity().String()
	}
	m.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
