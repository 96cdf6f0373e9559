package market

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradefloor/pkg/types"
)

// maxLocksPerTrader is |GoodKind| - 2, per spec.md §4.2/§9: the literal must
// be derived from the enum's size, not hard-coded, so the cap still holds
// if GoodKind ever grows.
var maxLocksPerTrader = len(types.AllGoodKinds) - 2

// lockExpiryTicks is how many ticks a lock survives before it is silently
// cleared and its token invalidated. spec.md §4.2 allows any value in
// [3, 15]; 10 sits comfortably in the middle of that band.
const lockExpiryTicks = 10

// lockRecord is market-local metadata for one active lock.
type lockRecord struct {
	direction   types.LockDirection
	kind        types.GoodKind
	quantity    decimal.Decimal
	agreedPrice decimal.Decimal // EUR
	traderName  string
	token       string
	createdTick int64
}

// newToken returns a fresh, globally-unique lock token.
func newToken() string {
	return uuid.NewString()
}

// activeLockCountForTrader counts this trader's currently-live locks.
// Must be called with m.mu held.
func (m *Market) activeLockCountForTrader(traderName string) int {
	n := 0
	for _, l := range m.locks {
		if l.traderName == traderName {
			n++
		}
	}
	return n
}

// lockedQuantity sums the quantity locked for kind in the given direction.
// Must be called with m.mu held.
func (m *Market) lockedQuantity(kind types.GoodKind, dir types.LockDirection) decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.locks {
		if l.kind == kind && l.direction == dir {
			total = total.Add(l.quantity)
		}
	}
	return total
}

// lockedEURForSells sums the EUR a market has already committed to pay out
// against open SellToMarket locks. Must be called with m.mu held.
func (m *Market) lockedEURForSells() decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.locks {
		if l.direction == types.SellToMarket {
			total = total.Add(l.agreedPrice)
		}
	}
	return total
}

// expireStaleLocksLocked clears every lock older than lockExpiryTicks and
// restores its reserved inventory. Must be called with m.mu held.
func (m *Market) expireStaleLocksLocked() {
	for token, l := range m.locks {
		if m.tick-l.createdTick >= lockExpiryTicks {
			delete(m.locks, token)
		}
	}
}
