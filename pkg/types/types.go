// Package types defines the shared vocabulary of the trading simulation:
// the closed set of currency kinds, the cross-market event shape, and the
// daily history snapshot. It has no dependencies on internal packages, so
// it can be imported by any layer.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ————————————————————————————————————————————————————————————————————————
// GoodKind
// ————————————————————————————————————————————————————————————————————————

// GoodKind is the closed enumeration of currencies the simulation trades.
// EUR is the default kind: all prices are quoted in EUR.
type GoodKind string

const (
	EUR  GoodKind = "EUR"
	USD  GoodKind = "USD"
	YEN  GoodKind = "YEN"
	YUAN GoodKind = "YUAN"
)

// AllGoodKinds lists every kind in a fixed order, used for iteration where
// order matters (e.g. deterministic market initialization).
var AllGoodKinds = []GoodKind{EUR, USD, YEN, YUAN}

// defaultExchangeRates holds the fixed EUR→kind ratio for each kind.
// EUR's own rate is 1 by definition.
var defaultExchangeRates = map[GoodKind]decimal.Decimal{
	EUR:  decimal.NewFromInt(1),
	USD:  decimal.NewFromFloat(1.03576),
	YEN:  decimal.NewFromFloat(164.246),
	YUAN: decimal.NewFromFloat(7.4592),
}

// DefaultExchangeRate returns the fixed EUR→kind ratio for k.
func (k GoodKind) DefaultExchangeRate() decimal.Decimal {
	rate, ok := defaultExchangeRates[k]
	if !ok {
		return decimal.Zero
	}
	return rate
}

// String implements fmt.Stringer.
func (k GoodKind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the four known kinds.
func (k GoodKind) IsValid() bool {
	switch k {
	case EUR, USD, YEN, YUAN:
		return true
	default:
		return false
	}
}

// NonExistentGoodKind is the sole variant of the GoodKindError family: the
// requested name does not match any known GoodKind.
type NonExistentGoodKind struct{ Name string }

func (e NonExistentGoodKind) Error() string {
	return fmt.Sprintf("non-existent good kind: %q", e.Name)
}

// GoodKindFromString looks up a GoodKind by its name (case-sensitive,
// matching the canonical EUR/USD/YEN/YUAN spelling).
func GoodKindFromString(s string) (GoodKind, error) {
	k := GoodKind(s)
	if !k.IsValid() {
		return "", NonExistentGoodKind{Name: s}
	}
	return k, nil
}

// ————————————————————————————————————————————————————————————————————————
// GoodLabel
// ————————————————————————————————————————————————————————————————————————

// GoodLabel is a read-only snapshot a market publishes for one kind. It is
// observation-only: it never transfers custody of anything.
type GoodLabel struct {
	Kind          GoodKind
	QuantityAvail decimal.Decimal
	// ExchangeRateBuy and ExchangeRateSell are expressed in the same units
	// as DefaultExchangeRate (units of Kind per EUR). EUR price = quantity
	// divided by the rate, so ExchangeRateBuy <= ExchangeRateSell means
	// buying costs at least as much EUR as selling the same quantity pays.
	ExchangeRateBuy  decimal.Decimal
	ExchangeRateSell decimal.Decimal
}

// ————————————————————————————————————————————————————————————————————————
// Lock direction
// ————————————————————————————————————————————————————————————————————————

// LockDirection identifies which side of the market a lock reserves.
type LockDirection int

const (
	BuyFromMarket LockDirection = iota
	SellToMarket
)

func (d LockDirection) String() string {
	if d == BuyFromMarket {
		return "BUY"
	}
	return "SELL"
}

// ————————————————————————————————————————————————————————————————————————
// Events
// ————————————————————————————————————————————————————————————————————————

// EventKind enumerates the notifications a Market broadcasts to its
// subscribers. Wait is a pure clock tick carrying no trade information.
type EventKind int

const (
	Bought EventKind = iota
	Sold
	LockedBuy
	LockedSell
	Wait
)

func (k EventKind) String() string {
	switch k {
	case Bought:
		return "BOUGHT"
	case Sold:
		return "SOLD"
	case LockedBuy:
		return "LOCKED_BUY"
	case LockedSell:
		return "LOCKED_SELL"
	case Wait:
		return "WAIT"
	default:
		return "UNKNOWN"
	}
}

// Event is broadcast synchronously by a Market to every subscriber after a
// successful lock or settlement, or explicitly as a Wait tick. The sequence
// of Events a subscriber observes from a publisher is its simulation clock.
type Event struct {
	Kind         EventKind
	GoodKind     GoodKind
	Quantity     decimal.Decimal
	Price        decimal.Decimal // EUR, zero for Wait
	OriginMarket string          // name of the publishing market
}

// ————————————————————————————————————————————————————————————————————————
// History
// ————————————————————————————————————————————————————————————————————————

// HistoryDay is one entry in a Trader's daily snapshot sequence: the goods
// held at the end of that simulated day (day 0 is the initial state).
type HistoryDay struct {
	Day  int             `json:"day"`
	EUR  decimal.Decimal `json:"eur"`
	USD  decimal.Decimal `json:"usd"`
	YEN  decimal.Decimal `json:"yen"`
	YUAN decimal.Decimal `json:"yuan"`
}
