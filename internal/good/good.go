// Package good implements Good, the only vehicle for transferring quantity
// of a currency between principals in the simulation. Custody moves
// atomically through split and merge; there is no other way to create,
// destroy, or duplicate quantity.
package good

import (
	"github.com/shopspring/decimal"

	"tradefloor/pkg/types"
)

// Good is an owned quantity of a single GoodKind. Quantity is private: it
// mutates only via Split and Merge, both of which conserve total quantity.
// A Good held by a trader carries no price — pricing belongs to markets.
type Good struct {
	kind types.GoodKind
	qty  decimal.Decimal
}

// New creates a Good of the given kind and quantity. A negative quantity
// coerces to zero; New never fails.
func New(kind types.GoodKind, qty decimal.Decimal) Good {
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	return Good{kind: kind, qty: qty}
}

// Kind returns the good's currency kind.
func (g Good) Kind() types.GoodKind { return g.kind }

// Quantity returns the good's current quantity.
func (g Good) Quantity() decimal.Decimal { return g.qty }

// IsZero reports whether the good currently holds no quantity.
func (g Good) IsZero() bool { return g.qty.IsZero() }

// Split removes by from the receiver and returns it as a new Good of the
// same kind. The receiver's quantity is reduced accordingly.
func (g *Good) Split(by decimal.Decimal) (Good, error) {
	if by.IsNegative() {
		return Good{}, NonPositiveSplitQuantity{Quantity: by}
	}
	if by.GreaterThan(g.qty) {
		return Good{}, NotEnoughQuantityToSplit{Requested: by, Available: g.qty}
	}
	g.qty = g.qty.Sub(by)
	return Good{kind: g.kind, qty: by}, nil
}

// Merge adds other's quantity into the receiver and surrenders other (its
// quantity is zeroed; it becomes unusable). If the kinds differ, custody of
// other is returned to the caller unchanged.
func (g *Good) Merge(other Good) (Good, error) {
	if other.kind != g.kind {
		return other, DifferentKindsOfGood{Returned: other}
	}
	g.qty = g.qty.Add(other.qty)
	other.qty = decimal.Zero
	return Good{}, nil
}
