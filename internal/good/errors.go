package good

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NonPositiveSplitQuantity is returned by Split when the requested amount
// is negative.
type NonPositiveSplitQuantity struct {
	Quantity decimal.Decimal
}

func (e NonPositiveSplitQuantity) Error() string {
	return fmt.Sprintf("non-positive split quantity: %s", e.Quantity)
}

// NotEnoughQuantityToSplit is returned by Split when the requested amount
// exceeds what the Good currently holds.
type NotEnoughQuantityToSplit struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e NotEnoughQuantityToSplit) Error() string {
	return fmt.Sprintf("not enough quantity to split: requested %s, available %s", e.Requested, e.Available)
}

// DifferentKindsOfGood is returned by Merge when the two Goods have
// different kinds. Returned carries custody of the Good that was rejected,
// so the caller never loses it.
type DifferentKindsOfGood struct {
	Returned Good
}

func (e DifferentKindsOfGood) Error() string {
	return fmt.Sprintf("different kinds of good: cannot merge %s into receiver", e.Returned.kind)
}
