package market

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tradefloor/pkg/types"
)

// ————————————————————————————————————————————————————————————————————————
// MarketGetterError — get_buy_price / get_sell_price
// ————————————————————————————————————————————————————————————————————————

type NonPositiveQuantityAsked struct{ Quantity decimal.Decimal }

func (e NonPositiveQuantityAsked) Error() string {
	return fmt.Sprintf("non-positive quantity asked: %s", e.Quantity)
}

type InsufficientGoodQuantityAvailable struct {
	Kind      types.GoodKind
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e InsufficientGoodQuantityAvailable) Error() string {
	return fmt.Sprintf("insufficient %s available: requested %s, available %s", e.Kind, e.Requested, e.Available)
}

// ————————————————————————————————————————————————————————————————————————
// LockBuyError — priority order matches spec.md §4.2, lowest number wins
// ————————————————————————————————————————————————————————————————————————

// 1
type NonPositiveQuantityToBuy struct{ Quantity decimal.Decimal }

func (e NonPositiveQuantityToBuy) Error() string {
	return fmt.Sprintf("non-positive quantity to buy: %s", e.Quantity)
}

// 2
type NonPositiveBid struct{ Bid decimal.Decimal }

func (e NonPositiveBid) Error() string { return fmt.Sprintf("non-positive bid: %s", e.Bid) }

// 3 — only raised under a one-lock-per-kind policy, unused by this market's
// per-trader-cap policy (maxLocksPerTrader in lock.go). Kept for API completeness.
type GoodAlreadyLocked struct{ ExistingToken string }

func (e GoodAlreadyLocked) Error() string {
	return fmt.Sprintf("good already locked, existing token: %s", e.ExistingToken)
}

// 4
type MaxAllowedLocksReached struct{ TraderName string }

func (e MaxAllowedLocksReached) Error() string {
	return fmt.Sprintf("max allowed locks reached for trader %q", e.TraderName)
}

// 6 — 5 is InsufficientGoodQuantityAvailable, defined above under
// MarketGetterError and reused here for the same condition.
type BidTooLow struct {
	Kind               types.GoodKind
	Quantity           decimal.Decimal
	LowBid             decimal.Decimal
	LowestAcceptedBid  decimal.Decimal
}

func (e BidTooLow) Error() string {
	return fmt.Sprintf("bid too low for %s x%s: bid %s, lowest acceptable %s", e.Kind, e.Quantity, e.LowBid, e.LowestAcceptedBid)
}

// ————————————————————————————————————————————————————————————————————————
// BuyError
// ————————————————————————————————————————————————————————————————————————

// 1
type UnrecognizedToken struct{ Token string }

func (e UnrecognizedToken) Error() string { return fmt.Sprintf("unrecognized token: %s", e.Token) }

// 2
type ExpiredToken struct{ Token string }

func (e ExpiredToken) Error() string { return fmt.Sprintf("expired token: %s", e.Token) }

// 3
type GoodKindNotDefault struct{ Kind types.GoodKind }

func (e GoodKindNotDefault) Error() string {
	return fmt.Sprintf("cash good kind is not the default kind: %s", e.Kind)
}

// 4
type InsufficientGoodQuantity struct {
	Contained decimal.Decimal
	PreAgreed decimal.Decimal
}

func (e InsufficientGoodQuantity) Error() string {
	return fmt.Sprintf("insufficient good quantity: contained %s, pre-agreed %s", e.Contained, e.PreAgreed)
}

// ————————————————————————————————————————————————————————————————————————
// LockSellError — mirrors LockBuyError
// ————————————————————————————————————————————————————————————————————————

// 1
type NonPositiveQuantityToSell struct{ Quantity decimal.Decimal }

func (e NonPositiveQuantityToSell) Error() string {
	return fmt.Sprintf("non-positive quantity to sell: %s", e.Quantity)
}

// 2
type NonPositiveOffer struct{ Offer decimal.Decimal }

func (e NonPositiveOffer) Error() string { return fmt.Sprintf("non-positive offer: %s", e.Offer) }

// 3
type DefaultGoodAlreadyLocked struct{ ExistingToken string }

func (e DefaultGoodAlreadyLocked) Error() string {
	return fmt.Sprintf("default good already locked, existing token: %s", e.ExistingToken)
}

// 5
type InsufficientDefaultGoodQuantityAvailable struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e InsufficientDefaultGoodQuantityAvailable) Error() string {
	return fmt.Sprintf("insufficient EUR available to back sell locks: requested %s, available %s", e.Requested, e.Available)
}

// 6
type OfferTooHigh struct {
	Kind                types.GoodKind
	Quantity            decimal.Decimal
	HighOffer           decimal.Decimal
	HighestAcceptedOffer decimal.Decimal
}

func (e OfferTooHigh) Error() string {
	return fmt.Sprintf("offer too high for %s x%s: offer %s, highest acceptable %s", e.Kind, e.Quantity, e.HighOffer, e.HighestAcceptedOffer)
}

// ————————————————————————————————————————————————————————————————————————
// SellError
// ————————————————————————————————————————————————————————————————————————

type WrongGoodKind struct {
	Wrong     types.GoodKind
	PreAgreed types.GoodKind
}

func (e WrongGoodKind) Error() string {
	return fmt.Sprintf("wrong good kind: got %s, pre-agreed %s", e.Wrong, e.PreAgreed)
}
