package market

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tradefloor/internal/good"
	"tradefloor/pkg/types"
)

// LockBuy reserves qty of kind at the trader's own bid, provided bid meets
// or exceeds the market's current lowest acceptable price; the quote is
// only the acceptance gate, not the settlement amount — a trader who bids
// above the gate still pays their own bid, returning a token that Buy must
// present before it expires. Checks run in spec-mandated priority order:
// the first applicable failure is returned even if a later check would
// also fail.
func (m *Market) LockBuy(traderName string, kind types.GoodKind, qty, bid decimal.Decimal) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !qty.IsPositive() {
		return "", NonPositiveQuantityToBuy{Quantity: qty}
	}
	if !bid.IsPositive() {
		return "", NonPositiveBid{Bid: bid}
	}
	if m.activeLockCountForTrader(traderName) >= maxLocksPerTrader {
		return "", MaxAllowedLocksReached{TraderName: traderName}
	}

	avail := m.availableLocked(kind)
	if qty.GreaterThan(avail) {
		return "", InsufficientGoodQuantityAvailable{Kind: kind, Requested: qty, Available: avail}
	}
	lowest := m.priceFor(kind, qty, m.rates[kind].buy)
	if bid.LessThan(lowest) {
		return "", BidTooLow{Kind: kind, Quantity: qty, LowBid: bid, LowestAcceptedBid: lowest}
	}

	token := newToken()
	m.locks[token] = lockRecord{
		direction:   types.BuyFromMarket,
		kind:        kind,
		quantity:    qty,
		agreedPrice: bid,
		traderName:  traderName,
		token:       token,
		createdTick: m.tick,
	}
	m.tick++
	m.emit(fmt.Sprintf("TRADER_LOCK_BUY-%s-GOOD_KIND:%s-EXCHANGE_QTY:%s-LOCKED_QTY:%s-TOKEN:%s", traderName, kind, bid, qty, token))
	m.broadcastLocked(types.Event{Kind: types.LockedBuy, GoodKind: kind, Quantity: qty, Price: bid, OriginMarket: m.name})
	return token, nil
}

// Buy settles a previously locked purchase: the trader hands over the
// Good carrying the agreed EUR price, and receives the purchased kind in
// exchange. cash must be the default GoodKind (EUR) and must contain at
// least the pre-agreed price; any surplus remains with the caller (Buy
// only splits off what it needs).
func (m *Market) Buy(token string, cash *good.Good) (good.Good, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[token]
	if !ok {
		return good.Good{}, UnrecognizedToken{Token: token}
	}
	if m.tick-lock.createdTick >= lockExpiryTicks {
		delete(m.locks, token)
		return good.Good{}, ExpiredToken{Token: token}
	}
	if cash.Kind() != types.EUR {
		return good.Good{}, GoodKindNotDefault{Kind: cash.Kind()}
	}
	if cash.Quantity().LessThan(lock.agreedPrice) {
		return good.Good{}, InsufficientGoodQuantity{Contained: cash.Quantity(), PreAgreed: lock.agreedPrice}
	}

	paid, err := cash.Split(lock.agreedPrice)
	if err != nil {
		return good.Good{}, InsufficientGoodQuantity{Contained: cash.Quantity(), PreAgreed: lock.agreedPrice}
	}
	eurHeld := m.inventory[types.EUR]
	if _, err := eurHeld.Merge(paid); err != nil {
		return good.Good{}, err
	}
	m.inventory[types.EUR] = eurHeld

	soldInv := m.inventory[lock.kind]
	out, err := soldInv.Split(lock.quantity)
	if err != nil {
		return good.Good{}, InsufficientGoodQuantity{Contained: soldInv.Quantity(), PreAgreed: lock.quantity}
	}
	m.inventory[lock.kind] = soldInv

	delete(m.locks, token)
	m.applyDemandLocked(lock.kind, true)
	m.tick++
	m.emit(fmt.Sprintf("TRADER_BUY-TOKEN:%s", token))
	m.emit(fmt.Sprintf("MARKET_UNLOCK_BUY-TOKEN:%s", token))
	m.broadcastLocked(types.Event{Kind: types.Bought, GoodKind: lock.kind, Quantity: lock.quantity, Price: lock.agreedPrice, OriginMarket: m.name})
	return out, nil
}

// LockSell reserves this market's commitment to pay the trader's own offer
// in EUR for qty of kind, provided offer does not exceed the market's
// current highest acceptable price; the quote is only the acceptance gate,
// not the settlement amount. Completed by Sell.
func (m *Market) LockSell(traderName string, kind types.GoodKind, qty, offer decimal.Decimal) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !qty.IsPositive() {
		return "", NonPositiveQuantityToSell{Quantity: qty}
	}
	if !offer.IsPositive() {
		return "", NonPositiveOffer{Offer: offer}
	}
	if m.activeLockCountForTrader(traderName) >= maxLocksPerTrader {
		return "", MaxAllowedLocksReached{TraderName: traderName}
	}

	highest := m.priceFor(kind, qty, m.rates[kind].sell)

	eurHeld := m.inventory[types.EUR].Quantity()
	committed := m.lockedEURForSells()
	availableEUR := eurHeld.Sub(committed)
	if availableEUR.IsNegative() {
		availableEUR = decimal.Zero
	}
	if offer.GreaterThan(availableEUR) {
		return "", InsufficientDefaultGoodQuantityAvailable{Requested: offer, Available: availableEUR}
	}
	if offer.GreaterThan(highest) {
		return "", OfferTooHigh{Kind: kind, Quantity: qty, HighOffer: offer, HighestAcceptedOffer: highest}
	}

	token := newToken()
	m.locks[token] = lockRecord{
		direction:   types.SellToMarket,
		kind:        kind,
		quantity:    qty,
		agreedPrice: offer,
		traderName:  traderName,
		token:       token,
		createdTick: m.tick,
	}
	m.tick++
	m.emit(fmt.Sprintf("TRADER_LOCK_SELL-%s-GOOD_KIND:%s-EXCHANGE_QTY:%s-LOCKED_QTY:%s-TOKEN:%s", traderName, kind, offer, qty, token))
	m.broadcastLocked(types.Event{Kind: types.LockedSell, GoodKind: kind, Quantity: qty, Price: offer, OriginMarket: m.name})
	return token, nil
}

// Sell settles a previously locked sale: the trader hands over good (of the
// pre-agreed kind and at least the pre-agreed quantity) and receives EUR in
// exchange.
func (m *Market) Sell(token string, offered *good.Good) (good.Good, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[token]
	if !ok {
		return good.Good{}, UnrecognizedToken{Token: token}
	}
	if m.tick-lock.createdTick >= lockExpiryTicks {
		delete(m.locks, token)
		return good.Good{}, ExpiredToken{Token: token}
	}
	if offered.Kind() != lock.kind {
		return good.Good{}, WrongGoodKind{Wrong: offered.Kind(), PreAgreed: lock.kind}
	}
	if offered.Quantity().LessThan(lock.quantity) {
		return good.Good{}, InsufficientGoodQuantity{Contained: offered.Quantity(), PreAgreed: lock.quantity}
	}

	received, err := offered.Split(lock.quantity)
	if err != nil {
		return good.Good{}, InsufficientGoodQuantity{Contained: offered.Quantity(), PreAgreed: lock.quantity}
	}
	heldKind := m.inventory[lock.kind]
	if _, err := heldKind.Merge(received); err != nil {
		return good.Good{}, err
	}
	m.inventory[lock.kind] = heldKind

	eurHeld := m.inventory[types.EUR]
	out, err := eurHeld.Split(lock.agreedPrice)
	if err != nil {
		return good.Good{}, err
	}
	m.inventory[types.EUR] = eurHeld

	delete(m.locks, token)
	m.applyDemandLocked(lock.kind, false)
	m.tick++
	m.emit(fmt.Sprintf("TRADER_SELL-TOKEN:%s", token))
	m.emit(fmt.Sprintf("MARKET_UNLOCK_SELL-TOKEN:%s", token))
	m.broadcastLocked(types.Event{Kind: types.Sold, GoodKind: lock.kind, Quantity: lock.quantity, Price: lock.agreedPrice, OriginMarket: m.name})
	return out, nil
}

// Tick broadcasts an explicit Wait event, advancing this market's own clock
// without any trader-initiated trade (an internal trade may still run, as on
// any other tick). Used by a Trader to keep peer markets' deadlock
// mitigation live on days its Strategy makes no calls at all.
func (m *Market) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick++
	m.expireStaleLocksLocked()
	m.maybeInternalTradeLocked()
	m.broadcastLocked(types.Event{Kind: types.Wait, OriginMarket: m.name})
}
