// Package market implements the Market contract: the lock-then-settle
// transaction protocol, per-kind pricing, the cross-market observer bus,
// and the bounded internal-trade/price-fluctuation engine that keeps the
// simulated economy in motion even when no trader is interacting with a
// given market.
//
// A Market is a shared, mutable object: the Trader that owns it calls its
// methods directly, and every peer it has subscribed to observes it only
// through the Notifiable interface. A per-instance RWMutex guards all of
// that shared state, in the same spirit as the teacher's Book and
// Inventory types guarding order-book and position state.
package market

import (
	"sync"
	"time"
	"weak"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradefloor/internal/good"
	"tradefloor/internal/observer"
	"tradefloor/pkg/types"
)

// startingCapital is the ceiling on a market's initial valuation, measured
// in EUR at default exchange rates (spec.md §3).
var startingCapital = decimal.NewFromInt(1_000_000)

// bandWidth is the maximum fractional deviation a published exchange rate
// may have from its kind's default exchange rate (spec.md §3: ±25%).
var bandWidth = decimal.NewFromFloat(0.25)

// LogSink receives a line-formatted record every time a Market completes a
// mutating operation. It is optional and non-blocking: a full or nil sink
// silently drops records, following the teacher's
// `emitDashboardEvent`/`dashboardEvents chan<- api.DashboardEvent` pattern
// in internal/strategy/maker.go.
type LogSink interface {
	Emit(LogRecord)
}

// LogRecord is one loggable occurrence on a Market, handed to a LogSink.
type LogRecord struct {
	MarketName string
	At         time.Time
	Code       string
}

// rateState is the per-kind published pricing state plus the independent
// demand biases that let buy and sell rates move in opposite directions on
// a realized trade. See pricing.go for the update rules.
type rateState struct {
	buy, sell      decimal.Decimal
	buyAdj, sellAdj decimal.Decimal
}

// kindRole is a market's internal-trade designation for one kind: source
// (exporter) of internal trade value, or target (importer).
type kindRole int

const (
	roleImporter kindRole = iota
	roleExporter
)

// kindTradeState is the per-kind internal-trade bookkeeping from spec.md §3
// ("per-kind importer/exporter flag, cooldown counter, supply-shortage
// block list").
type kindTradeState struct {
	role             kindRole
	roleSwitchAtTick int64 // earliest tick the role may change again
	shortageUntil    int64 // tick until which this kind is blocked as a trade path
}

// Market is one trading venue for the four GoodKinds. See package doc.
type Market struct {
	mu sync.RWMutex

	name      string
	inventory map[types.GoodKind]good.Good
	rates     map[types.GoodKind]*rateState
	trade     map[types.GoodKind]*kindTradeState

	locks map[string]lockRecord

	subscribers []weak.Pointer[Market]

	tick int64 // advances once per observed Event (own mutation or peer broadcast)

	logSink LogSink
	logger  *zap.SugaredLogger
}

// newEmptyMarket allocates a Market with all bookkeeping maps initialized
// but no inventory; constructors fill inventory afterward.
func newEmptyMarket(name string, logger *zap.SugaredLogger) *Market {
	m := &Market{
		name:      name,
		inventory: make(map[types.GoodKind]good.Good),
		rates:     make(map[types.GoodKind]*rateState),
		trade:     make(map[types.GoodKind]*kindTradeState),
		locks:     make(map[string]lockRecord),
		logger:    logger.Named("market").With("market", name),
	}
	for i, k := range types.AllGoodKinds {
		m.inventory[k] = good.New(k, decimal.Zero)
		rate := k.DefaultExchangeRate()
		m.rates[k] = &rateState{buy: rate, sell: rate}
		role := roleImporter
		if i%2 == 1 {
			role = roleExporter
		}
		m.trade[k] = &kindTradeState{role: role}
	}
	m.recomputeRatesLocked()
	return m
}

// Name returns the market's name.
func (m *Market) Name() string { return m.name }

// GoodKinds returns the kinds this market trades, in a fixed order.
func (m *Market) GoodKinds() []types.GoodKind {
	return append([]types.GoodKind(nil), types.AllGoodKinds...)
}

// SetLogger replaces m's logger, e.g. to attach the CLI's configured zap
// logger in place of the no-op logger constructors default to.
func (m *Market) SetLogger(logger *zap.SugaredLogger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger.Named("market").With("market", m.name)
}

// SetLogSink attaches (or detaches, with nil) the per-market log sink.
func (m *Market) SetLogSink(sink LogSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logSink = sink
}

func (m *Market) emit(code string) {
	if m.logSink == nil {
		return
	}
	m.logSink.Emit(LogRecord{MarketName: m.name, At: time.Now(), Code: code})
}

// ————————————————————————————————————————————————————————————————————————
// Observer bus
// ————————————————————————————————————————————————————————————————————————

// AddSubscriber registers peer as an observer of m's Events. The reference
// is weak: peer may be garbage collected without m's knowledge, in which
// case it is silently skipped on broadcast (spec.md §4.3, §9).
func (m *Market) AddSubscriber(peer *Market) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, weak.Make(peer))
}

// broadcastLocked publishes evt to every live subscriber, in subscription
// order, synchronously. Must be called with m.mu held for writing; it
// releases the lock before the callouts and reacquires it after them so a subscriber's
// OnEvent (which takes its own lock) can never deadlock against m.
func (m *Market) broadcastLocked(evt types.Event) {
	subs := append([]weak.Pointer[Market](nil), m.subscribers...)
	m.mu.Unlock()

	alive := make([]weak.Pointer[Market], 0, len(subs))
	for _, w := range subs {
		peer := w.Value()
		if peer == nil {
			continue // dead peer, silently skipped
		}
		peer.OnEvent(evt)
		alive = append(alive, w)
	}

	m.mu.Lock()
	m.subscribers = alive
}

// OnEvent implements observer.Notifiable. A received Event — including one
// originating from this same market's own broadcast — advances this
// market's tick counter, sweeps expired locks, refreshes this market's own
// prices in response to a realized trade elsewhere (spec.md §2, §4.4), and
// may trigger one internal trade.
func (m *Market) OnEvent(evt types.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick++
	switch evt.Kind {
	case types.Bought:
		m.applyDemandLocked(evt.GoodKind, true)
	case types.Sold:
		m.applyDemandLocked(evt.GoodKind, false)
	}
	m.expireStaleLocksLocked()
	m.maybeInternalTradeLocked()
}

var _ observer.Notifiable = (*Market)(nil)

// ————————————————————————————————————————————————————————————————————————
// Pricing queries
// ————————————————————————————————————————————————————————————————————————

// GetBuyPrice returns the minimum EUR bid that would be accepted by
// LockBuy for qty of kind, all other preconditions held.
func (m *Market) GetBuyPrice(kind types.GoodKind, qty decimal.Decimal) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !qty.IsPositive() {
		return decimal.Zero, NonPositiveQuantityAsked{Quantity: qty}
	}
	avail := m.availableLocked(kind)
	if qty.GreaterThan(avail) {
		return decimal.Zero, InsufficientGoodQuantityAvailable{Kind: kind, Requested: qty, Available: avail}
	}
	return m.priceFor(kind, qty, m.rates[kind].buy), nil
}

// GetSellPrice returns the maximum EUR offer that would be accepted by
// LockSell for qty of kind.
func (m *Market) GetSellPrice(kind types.GoodKind, qty decimal.Decimal) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !qty.IsPositive() {
		return decimal.Zero, NonPositiveQuantityAsked{Quantity: qty}
	}
	return m.priceFor(kind, qty, m.rates[kind].sell), nil
}

// priceFor converts a quantity of kind to EUR using rate, which is
// expressed in units of kind per EUR (same convention as the default
// exchange rate): EUR = qty / rate.
func (m *Market) priceFor(kind types.GoodKind, qty, rate decimal.Decimal) decimal.Decimal {
	if kind == types.EUR {
		return qty // EUR against EUR is 1:1, spec.md §4.2
	}
	if rate.IsZero() {
		return decimal.Zero
	}
	return qty.Div(rate).Round(6)
}

// availableLocked returns the unlocked quantity of kind. Must be called
// with m.mu held (read or write).
func (m *Market) availableLocked(kind types.GoodKind) decimal.Decimal {
	held := m.inventory[kind].Quantity()
	locked := m.lockedQuantity(kind, types.BuyFromMarket)
	avail := held.Sub(locked)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// GetGoods returns one GoodLabel per kind.
func (m *Market) GetGoods() []types.GoodLabel {
	m.mu.RLock()
	defer m.mu.RUnlock()

	labels := make([]types.GoodLabel, 0, len(types.AllGoodKinds))
	for _, k := range types.AllGoodKinds {
		labels = append(labels, types.GoodLabel{
			Kind:             k,
			QuantityAvail:    m.availableLocked(k),
			ExchangeRateBuy:  m.rates[k].buy,
			ExchangeRateSell: m.rates[k].sell,
		})
	}
	return labels
}
