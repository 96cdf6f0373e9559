// Package observer defines the cross-market notification contract. A
// Market publishes an Event to every Notifiable subscriber synchronously,
// in subscription order, immediately after a successful lock or settlement
// (or explicitly, for a Wait tick). The succession of Events a subscriber
// observes from one publisher is that subscriber's simulation clock.
package observer

import "tradefloor/pkg/types"

// Notifiable is implemented by anything that can receive market Events.
// In this system only *market.Market does; the interface lives here, kept
// separate from the Market type, because it is the contract two otherwise
// unrelated Markets share — the observer relation, not the Market
// implementation itself.
type Notifiable interface {
	OnEvent(types.Event)
}
