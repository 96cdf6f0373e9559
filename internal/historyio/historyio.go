// Package historyio serializes a Trader's recorded HistoryDay sequence to
// the external JSON array format the CLI's --as-json flag emits.
package historyio

import (
	"encoding/json"
	"fmt"
	"io"

	"tradefloor/pkg/types"
)

// historyDayJSON mirrors types.HistoryDay with float64 wallet fields:
// decimal.Decimal marshals as a quoted string by default, but the
// documented wire format is {day:int, eur:float, usd:float, yen:float,
// yuan:float}.
type historyDayJSON struct {
	Day  int     `json:"day"`
	EUR  float64 `json:"eur"`
	USD  float64 `json:"usd"`
	YEN  float64 `json:"yen"`
	YUAN float64 `json:"yuan"`
}

// WriteJSON writes history to w as a JSON array of
// {day, eur, usd, yen, yuan} objects, one per simulated day starting at 0.
func WriteJSON(w io.Writer, history []types.HistoryDay) error {
	out := make([]historyDayJSON, len(history))
	for i, day := range history {
		eur, _ := day.EUR.Float64()
		usd, _ := day.USD.Float64()
		yen, _ := day.YEN.Float64()
		yuan, _ := day.YUAN.Float64()
		out[i] = historyDayJSON{Day: day.Day, EUR: eur, USD: usd, YEN: yen, YUAN: yuan}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WritePlain writes history to w as a short human-readable table, used
// when --print-history is set without --as-json.
func WritePlain(w io.Writer, history []types.HistoryDay) error {
	for _, day := range history {
		if _, err := fmt.Fprintf(w, "day %3d  eur=%s usd=%s yen=%s yuan=%s\n",
			day.Day, day.EUR.String(), day.USD.String(), day.YEN.String(), day.YUAN.String()); err != nil {
			return err
		}
	}
	return nil
}
