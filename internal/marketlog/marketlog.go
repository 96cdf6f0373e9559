// Package marketlog writes the per-market textual log files external
// tooling reads: one file per market, one line per record, in the
// <market>|YY:MM:DD:HH:SEC:MSES|<code> format. Writes happen off the
// calling goroutine through a buffered, non-blocking channel, the same
// emit-or-drop shape the teacher used for its dashboard event stream
// (internal/strategy/maker.go's emitDashboardEvent).
package marketlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"tradefloor/internal/market"
	"tradefloor/pkg/types"
)

// bufferSize is how many pending records a Writer tolerates before it
// starts dropping new ones rather than blocking the caller.
const bufferSize = 256

// Writer implements market.LogSink, fanning every record out to a
// per-market file under dir.
type Writer struct {
	dir     string
	records chan market.LogRecord
	done    chan struct{}
	files   map[string]*os.File
	log     *zap.SugaredLogger
}

// NewWriter creates a Writer rooted at dir (created if absent) and starts
// its background drain goroutine. Call Close when the run ends.
func NewWriter(dir string, log *zap.SugaredLogger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create market log dir: %w", err)
	}
	w := &Writer{
		dir:     dir,
		records: make(chan market.LogRecord, bufferSize),
		done:    make(chan struct{}),
		files:   make(map[string]*os.File),
		log:     log.Named("marketlog"),
	}
	go w.run()
	return w, nil
}

// Emit implements market.LogSink. It never blocks: a full buffer drops the
// record rather than stall the market operation that produced it.
func (w *Writer) Emit(rec market.LogRecord) {
	select {
	case w.records <- rec:
	default:
		w.log.Warnw("market log buffer full, dropping record", "market", rec.MarketName)
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for rec := range w.records {
		f, err := w.fileFor(rec.MarketName)
		if err != nil {
			w.log.Errorw("open market log file", "market", rec.MarketName, "error", err)
			continue
		}
		line := fmt.Sprintf("%s|%s|%s\n", rec.MarketName, formatTimestamp(rec.At), rec.Code)
		if _, err := f.WriteString(line); err != nil {
			w.log.Errorw("write market log line", "market", rec.MarketName, "error", err)
		}
	}
}

func (w *Writer) fileFor(marketName string) (*os.File, error) {
	if f, ok := w.files[marketName]; ok {
		return f, nil
	}
	path := filepath.Join(w.dir, "log_"+marketName+".txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	w.files[marketName] = f
	return f, nil
}

// Close stops accepting new records, drains what's pending, and closes
// every open file.
func (w *Writer) Close() error {
	close(w.records)
	<-w.done
	var firstErr error
	for _, f := range w.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriteInitialization appends the MARKET_INITIALIZATION block for a
// freshly constructed market: one line per kind's starting quantity in
// exponential notation, bracketed by MARKET_INITIALIZATION and
// END_MARKET_INITIALIZATION markers.
func (w *Writer) WriteInitialization(marketName string, labels []types.GoodLabel) {
	w.Emit(market.LogRecord{MarketName: marketName, At: time.Now(), Code: "MARKET_INITIALIZATION"})
	for _, label := range labels {
		qty, _ := label.QuantityAvail.Float64()
		code := fmt.Sprintf("GOOD_KIND:%s-QUANTITY:%e", label.Kind, qty)
		w.Emit(market.LogRecord{MarketName: marketName, At: time.Now(), Code: code})
	}
	w.Emit(market.LogRecord{MarketName: marketName, At: time.Now(), Code: "END_MARKET_INITIALIZATION"})
}

// formatTimestamp renders t as YY:MM:DD:HH:SEC:MSES, matching the wire
// format external tooling expects for per-market log lines.
func formatTimestamp(t time.Time) string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d:%02d:%03d",
		t.Year()%100, int(t.Month()), t.Day(), t.Hour(), t.Second(), t.Nanosecond()/1_000_000)
}
