// trader-cli runs one simulated trader against a chosen subset of markets
// for a configured number of days, applying a named strategy, and reports
// the resulting daily history.
//
//	trader-cli <STRATEGY> [MARKETS]... [options]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tradefloor/internal/config"
	"tradefloor/internal/historyio"
	"tradefloor/internal/logging"
	"tradefloor/internal/market"
	"tradefloor/internal/marketlog"
	"tradefloor/internal/strategy"
	"tradefloor/internal/trader"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "trader-cli STRATEGY [MARKETS]...",
		Short:   "Simulate a trading agent against one or more markets",
		Args:    cobra.MinimumNArgs(1),
		Version: "0.1.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return execute(v, args[0], args[1:])
		},
	}
	config.BindFlags(cmd, v)

	return cmd.Execute()
}

func execute(v *viper.Viper, strategyName string, marketNames []string) error {
	cfg, err := config.FromViper(v, strategyName, marketNames)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.AsJSON)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	writer, err := marketlog.NewWriter("logs", log)
	if err != nil {
		return fmt.Errorf("create market log writer: %w", err)
	}
	defer writer.Close() //nolint:errcheck

	markets := make([]*market.Market, 0, len(cfg.Markets))
	for _, name := range cfg.Markets {
		m := market.NewRandomMarket(name)
		m.SetLogger(log)
		m.SetLogSink(writer)
		writer.WriteInitialization(name, m.GetGoods())
		markets = append(markets, m)
	}
	connectAll(markets)

	strat, err := buildStrategy(cfg.Strategy, "trader-1", markets, log)
	if err != nil {
		return err
	}

	tr := trader.New("trader-1", strat, markets, cfg.Capital, log)
	tr.ApplyStrategy(cfg.Days, cfg.MinuteInterval)
	tr.SellRemainingGoods()

	history := tr.GetHistory()
	if cfg.AsJSON {
		if err := historyio.WriteJSON(os.Stdout, history); err != nil {
			return fmt.Errorf("write history json: %w", err)
		}
	}
	if cfg.PrintHistory && !cfg.AsJSON {
		if err := historyio.WritePlain(os.Stdout, history); err != nil {
			return fmt.Errorf("write history: %w", err)
		}
	}

	log.Infow("run complete", "strategy", cfg.Strategy, "days", cfg.Days, "markets", cfg.Markets)
	return nil
}

// connectAll makes every market a weak subscriber of every other market, so
// a mutating operation on any one market's inventory propagates to the
// rest as an observed Event.
func connectAll(markets []*market.Market) {
	for _, m := range markets {
		for _, peer := range markets {
			if m == peer {
				continue
			}
			m.AddSubscriber(peer)
		}
	}
}

func buildStrategy(name, traderName string, markets []*market.Market, log *zap.SugaredLogger) (strategy.Strategy, error) {
	switch name {
	case "mostsimple":
		return strategy.NewMostSimple(traderName, markets, log), nil
	case "averageseller":
		return strategy.NewAverageSeller(traderName, markets, log), nil
	case "stingy":
		return strategy.NewStingy(traderName, markets, log), nil
	case "buyandhold":
		return strategy.NewBuyAndHold(traderName, markets, log), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
