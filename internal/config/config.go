// Package config defines the trader-cli command line surface: positional
// strategy and market arguments plus option flags, bound through viper so
// every flag can also be set via a TRADER_* environment variable, the same
// override convention the teacher used for its own POLY_* settings.
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// KnownMarkets is the closed set of market names the CLI accepts.
var KnownMarkets = []string{"sgx", "smse", "tase", "zse"}

// KnownStrategies is the closed set of strategy identifiers the CLI accepts.
var KnownStrategies = []string{"mostsimple", "averageseller", "stingy", "buyandhold"}

// Config is the fully parsed and validated set of options for one run.
type Config struct {
	Strategy      string
	Markets       []string
	Capital       decimal.Decimal
	Days          int
	MinuteInterval int
	LogLevel      string
	AsJSON        bool
	PrintHistory  bool
}

// defaultCapital is the CLI's default starting EUR capital.
var defaultCapital = decimal.NewFromInt(1_000_000)

// BindFlags registers every trader-cli flag on cmd and binds it into v,
// with a TRADER_ env-var override for each.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.StringP("capital", "c", defaultCapital.String(), "EUR starting capital")
	flags.IntP("days", "d", 1, "number of simulated days")
	flags.IntP("minute-interval", "m", 60, "minutes between strategy ticks")
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	flags.BoolP("as-json", "a", false, "emit history as JSON")
	flags.BoolP("print-history", "p", false, "print history to stdout on exit")

	v.SetEnvPrefix("TRADER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)
}

// FromViper builds a validated Config from positional args and the flags
// bound into v.
func FromViper(v *viper.Viper, strategy string, markets []string) (*Config, error) {
	if !contains(KnownStrategies, strategy) {
		return nil, fmt.Errorf("unknown strategy %q, must be one of %v", strategy, KnownStrategies)
	}
	if len(markets) == 0 {
		markets = KnownMarkets
	}
	for _, mkt := range markets {
		if !contains(KnownMarkets, mkt) {
			return nil, fmt.Errorf("unknown market %q, must be one of %v", mkt, KnownMarkets)
		}
	}

	capital, err := decimal.NewFromString(v.GetString("capital"))
	if err != nil {
		return nil, fmt.Errorf("invalid capital: %w", err)
	}
	if !capital.IsPositive() {
		return nil, fmt.Errorf("capital must be positive, got %s", capital)
	}

	days := v.GetInt("days")
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	minuteInterval := v.GetInt("minute-interval")
	if minuteInterval <= 0 {
		return nil, fmt.Errorf("minute-interval must be positive, got %d", minuteInterval)
	}

	return &Config{
		Strategy:       strategy,
		Markets:        markets,
		Capital:        capital,
		Days:           days,
		MinuteInterval: minuteInterval,
		LogLevel:       v.GetString("log-level"),
		AsJSON:         v.GetBool("as-json"),
		PrintHistory:   v.GetBool("print-history"),
	}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
