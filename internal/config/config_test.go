package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func newBoundViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	cmd := &cobra.Command{Use: "trader-cli"}
	BindFlags(cmd, v)
	return v
}

func TestFromViperDefaults(t *testing.T) {
	t.Parallel()
	v := newBoundViper(t)

	cfg, err := FromViper(v, "mostsimple", nil)
	require.NoError(t, err)

	assert.Equal(t, "mostsimple", cfg.Strategy)
	assert.ElementsMatch(t, KnownMarkets, cfg.Markets, "no markets given means all known markets")
	assert.True(t, cfg.Capital.Equal(defaultCapital))
	assert.Equal(t, 1, cfg.Days)
	assert.Equal(t, 60, cfg.MinuteInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.AsJSON)
	assert.False(t, cfg.PrintHistory)
}

func TestFromViperUnknownStrategyRejected(t *testing.T) {
	t.Parallel()
	v := newBoundViper(t)

	_, err := FromViper(v, "bogus", nil)
	require.Error(t, err)
}

func TestFromViperUnknownMarketRejected(t *testing.T) {
	t.Parallel()
	v := newBoundViper(t)

	_, err := FromViper(v, "mostsimple", []string{"sgx", "bogus"})
	require.Error(t, err)
}

func TestFromViperEnvOverride(t *testing.T) {
	v := newBoundViper(t)
	t.Setenv("TRADER_CAPITAL", "2500.50")
	v.AutomaticEnv()

	cfg, err := FromViper(v, "stingy", []string{"tase"})
	require.NoError(t, err)

	assert.True(t, cfg.Capital.Equal(d("2500.50")))
	assert.Equal(t, []string{"tase"}, cfg.Markets)
}

func TestFromViperRejectsNonPositiveCapital(t *testing.T) {
	v := newBoundViper(t)
	t.Setenv("TRADER_CAPITAL", "0")
	v.AutomaticEnv()

	_, err := FromViper(v, "mostsimple", nil)
	require.Error(t, err)
}
