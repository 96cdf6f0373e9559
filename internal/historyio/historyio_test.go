package historyio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefloor/pkg/types"
)

func dec(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func sampleHistory() []types.HistoryDay {
	return []types.HistoryDay{
		{Day: 0, EUR: dec("1000000"), USD: dec("0"), YEN: dec("0"), YUAN: dec("0")},
		{Day: 1, EUR: dec("999500"), USD: dec("100"), YEN: dec("0"), YUAN: dec("0")},
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, sampleHistory()))

	var got []types.HistoryDay
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Day)
	assert.True(t, got[1].USD.Equal(dec("100")))
}

func TestWritePlainListsEveryDay(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, WritePlain(&buf, sampleHistory()))

	out := buf.String()
	assert.True(t, strings.Contains(out, "day   0"))
	assert.True(t, strings.Contains(out, "day   1"))
}
