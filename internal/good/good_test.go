package good

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefloor/pkg/types"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestNewCoercesNegativeToZero(t *testing.T) {
	t.Parallel()
	g := New(types.USD, d("-5"))
	assert.True(t, g.Quantity().IsZero())
}

func TestSplitConservesQuantity(t *testing.T) {
	t.Parallel()
	g := New(types.USD, d("100"))

	split, err := g.Split(d("40"))
	require.NoError(t, err)

	assert.True(t, g.Quantity().Equal(d("60")))
	assert.True(t, split.Quantity().Equal(d("40")))
	assert.Equal(t, types.USD, split.Kind())
	assert.True(t, g.Quantity().Add(split.Quantity()).Equal(d("100")))
}

func TestSplitNegativeQuantityFails(t *testing.T) {
	t.Parallel()
	g := New(types.USD, d("100"))

	_, err := g.Split(d("-1"))
	require.Error(t, err)
	var target NonPositiveSplitQuantity
	assert.ErrorAs(t, err, &target)
}

func TestSplitMoreThanAvailableFails(t *testing.T) {
	t.Parallel()
	g := New(types.USD, d("10"))

	_, err := g.Split(d("11"))
	require.Error(t, err)
	var target NotEnoughQuantityToSplit
	assert.ErrorAs(t, err, &target)
	assert.True(t, g.Quantity().Equal(d("10")), "failed split must not mutate receiver")
}

func TestMergeSameKindPreservesTotal(t *testing.T) {
	t.Parallel()
	a := New(types.YEN, d("30"))
	b := New(types.YEN, d("12"))

	returned, err := a.Merge(b)
	require.NoError(t, err)
	assert.True(t, returned.Quantity().IsZero())
	assert.True(t, a.Quantity().Equal(d("42")))
	assert.True(t, b.Quantity().IsZero(), "merged-away good must be surrendered")
}

func TestMergeDifferentKindsFailsAndReturnsCustody(t *testing.T) {
	t.Parallel()
	eur := New(types.EUR, d("5"))
	usd := New(types.USD, d("7"))

	returned, err := eur.Merge(usd)
	require.Error(t, err)
	var target DifferentKindsOfGood
	assert.ErrorAs(t, err, &target)
	assert.True(t, returned.Quantity().Equal(d("7")), "rejected good keeps its quantity")
	assert.Equal(t, types.USD, returned.Kind())
}
