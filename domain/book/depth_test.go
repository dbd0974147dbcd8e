package book

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepthFixedWidthTable(t *testing.T) {
	e := NewEngine()

	require.Equal(t, Ok, e.Apply(NewOrder{Product: 2, ID: 20, Side: Sell, Qty: 1, Price: Price(9_2500)}))
	require.Equal(t, Ok, e.Apply(NewOrder{Product: 1, ID: 10, Side: Buy, Qty: 1, Price: Price(100_0000)}))
	require.Equal(t, Ok, e.Apply(NewOrder{Product: 1, ID: 11, Side: Buy, Qty: 1, Price: Price(99_5000)}))
	require.Equal(t, Ok, e.Apply(NewOrder{Product: 1, ID: 12, Side: Sell, Qty: 1, Price: Price(101_0000)}))

	var sb strings.Builder
	require.NoError(t, e.Depth(&sb, 2, true))

	want := "" +
		"Product   Bid1      Bid2      Ask1      Ask2      \n" +
		"1         100       99.5      101       -         \n" +
		"2         -         -         9.25      -         \n"
	assert.Equal(t, want, sb.String())
}

func TestDepthEmptyEngine(t *testing.T) {
	e := NewEngine()
	var sb strings.Builder
	require.NoError(t, e.Depth(&sb, 5, false))
	assert.Empty(t, sb.String())
}

func TestDepthProductRowSurvivesEmptyBook(t *testing.T) {
	e := NewEngine()
	require.Equal(t, Ok, e.Apply(NewOrder{Product: 7, ID: 1, Side: Buy, Qty: 3, Price: Price(5_0000)}))
	require.Equal(t, Ok, e.Apply(CancelOrder{ID: 1, Side: Buy}))

	// A product stays in the table once seen, even with nothing resting.
	var sb strings.Builder
	require.NoError(t, e.Depth(&sb, 1, false))
	assert.Equal(t, "7         -         -         \n", sb.String())
}

func TestEachRestingDeterministicOrder(t *testing.T) {
	e := NewEngine()

	require.Equal(t, Ok, e.Apply(NewOrder{Product: 2, ID: 30, Side: Buy, Qty: 1, Price: Price(10)}))
	require.Equal(t, Ok, e.Apply(NewOrder{Product: 1, ID: 21, Side: Sell, Qty: 1, Price: Price(30)}))
	require.Equal(t, Ok, e.Apply(NewOrder{Product: 1, ID: 20, Side: Sell, Qty: 1, Price: Price(20)}))
	require.Equal(t, Ok, e.Apply(NewOrder{Product: 1, ID: 11, Side: Buy, Qty: 1, Price: Price(15)}))
	require.Equal(t, Ok, e.Apply(NewOrder{Product: 1, ID: 10, Side: Buy, Qty: 1, Price: Price(15)}))

	var ids []OrderID
	e.EachResting(func(_ ProductID, _ Side, o *Order) {
		ids = append(ids, o.ID)
	})
	// Product 1 bids (FIFO at 15: 11 then 10), product 1 asks best-first
	// (20 then 30), then product 2.
	assert.Equal(t, []OrderID{11, 10, 20, 21, 30}, ids)
}

func TestEachLastTradeSorted(t *testing.T) {
	e := NewEngine()
	e.SetLastTrade(5, LastTrade{Price: Price(50), Qty: 1})
	e.SetLastTrade(2, LastTrade{Price: Price(20), Qty: 2})

	var pids []ProductID
	e.EachLastTrade(func(pid ProductID, lt LastTrade) {
		pids = append(pids, pid)
	})
	assert.Equal(t, []ProductID{2, 5}, pids)
	assert.Equal(t, LastTrade{Price: Price(20), Qty: 2}, e.LastTradeFor(2))
}
