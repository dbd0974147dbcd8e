package checkpoint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tern/domain/book"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	eng := book.NewEngine()
	require.Equal(t, book.Ok, eng.Apply(book.NewOrder{Product: 1, ID: 10, Side: book.Buy, Qty: 5, Price: book.Price(100_0000)}))
	require.Equal(t, book.Ok, eng.Apply(book.NewOrder{Product: 1, ID: 11, Side: book.Buy, Qty: 3, Price: book.Price(100_0000)}))
	require.Equal(t, book.Ok, eng.Apply(book.NewOrder{Product: 2, ID: 20, Side: book.Sell, Qty: 7, Price: book.Price(55_5000)}))
	require.Equal(t, book.Ok, eng.Apply(book.Trade{Product: 1, Qty: 2, Price: book.Price(100_0000)}))

	dir := t.TempDir()
	w := &Writer{Dir: dir}
	require.NoError(t, w.Write(42, eng))

	restored := book.NewEngine()
	seq, err := Load(dir, restored)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), seq)

	// Identical depth output and last-trade state.
	var want, got strings.Builder
	require.NoError(t, eng.Depth(&want, 5, false))
	require.NoError(t, restored.Depth(&got, 5, false))
	assert.Equal(t, want.String(), got.String())
	assert.Equal(t, eng.LastTradeFor(1), restored.LastTradeFor(1))
	assert.Equal(t, eng.Resting(1, book.Buy), restored.Resting(1, book.Buy))
	assert.Equal(t, eng.Resting(2, book.Sell), restored.Resting(2, book.Sell))

	// Queue priority survives: ID 10 was partially filled at write time, so
	// a trade against the restored book hits its remaining quantity first.
	require.Equal(t, book.Ok, restored.Apply(book.Trade{Product: 1, Qty: 3, Price: book.Price(100_0000)}))
	assert.Equal(t, book.InvalidProductID, restored.Apply(book.CancelOrder{ID: 10, Side: book.Buy}))
	assert.Equal(t, book.Ok, restored.Apply(book.CancelOrder{ID: 11, Side: book.Buy}))
}

func TestFullyFilledProductSurvivesRoundTrip(t *testing.T) {
	eng := book.NewEngine()
	require.Equal(t, book.Ok, eng.Apply(book.NewOrder{Product: 7, ID: 10, Side: book.Buy, Qty: 5, Price: book.Price(50_0000)}))
	require.Equal(t, book.Ok, eng.Apply(book.Trade{Product: 7, Qty: 5, Price: book.Price(50_0000)}))
	require.Equal(t, 0, eng.Resting(7, book.Buy))

	dir := t.TempDir()
	w := &Writer{Dir: dir}
	require.NoError(t, w.Write(3, eng))

	restored := book.NewEngine()
	_, err := Load(dir, restored)
	require.NoError(t, err)

	// The product row and its last trade both come back, with nothing
	// resting.
	var want, got strings.Builder
	require.NoError(t, eng.Depth(&want, 1, false))
	require.NoError(t, restored.Depth(&got, 1, false))
	assert.Equal(t, "7         -         -         \n", got.String())
	assert.Equal(t, want.String(), got.String())
	assert.Equal(t, book.LastTrade{Price: book.Price(50_0000), Qty: 5}, restored.LastTradeFor(7))
}

func TestLoadMissingFile(t *testing.T) {
	seq, err := Load(t.TempDir(), book.NewEngine())
	require.NoError(t, err)
	assert.Zero(t, seq)
}

func TestWriteReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}

	eng := book.NewEngine()
	require.Equal(t, book.Ok, eng.Apply(book.NewOrder{Product: 1, ID: 1, Side: book.Buy, Qty: 1, Price: book.Price(1_0000)}))
	require.NoError(t, w.Write(1, eng))

	require.Equal(t, book.Ok, eng.Apply(book.CancelOrder{ID: 1, Side: book.Buy}))
	require.NoError(t, w.Write(2, eng))

	restored := book.NewEngine()
	seq, err := Load(dir, restored)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)
	assert.Equal(t, 0, restored.Resting(1, book.Buy))
}
