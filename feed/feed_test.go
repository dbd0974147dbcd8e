package feed

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tern/domain/book"
)

func TestDecodeLineNew(t *testing.T) {
	ev, code := DecodeLine("N,3,101,B,25,99.5")
	require.Equal(t, book.Ok, code)
	assert.Equal(t, book.NewOrder{
		Product: 3,
		ID:      101,
		Side:    book.Buy,
		Qty:     25,
		Price:   book.Price(99_5000),
	}, ev)
}

func TestDecodeLineAmendCancel(t *testing.T) {
	ev, code := DecodeLine("M,101,S,10,42")
	require.Equal(t, book.Ok, code)
	assert.Equal(t, book.AmendOrder{ID: 101, Side: book.Sell, Qty: 10, Price: book.Price(42_0000)}, ev)

	ev, code = DecodeLine("R,101,S,10,42")
	require.Equal(t, book.Ok, code)
	assert.Equal(t, book.CancelOrder{ID: 101, Side: book.Sell, Qty: 10, Price: book.Price(42_0000)}, ev)
}

func TestDecodeLineTrade(t *testing.T) {
	ev, code := DecodeLine("X,3,7,18.25")
	require.Equal(t, book.Ok, code)
	assert.Equal(t, book.Trade{Product: 3, Qty: 7, Price: book.Price(18_2500)}, ev)
}

func TestDecodeLineRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		code book.Result
	}{
		{"unknown action", "Z,1,2,B,3,4", book.Unknown},
		{"new too few fields", "N,1,2,B,3", book.CorruptMessage},
		{"new too many fields", "N,1,2,B,3,4,5", book.CorruptMessage},
		{"bad side", "N,1,2,Q,3,4", book.CorruptMessage},
		{"bad quantity", "N,1,2,B,ten,4", book.CorruptMessage},
		{"bad price text", "N,1,2,B,3,abc", book.CorruptMessage},
		{"price below tick", "N,1,2,B,3,4.00001", book.InvalidPrice},
		{"amend field count", "M,1,B,2", book.CorruptMessage},
		{"trade field count", "X,1,2", book.CorruptMessage},
		{"trade bad product", "X,x,2,3", book.CorruptMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, code := DecodeLine(tc.raw)
			assert.Nil(t, ev)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestDecodeLineTrimsWhitespace(t *testing.T) {
	ev, code := DecodeLine("N, 1 , 2 ,B, 3 , 4.5")
	require.Equal(t, book.Ok, code)
	assert.Equal(t, book.NewOrder{Product: 1, ID: 2, Side: book.Buy, Qty: 3, Price: book.Price(4_5000)}, ev)
}

func TestEncodeRoundTrip(t *testing.T) {
	lines := []string{
		"N,3,101,B,25,99.5",
		"M,101,S,10,42",
		"R,101,S,10,42",
		"X,3,7,18.25",
	}
	for _, line := range lines {
		ev, code := DecodeLine(line)
		require.Equal(t, book.Ok, code, line)
		assert.Equal(t, line, Encode(ev))
	}
}

func TestParsePrice(t *testing.T) {
	p, code := ParsePrice("0.0001")
	require.Equal(t, book.Ok, code)
	assert.Equal(t, book.Price(1), p)

	p, code = ParsePrice("123")
	require.Equal(t, book.Ok, code)
	assert.Equal(t, book.Price(123_0000), p)

	_, code = ParsePrice("1.00005")
	assert.Equal(t, book.InvalidPrice, code)

	// Ticks past int64 must reject, not wrap.
	_, code = ParsePrice("99999999999999999999")
	assert.Equal(t, book.InvalidPrice, code)

	_, code = ParsePrice("")
	assert.Equal(t, book.CorruptMessage, code)
}

func TestDecoderStream(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"# header comment",
		"",
		"N,1,10,B,5,100",
		"bogus line",
		"X,1,5,100",
		"",
	}, "\n"))
	d := NewDecoder(in)

	ev, err := d.Next()
	require.NoError(t, err)
	assert.IsType(t, book.NewOrder{}, ev)

	_, err = d.Next()
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 4, de.Line)
	assert.Equal(t, book.Unknown, de.Code)

	ev, err = d.Next()
	require.NoError(t, err)
	assert.IsType(t, book.Trade{}, ev)

	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}
