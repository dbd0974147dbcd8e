// Package feed encodes and decodes the venue's comma-separated message
// protocol, one event per line, action character first:
//
//	N,<productId>,<orderId>,<B|S>,<qty>,<price>
//	M,<orderId>,<B|S>,<qty>,<price>
//	R,<orderId>,<B|S>,<qty>,<price>
//	X,<productId>,<qty>,<price>
//
// Prices travel as decimal text and are converted exactly to integer
// ticks; a price finer than the tick never rounds silently.
package feed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tern/domain/book"
)

// Action characters on the wire.
const (
	actionNew    = "N"
	actionAmend  = "M"
	actionCancel = "R"
	actionTrade  = "X"
)

// DecodeError reports a rejected line together with the result code the
// caller should tally for it.
type DecodeError struct {
	Line int
	Code book.Result
	Raw  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("feed: line %d: %s: %q", e.Line, e.Code, e.Raw)
}

// Decoder yields decoded events from a line stream. Blank lines and lines
// starting with '#' are skipped.
type Decoder struct {
	s    *bufio.Scanner
	line int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{s: bufio.NewScanner(r)}
}

// Next returns the next event, a *DecodeError for a rejected line, or
// io.EOF once the stream is exhausted.
func (d *Decoder) Next() (book.Event, error) {
	for d.s.Scan() {
		d.line++
		raw := strings.TrimSpace(d.s.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		ev, code := DecodeLine(raw)
		if code != book.Ok {
			return nil, &DecodeError{Line: d.line, Code: code, Raw: raw}
		}
		return ev, nil
	}
	if err := d.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// DecodeLine parses one message. A non-Ok result means the line was
// rejected: CorruptMessage for malformed fields, InvalidPrice for a price
// the tick grid cannot represent, Unknown for an unrecognized action.
func DecodeLine(raw string) (book.Event, book.Result) {
	fields := strings.Split(raw, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	switch fields[0] {
	case actionNew:
		if len(fields) != 6 {
			return nil, book.CorruptMessage
		}
		product, err1 := strconv.ParseUint(fields[1], 10, 64)
		id, err2 := strconv.ParseUint(fields[2], 10, 64)
		side, ok := parseSide(fields[3])
		qty, err3 := strconv.ParseUint(fields[4], 10, 64)
		if err1 != nil || err2 != nil || !ok || err3 != nil {
			return nil, book.CorruptMessage
		}
		price, code := ParsePrice(fields[5])
		if code != book.Ok {
			return nil, code
		}
		return book.NewOrder{
			Product: book.ProductID(product),
			ID:      book.OrderID(id),
			Side:    side,
			Qty:     book.Quantity(qty),
			Price:   price,
		}, book.Ok

	case actionAmend, actionCancel:
		if len(fields) != 5 {
			return nil, book.CorruptMessage
		}
		id, err1 := strconv.ParseUint(fields[1], 10, 64)
		side, ok := parseSide(fields[2])
		qty, err2 := strconv.ParseUint(fields[3], 10, 64)
		if err1 != nil || !ok || err2 != nil {
			return nil, book.CorruptMessage
		}
		price, code := ParsePrice(fields[4])
		if code != book.Ok {
			return nil, code
		}
		if fields[0] == actionAmend {
			return book.AmendOrder{
				ID:    book.OrderID(id),
				Side:  side,
				Qty:   book.Quantity(qty),
				Price: price,
			}, book.Ok
		}
		return book.CancelOrder{
			ID:    book.OrderID(id),
			Side:  side,
			Qty:   book.Quantity(qty),
			Price: price,
		}, book.Ok

	case actionTrade:
		if len(fields) != 4 {
			return nil, book.CorruptMessage
		}
		product, err1 := strconv.ParseUint(fields[1], 10, 64)
		qty, err2 := strconv.ParseUint(fields[2], 10, 64)
		if err1 != nil || err2 != nil {
			return nil, book.CorruptMessage
		}
		price, code := ParsePrice(fields[3])
		if code != book.Ok {
			return nil, code
		}
		return book.Trade{
			Product: book.ProductID(product),
			Qty:     book.Quantity(qty),
			Price:   price,
		}, book.Ok

	default:
		return nil, book.Unknown
	}
}

// Encode renders an event back to its wire line. Journals and the trade
// outbox store this form so replay goes through the same decoder.
func Encode(ev book.Event) string {
	switch ev := ev.(type) {
	case book.NewOrder:
		return fmt.Sprintf("%s,%d,%d,%s,%d,%s",
			actionNew, ev.Product, ev.ID, ev.Side, ev.Qty, ev.Price)
	case book.AmendOrder:
		return fmt.Sprintf("%s,%d,%s,%d,%s",
			actionAmend, ev.ID, ev.Side, ev.Qty, ev.Price)
	case book.CancelOrder:
		return fmt.Sprintf("%s,%d,%s,%d,%s",
			actionCancel, ev.ID, ev.Side, ev.Qty, ev.Price)
	case book.Trade:
		return fmt.Sprintf("%s,%d,%d,%s",
			actionTrade, ev.Product, ev.Qty, ev.Price)
	default:
		return ""
	}
}

// ParsePrice converts decimal text to ticks exactly.
func ParsePrice(s string) (book.Price, book.Result) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, book.CorruptMessage
	}
	ticks := d.Shift(book.PriceScale)
	if !ticks.IsInteger() {
		// Finer than one tick: bit-exact matching would silently fail, so
		// reject at the boundary instead.
		return 0, book.InvalidPrice
	}
	if !ticks.BigInt().IsInt64() {
		// IntPart truncates outside int64; an absurd price must not wrap
		// into a valid-looking tick.
		return 0, book.InvalidPrice
	}
	return book.Price(ticks.IntPart()), book.Ok
}

func parseSide(s string) (book.Side, bool) {
	switch s {
	case "B":
		return book.Buy, true
	case "S":
		return book.Sell, true
	default:
		return 0, false
	}
}
