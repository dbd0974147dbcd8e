// Package checkpoint persists a point-in-time copy of resting state so a
// restart replays only the journal tail instead of the whole history.
package checkpoint

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"tern/domain/book"
)

const fileName = "checkpoint.bin"

type Checkpoint struct {
	Seq      uint64
	Created  time.Time
	Products []uint64
	Orders   []OrderEntry
	Trades   []TradeEntry
}

// OrderEntry is a serializable resting order.
type OrderEntry struct {
	Product uint64
	ID      uint64
	Side    int
	Qty     uint64
	Price   int64
}

// TradeEntry is a serializable last-trade record.
type TradeEntry struct {
	Product uint64
	Price   int64
	Qty     uint64
}

type Writer struct {
	Dir string
}

// Write captures the known products, every resting order and every
// last-trade record. EachResting
// walks FIFO within each level, so loading preserves queue priority.
func (w *Writer) Write(seq uint64, eng *book.Engine) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	c := Checkpoint{
		Seq:     seq,
		Created: time.Now(),
		Orders:  make([]OrderEntry, 0, 1024),
	}

	// The product list is captured separately: a fully filled product has
	// no resting orders but must keep its depth row across a restart.
	for _, p := range eng.Products() {
		c.Products = append(c.Products, uint64(p))
	}

	eng.EachResting(func(p book.ProductID, s book.Side, o *book.Order) {
		c.Orders = append(c.Orders, OrderEntry{
			Product: uint64(p),
			ID:      uint64(o.ID),
			Side:    int(s),
			Qty:     uint64(o.Qty),
			Price:   int64(o.Price),
		})
	})
	eng.EachLastTrade(func(p book.ProductID, lt book.LastTrade) {
		c.Trades = append(c.Trades, TradeEntry{
			Product: uint64(p),
			Price:   int64(lt.Price),
			Qty:     uint64(lt.Qty),
		})
	})

	tmp := filepath.Join(w.Dir, fileName+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(&c); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(w.Dir, fileName))
}

// Load rebuilds engine state from the newest checkpoint. A missing file is
// not an error; the journal alone then carries the history.
func Load(dir string, eng *book.Engine) (uint64, error) {
	f, err := os.Open(filepath.Join(dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var c Checkpoint
	if err := gob.NewDecoder(f).Decode(&c); err != nil {
		return 0, err
	}

	for _, p := range c.Products {
		eng.RegisterProduct(book.ProductID(p))
	}
	for _, e := range c.Orders {
		eng.Apply(book.NewOrder{
			Product: book.ProductID(e.Product),
			ID:      book.OrderID(e.ID),
			Side:    book.Side(e.Side),
			Qty:     book.Quantity(e.Qty),
			Price:   book.Price(e.Price),
		})
	}
	for _, e := range c.Trades {
		eng.SetLastTrade(book.ProductID(e.Product), book.LastTrade{
			Price: book.Price(e.Price),
			Qty:   book.Quantity(e.Qty),
		})
	}
	return c.Seq, nil
}
