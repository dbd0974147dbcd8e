package book

import (
	"fmt"
	"io"
	"slices"
)

const depthColWidth = 10

// Depth renders the book as a fixed-width table: one row per known product,
// the best `depth` price points per side in priority order, `-` standing in
// for missing levels.
//
//	Product   Bid1      Bid2      ...  Ask1      Ask2      ...
func (e *Engine) Depth(w io.Writer, depth int, header bool) error {
	if header {
		fmt.Fprintf(w, "%-*s", depthColWidth, "Product")
		for _, col := range []string{"Bid", "Ask"} {
			for i := 1; i <= depth; i++ {
				fmt.Fprintf(w, "%-*s", depthColWidth, fmt.Sprintf("%s%d", col, i))
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	for _, pid := range e.Products() {
		pb := e.books[pid]
		fmt.Fprintf(w, "%-*d", depthColWidth, pid)
		writePricePoints(w, pb.bids.bestPrices(depth), depth)
		writePricePoints(w, pb.asks.bestPrices(depth), depth)
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writePricePoints(w io.Writer, prices []Price, depth int) {
	for _, p := range prices {
		fmt.Fprintf(w, "%-*s", depthColWidth, p.String())
	}
	for i := len(prices); i < depth; i++ {
		fmt.Fprintf(w, "%-*s", depthColWidth, "-")
	}
}

// Products lists every product that has ever had an order, ascending.
func (e *Engine) Products() []ProductID {
	out := make([]ProductID, 0, len(e.books))
	for pid := range e.books {
		out = append(out, pid)
	}
	slices.Sort(out)
	return out
}

// EachResting visits every resting order in deterministic order: products
// ascending, bids best-first then asks best-first, FIFO within a level.
// The visited orders are read-only.
func (e *Engine) EachResting(fn func(p ProductID, s Side, o *Order)) {
	for _, pid := range e.Products() {
		pb := e.books[pid]
		pb.bids.walk(func(lvl *Level) bool {
			for o := lvl.Head(); o != nil; o = o.Next() {
				fn(pid, Buy, o)
			}
			return true
		})
		pb.asks.walk(func(lvl *Level) bool {
			for o := lvl.Head(); o != nil; o = o.Next() {
				fn(pid, Sell, o)
			}
			return true
		})
	}
}

// EachLastTrade visits per-product last-trade records, products ascending.
func (e *Engine) EachLastTrade(fn func(p ProductID, lt LastTrade)) {
	pids := make([]ProductID, 0, len(e.last))
	for pid := range e.last {
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	for _, pid := range pids {
		fn(pid, e.last[pid])
	}
}

// SetLastTrade restores a last-trade record. Only checkpoint loading uses
// it; live updates happen through Trade events.
func (e *Engine) SetLastTrade(p ProductID, lt LastTrade) {
	e.last[p] = lt
}

// RegisterProduct restores a product row with nothing resting, so a fully
// filled book still prints after a cold start. Only checkpoint loading
// uses it; live registration happens through NewOrder events.
func (e *Engine) RegisterProduct(p ProductID) {
	if e.books[p] == nil {
		e.books[p] = newProductBook()
	}
}
