package book

// sideBook holds the resting interest for one side of one product: a tree
// of price levels plus an orderID index so amend/cancel never scan.
type sideBook struct {
	side   Side
	levels *levelTree
	byID   map[OrderID]*Order
}

func newSideBook(side Side) *sideBook {
	return &sideBook{
		side:   side,
		levels: newLevelTree(),
		byID:   make(map[OrderID]*Order),
	}
}

// insert rests an order. Returns false if the ID is already resting here.
func (b *sideBook) insert(o *Order) bool {
	if _, dup := b.byID[o.ID]; dup {
		return false
	}
	b.levels.getOrCreate(o.Price).Enqueue(o)
	b.byID[o.ID] = o
	return true
}

func (b *sideBook) find(id OrderID) *Order {
	return b.byID[id]
}

// remove takes an order off the book, dropping its level when it empties.
// Returns nil if the ID is not resting on this side.
func (b *sideBook) remove(id OrderID) *Order {
	o := b.byID[id]
	if o == nil {
		return nil
	}
	b.drop(o)
	return o
}

// drop unlinks a known-resting order. Empty levels never stay behind, so
// depth output cannot report a zero-quantity price point.
func (b *sideBook) drop(o *Order) {
	lvl := o.level
	lvl.unlink(o)
	delete(b.byID, o.ID)
	if lvl.Empty() {
		b.levels.delete(lvl.Price)
	}
}

// amend re-prices an order: remove then re-insert, so a price change moves
// the order to the back of its new level's queue.
func (b *sideBook) amend(id OrderID, price Price, qty Quantity) bool {
	o := b.byID[id]
	if o == nil {
		return false
	}
	b.drop(o)
	o.Price = price
	o.Qty = qty
	b.insert(o)
	return true
}

// walk visits levels best-first: descending prices for buys, ascending
// for sells.
func (b *sideBook) walk(fn func(*Level) bool) {
	if b.side == Buy {
		b.levels.descend(fn)
	} else {
		b.levels.ascend(fn)
	}
}

// bestPrices collects up to n price points in priority order.
func (b *sideBook) bestPrices(n int) []Price {
	if n <= 0 {
		return nil
	}
	out := make([]Price, 0, n)
	b.walk(func(lvl *Level) bool {
		out = append(out, lvl.Price)
		return len(out) < n
	})
	return out
}

func (b *sideBook) len() int {
	return len(b.byID)
}
