package book

import (
	"tern/infra/memory"
)

// LastTrade is the per-product memo of the most recent execution: the last
// traded price and the quantity accumulated at that price.
type LastTrade struct {
	Price Price
	Qty   Quantity
}

type productBook struct {
	bids *sideBook
	asks *sideBook
}

func newProductBook() *productBook {
	return &productBook{
		bids: newSideBook(Buy),
		asks: newSideBook(Sell),
	}
}

func (p *productBook) bySide(s Side) *sideBook {
	if s == Buy {
		return p.bids
	}
	return p.asks
}

// Engine is the single write entry point for book state. It is strictly
// single-writer: one event is fully applied before the next is read, and a
// failed event leaves every book untouched.
type Engine struct {
	books map[ProductID]*productBook
	index map[OrderID]ProductID
	last  map[ProductID]LastTrade
	pool  *memory.Pool[Order]
}

func NewEngine() *Engine {
	return &Engine{
		books: make(map[ProductID]*productBook),
		index: make(map[OrderID]ProductID),
		last:  make(map[ProductID]LastTrade),
		pool:  memory.NewPool(func() *Order { return &Order{} }),
	}
}

// Apply mutates the book for one event and reports the outcome.
func (e *Engine) Apply(ev Event) Result {
	switch ev := ev.(type) {
	case NewOrder:
		return e.applyNew(ev)
	case AmendOrder:
		return e.applyAmend(ev)
	case CancelOrder:
		return e.applyCancel(ev)
	case Trade:
		return e.applyTrade(ev)
	default:
		return Unknown
	}
}

func (e *Engine) applyNew(ev NewOrder) Result {
	if ev.Qty == 0 {
		return InvalidQuantity
	}
	if ev.Price <= 0 {
		return InvalidPrice
	}
	if _, dup := e.index[ev.ID]; dup {
		return DuplicateOrderID
	}

	pb := e.books[ev.Product]
	if pb == nil {
		pb = newProductBook()
		e.books[ev.Product] = pb
	}

	o := e.pool.Get()
	*o = Order{ID: ev.ID, Qty: ev.Qty, Price: ev.Price}
	pb.bySide(ev.Side).insert(o)
	e.index[ev.ID] = ev.Product
	return Ok
}

func (e *Engine) applyAmend(ev AmendOrder) Result {
	if ev.Qty == 0 {
		return InvalidQuantity
	}
	if ev.Price <= 0 {
		return InvalidPrice
	}
	// The index is the authority on order existence; an unindexed ID means
	// the product cannot even be resolved.
	pid, ok := e.index[ev.ID]
	if !ok {
		return InvalidProductID
	}
	if !e.books[pid].bySide(ev.Side).amend(ev.ID, ev.Price, ev.Qty) {
		// Indexed but not on the declared side: wrong side or desync.
		return InvalidOrderID
	}
	return Ok
}

func (e *Engine) applyCancel(ev CancelOrder) Result {
	pid, ok := e.index[ev.ID]
	if !ok {
		return InvalidProductID
	}
	o := e.books[pid].bySide(ev.Side).remove(ev.ID)
	if o == nil {
		return InvalidOrderID
	}
	delete(e.index, ev.ID)
	e.recycle(o)
	return Ok
}

func (e *Engine) applyTrade(ev Trade) Result {
	if ev.Qty == 0 {
		return InvalidQuantity
	}
	if ev.Price <= 0 {
		return InvalidPrice
	}
	pb := e.books[ev.Product]
	if pb == nil {
		return NoLiquidity
	}

	// Both sides deplete independently by the full trade quantity; the
	// event models an execution already agreed at this price.
	matched := e.deplete(pb.bids, ev.Price, ev.Qty)
	matched += e.deplete(pb.asks, ev.Price, ev.Qty)
	if matched == 0 {
		return NoLiquidity
	}

	lt := e.last[ev.Product]
	if lt.Price == ev.Price {
		lt.Qty += ev.Qty
	} else {
		lt = LastTrade{Price: ev.Price, Qty: ev.Qty}
	}
	e.last[ev.Product] = lt
	return Ok
}

// deplete consumes resting quantity at exactly price, oldest order first.
// Orders are popped before the cursor advances, so removal never
// invalidates the iteration.
func (e *Engine) deplete(b *sideBook, price Price, qty Quantity) Quantity {
	lvl := b.levels.find(price)
	if lvl == nil {
		return 0
	}

	var matched Quantity
	for qty > 0 {
		head := lvl.Head()
		if head == nil {
			break
		}
		if head.Qty > qty {
			lvl.reduce(head, qty)
			matched += qty
			break
		}
		matched += head.Qty
		qty -= head.Qty
		b.drop(head)
		delete(e.index, head.ID)
		e.recycle(head)
	}
	return matched
}

func (e *Engine) recycle(o *Order) {
	*o = Order{}
	e.pool.Put(o)
}

// LastTradeFor returns the last-trade record, zero-valued if the product
// has never traded.
func (e *Engine) LastTradeFor(p ProductID) LastTrade {
	return e.last[p]
}

// Resting reports how many orders rest on one side of a product.
func (e *Engine) Resting(p ProductID, s Side) int {
	pb := e.books[p]
	if pb == nil {
		return 0
	}
	return pb.bySide(s).len()
}
