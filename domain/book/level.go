package book

// Level is the FIFO queue of resting orders at a single price. Orders at
// the same price queue individually; arrival order breaks the tie.
type Level struct {
	Price Price

	head *Order
	tail *Order

	TotalQty Quantity
	Count    int
}

func (l *Level) Enqueue(o *Order) {
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	o.level = l
	l.TotalQty += o.Qty
	l.Count++
}

func (l *Level) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	o.level = nil

	l.TotalQty -= o.Qty
	l.Count--
}

// reduce shrinks a resting order in place after a partial fill.
func (l *Level) reduce(o *Order, by Quantity) {
	o.Qty -= by
	l.TotalQty -= by
}

func (l *Level) Empty() bool {
	return l.head == nil
}

// Head is the oldest resting order at this price.
func (l *Level) Head() *Order {
	return l.head
}
