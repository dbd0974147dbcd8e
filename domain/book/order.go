package book

// Order is one resting entry on one side of one product's book.
// Link fields are owned by the Level holding the order.
type Order struct {
	ID    OrderID
	Qty   Quantity
	Price Price

	level *Level
	next  *Order
	prev  *Order
}

// Next walks the FIFO queue within a price level.
func (o *Order) Next() *Order {
	return o.next
}
