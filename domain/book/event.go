package book

// Event is the closed set of inputs the engine accepts. Each decoded feed
// message becomes exactly one Event, dispatched through Engine.Apply.
type Event interface {
	isEvent()
}

// NewOrder places fresh resting interest on one side of a product.
type NewOrder struct {
	Product ProductID
	ID      OrderID
	Side    Side
	Qty     Quantity
	Price   Price
}

// AmendOrder replaces price and quantity of a resting order wholesale.
// Side is not amendable; the declared side must match the resting side.
type AmendOrder struct {
	ID    OrderID
	Side  Side
	Qty   Quantity
	Price Price
}

// CancelOrder removes a resting order. Quantity and price travel on the
// wire but are not consulted.
type CancelOrder struct {
	ID    OrderID
	Side  Side
	Qty   Quantity
	Price Price
}

// Trade reports an execution at an already-agreed price. The engine
// depletes resting interest at that exact price on both sides.
type Trade struct {
	Product ProductID
	Qty     Quantity
	Price   Price
}

func (NewOrder) isEvent()    {}
func (AmendOrder) isEvent()  {}
func (CancelOrder) isEvent() {}
func (Trade) isEvent()       {}
