package book

// Result is the outcome of applying one event. Failures are values, not
// errors: a failed event is simply not applied and the book is left exactly
// as it was.
type Result int

const (
	Ok Result = iota
	InvalidOrderID
	InvalidProductID
	DuplicateOrderID
	DuplicateProductID
	InvalidPrice
	InvalidQuantity
	NoLiquidity
	CorruptMessage
	Unknown
)

func (r Result) String() string {
	switch r {
	case Ok:
		return "No Error"
	case InvalidOrderID:
		return "Invalid OrderID Error"
	case InvalidProductID:
		return "Invalid ProductID Error"
	case DuplicateOrderID:
		return "Duplicate OrderID Error"
	case DuplicateProductID:
		return "Duplicate ProductID Error"
	case InvalidPrice:
		return "Invalid Price Error"
	case InvalidQuantity:
		return "Invalid Quantity Error"
	case NoLiquidity:
		return "No Liquidity At Price Error"
	case CorruptMessage:
		return "Corrupt Message Received Error"
	default:
		return "Unknown Error"
	}
}
