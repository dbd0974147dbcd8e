package book

import "github.com/shopspring/decimal"

type (
	// ProductID identifies a tradable product on the venue.
	ProductID uint64
	// OrderID identifies one logical order across its lifecycle.
	OrderID uint64
	// Quantity is an order or trade size. Never negative.
	Quantity uint64
)

// Price is a fixed-point price in ticks. The book matches prices by exact
// integer comparison; the feed layer owns decimal-to-tick conversion.
type Price int64

// PriceScale is the number of decimal places one tick represents.
const PriceScale = 4

func (p Price) String() string {
	return decimal.New(int64(p), -PriceScale).String()
}

// Side is the direction of resting interest.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "B"
	}
	return "S"
}
