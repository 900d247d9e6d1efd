package entity

import "fmt"

// Pair is a trading pair. Order sizes are denominated in Base, prices in Quote.
type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.Base, p.Quote)
}

// Symbol returns the exchange symbol representation without separator, e.g. BTCUSDT.
func (p Pair) Symbol() string {
	return p.Base + p.Quote
}
