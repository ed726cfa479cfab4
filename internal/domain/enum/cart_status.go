package enum

import "encoding/json"

// CartStatus represents the lifecycle of a cart: open while items are being
// added, closed exactly once at checkout.
type CartStatus int

const (
	CartStatusOpen   CartStatus = 0
	CartStatusClosed CartStatus = 1
)

func (s CartStatus) String() string {
	if s == CartStatusClosed {
		return "Closed"
	}
	return "Open"
}

func (s CartStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
