package types

import "strings"

// Address is the snapshot shape embedded into orders and returned to clients.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Phone      *string `json:"phone,omitempty"`
}

// HasCity reports whether the address carries a usable city value.
func (a Address) HasCity() bool {
	return strings.TrimSpace(a.City) != ""
}
