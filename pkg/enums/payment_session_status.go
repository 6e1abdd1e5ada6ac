package enums

import "fmt"

// PaymentSessionStatus tracks one checkout attempt through the provider handoff.
type PaymentSessionStatus string

const (
	PaymentSessionInitiated PaymentSessionStatus = "initiated"
	PaymentSessionVerified  PaymentSessionStatus = "verified"
	PaymentSessionFailed    PaymentSessionStatus = "failed"
	PaymentSessionCancelled PaymentSessionStatus = "cancelled"
)

var validPaymentSessionStatuses = []PaymentSessionStatus{
	PaymentSessionInitiated,
	PaymentSessionVerified,
	PaymentSessionFailed,
	PaymentSessionCancelled,
}

// String implements fmt.Stringer.
func (p PaymentSessionStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentSessionStatus.
func (p PaymentSessionStatus) IsValid() bool {
	for _, candidate := range validPaymentSessionStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the session can no longer change state.
func (p PaymentSessionStatus) IsTerminal() bool {
	return p == PaymentSessionVerified || p == PaymentSessionFailed || p == PaymentSessionCancelled
}

// ParsePaymentSessionStatus converts raw input into a PaymentSessionStatus.
func ParsePaymentSessionStatus(value string) (PaymentSessionStatus, error) {
	for _, candidate := range validPaymentSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment session status %q", value)
}
