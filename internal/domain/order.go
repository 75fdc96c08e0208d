package domain

import "time"

// Order type constants. Online orders come from the storefront checkout;
// local orders are recorded by store staff at the register.
const (
	OrderTypeOnline = "online"
	OrderTypeLocal  = "local"
)

// Payment method constants (point-of-sale only; online orders settle through
// the messaging hand-off).
const (
	PaymentCash       = "cash"
	PaymentDebitCard  = "debit_card"
	PaymentCreditCard = "credit_card"
	PaymentPix        = "pix"
)

// Defaults applied to local sales when the operator leaves the field blank.
const (
	LocalSalePhone   = "walk-in"
	LocalSaleAddress = "in-store pickup"
)

// Order represents a completed sale. Orders are created once per checkout and
// are immutable thereafter; there is no edit or cancel flow.
type Order struct {
	ID              string     `json:"id"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   string     `json:"customer_phone"`
	CustomerAddress string     `json:"customer_address"`
	Items           []LineItem `json:"items"`
	Total           int64      `json:"total"`
	Type            string     `json:"order_type"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ValidPaymentMethods returns all accepted payment methods.
func ValidPaymentMethods() []string {
	return []string{PaymentCash, PaymentDebitCard, PaymentCreditCard, PaymentPix}
}

// IsValidPaymentMethod checks if a payment method string is accepted.
func IsValidPaymentMethod(method string) bool {
	for _, m := range ValidPaymentMethods() {
		if m == method {
			return true
		}
	}
	return false
}

// ChangeFor computes the cash change for a tendered amount against the given
// total. A positive result is change due to the customer, a negative result is
// the shortfall still owed. Display only: a short or over payment never blocks
// submission.
func ChangeFor(tendered, total int64) int64 {
	return tendered - total
}
