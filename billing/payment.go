package billing

// PaymentStatus labels how far an invoice has been paid. It is a label the
// salon owner cycles through, not an invariant checked against the paid
// amount; persistence is the system of record.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
)

var paymentCycle = [...]PaymentStatus{PaymentPaid, PaymentUnpaid, PaymentPartial}

// Valid reports whether s is one of the three known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentUnpaid, PaymentPartial:
		return true
	}
	return false
}

// NextPaymentStatus advances one step through the fixed cycle
// paid -> unpaid -> partial -> paid. It performs no validation of paid amount
// against total; marking an invoice "paid" is purely the operator's call.
// An unrecognized status restarts the cycle at "paid".
func NextPaymentStatus(s PaymentStatus) PaymentStatus {
	for i, status := range paymentCycle {
		if status == s {
			return paymentCycle[(i+1)%len(paymentCycle)]
		}
	}
	return PaymentPaid
}
