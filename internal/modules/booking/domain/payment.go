package domain

import "github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"

var (
	paymentEntityKeys  = []string{"payment", "paymentIntent", "payment_intent", "transaction", "intent"}
	paymentIDKeys      = []string{"id", "_id", "paymentId", "payment_id", "transactionId", "transaction_id"}
	paymentBookingKeys = []string{"bookingId", "booking_id", "reservationId", "reservation_id"}
	paymentStatusKeys  = []string{"status", "state", "paymentStatus", "payment_status"}
	paymentAmountKeys  = []string{"amount", "total", "totalAmount", "total_amount", "totalPrice", "total_price"}
)

// PaymentIntent is the opaque outcome of a payment call. It is referenced
// by booking id and never addressed on its own, so nothing here is a hard
// requirement; the raw payload is kept for display.
type PaymentIntent struct {
	ID        string
	BookingID string
	Status    string
	Amount    float64
	Raw       map[string]any
}

// BuildPaymentIntent unwraps a payment response and lifts the recognizable
// parts out of it.
func BuildPaymentIntent(payload any) PaymentIntent {
	container := normalization.Unwrap(payload, paymentEntityKeys...)
	if container == nil {
		return PaymentIntent{}
	}
	intent := PaymentIntent{
		ID:        normalization.FirstString(container, paymentIDKeys...),
		BookingID: normalization.FirstString(container, paymentBookingKeys...),
		Status:    normalization.FirstString(container, paymentStatusKeys...),
		Raw:       container,
	}
	if amount, ok := normalization.FirstFloat(container, paymentAmountKeys...); ok && amount >= 0 {
		intent.Amount = amount
	}
	return intent
}
