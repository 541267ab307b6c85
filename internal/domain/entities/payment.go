package entities

import "fmt"

// PaymentStatus represents the settlement state of a payment
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentMethod is how the patient paid
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit-card"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank-transfer"
)

// Payment is a patient payment to a clinic
type Payment struct {
	ID            int           `json:"id"`
	PatientName   string        `json:"patientName"`
	ClinicName    string        `json:"clinicName"`
	Amount        float64       `json:"amount"`
	Date          string        `json:"date"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        PaymentStatus `json:"status"`
}

// Validate checks the fields every stored payment must carry
func (p *Payment) Validate() error {
	switch p.Status {
	case PaymentStatusCompleted, PaymentStatusPending, PaymentStatusFailed:
	default:
		return fmt.Errorf("unknown payment status %q", p.Status)
	}
	switch p.PaymentMethod {
	case PaymentMethodCreditCard, PaymentMethodCash, PaymentMethodBankTransfer:
	default:
		return fmt.Errorf("unknown payment method %q", p.PaymentMethod)
	}
	if p.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	return nil
}

// PaymentTotals sums payments by settlement state
type PaymentTotals struct {
	Completed float64 `json:"completed"`
	Pending   float64 `json:"pending"`
}
