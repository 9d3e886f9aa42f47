package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundingSource identifies how a payment was funded.
type FundingSource string

const (
	// FundingBalance marks a payment debited entirely from the payer's
	// stored balance.
	FundingBalance FundingSource = "balance"

	// FundingCard marks a payment attributed to a simulated card charge
	// with no balance deduction.
	FundingCard FundingSource = "card"
)

// Payment is an immutable record of a completed transfer between two
// users. It is created inside a successful payment, appended once to the
// feed, and never mutated afterwards.
type Payment struct {
	ID        uuid.UUID       `json:"id"`
	Payer     string          `json:"payer"`
	Payee     string          `json:"payee"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	Source    FundingSource   `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewPayment creates a new Payment with a generated unique identifier.
// Returns ErrSelfPayment if payer and payee are the same user and
// ErrNonPositiveAmount if the amount is zero or negative.
func NewPayment(payer, payee string, amount decimal.Decimal, note string, source FundingSource) (*Payment, error) {
	if payer == payee {
		return nil, ErrSelfPayment
	}

	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	return &Payment{
		ID:        uuid.New(),
		Payer:     payer,
		Payee:     payee,
		Amount:    amount,
		Note:      note,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Line renders the payment as a human-readable feed line, with the
// amount fixed to two decimal places.
func (p *Payment) Line() string {
	return fmt.Sprintf("%s paid %s $%s for %s", p.Payer, p.Payee, p.Amount.StringFixed(2), p.Note)
}
