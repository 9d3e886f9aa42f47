package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phrazzld/ledger-api/internal/domain"
)

// Common request/response structures

// CreateUserRequest defines the payload for the user creation endpoint.
type CreateUserRequest struct {
	Username       string          `json:"username"        validate:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CardNumber     string          `json:"card_number"     validate:"required"`
}

// CreditBalanceRequest defines the payload for the balance credit endpoint.
type CreditBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// RegisterCardRequest defines the payload for the card registration endpoint.
type RegisterCardRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
}

// AddFriendRequest defines the payload for the friendship endpoint.
type AddFriendRequest struct {
	Friend string `json:"friend" validate:"required"`
}

// CreatePaymentRequest defines the payload for the payment endpoint.
type CreatePaymentRequest struct {
	Payer  string          `json:"payer"  validate:"required"`
	Payee  string          `json:"payee"  validate:"required"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// UserResponse is the API representation of a user. The card number is
// never exposed; only its presence is.
type UserResponse struct {
	Username  string    `json:"username"`
	Balance   string    `json:"balance"`
	HasCard   bool      `json:"has_card"`
	Friends   []string  `json:"friends"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	friends := make([]string, len(user.Friends))
	copy(friends, user.Friends)

	return UserResponse{
		Username:  user.Username,
		Balance:   user.Balance.StringFixed(2),
		HasCard:   user.HasCard(),
		Friends:   friends,
		CreatedAt: user.CreatedAt,
	}
}

// BalanceResponse is returned by the balance credit endpoint.
type BalanceResponse struct {
	Username string `json:"username"`
	Balance  string `json:"balance"`
}

// PaymentResponse is the API representation of a completed payment.
type PaymentResponse struct {
	ID        uuid.UUID `json:"id"`
	Payer     string    `json:"payer"`
	Payee     string    `json:"payee"`
	Amount    string    `json:"amount"`
	Note      string    `json:"note"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPaymentResponse builds a PaymentResponse from a domain payment.
func NewPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        payment.ID,
		Payer:     payment.Payer,
		Payee:     payment.Payee,
		Amount:    payment.Amount.StringFixed(2),
		Note:      payment.Note,
		Source:    string(payment.Source),
		CreatedAt: payment.CreatedAt,
	}
}

// FeedResponse carries rendered feed lines.
type FeedResponse struct {
	Lines []string `json:"lines"`
}
