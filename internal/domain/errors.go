// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidUsername is returned when a username does not match the
	// required format (4-15 characters of letters, digits, '_' or '-').
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidCreditCard is returned when a card number is not one of
	// the accepted test card numbers.
	ErrInvalidCreditCard = errors.New("invalid credit card number")

	// ErrDuplicateCard is returned when a user who already holds a card
	// attempts to register a second one.
	ErrDuplicateCard = errors.New("user already has a credit card")

	// ErrNoCreditCard is returned when a payment cannot be funded from
	// balance and the payer has no card on file to fall back to.
	ErrNoCreditCard = errors.New("no credit card on file")

	// ErrSelfPayment is returned when the payer and the payee are the
	// same user.
	ErrSelfPayment = errors.New("user cannot pay themselves")

	// ErrNonPositiveAmount is returned when a payment amount is zero or
	// negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrNegativeAmount is returned when a balance credit amount is
	// negative. Zero is allowed.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidFriend is returned on an attempt to befriend oneself or
	// a user who is already a friend.
	ErrInvalidFriend = errors.New("cannot add the same friend twice or yourself")
)
