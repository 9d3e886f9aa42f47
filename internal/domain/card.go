package domain

// testCardNumbers is the fixed whitelist of card numbers accepted by the
// simulated card network. Real card processing is out of scope.
var testCardNumbers = map[string]bool{
	"4111111111111111": true,
	"4242424242424242": true,
}

// ValidateCardNumber checks whether the given number is one of the
// accepted test card numbers. Returns ErrInvalidCreditCard otherwise.
// It is a pure predicate with no side effects.
func ValidateCardNumber(number string) error {
	if !testCardNumbers[number] {
		return ErrInvalidCreditCard
	}
	return nil
}
