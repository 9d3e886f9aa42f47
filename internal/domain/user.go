package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// usernamePattern defines the accepted username format: 4-15 characters
// of ASCII letters, digits, underscore or hyphen.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,15}$`)

// User represents an account holder in the ledger.
// A user holds a cash balance, at most one registered credit card, and a
// one-directional friend list. All mutations go through the defined
// operations; each operation validates before changing any state.
type User struct {
	Username   string          `json:"username"`
	Balance    decimal.Decimal `json:"balance"`
	CardNumber string          `json:"-"` // empty when no card is registered; never exposed in JSON
	Friends    []string        `json:"friends"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ValidateUsername checks the username format.
// Returns ErrInvalidUsername if the value does not match the pattern.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// NewUser creates a new User with the given username.
// The balance starts at zero, no card is registered and the friend list
// is empty. Returns ErrInvalidUsername without constructing anything if
// the username fails validation.
func NewUser(username string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	return &User{
		Username:  username,
		Balance:   decimal.Zero,
		Friends:   make([]string, 0),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}

	if u.Balance.IsNegative() {
		return ErrNegativeAmount
	}

	if u.CardNumber != "" {
		if err := ValidateCardNumber(u.CardNumber); err != nil {
			return err
		}
	}

	for _, friend := range u.Friends {
		if friend == u.Username {
			return ErrInvalidFriend
		}
	}

	return nil
}

// AddToBalance credits the user's balance by the given amount.
// Zero is allowed; a negative amount returns ErrNegativeAmount and
// leaves the balance untouched. There is no upper bound.
func (u *User) AddToBalance(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	u.Balance = u.Balance.Add(amount)
	return nil
}

// AddCreditCard registers a card number for the user.
// Returns ErrDuplicateCard if a card is already present, regardless of
// whether the new number would be valid. Returns ErrInvalidCreditCard if
// the number is not whitelisted. At most one call ever succeeds per user;
// the card cannot be removed or replaced afterwards.
func (u *User) AddCreditCard(number string) error {
	if u.CardNumber != "" {
		return ErrDuplicateCard
	}

	if err := ValidateCardNumber(number); err != nil {
		return err
	}

	u.CardNumber = number
	return nil
}

// HasCard reports whether the user has a registered card.
func (u *User) HasCard() bool {
	return u.CardNumber != ""
}

// IsFriend reports whether the given username is in the user's friend list.
func (u *User) IsFriend(username string) bool {
	for _, friend := range u.Friends {
		if friend == username {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the user with its own friend list.
// Callers holding the original across goroutines hand out snapshots so
// readers never observe a mutation in progress.
func (u *User) Snapshot() *User {
	friends := make([]string, len(u.Friends))
	copy(friends, u.Friends)

	return &User{
		Username:   u.Username,
		Balance:    u.Balance,
		CardNumber: u.CardNumber,
		Friends:    friends,
		CreatedAt:  u.CreatedAt,
	}
}

// AddFriend appends the given username to the user's friend list.
// Returns ErrInvalidFriend on self-friending or duplicate friending.
// Friendship is one-directional: the other user's list is not touched.
func (u *User) AddFriend(username string) error {
	if username == u.Username || u.IsFriend(username) {
		return ErrInvalidFriend
	}

	u.Friends = append(u.Friends, username)
	return nil
}
