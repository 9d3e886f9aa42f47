package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/feed"
	"github.com/phrazzld/ledger-api/internal/store"
)

// LedgerServiceError is a custom error type for ledger service errors.
type LedgerServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for LedgerServiceError.
func (e *LedgerServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("ledger service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LedgerServiceError) Unwrap() error {
	return e.Err
}

// NewLedgerServiceError creates a new LedgerServiceError.
func NewLedgerServiceError(operation, message string, err error) *LedgerServiceError {
	return &LedgerServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// LedgerService orchestrates user, payment and friendship operations.
// It owns the user set through the injected store and appends to the
// injected feed log.
//
// Mutating operations take per-user locks. Pay acquires the payer and
// payee locks in lexicographic username order, so concurrent payments
// cannot deadlock and each payment is atomic with respect to others.
// Read operations return snapshots taken under the same locks, so
// callers never observe a mutation in progress.
type LedgerService struct {
	users  store.UserStore
	feed   *feed.Log
	logger *slog.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewLedgerService creates a new LedgerService with the given dependencies.
// Returns an error if any dependency is nil.
func NewLedgerService(users store.UserStore, feedLog *feed.Log, logger *slog.Logger) (*LedgerService, error) {
	if users == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	if feedLog == nil {
		return nil, fmt.Errorf("feed log cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &LedgerService{
		users:     users,
		feed:      feedLog,
		logger:    logger.With("component", "ledger_service"),
		userLocks: make(map[string]*sync.Mutex),
	}, nil
}

// userLock returns the mutex guarding the given user's state, creating
// it on first use.
func (s *LedgerService) userLock(username string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[username]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[username] = lock
	}
	return lock
}

// lockPair locks the two users' mutexes in lexicographic username order
// and returns a function that unlocks both.
func (s *LedgerService) lockPair(a, b string) func() {
	first, second := a, b
	if second < first {
		first, second = second, first
	}

	firstLock := s.userLock(first)
	secondLock := s.userLock(second)

	firstLock.Lock()
	secondLock.Lock()
	return func() {
		secondLock.Unlock()
		firstLock.Unlock()
	}
}

// snapshotUser copies the stored user under its lock. The store hands
// out shared pointers; every read path returns one of these copies
// instead of the live entity.
func (s *LedgerService) snapshotUser(user *domain.User) *domain.User {
	lock := s.userLock(user.Username)
	lock.Lock()
	defer lock.Unlock()
	return user.Snapshot()
}

// CreateUser constructs a user, credits the initial balance, registers
// the card and adds the user to the store, as one setup sequence.
// Any validation failure is returned from the failing step and the user
// is not stored.
func (s *LedgerService) CreateUser(
	ctx context.Context,
	username string,
	initialBalance decimal.Decimal,
	cardNumber string,
) (*domain.User, error) {
	s.logger.Debug("creating user", "username", username)

	user, err := domain.NewUser(username)
	if err != nil {
		return nil, err
	}

	if err := user.AddToBalance(initialBalance); err != nil {
		return nil, err
	}

	if err := user.AddCreditCard(cardNumber); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		"username", user.Username,
		"balance", user.Balance.StringFixed(2))
	return s.snapshotUser(user), nil
}

// GetUser retrieves a user by username. The returned user is a snapshot;
// mutating it does not affect the stored state.
func (s *LedgerService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.snapshotUser(user), nil
}

// ListUsers returns snapshots of all users in creation order.
func (s *LedgerService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*domain.User, 0, len(users))
	for _, user := range users {
		snapshots = append(snapshots, s.snapshotUser(user))
	}
	return snapshots, nil
}

// AddToBalance credits the user's balance and returns the new balance.
func (s *LedgerService) AddToBalance(
	ctx context.Context,
	username string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return decimal.Zero, err
	}

	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	if err := user.AddToBalance(amount); err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("balance credited",
		"username", username,
		"amount", amount.StringFixed(2),
		"balance", user.Balance.StringFixed(2))
	return user.Balance, nil
}

// AddCreditCard registers a card for the user.
func (s *LedgerService) AddCreditCard(ctx context.Context, username, cardNumber string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	if err := user.AddCreditCard(cardNumber); err != nil {
		return err
	}

	s.logger.Info("credit card registered", "username", username)
	return nil
}

// AddFriend records a one-directional friendship from username to friend
// and appends the announcement to the feed. Both users must exist.
func (s *LedgerService) AddFriend(ctx context.Context, username, friend string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	// Befriending oneself never touches the store, so reject it before
	// the friend lookup.
	if friend == username {
		return domain.ErrInvalidFriend
	}

	if _, err := s.users.GetByUsername(ctx, friend); err != nil {
		return err
	}

	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	if err := user.AddFriend(friend); err != nil {
		return err
	}

	announcement := fmt.Sprintf("%s and %s are now friends.", username, friend)
	s.feed.Append(feed.AnnouncementEntry(announcement))

	s.logger.Info("friendship added", "username", username, "friend", friend)
	return nil
}

// Pay transfers amount from payer to payee. The whole amount is debited
// from the payer's balance when it suffices; otherwise the whole amount
// is attributed to a simulated charge on the payer's card and the
// balance is left untouched. There is no partial-balance draw.
//
// The resulting payment is appended to the feed and returned.
func (s *LedgerService) Pay(
	ctx context.Context,
	payer, payee string,
	amount decimal.Decimal,
	note string,
) (*domain.Payment, error) {
	s.logger.Debug("payment attempt",
		"payer", payer,
		"payee", payee,
		"amount", amount.StringFixed(2),
		"note", note)

	if payer == payee {
		return nil, domain.ErrSelfPayment
	}

	if !amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}

	payerUser, err := s.users.GetByUsername(ctx, payer)
	if err != nil {
		return nil, err
	}

	payeeUser, err := s.users.GetByUsername(ctx, payee)
	if err != nil {
		return nil, err
	}

	unlock := s.lockPair(payer, payee)
	defer unlock()

	fromBalance := payerUser.Balance.GreaterThanOrEqual(amount)
	source := domain.FundingCard
	if fromBalance {
		source = domain.FundingBalance
	} else if !payerUser.HasCard() {
		return nil, domain.ErrNoCreditCard
	}

	// Construct the payment before touching either balance so a
	// construction failure cannot leave a half-applied transfer.
	payment, err := domain.NewPayment(payer, payee, amount, note, source)
	if err != nil {
		return nil, NewLedgerServiceError("pay", "payment construction failed", err)
	}

	if fromBalance {
		payerUser.Balance = payerUser.Balance.Sub(amount)
		s.logger.Info("balance debited",
			"username", payer,
			"amount", amount.StringFixed(2),
			"balance", payerUser.Balance.StringFixed(2))
	} else {
		s.chargeCard(payerUser, amount)
	}

	if err := payeeUser.AddToBalance(amount); err != nil {
		return nil, NewLedgerServiceError("pay", "payee credit failed", err)
	}
	s.logger.Info("balance credited",
		"username", payee,
		"amount", amount.StringFixed(2),
		"balance", payeeUser.Balance.StringFixed(2))

	s.feed.Append(feed.PaymentEntry(payment))

	s.logger.Info("payment created",
		"payment_id", payment.ID,
		"payer", payer,
		"payee", payee,
		"amount", amount.StringFixed(2),
		"source", payment.Source)
	return payment, nil
}

// chargeCard simulates charging the user's card. The charge always
// succeeds; no payment network is involved.
func (s *LedgerService) chargeCard(user *domain.User, amount decimal.Decimal) {
	s.logger.Info("credit card charged",
		"username", user.Username,
		"amount", amount.StringFixed(2))
}

// UserFeed returns the personalized feed for the given user: one line
// per feed payment where the user is payer or payee, in feed order,
// followed by one line per current friend. The friendship lines are
// regenerated from the friend list, not read from the feed, so they
// reflect the current list rather than historical announcements.
func (s *LedgerService) UserFeed(ctx context.Context, username string) ([]string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("retrieving feed", "username", username)

	lines := make([]string, 0)
	for _, entry := range s.feed.Entries() {
		if entry.Kind != feed.KindPayment {
			continue
		}
		p := entry.Payment
		if p.Payer == username || p.Payee == username {
			lines = append(lines, p.Line())
		}
	}

	for _, friend := range s.snapshotUser(user).Friends {
		lines = append(lines, fmt.Sprintf("%s and %s are now friends.", username, friend))
	}

	return lines, nil
}

// GlobalFeed returns a copy of the whole feed in insertion order.
func (s *LedgerService) GlobalFeed(ctx context.Context) []feed.Entry {
	return s.feed.Entries()
}

// RenderFeed renders a caller-supplied sequence of feed entries to
// human-readable lines: payment entries as structured payment lines,
// announcement entries as opaque text.
func RenderFeed(entries []feed.Entry) []string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch entry.Kind {
		case feed.KindPayment:
			lines = append(lines, entry.Payment.Line())
		default:
			lines = append(lines, entry.Announcement)
		}
	}
	return lines
}
