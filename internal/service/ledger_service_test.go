package service_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/feed"
	"github.com/phrazzld/ledger-api/internal/platform/memstore"
	"github.com/phrazzld/ledger-api/internal/service"
	"github.com/phrazzld/ledger-api/internal/store"
)

func newTestService(t *testing.T) *service.LedgerService {
	t.Helper()

	logger := slog.Default()
	svc, err := service.NewLedgerService(memstore.NewUserStore(logger), feed.NewLog(logger), logger)
	require.NoError(t, err)
	return svc
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewLedgerServiceNilDependencies(t *testing.T) {
	t.Parallel()

	logger := slog.Default()
	users := memstore.NewUserStore(logger)
	feedLog := feed.NewLog(logger)

	_, err := service.NewLedgerService(nil, feedLog, logger)
	assert.Error(t, err)

	_, err = service.NewLedgerService(users, nil, logger)
	assert.Error(t, err)

	_, err = service.NewLedgerService(users, feedLog, nil)
	assert.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	user, err := svc.CreateUser(ctx, "Bobby", money("5.00"), "4111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "Bobby", user.Username)
	assert.True(t, user.Balance.Equal(money("5.00")))
	assert.True(t, user.HasCard())

	got, err := svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	t.Run("invalid username", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "no", money("1.00"), "4111111111111111")
		assert.True(t, errors.Is(err, domain.ErrInvalidUsername))
	})

	t.Run("invalid card", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "Daisy", money("1.00"), "0000")
		assert.True(t, errors.Is(err, domain.ErrInvalidCreditCard))

		// Nothing was stored for the failed construction
		_, err = svc.GetUser(ctx, "Daisy")
		assert.True(t, errors.Is(err, store.ErrUserNotFound))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "Bobby", money("1.00"), "4242424242424242")
		assert.True(t, errors.Is(err, store.ErrUsernameExists))
	})
}

func TestPayValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateUser(ctx, "Bobby", money("5.00"), "4111111111111111")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "Carol", money("10.00"), "4242424242424242")
	require.NoError(t, err)

	_, err = svc.Pay(ctx, "Bobby", "Bobby", money("1.00"), "note")
	assert.True(t, errors.Is(err, domain.ErrSelfPayment))

	_, err = svc.Pay(ctx, "Bobby", "Carol", decimal.Zero, "note")
	assert.True(t, errors.Is(err, domain.ErrNonPositiveAmount))

	_, err = svc.Pay(ctx, "Bobby", "Carol", money("-2.00"), "note")
	assert.True(t, errors.Is(err, domain.ErrNonPositiveAmount))

	_, err = svc.Pay(ctx, "Ghost", "Carol", money("1.00"), "note")
	assert.True(t, errors.Is(err, store.ErrUserNotFound))

	_, err = svc.Pay(ctx, "Bobby", "Ghost", money("1.00"), "note")
	assert.True(t, errors.Is(err, store.ErrUserNotFound))
}

func TestPayBalancePath(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateUser(ctx, "Bobby", money("5.00"), "4111111111111111")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "Carol", money("10.00"), "4242424242424242")
	require.NoError(t, err)

	payment, err := svc.Pay(ctx, "Bobby", "Carol", money("5.00"), "Coffee")
	require.NoError(t, err)

	// Balance exactly covers the amount: balance path, payer may reach zero
	assert.Equal(t, domain.FundingBalance, payment.Source)

	bobby, err := svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	assert.True(t, bobby.Balance.IsZero(), "payer balance should be 0.00, got %s", bobby.Balance)

	carol, err := svc.GetUser(ctx, "Carol")
	require.NoError(t, err)
	assert.True(t, carol.Balance.Equal(money("15.00")))
}

func TestPayCardPath(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateUser(ctx, "Bobby", money("5.00"), "4111111111111111")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "Carol", money("10.00"), "4242424242424242")
	require.NoError(t, err)

	payment, err := svc.Pay(ctx, "Bobby", "Carol", money("8.00"), "Dinner")
	require.NoError(t, err)

	// No partial-balance draw: the whole amount goes to the card and the
	// payer balance is unchanged.
	assert.Equal(t, domain.FundingCard, payment.Source)

	bobby, err := svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	assert.True(t, bobby.Balance.Equal(money("5.00")))

	carol, err := svc.GetUser(ctx, "Carol")
	require.NoError(t, err)
	assert.True(t, carol.Balance.Equal(money("18.00")))
}

func TestPayNoCard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	logger := slog.Default()
	users := memstore.NewUserStore(logger)
	feedLog := feed.NewLog(logger)
	svc, err := service.NewLedgerService(users, feedLog, logger)
	require.NoError(t, err)

	// Build a cardless payer directly through the store
	broke, err := domain.NewUser("Broke")
	require.NoError(t, err)
	require.NoError(t, broke.AddToBalance(money("1.00")))
	require.NoError(t, users.Create(ctx, broke))

	_, err = svc.CreateUser(ctx, "Carol", money("10.00"), "4242424242424242")
	require.NoError(t, err)

	_, err = svc.Pay(ctx, "Broke", "Carol", money("2.00"), "Rent")
	assert.True(t, errors.Is(err, domain.ErrNoCreditCard))

	// Failed payment leaves all balances untouched and the feed empty
	assert.True(t, broke.Balance.Equal(money("1.00")))
	carol, err := svc.GetUser(ctx, "Carol")
	require.NoError(t, err)
	assert.True(t, carol.Balance.Equal(money("10.00")))
	assert.Equal(t, 0, feedLog.Len())
}

func TestAddFriend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateUser(ctx, "Bobby", money("5.00"), "4111111111111111")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "Carol", money("10.00"), "4242424242424242")
	require.NoError(t, err)

	require.NoError(t, svc.AddFriend(ctx, "Bobby", "Carol"))

	err = svc.AddFriend(ctx, "Bobby", "Carol")
	assert.True(t, errors.Is(err, domain.ErrInvalidFriend))

	err = svc.AddFriend(ctx, "Bobby", "Bobby")
	assert.True(t, errors.Is(err, domain.ErrInvalidFriend))

	err = svc.AddFriend(ctx, "Bobby", "Ghost")
	assert.True(t, errors.Is(err, store.ErrUserNotFound))

	// One-directional: Carol did not befriend Bobby
	carol, err := svc.GetUser(ctx, "Carol")
	require.NoError(t, err)
	assert.False(t, carol.IsFriend("Bobby"))

	entries := svc.GlobalFeed(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, feed.KindAnnouncement, entries[0].Kind)
	assert.Equal(t, "Bobby and Carol are now friends.", entries[0].Announcement)
}

func TestUserFeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	for _, name := range []string{"Bobby", "Carol", "Daisy"} {
		_, err := svc.CreateUser(ctx, name, money("100.00"), "4111111111111111")
		require.NoError(t, err)
	}

	_, err := svc.Pay(ctx, "Bobby", "Carol", money("5.00"), "Coffee")
	require.NoError(t, err)
	_, err = svc.Pay(ctx, "Carol", "Daisy", money("3.00"), "Tea")
	require.NoError(t, err)
	_, err = svc.Pay(ctx, "Daisy", "Bobby", money("7.00"), "Cake")
	require.NoError(t, err)

	require.NoError(t, svc.AddFriend(ctx, "Bobby", "Daisy"))

	lines, err := svc.UserFeed(ctx, "Bobby")
	require.NoError(t, err)

	// Payment lines where Bobby is payer or payee, in feed order, then
	// one line per current friend.
	require.Equal(t, []string{
		"Bobby paid Carol $5.00 for Coffee",
		"Daisy paid Bobby $7.00 for Cake",
		"Bobby and Daisy are now friends.",
	}, lines)

	_, err = svc.UserFeed(ctx, "Ghost")
	assert.True(t, errors.Is(err, store.ErrUserNotFound))
}

func TestRenderFeed(t *testing.T) {
	t.Parallel()

	payment, err := domain.NewPayment("Bobby", "Carol", money("5.00"), "Coffee", domain.FundingBalance)
	require.NoError(t, err)

	lines := service.RenderFeed([]feed.Entry{
		feed.PaymentEntry(payment),
		feed.AnnouncementEntry("Bobby and Carol are now friends."),
	})

	assert.Equal(t, []string{
		"Bobby paid Carol $5.00 for Coffee",
		"Bobby and Carol are now friends.",
	}, lines)
}

// TestDemoScenario exercises the canonical Bobby/Carol sequence end to
// end. Carol's 15.00 payment back to Bobby succeeds via the balance
// path: her balance is exactly 15.00 after receiving Bobby's payment.
func TestDemoScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateUser(ctx, "Bobby", money("5.00"), "4111111111111111")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "Carol", money("10.00"), "4242424242424242")
	require.NoError(t, err)

	first, err := svc.Pay(ctx, "Bobby", "Carol", money("5.00"), "Coffee")
	require.NoError(t, err)
	assert.Equal(t, domain.FundingBalance, first.Source)

	bobby, err := svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	carol, err := svc.GetUser(ctx, "Carol")
	require.NoError(t, err)
	assert.True(t, bobby.Balance.IsZero())
	assert.True(t, carol.Balance.Equal(money("15.00")))

	second, err := svc.Pay(ctx, "Carol", "Bobby", money("15.00"), "Lunch")
	require.NoError(t, err)
	assert.Equal(t, domain.FundingBalance, second.Source)

	bobby, err = svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	carol, err = svc.GetUser(ctx, "Carol")
	require.NoError(t, err)
	assert.True(t, carol.Balance.IsZero())
	assert.True(t, bobby.Balance.Equal(money("15.00")))

	lines, err := svc.UserFeed(ctx, "Bobby")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Bobby paid Carol $5.00 for Coffee",
		"Carol paid Bobby $15.00 for Lunch",
	}, lines)

	require.NoError(t, svc.AddFriend(ctx, "Bobby", "Carol"))

	lines, err = svc.UserFeed(ctx, "Bobby")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Bobby paid Carol $5.00 for Coffee",
		"Carol paid Bobby $15.00 for Lunch",
		"Bobby and Carol are now friends.",
	}, lines)

	carol, err = svc.GetUser(ctx, "Carol")
	require.NoError(t, err)
	assert.False(t, carol.IsFriend("Bobby"))
}

// TestConcurrentPayments verifies that concurrent balance-funded
// payments conserve the total money supply and that every payment lands
// in the feed exactly once.
func TestConcurrentPayments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	names := []string{"Alice", "Bobby", "Carol", "Daisy"}
	for _, name := range names {
		_, err := svc.CreateUser(ctx, name, money("1000.00"), "4111111111111111")
		require.NoError(t, err)
	}

	const rounds = 25

	var wg sync.WaitGroup
	for i, payer := range names {
		for j, payee := range names {
			if i == j {
				continue
			}
			wg.Add(1)
			go func(payer, payee string) {
				defer wg.Done()
				for r := 0; r < rounds; r++ {
					_, err := svc.Pay(ctx, payer, payee, money("1.00"), "round")
					if err != nil {
						t.Errorf("Pay(%s, %s) = %v", payer, payee, err)
						return
					}
				}
			}(payer, payee)
		}
	}
	wg.Wait()

	// Each user paid and received the same number of 1.00 transfers,
	// all via the balance path, so every balance is back at 1000.00.
	total := decimal.Zero
	for _, name := range names {
		user, err := svc.GetUser(ctx, name)
		require.NoError(t, err)
		assert.True(t, user.Balance.Equal(money("1000.00")),
			fmt.Sprintf("%s balance = %s", name, user.Balance))
		total = total.Add(user.Balance)
	}
	assert.True(t, total.Equal(money("4000.00")))

	assert.Equal(t, len(names)*(len(names)-1)*rounds, len(svc.GlobalFeed(ctx)))
}

func TestGetUserReturnsSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateUser(ctx, "Bobby", money("5.00"), "4111111111111111")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "Carol", money("10.00"), "4242424242424242")
	require.NoError(t, err)

	// Mutating a retrieved user must not affect the stored state.
	user, err := svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	user.Balance = money("999.00")
	user.Friends = append(user.Friends, "Carol")

	again, err := svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(money("5.00")))
	assert.Empty(t, again.Friends)

	// ListUsers hands out the same kind of copies.
	listed, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	listed[0].Balance = money("0.01")

	again, err = svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(money("5.00")))
}

// TestConcurrentReadsDuringPayments hammers the read paths while
// payments mutate the payer's balance. Run with the race detector: a
// reader observing the live entity instead of a snapshot fails here.
func TestConcurrentReadsDuringPayments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateUser(ctx, "Bobby", money("1000.00"), "4111111111111111")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "Carol", money("1000.00"), "4242424242424242")
	require.NoError(t, err)

	const (
		writers = 4
		readers = 4
		rounds  = 100
	)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				if _, err := svc.Pay(ctx, "Bobby", "Carol", money("1.00"), "round"); err != nil {
					t.Errorf("Pay(Bobby, Carol) = %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				user, err := svc.GetUser(ctx, "Bobby")
				if err != nil {
					t.Errorf("GetUser(Bobby) = %v", err)
					return
				}
				_ = user.Balance.StringFixed(2)
				_ = user.IsFriend("Carol")

				users, err := svc.ListUsers(ctx)
				if err != nil {
					t.Errorf("ListUsers() = %v", err)
					return
				}
				for _, u := range users {
					_ = u.Balance.StringFixed(2)
				}
			}
		}()
	}
	wg.Wait()

	// 400 transfers of 1.00, all funded from a balance that never drops
	// below 600.00.
	bobby, err := svc.GetUser(ctx, "Bobby")
	require.NoError(t, err)
	assert.True(t, bobby.Balance.Equal(money("600.00")),
		fmt.Sprintf("Bobby balance = %s", bobby.Balance))

	carol, err := svc.GetUser(ctx, "Carol")
	require.NoError(t, err)
	assert.True(t, carol.Balance.Equal(money("1400.00")))
}
