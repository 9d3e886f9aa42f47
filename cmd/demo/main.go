// Package main runs a fixed demonstration scenario against the ledger:
// two users are created with seeded balances and cards, they pay each
// other, one user's personalized feed is rendered, and a friendship is
// established. Business-rule failures inside the payment sequence are
// caught and logged; the program still exits normally.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/phrazzld/ledger-api/internal/config"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/feed"
	"github.com/phrazzld/ledger-api/internal/platform/logger"
	"github.com/phrazzld/ledger-api/internal/platform/memstore"
	"github.com/phrazzld/ledger-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("demo error: %v", err)
	}
}

func run() error {
	// Warn level keeps routine operation logs out of the rendered output
	// while still surfacing caught payment failures.
	appLogger, err := logger.Setup(config.ServerConfig{LogLevel: "warn"})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx := context.Background()

	ledger, err := service.NewLedgerService(
		memstore.NewUserStore(appLogger),
		feed.NewLog(appLogger),
		appLogger,
	)
	if err != nil {
		return err
	}

	bobby, err := ledger.CreateUser(ctx, "Bobby", decimal.RequireFromString("5.00"), "4111111111111111")
	if err != nil {
		return err
	}

	carol, err := ledger.CreateUser(ctx, "Carol", decimal.RequireFromString("10.00"), "4242424242424242")
	if err != nil {
		return err
	}

	// Payment failures are business-rule outcomes here, not fatal: log
	// them and keep going.
	if _, err := ledger.Pay(ctx, bobby.Username, carol.Username,
		decimal.RequireFromString("5.00"), "Coffee"); err != nil {
		logPaymentError(appLogger, err)
	}
	if _, err := ledger.Pay(ctx, carol.Username, bobby.Username,
		decimal.RequireFromString("15.00"), "Lunch"); err != nil {
		logPaymentError(appLogger, err)
	}

	lines, err := ledger.UserFeed(ctx, bobby.Username)
	if err != nil {
		return err
	}

	fmt.Println("Rendering feed:")
	for _, line := range lines {
		fmt.Println(line)
	}

	if err := ledger.AddFriend(ctx, bobby.Username, carol.Username); err != nil {
		return err
	}

	return nil
}

// logPaymentError logs an expected payment failure without aborting the run.
func logPaymentError(logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrSelfPayment),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrNoCreditCard):
		logger.Warn("payment rejected", "error", err)
	default:
		logger.Error("payment failed", "error", err)
	}
}
