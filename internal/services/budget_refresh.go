package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finanmaster/internal/amqp"
	"finanmaster/internal/core"
	"finanmaster/internal/engine"
)

// BudgetStore is the storage surface the refresher needs.
type BudgetStore interface {
	FetchTransactions(ctx context.Context, userID int64, r engine.DateRange) ([]core.Transaction, error)
	UpdateBudgetSpent(ctx context.Context, userID int64, category string, month, year int, spentCents int64) error
}

// BudgetRefresher recomputes a budget's spent snapshot from the month's
// transactions whenever a transaction event arrives. The snapshot is purely
// derived data; recomputing from scratch keeps it correct under retries and
// out-of-order deliveries.
type BudgetRefresher struct {
	store BudgetStore
}

// NewBudgetRefresher creates a new budget refresher
func NewBudgetRefresher(store BudgetStore) *BudgetRefresher {
	return &BudgetRefresher{store: store}
}

// Handle processes one transaction event.
func (b *BudgetRefresher) Handle(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	if msg.Month < 1 || msg.Month > 12 {
		return fmt.Errorf("refresh budget: %w", core.ErrInvalidMonth)
	}

	spent, err := b.monthlySpend(ctx, msg.UserID, msg.Category, msg.Month, msg.Year)
	if err != nil {
		return fmt.Errorf("compute spend for %s %d/%d: %w", msg.Category, msg.Month, msg.Year, err)
	}

	if err := b.store.UpdateBudgetSpent(ctx, msg.UserID, msg.Category, msg.Month, msg.Year, spent); err != nil {
		return fmt.Errorf("store spend for %s %d/%d: %w", msg.Category, msg.Month, msg.Year, err)
	}

	slog.InfoContext(ctx, "Budget snapshot refreshed",
		"user_id", msg.UserID,
		"category", msg.Category,
		"month", msg.Month,
		"year", msg.Year,
		"spent_cents", spent)
	return nil
}

func (b *BudgetRefresher) monthlySpend(ctx context.Context, userID int64, category string, month, year int) (int64, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	txs, err := b.store.FetchTransactions(ctx, userID, engine.DateRange{Start: start, End: end})
	if err != nil {
		return 0, err
	}

	var spent int64
	for _, t := range txs {
		if t.Kind == core.Expense && t.Category == category {
			spent += t.Amount.Cents
		}
	}
	return spent, nil
}
