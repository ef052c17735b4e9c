package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finanmaster/internal/core"
	"finanmaster/internal/engine"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports a row that does not exist or belongs to another user.
var ErrNotFound = errors.New("not found")

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchTransactions implements engine.Repository. Rows come back oldest
// first so downstream category grouping sees a stable encounter order.
func (r *SQLiteRepository) FetchTransactions(ctx context.Context, userID int64, rng engine.DateRange) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, description, amount_cents, category, kind, occurred_on
		FROM transactions
		WHERE user_id = ? AND occurred_on >= ? AND occurred_on <= ?
		ORDER BY occurred_on, id`,
		userID, rng.Start.Format(dateLayout), rng.End.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t   core.Transaction
			day string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount.Cents, &t.Category, &t.Kind, &day); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		parsed, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", day, err)
		}
		t.Date = core.Date{Time: parsed}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, description, amount_cents, category, kind, occurred_on)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Description, t.Amount.Cents, t.Category, t.Kind, t.Date.Format(dateLayout))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "transaction saved",
		"id", t.ID,
		"user_id", t.UserID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"category", t.Category,
		"kind", t.Kind)

	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount_cents = ?, category = ?, kind = ?, occurred_on = ?
		WHERE id = ? AND user_id = ?`,
		t.Description, t.Amount.Cents, t.Category, t.Kind, t.Date.Format(dateLayout), t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	slog.InfoContext(ctx, "transaction deleted", "id", id, "user_id", userID)
	return nil
}

// ListGoals implements engine.Repository.
func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, target_cents, current_cents, deadline, icon
		FROM goals
		WHERE user_id = ?
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g        core.Goal
			deadline sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Target.Cents, &g.Current.Cents, &deadline, &g.Icon); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if deadline.Valid && deadline.String != "" {
			parsed, err := time.Parse(dateLayout, deadline.String)
			if err != nil {
				return nil, fmt.Errorf("parse goal deadline %q: %w", deadline.String, err)
			}
			g.Deadline = core.Date{Time: parsed}
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	var deadline any
	if !g.Deadline.IsZero() {
		deadline = g.Deadline.Format(dateLayout)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (user_id, title, target_cents, current_cents, deadline, icon)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Title, g.Target.Cents, g.Current.Cents, deadline, g.Icon)
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("goal id: %w", err)
	}

	slog.InfoContext(ctx, "goal saved", "id", g.ID, "user_id", g.UserID, "title", g.Title)
	return g, nil
}

func (r *SQLiteRepository) UpdateGoalProgress(ctx context.Context, userID, id, currentCents int64) error {
	if currentCents < 0 {
		return core.ErrInvalidAmount
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = ? WHERE id = ? AND user_id = ?`,
		currentCents, id, userID)
	if err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

// ListBudgets implements engine.Repository.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64, month, year int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount_cents, spent_cents, month, year
		FROM budgets
		WHERE user_id = ? AND month = ? AND year = ?
		ORDER BY id`, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents, &b.SpentSnapshot.Cents, &b.Month, &b.Year); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// UpsertBudget inserts the budget or, when the user already budgets the
// category for that month, replaces the cap amount.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, amount_cents, month, year)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category, month, year)
		DO UPDATE SET amount_cents = excluded.amount_cents`,
		b.UserID, b.Category, b.Amount.Cents, b.Month, b.Year)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		b.ID = id
	}

	slog.InfoContext(ctx, "budget saved",
		"user_id", b.UserID, "category", b.Category, "month", b.Month, "year", b.Year)
	return b, nil
}

// UpdateBudgetSpent refreshes the derived spent snapshot for one category
// month. The worker calls this after transaction-change events.
func (r *SQLiteRepository) UpdateBudgetSpent(ctx context.Context, userID int64, category string, month, year int, spentCents int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET spent_cents = ?
		WHERE user_id = ? AND category = ? AND month = ? AND year = ?`,
		spentCents, userID, category, month, year)
	if err != nil {
		return fmt.Errorf("update budget spent: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
