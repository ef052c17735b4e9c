package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionKind = "Receita"
	Expense TransactionKind = "Despesa"
)

type (
	// TransactionKind distinguishes money coming in from money going out.
	// The Portuguese values are the wire/storage representation the UI expects.
	TransactionKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single income or expense entry owned by a user.
	Transaction struct {
		ID          int64
		UserID      int64
		Description string
		Amount      Money
		Category    string
		Kind        TransactionKind
		Date        Date
	}

	// Goal is a savings target. Current may exceed Target; the goal counts
	// as complete at or above 100% progress.
	Goal struct {
		ID       int64
		UserID   int64
		Title    string
		Target   Money
		Current  Money
		Deadline Date
		Icon     string
	}

	// Budget is a monthly spending cap for one category. SpentSnapshot is a
	// derived figure refreshed from transactions; it is never authoritative.
	Budget struct {
		ID            int64
		UserID        int64
		Category      string
		Amount        Money
		SpentSnapshot Money
		Month         int
		Year          int
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyTitle       = errors.New("empty title")
)

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (k TransactionKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return t.Kind.Validate()
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(g.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	// Deadline is optional; goals without one are open-ended.
	return nil
}

// Progress returns goal completion as a percentage. Current above Target
// yields values over 100.
func (g Goal) Progress() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	return (float64(g.Current.Cents) / float64(g.Target.Cents)) * 100
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1970 {
		return errors.New("invalid year")
	}
	return nil
}
