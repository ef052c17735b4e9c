package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finanmaster/internal/core"
)

// fakeRepo serves canned data and records nothing. Filtering by range is
// done here the same way the SQLite repository does it, so the engine sees
// the identical contract.
type fakeRepo struct {
	txs     []core.Transaction
	goals   []core.Goal
	budgets []core.Budget
	err     error
}

func (f *fakeRepo) FetchTransactions(_ context.Context, userID int64, r DateRange) ([]core.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Transaction
	for _, t := range f.txs {
		if t.UserID == userID && r.Contains(t.Date.Time) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListGoals(_ context.Context, userID int64) ([]core.Goal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.goals, nil
}

func (f *fakeRepo) ListBudgets(_ context.Context, _ int64, _, _ int) ([]core.Budget, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.budgets, nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func newTestEngine(repo Repository) *Engine {
	return New(repo, nil, fixedNow)
}

func TestPeriodSummary(t *testing.T) {
	repo := &fakeRepo{txs: []core.Transaction{
		tx(core.Income, "Salário", 100000, core.NewDate(2024, 3, 5)),
		tx(core.Expense, "Alimentação", 30000, core.NewDate(2024, 3, 10)),
	}}
	e := newTestEngine(repo)

	s, err := e.PeriodSummary(context.Background(), 1, PeriodCurrentMonth)
	if err != nil {
		t.Fatalf("PeriodSummary: %v", err)
	}

	if s.Totals.IncomeCents != 100000 || s.Totals.ExpenseCents != 30000 || s.Totals.BalanceCents != 70000 {
		t.Errorf("totals = %+v", s.Totals)
	}
	if s.Trends.SavingsRate == nil || *s.Trends.SavingsRate != 70.0 {
		t.Errorf("savings rate = %v, want 70.0", s.Trends.SavingsRate)
	}
	if s.UsedFallback {
		t.Error("fallback should not trigger for a populated period")
	}
	if len(s.Months) != monthBucketCount {
		t.Fatalf("months = %d buckets, want %d", len(s.Months), monthBucketCount)
	}
	last := s.Months[len(s.Months)-1]
	if last.Year != 2024 || last.Month != time.March || last.BalanceCents != 70000 {
		t.Errorf("last bucket = %+v, want March 2024 with balance 70000", last)
	}
	if len(s.Categories) != 1 || s.Categories[0].Category != "Alimentação" {
		t.Errorf("categories = %+v", s.Categories)
	}
}

func TestPeriodSummaryIdempotent(t *testing.T) {
	repo := &fakeRepo{txs: []core.Transaction{
		tx(core.Income, "Salário", 100000, core.NewDate(2024, 3, 5)),
		tx(core.Expense, "Transporte", 12345, core.NewDate(2024, 3, 6)),
	}}
	e := newTestEngine(repo)

	first, err := e.PeriodSummary(context.Background(), 1, PeriodLast3Months)
	if err != nil {
		t.Fatalf("PeriodSummary: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := e.PeriodSummary(context.Background(), 1, PeriodLast3Months)
		if err != nil {
			t.Fatalf("PeriodSummary run %d: %v", i, err)
		}
		if again.Totals != first.Totals || again.UsedFallback != first.UsedFallback {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again.Totals, first.Totals)
		}
	}
}

func TestPeriodSummaryFallback(t *testing.T) {
	// History only outside the requested window.
	repo := &fakeRepo{txs: []core.Transaction{
		tx(core.Income, "Salário", 100000, core.NewDate(2023, 6, 5)),
		tx(core.Expense, "Alimentação", 40000, core.NewDate(2023, 6, 10)),
	}}
	e := newTestEngine(repo)

	s, err := e.PeriodSummary(context.Background(), 1, PeriodCurrentMonth)
	if err != nil {
		t.Fatalf("PeriodSummary: %v", err)
	}
	if !s.UsedFallback {
		t.Fatal("expected the all-time fallback for an empty period")
	}
	if s.Totals.BalanceCents != 60000 {
		t.Errorf("fallback balance = %d, want 60000", s.Totals.BalanceCents)
	}
	// The fallback substitutes headline totals only.
	if len(s.Categories) != 0 {
		t.Errorf("categories should stay in the original window, got %+v", s.Categories)
	}
	if s.Trends.SavingsRate != nil {
		t.Errorf("savings rate should come from the pre-fallback window, got %v", *s.Trends.SavingsRate)
	}
}

func TestPeriodSummaryNoHistory(t *testing.T) {
	e := newTestEngine(&fakeRepo{})

	s, err := e.PeriodSummary(context.Background(), 1, PeriodCurrentMonth)
	if err != nil {
		t.Fatalf("PeriodSummary: %v", err)
	}
	if s.UsedFallback {
		t.Error("no history at all must not trigger the fallback")
	}
	if s.Totals != (Totals{}) {
		t.Errorf("totals = %+v, want zeroes", s.Totals)
	}
}

func TestPeriodSummaryUnknownUser(t *testing.T) {
	repo := &fakeRepo{txs: []core.Transaction{
		tx(core.Income, "Salário", 100000, core.NewDate(2024, 3, 5)),
	}}
	e := newTestEngine(repo)

	s, err := e.PeriodSummary(context.Background(), 0, PeriodCurrentMonth)
	if err != nil {
		t.Fatalf("PeriodSummary: %v", err)
	}
	if s.Totals != (Totals{}) || s.UsedFallback {
		t.Errorf("unknown user should get a zeroed summary, got %+v", s)
	}
}

func TestPeriodSummaryInvalidPeriod(t *testing.T) {
	e := newTestEngine(&fakeRepo{})
	if _, err := e.PeriodSummary(context.Background(), 1, Period("weekly")); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("error = %v, want ErrInvalidPeriod", err)
	}
}

func TestPeriodSummaryRepoError(t *testing.T) {
	boom := errors.New("db locked")
	e := newTestEngine(&fakeRepo{err: boom})

	if _, err := e.PeriodSummary(context.Background(), 1, PeriodCurrentMonth); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}

func TestAnswerQuery(t *testing.T) {
	repo := &fakeRepo{txs: []core.Transaction{
		tx(core.Income, "Salário", 100000, core.NewDate(2024, 3, 5)),
		tx(core.Expense, "Alimentação", 30000, core.NewDate(2024, 3, 10)),
	}}
	e := newTestEngine(repo)

	resp, err := e.AnswerQuery(context.Background(), 1, "qual meu saldo?", false)
	if err != nil {
		t.Fatalf("AnswerQuery: %v", err)
	}
	if !strings.Contains(resp.Text, "R$ 700,00") {
		t.Errorf("response %q should mention the balance", resp.Text)
	}
	if len(resp.Actions) != 1 || resp.Actions[0].Type != ActionShowBalance {
		t.Errorf("actions = %+v", resp.Actions)
	}
}

func TestAnswerQueryNoCurrentMonthData(t *testing.T) {
	// Old history but nothing this month: the assistant prompts for data.
	repo := &fakeRepo{txs: []core.Transaction{
		tx(core.Expense, "Alimentação", 30000, core.NewDate(2023, 6, 10)),
	}}
	e := newTestEngine(repo)

	resp, err := e.AnswerQuery(context.Background(), 1, "qual meu saldo?", false)
	if err != nil {
		t.Fatalf("AnswerQuery: %v", err)
	}
	if len(resp.Actions) != 1 || resp.Actions[0].Type != ActionPromptAddData {
		t.Errorf("actions = %+v, want prompt_add_data", resp.Actions)
	}
}

func TestAnswerQueryRepoError(t *testing.T) {
	boom := errors.New("db locked")
	e := newTestEngine(&fakeRepo{err: boom})

	if _, err := e.AnswerQuery(context.Background(), 1, "saldo", false); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}

func TestMonthlyReport(t *testing.T) {
	repo := &fakeRepo{txs: []core.Transaction{
		tx(core.Income, "Salário", 100000, core.NewDate(2024, 1, 5)),
		tx(core.Expense, "Alimentação", 30000, core.NewDate(2024, 2, 10)),
		tx(core.Expense, "Transporte", 5000, core.NewDate(2023, 12, 20)),
	}}
	e := newTestEngine(repo)

	buckets, err := e.MonthlyReport(context.Background(), 1, 2024)
	if err != nil {
		t.Fatalf("MonthlyReport: %v", err)
	}
	if len(buckets) != 12 {
		t.Fatalf("buckets = %d, want 12", len(buckets))
	}
	if buckets[0].IncomeCents != 100000 {
		t.Errorf("january = %+v", buckets[0])
	}
	if buckets[1].ExpenseCents != 30000 {
		t.Errorf("february = %+v", buckets[1])
	}
	// December 2023 must not leak into the 2024 report.
	if buckets[11].ExpenseCents != 0 {
		t.Errorf("december = %+v, want empty", buckets[11])
	}
}

func TestGenerateReport(t *testing.T) {
	repo := &fakeRepo{txs: []core.Transaction{
		tx(core.Income, "Salário", 100000, core.NewDate(2024, 3, 5)),
		tx(core.Expense, "Alimentação", 60000, core.NewDate(2024, 3, 10)),
		tx(core.Expense, "Transporte", 10000, core.NewDate(2024, 3, 12)),
	}}
	e := newTestEngine(repo)

	r, err := e.GenerateReport(context.Background(), 1, PeriodCurrentMonth, "")
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if r.Totals.BalanceCents != 30000 {
		t.Errorf("balance = %d, want 30000", r.Totals.BalanceCents)
	}
	if len(r.Insights) == 0 || len(r.Recommendations) == 0 {
		t.Errorf("report should carry findings: %+v", r)
	}

	filtered, err := e.GenerateReport(context.Background(), 1, PeriodCurrentMonth, "Transporte")
	if err != nil {
		t.Fatalf("GenerateReport filtered: %v", err)
	}
	if filtered.Totals.ExpenseCents != 10000 || filtered.Totals.IncomeCents != 0 {
		t.Errorf("filtered totals = %+v", filtered.Totals)
	}
}

func TestBudgetOverview(t *testing.T) {
	repo := &fakeRepo{
		txs: []core.Transaction{
			tx(core.Expense, "Alimentação", 45000, core.NewDate(2024, 3, 10)),
		},
		budgets: []core.Budget{
			{UserID: 1, Category: "Alimentação", Amount: core.Money{Cents: 60000}, SpentSnapshot: core.Money{Cents: 99999}, Month: 3, Year: 2024},
			{UserID: 1, Category: "Lazer", Amount: core.Money{Cents: 20000}, Month: 3, Year: 2024},
		},
	}
	e := newTestEngine(repo)

	got, err := e.BudgetOverview(context.Background(), 1, 3, 2024)
	if err != nil {
		t.Fatalf("BudgetOverview: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("statuses = %d, want 2", len(got))
	}

	// Spend is recomputed from transactions, never read from the snapshot.
	if got[0].SpentCents != 45000 {
		t.Errorf("spent = %d, want recomputed 45000", got[0].SpentCents)
	}
	if got[0].Progress == nil || *got[0].Progress != 75.0 {
		t.Errorf("progress = %v, want 75.0", got[0].Progress)
	}
	if got[1].SpentCents != 0 {
		t.Errorf("untouched budget spent = %d, want 0", got[1].SpentCents)
	}
}
