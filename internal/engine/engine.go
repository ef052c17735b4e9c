package engine

import (
	"context"
	"fmt"
	"time"

	"finanmaster/internal/core"
	"finanmaster/internal/log"
)

// Repository is the data access the engine needs. The storage package
// provides the SQLite implementation; tests supply in-memory fakes.
type Repository interface {
	FetchTransactions(ctx context.Context, userID int64, r DateRange) ([]core.Transaction, error)
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	ListBudgets(ctx context.Context, userID int64, month, year int) ([]core.Budget, error)
}

// Engine computes financial summaries and answers assistant queries. It is
// stateless between calls; every request fetches a fresh snapshot.
type Engine struct {
	repo   Repository
	logger *log.Logger
	now    func() time.Time
}

// New builds an Engine. A nil now falls back to time.Now; tests inject a
// fixed clock to pin the analysis window.
func New(repo Repository, logger *log.Logger, now func() time.Time) *Engine {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentEngine)
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{repo: repo, logger: logger, now: now}
}

// Summary is the aggregated view of one user's finances over a period.
type Summary struct {
	Period     Period
	Range      DateRange
	Totals     Totals
	Categories []CategoryTotal
	Months     []MonthBucket
	Trends     Trends

	// UsedFallback reports that the requested period held no transactions
	// and the headline totals were computed over the full history instead.
	// Categories, months and trends always reflect their own windows.
	UsedFallback bool
}

// monthBucketCount is how many trailing months the dashboard chart shows.
const monthBucketCount = 6

// PeriodSummary aggregates a user's transactions over the given period.
// An unknown user (id 0) gets a zeroed summary rather than an error.
func (e *Engine) PeriodSummary(ctx context.Context, userID int64, p Period) (Summary, error) {
	now := e.now()
	rng, err := Resolve(p, now)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Period: p, Range: rng}
	if userID == 0 {
		return s, nil
	}

	all, err := e.fetchAll(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	window := FilterRange(all, rng)
	s.Totals = TotalsOf(window)
	s.Categories = GroupByCategory(window, core.Expense)
	s.Months = MonthlyBuckets(all, LastMonths(now, monthBucketCount))

	cur := TotalsOf(filterMonth(all, MonthRef{Year: now.Year(), Month: now.Month()}))
	prev := TotalsOf(filterMonth(all, PreviousMonth(now)))
	s.Trends = Trends{
		Balance:     PercentChange(cur.BalanceCents, prev.BalanceCents),
		Income:      PercentChange(cur.IncomeCents, prev.IncomeCents),
		Expense:     PercentChange(cur.ExpenseCents, prev.ExpenseCents),
		SavingsRate: SavingsRate(s.Totals.BalanceCents, s.Totals.IncomeCents),
	}

	if len(window) == 0 && len(all) > 0 && p != PeriodAllTime {
		s.Totals = TotalsOf(all)
		s.UsedFallback = true
		e.logger.Debug("empty period, falling back to all-time totals",
			log.FieldUserID, userID, log.FieldPeriod, string(p))
	}

	return s, nil
}

// AnswerQuery classifies the query and dispatches a response over the user's
// current-month snapshot. A panic inside dispatch is downgraded to an
// apologetic answer so one bad query cannot take the request down.
func (e *Engine) AnswerQuery(ctx context.Context, userID int64, query string, conversational bool) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("assistant dispatch panicked",
				log.FieldUserID, userID, log.FieldQuery, query, "panic", r)
			resp = Response{
				Text:       "Desculpe, ocorreu um erro ao processar sua solicitação. Tente novamente em instantes.",
				Confidence: confidenceDefault,
			}
			err = nil
		}
	}()

	all, err := e.fetchAll(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	rng, err := Resolve(PeriodCurrentMonth, e.now())
	if err != nil {
		return Response{}, err
	}
	goals, err := e.repo.ListGoals(ctx, userID)
	if err != nil {
		return Response{}, fmt.Errorf("list goals: %w", err)
	}

	intent := Classify(query)
	e.logger.Debug("query classified",
		log.FieldUserID, userID, log.FieldIntent, string(intent))

	snap := Snapshot{
		Current:        FilterRange(all, rng),
		All:            all,
		Goals:          goals,
		Conversational: conversational,
	}
	return Dispatch(intent, query, snap), nil
}

// MonthlyReport buckets one calendar year of a user's transactions, one
// bucket per month, empty months included.
func (e *Engine) MonthlyReport(ctx context.Context, userID int64, year int) ([]MonthBucket, error) {
	all, err := e.fetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return MonthlyBuckets(all, MonthsOfYear(year)), nil
}

// GenerateReport aggregates the period and derives written findings. A
// non-empty category narrows the analysis to that category's expenses.
func (e *Engine) GenerateReport(ctx context.Context, userID int64, p Period, category string) (Report, error) {
	now := e.now()
	rng, err := Resolve(p, now)
	if err != nil {
		return Report{}, err
	}

	all, err := e.fetchAll(ctx, userID)
	if err != nil {
		return Report{}, err
	}

	window := FilterRange(all, rng)
	if category != "" {
		filtered := make([]core.Transaction, 0, len(window))
		for _, t := range window {
			if t.Category == category {
				filtered = append(filtered, t)
			}
		}
		window = filtered
	}

	totals := TotalsOf(window)
	cats := GroupByCategory(window, core.Expense)
	return Report{
		Range:           rng,
		Totals:          totals,
		Categories:      cats,
		Insights:        Insights(totals, cats),
		Recommendations: Recommendations(totals, cats),
	}, nil
}

// BudgetStatus pairs a stored budget with the spend recomputed from the
// month's transactions. Progress is nil when the budget amount is zero.
type BudgetStatus struct {
	Budget     core.Budget
	SpentCents int64
	Progress   *float64
}

// BudgetOverview reports each budget of the given month against actual
// spending. The stored spent snapshot is ignored; spend is always
// recomputed from the transactions so the numbers cannot drift.
func (e *Engine) BudgetOverview(ctx context.Context, userID int64, month, year int) ([]BudgetStatus, error) {
	budgets, err := e.repo.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	all, err := e.fetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	spent := GroupByCategory(filterMonth(all, MonthRef{Year: year, Month: time.Month(month)}), core.Expense)
	byCategory := make(map[string]int64, len(spent))
	for _, c := range spent {
		byCategory[c.Category] = c.TotalCents
	}

	out := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		s := byCategory[b.Category]
		out[i] = BudgetStatus{
			Budget:     b,
			SpentCents: s,
			Progress:   Ratio(s, b.Amount.Cents),
		}
	}
	return out, nil
}

func (e *Engine) fetchAll(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rng, err := Resolve(PeriodAllTime, e.now())
	if err != nil {
		return nil, err
	}
	all, err := e.repo.FetchTransactions(ctx, userID, rng)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return all, nil
}
