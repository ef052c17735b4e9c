package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"finanmaster/internal/core"
	"finanmaster/internal/engine"
)

// Dashboard wire format. Field names in Portuguese are the frontend contract.
type (
	dashboardResponse struct {
		Balance      float64       `json:"saldo"`
		Income       float64       `json:"receitas"`
		Expense      float64       `json:"despesas"`
		Savings      float64       `json:"economia"`
		Trends       trendsPayload `json:"trends"`
		Months       monthsPayload `json:"months_data"`
		Categories   seriesPayload `json:"categorias_despesas"`
		Period       string        `json:"periodo"`
		UsedFallback bool          `json:"used_fallback"`
	}

	trendsPayload struct {
		Balance     *float64 `json:"saldo"`
		Income      *float64 `json:"receitas"`
		Expense     *float64 `json:"despesas"`
		SavingsRate *float64 `json:"economia"`
	}

	monthsPayload struct {
		Labels  []string  `json:"labels"`
		Income  []float64 `json:"receitas"`
		Expense []float64 `json:"despesas"`
	}

	seriesPayload struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}
)

func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	period, err := parsePeriodParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Período inválido.")
		return
	}

	cacheKey := fmt.Sprintf("u%d|%s", userID, period)
	summary, ok := s.summaryCache.Get(cacheKey)
	if !ok {
		summary, err = s.engine.PeriodSummary(r.Context(), userID, period)
		if err != nil {
			slog.ErrorContext(r.Context(), "Dashboard summary failed", "error", err, "user_id", userID)
			writeError(w, http.StatusServiceUnavailable, "Não foi possível calcular o resumo financeiro.")
			return
		}
		s.summaryCache.Set(cacheKey, summary)
	}

	writeOK(w, buildDashboardResponse(summary))
}

func buildDashboardResponse(s engine.Summary) dashboardResponse {
	months := monthsPayload{
		Labels:  make([]string, len(s.Months)),
		Income:  make([]float64, len(s.Months)),
		Expense: make([]float64, len(s.Months)),
	}
	for i, m := range s.Months {
		months.Labels[i] = m.Label
		months.Income[i] = core.Money{Cents: m.IncomeCents}.Reais()
		months.Expense[i] = core.Money{Cents: m.ExpenseCents}.Reais()
	}

	cats := seriesPayload{
		Labels: make([]string, len(s.Categories)),
		Values: make([]float64, len(s.Categories)),
	}
	for i, c := range s.Categories {
		cats.Labels[i] = c.Category
		cats.Values[i] = core.Money{Cents: c.TotalCents}.Reais()
	}

	return dashboardResponse{
		Balance: core.Money{Cents: s.Totals.BalanceCents}.Reais(),
		Income:  core.Money{Cents: s.Totals.IncomeCents}.Reais(),
		Expense: core.Money{Cents: s.Totals.ExpenseCents}.Reais(),
		// Savings mirrors the balance; the percentage lives in trends.
		Savings: core.Money{Cents: s.Totals.BalanceCents}.Reais(),
		Trends: trendsPayload{
			Balance:     s.Trends.Balance,
			Income:      s.Trends.Income,
			Expense:     s.Trends.Expense,
			SavingsRate: s.Trends.SavingsRate,
		},
		Months:       months,
		Categories:   cats,
		Period:       string(s.Period),
		UsedFallback: s.UsedFallback,
	}
}
