package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"finanmaster/internal/core"
	"finanmaster/internal/engine"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Consulta inválida.")
		return
	}

	resp, err := s.engine.AnswerQuery(r.Context(), userID, req.Query, false)
	if err != nil {
		slog.ErrorContext(r.Context(), "Analyze failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível analisar a consulta.")
		return
	}
	writeOK(w, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Mensagem inválida.")
		return
	}

	resp, err := s.engine.AnswerQuery(r.Context(), userID, req.Message, true)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chat failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível responder à mensagem.")
		return
	}
	writeOK(w, resp)
}

type monthlyReportRow struct {
	Label   string  `json:"mes"`
	Income  float64 `json:"receitas"`
	Expense float64 `json:"despesas"`
	Balance float64 `json:"saldo"`
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	year := timeNow().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Ano inválido.")
			return
		}
		year = y
	}

	buckets, err := s.engine.MonthlyReport(r.Context(), userID, year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly report failed", "error", err, "user_id", userID, "year", year)
		writeError(w, http.StatusInternalServerError, "Não foi possível gerar o relatório mensal.")
		return
	}

	out := make([]monthlyReportRow, len(buckets))
	for i, b := range buckets {
		out[i] = monthlyReportRow{
			Label:   b.Label,
			Income:  core.Money{Cents: b.IncomeCents}.Reais(),
			Expense: core.Money{Cents: b.ExpenseCents}.Reais(),
			Balance: core.Money{Cents: b.BalanceCents}.Reais(),
		}
	}
	writeOK(w, map[string]any{"ano": year, "meses": out})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	var req struct {
		Period   string `json:"period"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Parâmetros do relatório inválidos.")
		return
	}

	period, err := engine.ParsePeriod(strings.TrimSpace(req.Period))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Período inválido.")
		return
	}

	report, err := s.engine.GenerateReport(r.Context(), userID, period, strings.TrimSpace(req.Category))
	if err != nil {
		slog.ErrorContext(r.Context(), "Generate report failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível gerar o relatório.")
		return
	}

	cats := make([]map[string]any, len(report.Categories))
	for i, c := range report.Categories {
		cats[i] = map[string]any{
			"categoria": c.Category,
			"valor":     core.Money{Cents: c.TotalCents}.Reais(),
		}
	}
	writeOK(w, map[string]any{
		"success":         true,
		"receitas":        core.Money{Cents: report.Totals.IncomeCents}.Reais(),
		"despesas":        core.Money{Cents: report.Totals.ExpenseCents}.Reais(),
		"saldo":           core.Money{Cents: report.Totals.BalanceCents}.Reais(),
		"categorias":      cats,
		"insights":        report.Insights,
		"recommendations": report.Recommendations,
	})
}
