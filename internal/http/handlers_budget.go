package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finanmaster/internal/core"
	"finanmaster/internal/storage"
)

type budgetRequest struct {
	Category string          `json:"categoria"`
	Amount   json.RawMessage `json:"valor"`
	Month    int             `json:"mes"`
	Year     int             `json:"ano"`
}

type budgetResponse struct {
	ID       int64    `json:"id"`
	Category string   `json:"categoria"`
	Amount   float64  `json:"valor"`
	Spent    float64  `json:"gasto"`
	Progress *float64 `json:"progresso"`
	Month    int      `json:"mes"`
	Year     int      `json:"ano"`
}

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)
	year, month := parseYearMonth(r)

	statuses, err := s.engine.BudgetOverview(r.Context(), userID, month, year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget overview failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível carregar o orçamento.")
		return
	}

	out := make([]budgetResponse, len(statuses))
	for i, st := range statuses {
		out[i] = budgetResponse{
			ID:       st.Budget.ID,
			Category: st.Budget.Category,
			Amount:   st.Budget.Amount.Reais(),
			Spent:    core.Money{Cents: st.SpentCents}.Reais(),
			Progress: st.Progress,
			Month:    st.Budget.Month,
			Year:     st.Budget.Year,
		}
	}
	writeOK(w, out)
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Dados do orçamento inválidos.")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Valor do orçamento inválido.")
		return
	}

	b := core.Budget{
		UserID:   userID,
		Category: req.Category,
		Amount:   amount,
		Month:    req.Month,
		Year:     req.Year,
	}

	saved, err := s.store.UpsertBudget(r.Context(), b)
	if err != nil {
		if errors.Is(err, core.ErrEmptyCategory) || errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidMonth) {
			writeError(w, http.StatusBadRequest, "Dados do orçamento inválidos.")
			return
		}
		slog.ErrorContext(r.Context(), "Upsert budget failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível salvar o orçamento.")
		return
	}

	writeCreated(w, budgetResponse{
		ID:       saved.ID,
		Category: saved.Category,
		Amount:   saved.Amount.Reais(),
		Month:    saved.Month,
		Year:     saved.Year,
	})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}

	if err := s.store.DeleteBudget(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Orçamento não encontrado.")
			return
		}
		slog.ErrorContext(r.Context(), "Delete budget failed", "error", err, "user_id", userID, "id", id)
		writeError(w, http.StatusInternalServerError, "Não foi possível excluir o orçamento.")
		return
	}

	writeOK(w, map[string]any{"success": true})
}
