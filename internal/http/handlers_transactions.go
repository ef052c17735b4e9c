package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finanmaster/internal/amqp"
	"finanmaster/internal/core"
	"finanmaster/internal/engine"
	"finanmaster/internal/storage"
)

type transactionRequest struct {
	Description string          `json:"descricao"`
	Amount      json.RawMessage `json:"valor"`
	Category    string          `json:"categoria"`
	Kind        string          `json:"tipo"`
	Date        string          `json:"data"`
}

type transactionResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
	Category    string  `json:"categoria"`
	Kind        string  `json:"tipo"`
	Date        string  `json:"data"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.Reais(),
		Category:    t.Category,
		Kind:        string(t.Kind),
		Date:        t.Date.Format("2006-01-02"),
	}
}

func (s *Server) decodeTransaction(r *http.Request, userID int64) (core.Transaction, error) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return core.Transaction{}, err
	}

	day, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		UserID:      userID,
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Kind:        core.TransactionKind(req.Kind),
		Date:        day,
	}
	return t, t.Validate()
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	period, err := parsePeriodParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Período inválido.")
		return
	}
	rng, err := engine.Resolve(period, timeNow())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Período inválido.")
		return
	}

	txs, err := s.store.FetchTransactions(r.Context(), userID, rng)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível carregar as transações.")
		return
	}

	out := make([]transactionResponse, len(txs))
	for i, t := range txs {
		out[i] = toTransactionResponse(t)
	}
	writeOK(w, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	t, err := s.decodeTransaction(r, userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Dados da transação inválidos.")
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível salvar a transação.")
		return
	}

	s.invalidateSummaries(userID)
	s.publishTransactionEvent(r.Context(), created, amqp.OpCreated)
	writeCreated(w, toTransactionResponse(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}

	t, err := s.decodeTransaction(r, userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Dados da transação inválidos.")
		return
	}
	t.ID = id

	if err := s.store.UpdateTransaction(r.Context(), t); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Transação não encontrada.")
			return
		}
		slog.ErrorContext(r.Context(), "Update transaction failed", "error", err, "user_id", userID, "id", id)
		writeError(w, http.StatusInternalServerError, "Não foi possível atualizar a transação.")
		return
	}

	s.invalidateSummaries(userID)
	s.publishTransactionEvent(r.Context(), t, amqp.OpUpdated)
	writeOK(w, map[string]any{"success": true})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}

	// Fetch coordinates before the delete so the event can name the
	// affected category month.
	rng, _ := engine.Resolve(engine.PeriodAllTime, timeNow())
	txs, err := s.store.FetchTransactions(r.Context(), userID, rng)
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction lookup failed", "error", err, "user_id", userID, "id", id)
		writeError(w, http.StatusInternalServerError, "Não foi possível excluir a transação.")
		return
	}
	var deleted *core.Transaction
	for i := range txs {
		if txs[i].ID == id {
			deleted = &txs[i]
			break
		}
	}

	if err := s.store.DeleteTransaction(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Transação não encontrada.")
			return
		}
		slog.ErrorContext(r.Context(), "Delete transaction failed", "error", err, "user_id", userID, "id", id)
		writeError(w, http.StatusInternalServerError, "Não foi possível excluir a transação.")
		return
	}

	s.invalidateSummaries(userID)
	if deleted != nil {
		s.publishTransactionEvent(r.Context(), *deleted, amqp.OpDeleted)
	}
	writeOK(w, map[string]any{"success": true})
}
