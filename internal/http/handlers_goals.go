package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finanmaster/internal/core"
	"finanmaster/internal/storage"
)

type goalRequest struct {
	Title    string  `json:"titulo"`
	Target   float64 `json:"valor_alvo"`
	Current  float64 `json:"valor_atual"`
	Deadline string  `json:"prazo"`
	Icon     string  `json:"icone"`
}

type goalResponse struct {
	ID       int64   `json:"id"`
	Title    string  `json:"titulo"`
	Target   float64 `json:"valor_alvo"`
	Current  float64 `json:"valor_atual"`
	Progress float64 `json:"progresso"`
	Deadline string  `json:"prazo,omitempty"`
	Icon     string  `json:"icone,omitempty"`
}

func toGoalResponse(g core.Goal) goalResponse {
	resp := goalResponse{
		ID:       g.ID,
		Title:    g.Title,
		Target:   g.Target.Reais(),
		Current:  g.Current.Reais(),
		Progress: g.Progress(),
		Icon:     g.Icon,
	}
	if !g.Deadline.IsZero() {
		resp.Deadline = g.Deadline.Format("2006-01-02")
	}
	return resp
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	goals, err := s.store.ListGoals(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List goals failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível carregar as metas.")
		return
	}

	out := make([]goalResponse, len(goals))
	for i, g := range goals {
		out[i] = toGoalResponse(g)
	}
	writeOK(w, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Dados da meta inválidos.")
		return
	}

	g := core.Goal{
		UserID:  userID,
		Title:   req.Title,
		Target:  core.Money{Cents: int64(req.Target*100 + 0.5)},
		Current: core.Money{Cents: int64(req.Current*100 + 0.5)},
		Icon:    req.Icon,
	}
	if req.Deadline != "" {
		deadline, err := parseDate(req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Prazo da meta inválido.")
			return
		}
		g.Deadline = deadline
	}

	created, err := s.store.CreateGoal(r.Context(), g)
	if err != nil {
		if errors.Is(err, core.ErrEmptyTitle) || errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, "Dados da meta inválidos.")
			return
		}
		slog.ErrorContext(r.Context(), "Create goal failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Não foi possível salvar a meta.")
		return
	}

	writeCreated(w, toGoalResponse(created))
}

func (s *Server) handleUpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}

	var req struct {
		Current float64 `json:"valor_atual"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Current < 0 {
		writeError(w, http.StatusBadRequest, "Valor de progresso inválido.")
		return
	}

	if err := s.store.UpdateGoalProgress(r.Context(), userID, id, int64(req.Current*100+0.5)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Meta não encontrada.")
			return
		}
		slog.ErrorContext(r.Context(), "Update goal progress failed", "error", err, "user_id", userID, "id", id)
		writeError(w, http.StatusInternalServerError, "Não foi possível atualizar a meta.")
		return
	}

	writeOK(w, map[string]any{"success": true})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFrom(r)

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}

	if err := s.store.DeleteGoal(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Meta não encontrada.")
			return
		}
		slog.ErrorContext(r.Context(), "Delete goal failed", "error", err, "user_id", userID, "id", id)
		writeError(w, http.StatusInternalServerError, "Não foi possível excluir a meta.")
		return
	}

	writeOK(w, map[string]any{"success": true})
}
