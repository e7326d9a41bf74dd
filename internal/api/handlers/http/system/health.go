package system

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// SessionCounter reports how many browser sessions are live.
type SessionCounter interface {
	Len() int
}

type Handler struct {
	logger   *slog.Logger
	sessions SessionCounter
}

func NewHandler(logger *slog.Logger, sessions SessionCounter) *Handler {
	return &Handler{logger: logger, sessions: sessions}
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	}); err != nil {
		h.logger.Error("json encode failed", slog.Any("error", err))
	}
}
