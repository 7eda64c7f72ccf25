package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/swingpick/internal/history"
	"github.com/wonny/swingpick/pkg/logger"
)

// HistoryHandler serves the per-day pick archive
// ⭐ SSOT: 이력 조회 API 핸들러는 이 구조체에서만
type HistoryHandler struct {
	store  *history.Store
	logger *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(store *history.Store, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		logger: log,
	}
}

// ListDates returns the dates that have a stored pick message
// GET /api/history
func (h *HistoryHandler) ListDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.store.Dates()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list history dates")
		respondError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dates": dates,
		"count": len(dates),
	})
}

// GetByDate returns the stored pick message for a date
// GET /api/history/{date}
func (h *HistoryHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	message, err := h.store.Read(date)
	if err != nil {
		if os.IsNotExist(err) {
			respondError(w, http.StatusNotFound, "no picks recorded for that date")
			return
		}
		h.logger.WithError(err).WithField("date", date).Error("Failed to read history")
		respondError(w, http.StatusInternalServerError, "failed to read history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date,
		"message": message,
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
