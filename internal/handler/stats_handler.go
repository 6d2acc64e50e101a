package handlers

import (
	"net/http"
)

// GetStats отдаёт сводную статистику, доступно администратору
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		WriteError(w, "Статистика доступна только администратору", http.StatusForbidden)
		return
	}

	stats, err := h.StatsService.Collect(r.Context())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, stats, http.StatusOK)
}

// Home - приветствие корня API
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, MessageResponse{Message: "Newsroom CMS API"}, http.StatusOK)
}

// Health отвечает 200 только если БД действительно доступна
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(); err != nil {
		h.Logger.Error().Err(err).Msg("проверка БД не пройдена")
		WriteError(w, "Сервис недоступен", http.StatusServiceUnavailable)
		return
	}

	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
