package handlers

import (
	"encoding/json"
	"net/http"

	"newsroomCMS/internal/models"
	"newsroomCMS/internal/service"
)

// GetMe возвращает профиль текущего пользователя
func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(r)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, user, http.StatusOK)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	userID, role, _ := identity(r)
	if role != models.RoleAdmin && targetID != userID {
		WriteError(w, "Доступ только к собственному профилю", http.StatusForbidden)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), targetID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, user, http.StatusOK)
}

// UpdateUser меняет профиль. Роль может сменить только администратор.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	userID, role, _ := identity(r)
	if role != models.RoleAdmin && targetID != userID {
		WriteError(w, "Редактировать можно только собственный профиль", http.StatusForbidden)
		return
	}

	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат данных", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Ошибка валидации: "+err.Error(), http.StatusBadRequest)
		return
	}

	if role != models.RoleAdmin {
		current, err := h.UserService.GetUser(r.Context(), targetID)
		if err != nil {
			h.WriteServiceError(w, err)
			return
		}
		if req.Role != current.Role {
			WriteError(w, "Смена роли доступна только администратору", http.StatusForbidden)
			return
		}
	}

	user, err := h.UserService.UpdateUser(r.Context(), targetID, req)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, user, http.StatusOK)
}

// DeleteUser доступен только администратору
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	if !isAdmin(r) {
		WriteError(w, "Удаление пользователей доступно только администратору", http.StatusForbidden)
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), targetID); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Пользователь удалён"}, http.StatusOK)
}
