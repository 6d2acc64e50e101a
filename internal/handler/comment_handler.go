package handlers

import (
	"encoding/json"
	"net/http"

	"newsroomCMS/internal/models"
)

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

type moderateRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

// GetComments возвращает комментарии поста. Администратор видит все,
// остальные - только одобренные.
func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор поста", http.StatusBadRequest)
		return
	}

	comments, err := h.CommentService.ListForPost(r.Context(), postID, isAdmin(r))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	WriteSuccess(w, comments, http.StatusOK)
}

// AddComment создаёт комментарий от имени текущего пользователя,
// комментарий попадает в очередь модерации
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор поста", http.StatusBadRequest)
		return
	}

	userID, _, authed := identity(r)
	if !authed {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат данных", http.StatusBadRequest)
		return
	}

	comment, err := h.CommentService.Add(r.Context(), postID, userID, req.Content)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, comment, http.StatusCreated)
}

// ModerateComment выставляет вердикт модерации, доступно администратору
func (h *Handlers) ModerateComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор комментария", http.StatusBadRequest)
		return
	}

	var req moderateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат данных", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Ошибка валидации: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.CommentService.Moderate(r.Context(), commentID, req.Status); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Статус комментария обновлён"}, http.StatusOK)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор комментария", http.StatusBadRequest)
		return
	}

	userID, role, authed := identity(r)
	if !authed {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	if err := h.CommentService.Remove(r.Context(), commentID, userID, role); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Комментарий удалён"}, http.StatusOK)
}
