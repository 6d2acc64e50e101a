package handlers

import (
	"net/http"

	"newsroomCMS/internal/models"
)

// UploadMedia принимает multipart-файл в поле "file" и прикрепляет его
// к посту. Размер тела ограничен до разбора формы.
func (h *Handlers) UploadMedia(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор поста", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	userID, role, _ := identity(r)
	if role != models.RoleAdmin && post.UserID != userID {
		WriteError(w, "Загружать медиа может только автор поста", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Файл слишком большой или форма повреждена", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, "Поле file обязательно", http.StatusBadRequest)
		return
	}
	defer file.Close()

	media, err := h.MediaService.Attach(r.Context(), postID, header.Filename, file, header.Size)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, media, http.StatusCreated)
}

func (h *Handlers) GetPostMedia(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор поста", http.StatusBadRequest)
		return
	}

	media, err := h.MediaService.ListByPost(r.Context(), postID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if media == nil {
		media = []models.Media{}
	}

	WriteSuccess(w, media, http.StatusOK)
}

// DeleteMedia удаляет медиа и его объект в хранилище. Доступно
// администратору и автору поста, к которому прикреплено медиа.
func (h *Handlers) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор медиа", http.StatusBadRequest)
		return
	}

	userID, role, _ := identity(r)
	if err := h.MediaService.Remove(r.Context(), mediaID, userID, role); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Медиа удалено"}, http.StatusOK)
}
