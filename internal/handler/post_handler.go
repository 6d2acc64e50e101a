package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"newsroomCMS/internal/models"
	"newsroomCMS/internal/repository"
	"newsroomCMS/internal/service"
)

// PostListResponse - ответ поиска: страница постов плюс метаданные пагинации
type PostListResponse struct {
	Posts      []models.Post      `json:"posts"`
	Pagination service.Pagination `json:"pagination"`
}

// GetPosts возвращает опубликованные посты; администратор видит все
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	var (
		posts []models.Post
		err   error
	)

	if isAdmin(r) {
		posts, err = h.PostService.GetAllPosts(r.Context())
	} else {
		posts, err = h.PostService.GetPublishedPosts(r.Context())
	}
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	WriteSuccess(w, posts, http.StatusOK)
}

// GetPost отдаёт пост по идентификатору. Черновики и архив видны
// только автору и администратору.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
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

	if post.Status != models.StatusPublished {
		userID, role, authed := identity(r)
		if !authed || (role != models.RoleAdmin && post.UserID != userID) {
			WriteError(w, "Пост не найден", http.StatusNotFound)
			return
		}
	}

	WriteSuccess(w, post, http.StatusOK)
}

// SearchPosts разбирает параметры фильтра из строки запроса.
// Нечисловые значения числовых параметров - ошибка 400, а не молчаливый
// пропуск фильтра.
func (h *Handlers) SearchPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.PostFilter{
		Keyword: q.Get("keyword"),
		Status:  q.Get("status"),
		Limit:   10,
		Offset:  0,
	}

	for name, dst := range map[string]**int64{
		"categoryId":    &filter.CategoryID,
		"subcategoryId": &filter.SubcategoryID,
		"userId":        &filter.UserID,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteError(w, "Параметр "+name+" должен быть числом", http.StatusBadRequest)
			return
		}
		*dst = &id
	}

	if raw := q.Get("featured"); raw != "" {
		featured := raw == "true"
		filter.Featured = &featured
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, "Параметр limit должен быть числом", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, "Параметр offset должен быть числом", http.StatusBadRequest)
			return
		}
		filter.Offset = offset
	}

	// видимость поиска: аноним получает только опубликованное, автор может
	// искать по неопубликованному в пределах собственных постов,
	// администратор не ограничен
	if !isAdmin(r) {
		requesterID, _, authed := identity(r)
		switch {
		case !authed || filter.Status == "":
			filter.Status = models.StatusPublished
		case filter.Status != models.StatusPublished:
			if filter.UserID != nil && *filter.UserID != requesterID {
				WriteError(w, "Чужие неопубликованные посты недоступны", http.StatusForbidden)
				return
			}
			filter.UserID = &requesterID
		}
	}

	posts, pagination, err := h.PostService.Search(r.Context(), filter)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	WriteSuccess(w, PostListResponse{Posts: posts, Pagination: pagination}, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	if !canPublish(r) {
		WriteError(w, "Недостаточно прав для создания постов", http.StatusForbidden)
		return
	}

	var req service.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат данных", http.StatusBadRequest)
		return
	}

	userID, role, _ := identity(r)
	if req.UserID == 0 {
		req.UserID = userID
	}
	if role != models.RoleAdmin && req.UserID != userID {
		WriteError(w, "Нельзя создать пост от имени другого пользователя", http.StatusForbidden)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), req)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор поста", http.StatusBadRequest)
		return
	}

	existing, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	userID, role, _ := identity(r)
	if role != models.RoleAdmin && existing.UserID != userID {
		WriteError(w, "Редактировать пост может только его автор", http.StatusForbidden)
		return
	}

	var req service.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат данных", http.StatusBadRequest)
		return
	}
	if req.UserID == 0 {
		req.UserID = existing.UserID
	}

	post, err := h.PostService.UpdatePost(r.Context(), postID, req)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

// DeletePost удаляет пост вместе с файлами в объектном хранилище.
// Строки media снесёт каскад в БД, объекты чистим после коммита.
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор поста", http.StatusBadRequest)
		return
	}

	existing, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	userID, role, _ := identity(r)
	if role != models.RoleAdmin && existing.UserID != userID {
		WriteError(w, "Удалить пост может только его автор", http.StatusForbidden)
		return
	}

	media, err := h.MediaService.ListByPost(r.Context(), postID)
	if err != nil {
		h.Logger.Warn().Err(err).Int64("postId", postID).Msg("не удалось получить медиа перед удалением поста")
	}

	if err := h.PostService.DeletePost(r.Context(), postID); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.MediaService.CleanupPostObjects(r.Context(), media)

	WriteSuccess(w, MessageResponse{Message: "Пост удалён"}, http.StatusOK)
}

func (h *Handlers) GetPublishedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.GetPublishedPosts(r.Context())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetFeaturedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.GetFeaturedPosts(r.Context())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetFeaturedByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор категории", http.StatusBadRequest)
		return
	}

	posts, err := h.PostService.GetFeaturedByCategory(r.Context(), categoryID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetRecentBySubcategory(w http.ResponseWriter, r *http.Request) {
	subcategoryID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор подкатегории", http.StatusBadRequest)
		return
	}

	posts, err := h.PostService.GetRecentBySubcategory(r.Context(), subcategoryID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}
