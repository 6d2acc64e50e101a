package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"newsroomCMS/internal/models"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type subcategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.TaxonomyRepo.GetCategories(r.Context())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if categories == nil {
		categories = []models.Category{}
	}

	WriteSuccess(w, categories, http.StatusOK)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат данных", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Ошибка валидации: "+err.Error(), http.StatusBadRequest)
		return
	}

	category, err := h.TaxonomyRepo.CreateCategory(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, category, http.StatusCreated)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор категории", http.StatusBadRequest)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат данных", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Ошибка валидации: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.TaxonomyRepo.UpdateCategory(r.Context(), categoryID, strings.TrimSpace(req.Name)); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, models.Category{CategoryID: categoryID, Name: strings.TrimSpace(req.Name)}, http.StatusOK)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор категории", http.StatusBadRequest)
		return
	}

	if err := h.TaxonomyRepo.DeleteCategory(r.Context(), categoryID); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Категория удалена"}, http.StatusOK)
}

func (h *Handlers) GetSubcategories(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор категории", http.StatusBadRequest)
		return
	}

	subcategories, err := h.TaxonomyRepo.GetSubcategories(r.Context(), categoryID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if subcategories == nil {
		subcategories = []models.Subcategory{}
	}

	WriteSuccess(w, subcategories, http.StatusOK)
}

func (h *Handlers) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор категории", http.StatusBadRequest)
		return
	}

	var req subcategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат данных", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Ошибка валидации: "+err.Error(), http.StatusBadRequest)
		return
	}

	subcategory, err := h.TaxonomyRepo.CreateSubcategory(r.Context(), categoryID, strings.TrimSpace(req.Name))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, subcategory, http.StatusCreated)
}

func (h *Handlers) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	subcategoryID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Неверный идентификатор подкатегории", http.StatusBadRequest)
		return
	}

	if err := h.TaxonomyRepo.DeleteSubcategory(r.Context(), subcategoryID); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Подкатегория удалена"}, http.StatusOK)
}

// GetTags возвращает все теги со счётчиками использования
func (h *Handlers) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.TagRepo.ListWithCounts(r.Context())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if tags == nil {
		tags = []models.TagCount{}
	}

	WriteSuccess(w, tags, http.StatusOK)
}
