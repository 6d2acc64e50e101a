package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
	"newsroomCMS/internal/repository"
)

const maxTitleLength = 255

type PostRequest struct {
	UserID        int64               `json:"userId"`
	CategoryID    *int64              `json:"categoryId"`
	SubcategoryID *int64              `json:"subcategoryId"`
	Title         string              `json:"title"`
	Content       string              `json:"content"`
	Status        string              `json:"status"`
	Featured      bool                `json:"featured"`
	Tags          []string            `json:"tags"`
	Media         []models.MediaInput `json:"media"`
}

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Pages  int64 `json:"pages"`
}

type PostService interface {
	CreatePost(ctx context.Context, req PostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, postID int64, req PostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	GetPost(ctx context.Context, postID int64) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPublishedPosts(ctx context.Context) ([]models.Post, error)
	GetFeaturedPosts(ctx context.Context) ([]models.Post, error)
	GetFeaturedByCategory(ctx context.Context, categoryID int64) ([]models.Post, error)
	GetRecentBySubcategory(ctx context.Context, subcategoryID int64) ([]models.Post, error)
	Search(ctx context.Context, filter repository.PostFilter) ([]models.Post, Pagination, error)
}

type postService struct {
	postRepo repository.PostRepository
	policy   *bluemonday.Policy
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{
		postRepo: postRepo,
		policy:   newContentPolicy(),
	}
}

// newContentPolicy - фиксированный безопасный набор разметки для контента
// статей: заголовки, абзацная разметка, списки, ссылки и img[src,alt].
// Всё остальное вырезается до записи в БД.
func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowElements("p", "br", "strong", "em", "b", "i", "blockquote")
	p.AllowLists()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	return p
}

func (p *postService) CreatePost(ctx context.Context, req PostRequest) (*models.Post, error) {
	post, err := p.buildPost(req)
	if err != nil {
		return nil, err
	}

	if err := p.postRepo.Create(ctx, post, req.Tags, req.Media); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) UpdatePost(ctx context.Context, postID int64, req PostRequest) (*models.Post, error) {
	post, err := p.buildPost(req)
	if err != nil {
		return nil, err
	}
	post.PostID = postID

	if err := p.postRepo.Update(ctx, post, req.Tags, req.Media); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) DeletePost(ctx context.Context, postID int64) error {
	return p.postRepo.Delete(ctx, postID)
}

func (p *postService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	return p.postRepo.GetByID(ctx, postID)
}

func (p *postService) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return p.postRepo.GetAll(ctx)
}

func (p *postService) GetPublishedPosts(ctx context.Context) ([]models.Post, error) {
	return p.postRepo.GetPublished(ctx)
}

func (p *postService) GetFeaturedPosts(ctx context.Context) ([]models.Post, error) {
	return p.postRepo.GetFeatured(ctx, 5)
}

func (p *postService) GetFeaturedByCategory(ctx context.Context, categoryID int64) ([]models.Post, error) {
	return p.postRepo.GetFeaturedByCategory(ctx, categoryID, 4)
}

func (p *postService) GetRecentBySubcategory(ctx context.Context, subcategoryID int64) ([]models.Post, error) {
	posts, err := p.postRepo.GetRecentBySubcategory(ctx, subcategoryID, 5)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("в подкатегории %d нет постов: %w", subcategoryID, errs.ErrNotFound)
	}
	return posts, nil
}

// Search проверяет параметры пагинации до обращения к БД
func (p *postService) Search(ctx context.Context, filter repository.PostFilter) ([]models.Post, Pagination, error) {
	if filter.Limit < 1 {
		return nil, Pagination{}, fmt.Errorf("limit должен быть не меньше 1: %w", errs.ErrValidation)
	}
	if filter.Offset < 0 {
		return nil, Pagination{}, fmt.Errorf("offset не может быть отрицательным: %w", errs.ErrValidation)
	}
	if filter.Status != "" && !models.ValidPostStatus(filter.Status) {
		return nil, Pagination{}, fmt.Errorf("недопустимый статус %q: %w", filter.Status, errs.ErrValidation)
	}

	posts, total, err := p.postRepo.Search(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}

	pagination := Pagination{
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Pages:  (total + int64(filter.Limit) - 1) / int64(filter.Limit),
	}

	return posts, pagination, nil
}

// buildPost валидирует тело запроса и собирает модель с очищенным контентом
func (p *postService) buildPost(req PostRequest) (*models.Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title обязателен: %w", errs.ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, fmt.Errorf("title длиннее %d символов: %w", maxTitleLength, errs.ErrValidation)
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("content обязателен: %w", errs.ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidPostStatus(status) {
		return nil, fmt.Errorf("недопустимый статус %q: %w", req.Status, errs.ErrValidation)
	}

	return &models.Post{
		UserID:        req.UserID,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Title:         title,
		Content:       p.policy.Sanitize(req.Content),
		Status:        status,
		Featured:      req.Featured,
	}, nil
}
