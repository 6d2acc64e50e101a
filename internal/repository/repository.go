package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"newsroomCMS/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID int64) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagNames []string, media []models.MediaInput) error
	Update(ctx context.Context, post *models.Post, tagNames []string, media []models.MediaInput) error
	Delete(ctx context.Context, postID int64) error
	GetByID(ctx context.Context, postID int64) (*models.Post, error)
	GetAll(ctx context.Context) ([]models.Post, error)
	GetPublished(ctx context.Context) ([]models.Post, error)
	GetFeatured(ctx context.Context, limit int) ([]models.Post, error)
	GetFeaturedByCategory(ctx context.Context, categoryID int64, limit int) ([]models.Post, error)
	GetRecentBySubcategory(ctx context.Context, subcategoryID int64, limit int) ([]models.Post, error)
	Search(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
}

type TaxonomyRepository interface {
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, categoryID int64, name string) error
	DeleteCategory(ctx context.Context, categoryID int64) error
	CreateSubcategory(ctx context.Context, categoryID int64, name string) (*models.Subcategory, error)
	GetSubcategories(ctx context.Context, categoryID int64) ([]models.Subcategory, error)
	DeleteSubcategory(ctx context.Context, subcategoryID int64) error
}

type TagRepository interface {
	ListWithCounts(ctx context.Context) ([]models.TagCount, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	GetByPostID(ctx context.Context, postID int64, onlyApproved bool) ([]models.Comment, error)
	UpdateStatus(ctx context.Context, commentID int64, status string) error
	Delete(ctx context.Context, commentID int64) error
}

type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, mediaID int64) (*models.Media, error)
	GetByPostID(ctx context.Context, postID int64) ([]models.Media, error)
	Delete(ctx context.Context, mediaID int64) error
}

type StatsRepository interface {
	Collect(ctx context.Context) (*models.Stats, error)
}

type Repository struct {
	User     UserRepository
	Post     PostRepository
	Taxonomy TaxonomyRepository
	Tag      TagRepository
	Comment  CommentRepository
	Media    MediaRepository
	Stats    StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(db),
		Taxonomy: NewTaxonomyRepository(db),
		Tag:      NewTagRepository(db),
		Comment:  NewCommentRepository(db),
		Media:    NewMediaRepository(db),
		Stats:    NewStatsRepository(db),
	}
}
