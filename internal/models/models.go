package models

import (
	"time"
)

// Статусы поста
const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
	StatusArchived  = "Archived"
)

// Статусы комментария
const (
	CommentPending  = "Pending"
	CommentApproved = "Approved"
	CommentRejected = "Rejected"
)

// Роли пользователей
const (
	RoleAdmin  = "Admin"
	RoleAuthor = "Author"
	RoleReader = "Reader"
)

type User struct {
	UserID                 int64     `json:"userId" db:"user_id"`
	Username               string    `json:"username" db:"username"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	Role                   string    `json:"role" db:"role"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

type Category struct {
	CategoryID int64  `json:"categoryId" db:"category_id"`
	Name       string `json:"name" db:"name"`
}

type Subcategory struct {
	SubcategoryID int64  `json:"subcategoryId" db:"subcategory_id"`
	CategoryID    int64  `json:"categoryId" db:"category_id"`
	Name          string `json:"name" db:"name"`
}

type Post struct {
	PostID        int64     `json:"postId" db:"post_id"`
	UserID        int64     `json:"userId" db:"user_id"`
	CategoryID    *int64    `json:"categoryId" db:"category_id"`
	SubcategoryID *int64    `json:"subcategoryId" db:"subcategory_id"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	Status        string    `json:"status" db:"status"`
	Featured      bool      `json:"featured" db:"featured"`
	CreatedAtDate time.Time `json:"createdAtDate" db:"created_at_date"`
	UpdatedAtDate time.Time `json:"updatedAtDate" db:"updated_at_date"`
	Tags          []Tag     `json:"tags,omitempty" db:"-"`
	Media         []Media   `json:"media,omitempty" db:"-"`
}

type Tag struct {
	TagID int64  `json:"tagId" db:"tag_id"`
	Name  string `json:"name" db:"name"`
}

// TagCount - тег со счётчиком использования
type TagCount struct {
	TagID int64  `json:"tagId" db:"tag_id"`
	Name  string `json:"name" db:"name"`
	Posts int64  `json:"posts" db:"posts"`
}

type Comment struct {
	CommentID int64     `json:"commentId" db:"comment_id"`
	PostID    int64     `json:"postId" db:"post_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Media struct {
	MediaID   int64     `json:"mediaId" db:"media_id"`
	PostID    *int64    `json:"postId" db:"post_id"`
	URL       string    `json:"url" db:"url"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MediaInput - описание медиа в теле запроса создания/обновления поста
type MediaInput struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Stats - сводная статистика по системе
type Stats struct {
	PostsByStatus   map[string]int64 `json:"postsByStatus"`
	PendingComments int64            `json:"pendingComments"`
	Users           int64            `json:"users"`
	PostsByCategory []CategoryCount  `json:"postsByCategory"`
	TopTags         []TagCount       `json:"topTags"`
}

type CategoryCount struct {
	CategoryID int64  `json:"categoryId" db:"category_id"`
	Name       string `json:"name" db:"name"`
	Posts      int64  `json:"posts" db:"posts"`
}

func ValidPostStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

func ValidCommentStatus(status string) bool {
	switch status {
	case CommentPending, CommentApproved, CommentRejected:
		return true
	}
	return false
}
