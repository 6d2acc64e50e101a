package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
	"newsroomCMS/internal/repository"
	"newsroomCMS/internal/storage"
)

// Разрешённые типы вложений: изображения плюс markdown-файлы
var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type MediaService interface {
	Attach(ctx context.Context, postID int64, fileName string, file io.Reader, size int64) (*models.Media, error)
	Remove(ctx context.Context, mediaID, requesterID int64, requesterRole string) error
	ListByPost(ctx context.Context, postID int64) ([]models.Media, error)
	CleanupPostObjects(ctx context.Context, media []models.Media)
}

type mediaService struct {
	mediaRepo repository.MediaRepository
	postRepo  repository.PostRepository
	storage   storage.Storage
	logger    zerolog.Logger
}

func NewMediaService(mediaRepo repository.MediaRepository, postRepo repository.PostRepository, store storage.Storage, logger zerolog.Logger) MediaService {
	return &mediaService{
		mediaRepo: mediaRepo,
		postRepo:  postRepo,
		storage:   store,
		logger:    logger,
	}
}

// Attach определяет тип файла по содержимому, кладёт его в объектное
// хранилище и записывает строку media. При ошибке записи в БД объект
// удаляется из хранилища.
func (m *mediaService) Attach(ctx context.Context, postID int64, fileName string, file io.Reader, size int64) (*models.Media, error) {
	if _, err := m.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла: %w", err)
	}

	mtype := mimetype.Detect(data)
	contentType := mtype.String()

	if !mediaTypeAllowed(fileName, contentType) {
		return nil, fmt.Errorf("неподдерживаемый тип файла %s: %w", contentType, errs.ErrValidation)
	}

	objectName, url, err := m.storage.Upload(ctx, postID, fileName, contentType, bytes.NewReader(data), size)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки медиа: %w", err)
	}

	media := &models.Media{
		PostID: &postID,
		URL:    url,
		Type:   contentType,
	}

	if err := m.mediaRepo.Create(ctx, media); err != nil {
		// компенсация: объект без строки в БД никому не нужен
		if delErr := m.storage.Delete(ctx, objectName); delErr != nil {
			m.logger.Warn().Err(delErr).Str("object", objectName).
				Msg("не удалось удалить объект после сбоя БД")
		}
		return nil, err
	}

	return media, nil
}

// Remove разрешён администратору и автору поста, к которому прикреплено медиа
func (m *mediaService) Remove(ctx context.Context, mediaID, requesterID int64, requesterRole string) error {
	media, err := m.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if requesterRole != models.RoleAdmin {
		if media.PostID == nil {
			return fmt.Errorf("удалять непривязанное медиа может только администратор: %w", errs.ErrForbidden)
		}
		post, err := m.postRepo.GetByID(ctx, *media.PostID)
		if err != nil {
			return err
		}
		if post.UserID != requesterID {
			return fmt.Errorf("удалять медиа может только автор поста: %w", errs.ErrForbidden)
		}
	}

	if objectName := m.storage.ObjectNameFromURL(media.URL); objectName != "" {
		if err := m.storage.Delete(ctx, objectName); err != nil {
			m.logger.Warn().Err(err).Str("object", objectName).
				Msg("не удалось удалить объект из хранилища")
		}
	}

	return m.mediaRepo.Delete(ctx, mediaID)
}

func (m *mediaService) ListByPost(ctx context.Context, postID int64) ([]models.Media, error) {
	return m.mediaRepo.GetByPostID(ctx, postID)
}

// CleanupPostObjects удаляет объекты хранилища по списку медиа уже
// удалённого поста; сбои только логируются
func (m *mediaService) CleanupPostObjects(ctx context.Context, media []models.Media) {
	for _, item := range media {
		objectName := m.storage.ObjectNameFromURL(item.URL)
		if objectName == "" {
			continue
		}
		if err := m.storage.Delete(ctx, objectName); err != nil {
			m.logger.Warn().Err(err).Str("object", objectName).
				Msg("не удалось удалить объект удалённого поста")
		}
	}
}

func mediaTypeAllowed(fileName, contentType string) bool {
	if allowedMediaTypes[contentType] {
		return true
	}

	// markdown определяется как text/plain, поэтому доверяем расширению
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".md" && strings.HasPrefix(contentType, "text/") {
		return true
	}

	return false
}
