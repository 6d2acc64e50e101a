package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"newsroomCMS/internal/config"
)

type Storage interface {
	Upload(ctx context.Context, postID int64, fileName, contentType string, file io.Reader, size int64) (string, string, error)
	Delete(ctx context.Context, objectName string) error
	ObjectNameFromURL(url string) string
}

type MinIOClient struct {
	client *minio.Client
	cfg    *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании клиента MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка при создании bucket: %w", err)
		}
	}

	return &MinIOClient{client: client, cfg: cfg}, nil
}

// Upload кладёт файл в хранилище и возвращает имя объекта и публичный URL
func (m *MinIOClient) Upload(ctx context.Context, postID int64, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))

	now := time.Now()
	objectName := fmt.Sprintf("posts/%d/%d/%02d/%s%s",
		postID,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)

	_, err := m.client.PutObject(ctx, m.cfg.MinIO.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"post-id":           fmt.Sprintf("%d", postID),
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s",
		strings.TrimSuffix(m.cfg.MinIO.PublicURL, "/"),
		m.cfg.MinIO.BucketName,
		objectName)

	return objectName, url, nil
}

func (m *MinIOClient) Delete(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.cfg.MinIO.BucketName, objectName,
		minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}

// ObjectNameFromURL восстанавливает имя объекта из публичного URL;
// пустая строка означает чужой или неразборчивый URL
func (m *MinIOClient) ObjectNameFromURL(url string) string {
	prefix := fmt.Sprintf("%s/%s/",
		strings.TrimSuffix(m.cfg.MinIO.PublicURL, "/"),
		m.cfg.MinIO.BucketName)

	if !strings.HasPrefix(url, prefix) {
		return ""
	}

	return strings.TrimPrefix(url, prefix)
}
