package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"webstarter/internal/auth"
	"webstarter/internal/logger"
	"webstarter/internal/models"
	"webstarter/internal/repositories"
	"webstarter/internal/services/dto"
	"webstarter/internal/storage"
	"webstarter/pkg/apperrors"
)

// MaxFileSize - лимит по умолчанию (5MB).
const MaxFileSize int64 = 5 * 1024 * 1024

const presignExpiry = time.Hour

// Допустимые MIME-типы.
var (
	ImageTypes    = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	DocumentTypes = []string{"application/pdf", "application/msword", "text/plain"}
	AllFileTypes  = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "application/pdf"}
)

// FileRules - ограничения для ValidateFile. Zero values mean the defaults.
type FileRules struct {
	MaxSize      int64
	AllowedTypes []string
}

func (r FileRules) withDefaults() FileRules {
	if r.MaxSize <= 0 {
		r.MaxSize = MaxFileSize
	}
	if len(r.AllowedTypes) == 0 {
		r.AllowedTypes = AllFileTypes
	}
	return r
}

// ValidateFile проверяет размер и тип файла.
func ValidateFile(size int64, contentType string, rules FileRules) error {
	rules = rules.withDefaults()

	if size > rules.MaxSize {
		return apperrors.Validation(
			fmt.Sprintf("File size exceeds %gMB", float64(rules.MaxSize)/1024/1024),
			"file",
			map[string]any{"maxSize": rules.MaxSize, "size": size},
		)
	}

	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for _, t := range rules.AllowedTypes {
		if strings.EqualFold(base, t) {
			return nil
		}
	}
	return apperrors.Validation("File type not allowed", "file", map[string]any{"contentType": base})
}

const fileNameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateFileName - "<unix-ms>-<random>.<ext>". Names without an
// extension get no suffix.
func GenerateFileName(originalName string, now time.Time) string {
	suffix := make([]byte, 12)
	n := big.NewInt(int64(len(fileNameAlphabet)))
	for i := range suffix {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		suffix[i] = fileNameAlphabet[idx.Int64()]
	}

	name := fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), ".")); ext != "" {
		name += "." + ext
	}
	return name
}

// FileInfo - то, что известно о файле до чтения содержимого.
type FileInfo struct {
	Name string
	Size int64
}

type UploadService interface {
	// Upload stores the file under folder (default "users/<id>").
	Upload(ctx context.Context, content io.Reader, info FileInfo, folder string) (*dto.UploadResponse, error)
	Delete(ctx context.Context, key string) error
	Presign(ctx context.Context, req *dto.PresignRequest) (*dto.PresignResponse, error)
}

type uploadService struct {
	uploads repositories.UploadRepository
	storage storage.Storage
	guard   *auth.Guard
	rules   FileRules
	now     func() time.Time
}

func NewUploadService(uploads repositories.UploadRepository, st storage.Storage, guard *auth.Guard, rules FileRules) UploadService {
	return &uploadService{
		uploads: uploads,
		storage: st,
		guard:   guard,
		rules:   rules.withDefaults(),
		now:     time.Now,
	}
}

func (s *uploadService) Upload(ctx context.Context, content io.Reader, info FileInfo, folder string) (*dto.UploadResponse, error) {
	user, err := s.guard.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	// тип определяем по содержимому, а не по заголовку клиента
	head := make([]byte, 3072)
	n, err := io.ReadFull(content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	contentType := mimetype.Detect(head).String()

	if err := ValidateFile(info.Size, contentType, s.rules); err != nil {
		return nil, err
	}

	key := s.key(user, folder, info.Name)
	body := io.MultiReader(bytes.NewReader(head), content)
	if err := s.storage.Save(ctx, key, body, contentType); err != nil {
		return nil, err
	}

	url := s.storage.URL(key)
	record := &models.Upload{
		UserID:          user.ID,
		Key:             key,
		URL:             url,
		OriginalName:    info.Name,
		MimeType:        contentType,
		Size:            info.Size,
		StorageProvider: s.storage.Provider(),
	}
	if err := s.uploads.Save(ctx, record); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWithError(ctx, "failed to remove orphaned file", delErr, "key", key)
		}
		return nil, err
	}

	logger.CtxInfo(ctx, "file uploaded", "key", key, "size", info.Size, "mime", contentType)
	return &dto.UploadResponse{URL: url, Key: key}, nil
}

func (s *uploadService) Delete(ctx context.Context, key string) error {
	key, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	if _, err := s.guard.RequireAuthenticated(ctx); err != nil {
		return err
	}

	record, err := s.uploads.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	if _, err := s.guard.RequireOwnership(ctx, record.UserID); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return err
	}
	return s.uploads.DeleteByKey(ctx, key)
}

func (s *uploadService) Presign(ctx context.Context, req *dto.PresignRequest) (*dto.PresignResponse, error) {
	user, err := s.guard.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateFile(req.Size, req.ContentType, s.rules); err != nil {
		return nil, err
	}

	key := s.key(user, req.Folder, req.FileName)
	uploadURL, err := s.storage.PresignPut(ctx, key, req.ContentType, presignExpiry)
	if err != nil {
		return nil, err
	}

	record := &models.Upload{
		UserID:          user.ID,
		Key:             key,
		URL:             s.storage.URL(key),
		OriginalName:    req.FileName,
		MimeType:        req.ContentType,
		Size:            req.Size,
		StorageProvider: s.storage.Provider(),
		Pending:         true,
	}
	if err := s.uploads.Save(ctx, record); err != nil {
		return nil, err
	}

	return &dto.PresignResponse{
		UploadURL: uploadURL,
		Key:       key,
		URL:       record.URL,
		ExpiresAt: s.now().Add(presignExpiry),
	}, nil
}

func (s *uploadService) key(user *auth.SessionUser, folder, originalName string) string {
	if folder == "" {
		folder = "users/" + user.ID
	} else {
		folder = path.Join("users", user.ID, folder)
	}
	return path.Join(folder, GenerateFileName(originalName, s.now()))
}
