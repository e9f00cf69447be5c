package storage

import (
	"context"
	"errors"
	"fmt"

	"learnhub/logger"
	"learnhub/models"

	"gorm.io/gorm"
)

var ErrContentType = errors.New("content type not allowed for this upload type")

// Service issues upload targets and tracks the resulting media assets.
type Service struct {
	db        *gorm.DB
	presigner Presigner
	log       *logger.Logger
}

func NewService(db *gorm.DB, presigner Presigner, log *logger.Logger) *Service {
	return &Service{db: db, presigner: presigner, log: log.With("service", "StorageService")}
}

func (s *Service) Presigner() Presigner { return s.presigner }

// Presign validates the requested type, signs an upload target and records a
// pending media asset for it.
func (s *Service) Presign(ctx context.Context, uploaderID uint, filename, contentType, kind string) (*PresignedPost, *models.MediaAsset, error) {
	if !AllowedContentType(kind, contentType) {
		return nil, nil, ErrContentType
	}
	key := ObjectKey(kind, uploaderID, filename)

	post, err := s.presigner.PresignPost(ctx, key, contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("presign %s: %w", key, err)
	}

	asset := models.MediaAsset{
		Key:         key,
		Filename:    filename,
		ContentType: contentType,
		Kind:        kind,
		URL:         s.presigner.ObjectURL(key),
		UploaderID:  uploaderID,
		Status:      models.MediaStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		return nil, nil, fmt.Errorf("record media asset: %w", err)
	}
	s.log.Debug("upload presigned", "key", key, "kind", kind, "uploader_id", uploaderID)
	return post, &asset, nil
}

// MarkUploaded flips a pending asset to uploaded once its bytes are stored.
func (s *Service) MarkUploaded(ctx context.Context, key string, size int64) error {
	res := s.db.WithContext(ctx).Model(&models.MediaAsset{}).
		Where(&models.MediaAsset{Key: key}).
		Updates(map[string]interface{}{"status": models.MediaStatusUploaded, "size": size})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
