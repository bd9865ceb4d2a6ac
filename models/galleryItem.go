package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GalleryItem is a public gallery entry: an uploaded photo (with generated
// thumbnail) or an external video link.
type GalleryItem struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Type      GalleryItemType `gorm:"size:20;not null" json:"type"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	FileUrl   string          `gorm:"size:512;not null" json:"file_url"`
	ThumbUrl  *string         `gorm:"size:512" json:"thumb_url"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type GalleryItemInput struct {
	Type     GalleryItemType `json:"type" binding:"required"`
	Title    string          `json:"title" binding:"required"`
	FileUrl  string          `json:"fileUrl"`
	ThumbUrl string          `json:"thumbUrl"`
}

func (in *GalleryItemInput) validate() error {
	switch in.Type {
	case GalleryItemTypePhoto, GalleryItemTypeVideo:
	default:
		return utils.NewValidationError("invalid gallery item type")
	}
	if strings.TrimSpace(in.FileUrl) == "" {
		return utils.NewValidationError("fileUrl is required")
	}
	return nil
}

func CreateGalleryItem(ctx context.Context, input *GalleryItemInput) (*GalleryItem, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	item := GalleryItem{
		ID:       uuid.NewString(),
		Type:     input.Type,
		Title:    input.Title,
		FileUrl:  input.FileUrl,
		ThumbUrl: utils.NilIfEmpty(input.ThumbUrl),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func ListGalleryItems(ctx context.Context, itemType GalleryItemType) ([]GalleryItem, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Order("created_at DESC")
	if itemType != "" {
		q = q.Where("type = ?", itemType)
	}
	var items []GalleryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func DeleteGalleryItem(ctx context.Context, id string) error {
	db := config.GetDB()
	var item GalleryItem
	err := db.WithContext(ctx).Where("id = ?", id).Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorRecordNotFound
		}
		return err
	}
	if err := db.WithContext(ctx).Delete(&item).Error; err != nil {
		return err
	}
	return nil
}
