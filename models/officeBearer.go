package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OfficeBearer is a committee member shown on the public site, either at
// state level or for a district unit.
type OfficeBearer struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	Position  string            `gorm:"size:100;not null" json:"position"`
	Level     OfficeBearerLevel `gorm:"size:20;not null;default:STATE" json:"level"`
	District  string            `gorm:"size:100" json:"district"`
	Phone     string            `gorm:"size:20" json:"phone"`
	PhotoFile *string           `gorm:"size:512" json:"photo_file"`
	SortOrder int               `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type OfficeBearerInput struct {
	Name      string            `json:"name" binding:"required"`
	Position  string            `json:"position" binding:"required"`
	Level     OfficeBearerLevel `json:"level"`
	District  string            `json:"district"`
	Phone     string            `json:"phone"`
	PhotoFile string            `json:"photoFile"`
	SortOrder int               `json:"sortOrder"`
}

func (in *OfficeBearerInput) validate() error {
	if in.Level == "" {
		in.Level = OfficeBearerLevelState
	}
	if in.Level != OfficeBearerLevelState && in.Level != OfficeBearerLevelDistrict {
		return utils.NewValidationError("invalid level")
	}
	if in.Level == OfficeBearerLevelDistrict && in.District == "" {
		return utils.NewValidationError("district is required for district-level bearers")
	}
	return nil
}

func CreateOfficeBearer(ctx context.Context, input *OfficeBearerInput) (*OfficeBearer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	bearer := OfficeBearer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Position:  input.Position,
		Level:     input.Level,
		District:  input.District,
		Phone:     input.Phone,
		PhotoFile: utils.NilIfEmpty(input.PhotoFile),
		SortOrder: input.SortOrder,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&bearer).Error; err != nil {
		return nil, err
	}
	return &bearer, nil
}

func UpdateOfficeBearer(ctx context.Context, id string, input *OfficeBearerInput) (*OfficeBearer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	db := config.GetDB()
	updates := map[string]interface{}{
		"name":       input.Name,
		"position":   input.Position,
		"level":      input.Level,
		"district":   input.District,
		"phone":      input.Phone,
		"sort_order": input.SortOrder,
	}
	if input.PhotoFile != "" {
		updates["photo_file"] = input.PhotoFile
	}
	res := db.WithContext(ctx).Model(&OfficeBearer{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return GetOfficeBearerById(ctx, id)
}

func GetOfficeBearerById(ctx context.Context, id string) (*OfficeBearer, error) {
	db := config.GetDB()
	var bearer OfficeBearer
	err := db.WithContext(ctx).Where("id = ?", id).Take(&bearer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &bearer, nil
}

// ListOfficeBearers returns bearers for one level (optionally one district),
// in the display order curated by the admins.
func ListOfficeBearers(ctx context.Context, level OfficeBearerLevel, district string) ([]OfficeBearer, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Order("sort_order ASC, created_at ASC")
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if district != "" {
		q = q.Where("district = ?", district)
	}
	var bearers []OfficeBearer
	if err := q.Find(&bearers).Error; err != nil {
		return nil, err
	}
	return bearers, nil
}

func DeleteOfficeBearer(ctx context.Context, id string) error {
	db := config.GetDB()
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&OfficeBearer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
