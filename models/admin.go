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
	"gorm.io/gorm/clause"
)

type Admin struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      AdminRole `gorm:"size:20;not null" json:"role"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type AdminLoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin checks credentials and returns the admin plus a signed session
// token. Unknown email and wrong password collapse into one error so the
// login form can't be used to probe for accounts.
func AdminLogin(ctx context.Context, input AdminLoginInput) (*Admin, string, error) {
	db := config.GetDB()
	var admin Admin
	err := db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).
		Take(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", utils.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := utils.ComparePassword(admin.Password, input.Password); err != nil {
		return nil, "", utils.ErrInvalidCredentials
	}
	token, err := utils.JwtGenerate(admin.ID, string(admin.Role))
	if err != nil {
		return nil, "", err
	}
	return &admin, token, nil
}

func GetAdminById(ctx context.Context, id string) (*Admin, error) {
	db := config.GetDB()
	var admin Admin
	err := db.WithContext(ctx).Where("id = ?", id).Take(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &admin, nil
}

type AdminProfileUpdate struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UpdateAdminProfile lets an admin change their own display name, phone and
// password. Role and email are fixed; those change only through seeding.
func UpdateAdminProfile(ctx context.Context, adminId string, input AdminProfileUpdate) (*Admin, error) {
	updates := map[string]interface{}{}
	if strings.TrimSpace(input.Name) != "" {
		updates["name"] = strings.TrimSpace(input.Name)
	}
	if strings.TrimSpace(input.Phone) != "" {
		updates["phone"] = strings.TrimSpace(input.Phone)
	}
	if input.Password != "" {
		if len(input.Password) < 8 {
			return nil, utils.NewValidationError("password must be at least 8 characters")
		}
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	if len(updates) == 0 {
		return GetAdminById(ctx, adminId)
	}
	db := config.GetDB()
	res := db.WithContext(ctx).Model(&Admin{}).Where("id = ?", adminId).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return GetAdminById(ctx, adminId)
}

func ListAdmins(ctx context.Context) ([]Admin, error) {
	db := config.GetDB()
	var admins []Admin
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// UpsertAdmin creates or refreshes an admin account keyed by email. Used by
// the seed command; password must already be hashed.
func UpsertAdmin(ctx context.Context, admin *Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	db := config.GetDB()
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password", "role", "phone"}),
	}).Create(admin).Error
}
