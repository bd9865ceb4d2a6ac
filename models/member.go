package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	CompanyName  string       `gorm:"size:255;not null" json:"company_name"`
	CompanyType  string       `gorm:"size:100;not null" json:"company_type"`
	MemberType   MemberType   `gorm:"size:20;not null;default:NEW" json:"member_type"`
	MembershipId *string      `gorm:"size:20;uniqueIndex" json:"membership_id"`
	Status       MemberStatus `gorm:"size:20;not null;default:PENDING" json:"status"`

	AddressBuilding string `gorm:"size:255" json:"address_building"`
	AddressArea     string `gorm:"size:255" json:"address_area"`
	District        string `gorm:"size:100" json:"district"`
	Unit            string `gorm:"size:100" json:"unit"`
	Pincode         string `gorm:"size:10" json:"pincode"`

	PrimaryMobile string `gorm:"size:20;not null;uniqueIndex" json:"primary_mobile"`
	PrimaryEmail  string `gorm:"size:255;not null;uniqueIndex" json:"primary_email"`
	GstNumber     string `gorm:"size:20;not null;uniqueIndex" json:"gst_number"`
	GstFile       string `gorm:"size:512;not null" json:"gst_file"`

	ApprovalPresident bool `gorm:"not null;default:false" json:"approval_president"`
	ApprovalSecretary bool `gorm:"not null;default:false" json:"approval_secretary"`
	ApprovalTreasurer bool `gorm:"not null;default:false" json:"approval_treasurer"`

	Partners []Partner `gorm:"foreignKey:MemberId" json:"partners"`
	Payments []Payment `gorm:"foreignKey:MemberId" json:"payments"`

	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Partner struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	MemberId  string    `gorm:"size:36;index;not null" json:"member_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     *string   `gorm:"size:20" json:"phone"`
	Email     *string   `gorm:"size:255" json:"email"`
	PhotoFile *string   `gorm:"size:512" json:"photo_file"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewPartner struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	PhotoFile string `json:"photoFile"`
}

type NewMember struct {
	CompanyName     string       `json:"companyName" binding:"required"`
	CompanyType     string       `json:"companyType" binding:"required"`
	MemberType      MemberType   `json:"memberType"`
	MembershipId    string       `json:"membershipId"`
	AddressBuilding string       `json:"addressBuilding"`
	AddressArea     string       `json:"addressArea"`
	District        string       `json:"district"`
	Unit            string       `json:"unit"`
	Pincode         string       `json:"pincode"`
	PrimaryMobile   string       `json:"primaryMobile" binding:"required"`
	PrimaryEmail    string       `json:"primaryEmail" binding:"required"`
	GstNumber       string       `json:"gstNumber" binding:"required"`
	GstFile         string       `json:"-"`
	Partners        []NewPartner `json:"partners" binding:"dive"`
}

func (input *NewMember) validate() error {
	if input.GstFile == "" {
		return utils.NewValidationError("GST document is required")
	}
	if len(input.Partners) < 1 {
		return utils.NewValidationError("at least one partner is required")
	}
	if !utils.IsValidEmail(input.PrimaryEmail) {
		return utils.NewValidationError("invalid email address")
	}
	if err := utils.ValidatePhoneNumber(input.PrimaryMobile, ""); err != nil {
		return utils.NewValidationError(err.Error())
	}
	if input.MemberType == "" {
		input.MemberType = MemberTypeNew
	}
	if input.MemberType != MemberTypeNew && input.MemberType != MemberTypeExisting {
		return utils.NewValidationError("invalid member type")
	}
	return nil
}

// RegisterMember creates the Member and its Partner rows in one transaction.
// Uniqueness of mobile/email/GST/membership id is enforced by the DB unique
// indexes; a duplicate-key failure surfaces as ErrDuplicateMember with no
// partial writes.
func RegisterMember(ctx context.Context, input *NewMember) (*Member, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	member := Member{
		ID:              uuid.NewString(),
		CompanyName:     input.CompanyName,
		CompanyType:     input.CompanyType,
		MemberType:      input.MemberType,
		MembershipId:    utils.NilIfEmpty(input.MembershipId),
		Status:          MemberStatusPending,
		AddressBuilding: input.AddressBuilding,
		AddressArea:     input.AddressArea,
		District:        input.District,
		Unit:            input.Unit,
		Pincode:         input.Pincode,
		PrimaryMobile:   input.PrimaryMobile,
		PrimaryEmail:    input.PrimaryEmail,
		GstNumber:       input.GstNumber,
		GstFile:         input.GstFile,
	}
	for _, p := range input.Partners {
		member.Partners = append(member.Partners, Partner{
			ID:        uuid.NewString(),
			Name:      p.Name,
			Phone:     utils.NilIfEmpty(p.Phone),
			Email:     utils.NilIfEmpty(p.Email),
			PhotoFile: utils.NilIfEmpty(p.PhotoFile),
		})
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&member).Error; err != nil {
		tx.Rollback()
		if isDuplicateKeyError(err) {
			return nil, utils.ErrDuplicateMember
		}
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// Fire-and-forget: the registrant never sees notification failures.
	NotifyAdminsNewApplication(ctx, member.CompanyName)

	return &member, nil
}

func isDuplicateKeyError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func GetMemberById(ctx context.Context, id string) (*Member, error) {
	db := config.GetDB()
	var member Member
	err := db.WithContext(ctx).
		Preload("Partners").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		Take(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindMemberByIdentifier looks a member up by mobile, email or membership id
// (the OTP login identifier).
func FindMemberByIdentifier(ctx context.Context, identifier string) (*Member, error) {
	db := config.GetDB()
	var member Member
	err := db.WithContext(ctx).
		Where("primary_mobile = ? OR primary_email = ? OR membership_id = ?", identifier, identifier, identifier).
		Take(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ListMembers returns all members, newest application first, with partners and
// payment history preloaded for the admin dashboard.
func ListMembers(ctx context.Context) ([]Member, error) {
	db := config.GetDB()
	var members []Member
	err := db.WithContext(ctx).
		Preload("Partners").
		Preload("Payments").
		Order("joined_at DESC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

type MemberAddressUpdate struct {
	AddressBuilding string `json:"addressBuilding"`
	AddressArea     string `json:"addressArea"`
	District        string `json:"district"`
	Unit            string `json:"unit"`
	Pincode         string `json:"pincode"`
}

func UpdateMemberAddress(ctx context.Context, memberId string, input MemberAddressUpdate) (*Member, error) {
	db := config.GetDB()
	res := db.WithContext(ctx).Model(&Member{}).
		Where("id = ?", memberId).
		Updates(map[string]interface{}{
			"address_building": input.AddressBuilding,
			"address_area":     input.AddressArea,
			"district":         input.District,
			"unit":             input.Unit,
			"pincode":          input.Pincode,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return GetMemberById(ctx, memberId)
}
