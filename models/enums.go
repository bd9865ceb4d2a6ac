package models

// Status vocabulary is a closed enumeration persisted as-is; values must
// round-trip exactly for compatibility with the existing member portal.

type MemberStatus string

const (
	MemberStatusPending        MemberStatus = "PENDING"
	MemberStatusApproved       MemberStatus = "APPROVED"
	MemberStatusRejected       MemberStatus = "REJECTED"
	MemberStatusPaymentPending MemberStatus = "PAYMENT_PENDING"
	MemberStatusActive         MemberStatus = "ACTIVE"
)

// SettableByAdmin reports whether the status can be requested through the
// member-status endpoint. PAYMENT_PENDING and ACTIVE are driven by the
// payment flow, not by admin status updates.
func (s MemberStatus) SettableByAdmin() bool {
	switch s {
	case MemberStatusPending, MemberStatusApproved, MemberStatusRejected:
		return true
	}
	return false
}

// OtpRequestable reports whether a member in this status may start an OTP
// login. Applications still under review (or rejected) cannot log in.
func (s MemberStatus) OtpRequestable() bool {
	switch s {
	case MemberStatusApproved, MemberStatusActive:
		return true
	}
	return false
}

// SessionEligible additionally admits PAYMENT_PENDING so a member who already
// submitted a payment can log back in to check on it.
func (s MemberStatus) SessionEligible() bool {
	switch s {
	case MemberStatusApproved, MemberStatusActive, MemberStatusPaymentPending:
		return true
	}
	return false
}

type MemberType string

const (
	MemberTypeNew      MemberType = "NEW"
	MemberTypeExisting MemberType = "EXISTING"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "SUPER_ADMIN"
	AdminRolePresident  AdminRole = "PRESIDENT"
	AdminRoleSecretary  AdminRole = "SECRETARY"
	AdminRoleTreasurer  AdminRole = "TREASURER"
)

// RoleMember is the JWT role claim for member sessions.
const RoleMember = "MEMBER"

type GalleryItemType string

const (
	GalleryItemTypePhoto GalleryItemType = "PHOTO"
	GalleryItemTypeVideo GalleryItemType = "VIDEO"
)

type OfficeBearerLevel string

const (
	OfficeBearerLevelState    OfficeBearerLevel = "STATE"
	OfficeBearerLevelDistrict OfficeBearerLevel = "DISTRICT"
)

type NotificationChannel string

const (
	NotificationChannelSMS      NotificationChannel = "SMS"
	NotificationChannelWhatsApp NotificationChannel = "WHATSAPP"
	NotificationChannelEmail    NotificationChannel = "EMAIL"
)

type NotificationStatus string

const (
	NotificationStatusPending    NotificationStatus = "PENDING"
	NotificationStatusProcessing NotificationStatus = "PROCESSING"
	NotificationStatusSent       NotificationStatus = "SENT"
	NotificationStatusFailed     NotificationStatus = "FAILED"
	NotificationStatusDead       NotificationStatus = "DEAD"
)
