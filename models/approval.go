package models

import (
	"context"
	"errors"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApprovalVote is one officer's vote on a membership application. Each officer
// role owns exactly one flag; SUPER_ADMIN may cast any of them. Votes are
// explicit types rather than stringly-keyed field writes so the authorization
// predicate travels with the flag it guards.
type ApprovalVote interface {
	Column() string
	Value() bool
	Authorized(role AdminRole) bool
}

type PresidentVote struct{ Approve bool }

func (v PresidentVote) Column() string { return "approval_president" }
func (v PresidentVote) Value() bool    { return v.Approve }
func (v PresidentVote) Authorized(role AdminRole) bool {
	return role == AdminRolePresident || role == AdminRoleSuperAdmin
}

type SecretaryVote struct{ Approve bool }

func (v SecretaryVote) Column() string { return "approval_secretary" }
func (v SecretaryVote) Value() bool    { return v.Approve }
func (v SecretaryVote) Authorized(role AdminRole) bool {
	return role == AdminRoleSecretary || role == AdminRoleSuperAdmin
}

type TreasurerVote struct{ Approve bool }

func (v TreasurerVote) Column() string { return "approval_treasurer" }
func (v TreasurerVote) Value() bool    { return v.Approve }
func (v TreasurerVote) Authorized(role AdminRole) bool {
	return role == AdminRoleTreasurer || role == AdminRoleSuperAdmin
}

// StatusUpdateInput is the "vote or finalize" request: any subset of the three
// flags, optionally bundled with a status change, in one call.
type StatusUpdateInput struct {
	Status            *MemberStatus `json:"status"`
	ApprovalPresident *bool         `json:"approvalPresident"`
	ApprovalSecretary *bool         `json:"approvalSecretary"`
	ApprovalTreasurer *bool         `json:"approvalTreasurer"`
}

func (in StatusUpdateInput) votes() []ApprovalVote {
	var votes []ApprovalVote
	if in.ApprovalPresident != nil {
		votes = append(votes, PresidentVote{Approve: *in.ApprovalPresident})
	}
	if in.ApprovalSecretary != nil {
		votes = append(votes, SecretaryVote{Approve: *in.ApprovalSecretary})
	}
	if in.ApprovalTreasurer != nil {
		votes = append(votes, TreasurerVote{Approve: *in.ApprovalTreasurer})
	}
	return votes
}

// effectiveApprovalCount counts true flags in the union of the stored member
// state and the votes bundled in the current request (bundled values win).
func effectiveApprovalCount(m *Member, votes []ApprovalVote) int {
	p, s, t := m.ApprovalPresident, m.ApprovalSecretary, m.ApprovalTreasurer
	for _, v := range votes {
		switch v.(type) {
		case PresidentVote:
			p = v.Value()
		case SecretaryVote:
			s = v.Value()
		case TreasurerVote:
			t = v.Value()
		}
	}
	count := 0
	for _, b := range []bool{p, s, t} {
		if b {
			count++
		}
	}
	return count
}

const approvalQuorum = 2

// buildStatusUpdates folds the votes and the requested status change into one
// column-update map. The APPROVED transition is withheld when the effective
// state is below quorum; the votes themselves still apply, so re-submitting
// the same vote is idempotent and never loses flags.
func buildStatusUpdates(member *Member, votes []ApprovalVote, status *MemberStatus) (map[string]interface{}, bool) {
	updates := map[string]interface{}{}
	for _, v := range votes {
		updates[v.Column()] = v.Value()
	}
	quorumRefused := false
	if status != nil {
		if *status == MemberStatusApproved {
			if effectiveApprovalCount(member, votes) < approvalQuorum {
				quorumRefused = true
			} else {
				updates["status"] = MemberStatusApproved
			}
		} else {
			updates["status"] = *status
		}
	}
	return updates, quorumRefused
}

// UpdateMemberStatus records bundled officer votes and, when requested, moves
// the member's status.
//
// Rules, in order:
//   - every bundled vote must be cast by an authorized role; a single
//     violation rejects the whole request with no partial application
//   - an unauthenticated caller may not cast votes (they are dropped), but the
//     request itself does not fail just for a missing/expired session
//   - REJECTED and PENDING are set unconditionally
//   - APPROVED requires >= 2 of the 3 flags true in the effective state
//     (stored flags plus this request's votes); on refusal the votes are
//     still persisted and only the status change is withheld
//
// The read-modify-write runs under a row lock in one transaction so two
// officers voting near-simultaneously cannot lose each other's flags.
func UpdateMemberStatus(ctx context.Context, memberId string, input StatusUpdateInput) (*Member, error) {
	votes := input.votes()

	role, authed := currentAdminRole(ctx)
	if !authed {
		// No verified session: role-restricted flags may not be set.
		votes = nil
	} else {
		for _, v := range votes {
			if !v.Authorized(role) {
				return nil, utils.ErrPermissionDenied
			}
		}
	}

	if input.Status != nil && !input.Status.SettableByAdmin() {
		return nil, utils.NewValidationError("invalid status")
	}

	db := config.GetDB()
	tx := db.Begin()

	var member Member
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", memberId).
		Take(&member).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	updates, quorumRefused := buildStatusUpdates(&member, votes, input.Status)

	if len(updates) > 0 {
		if err := tx.WithContext(ctx).Model(&Member{}).
			Where("id = ?", memberId).
			Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if quorumRefused {
		return nil, utils.ErrInsufficientApprovals
	}

	updated, err := GetMemberById(ctx, memberId)
	if err != nil {
		return nil, err
	}
	if _, changed := updates["status"]; changed {
		// Fire-and-forget: the applicant hears about the decision out of band.
		SendStatusNotification(ctx, updated)
	}
	return updated, nil
}

func currentAdminRole(ctx context.Context) (AdminRole, bool) {
	role, ok := utils.GetAdminRoleFromContext(ctx)
	if !ok || role == "" {
		return "", false
	}
	return AdminRole(role), true
}
