package models

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestVoteAuthorization(t *testing.T) {
	cases := []struct {
		vote ApprovalVote
		role AdminRole
		want bool
	}{
		{PresidentVote{true}, AdminRolePresident, true},
		{PresidentVote{true}, AdminRoleSuperAdmin, true},
		{PresidentVote{true}, AdminRoleSecretary, false},
		{PresidentVote{true}, AdminRoleTreasurer, false},
		{SecretaryVote{true}, AdminRoleSecretary, true},
		{SecretaryVote{true}, AdminRolePresident, false},
		{TreasurerVote{true}, AdminRoleTreasurer, true},
		{TreasurerVote{true}, AdminRoleSuperAdmin, true},
		{TreasurerVote{true}, AdminRoleSecretary, false},
	}
	for _, tc := range cases {
		if got := tc.vote.Authorized(tc.role); got != tc.want {
			t.Fatalf("%T authorized for %s: got %v, want %v", tc.vote, tc.role, got, tc.want)
		}
	}
}

func TestStatusUpdateInput_Votes(t *testing.T) {
	in := StatusUpdateInput{
		ApprovalPresident: boolPtr(true),
		ApprovalTreasurer: boolPtr(false),
	}
	votes := in.votes()
	if len(votes) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(votes))
	}
	if _, ok := votes[0].(PresidentVote); !ok || !votes[0].Value() {
		t.Fatalf("expected president approve, got %T=%v", votes[0], votes[0].Value())
	}
	if _, ok := votes[1].(TreasurerVote); !ok || votes[1].Value() {
		t.Fatalf("expected treasurer withdraw, got %T=%v", votes[1], votes[1].Value())
	}
}

func TestEffectiveApprovalCount_QuorumFromStoredAndBundled(t *testing.T) {
	// One stored flag plus one bundled vote reaches the 2-of-3 quorum.
	m := &Member{ApprovalPresident: true}
	votes := []ApprovalVote{SecretaryVote{Approve: true}}
	if got := effectiveApprovalCount(m, votes); got != 2 {
		t.Fatalf("expected 2 effective approvals, got %d", got)
	}

	// A bundled withdrawal overrides the stored flag.
	m = &Member{ApprovalPresident: true, ApprovalSecretary: true}
	votes = []ApprovalVote{PresidentVote{Approve: false}}
	if got := effectiveApprovalCount(m, votes); got != 1 {
		t.Fatalf("withdrawal should override stored flag: got %d", got)
	}

	// All three in one request.
	m = &Member{}
	votes = []ApprovalVote{
		PresidentVote{Approve: true},
		SecretaryVote{Approve: true},
		TreasurerVote{Approve: true},
	}
	if got := effectiveApprovalCount(m, votes); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestEffectiveApprovalCount_BelowQuorum(t *testing.T) {
	m := &Member{}
	votes := []ApprovalVote{TreasurerVote{Approve: true}}
	if got := effectiveApprovalCount(m, votes); got >= approvalQuorum {
		t.Fatalf("single approval must not reach quorum: got %d", got)
	}
}

func TestBuildStatusUpdates_QuorumRefusedStillRecordsVotes(t *testing.T) {
	// A lone approval bundled with an APPROVED request: the status change is
	// withheld, but the vote itself lands.
	m := &Member{}
	status := MemberStatusApproved
	votes := []ApprovalVote{PresidentVote{Approve: true}}

	updates, quorumRefused := buildStatusUpdates(m, votes, &status)
	if !quorumRefused {
		t.Fatal("expected quorum refusal with a single approval")
	}
	if v, ok := updates["approval_president"]; !ok || v != true {
		t.Fatalf("vote must be recorded despite the refusal, got %v", updates)
	}
	if _, ok := updates["status"]; ok {
		t.Fatalf("status must not change on refusal, got %v", updates["status"])
	}
}

func TestBuildStatusUpdates_QuorumMetApproves(t *testing.T) {
	m := &Member{ApprovalSecretary: true}
	status := MemberStatusApproved
	votes := []ApprovalVote{TreasurerVote{Approve: true}}

	updates, quorumRefused := buildStatusUpdates(m, votes, &status)
	if quorumRefused {
		t.Fatal("stored + bundled flags reach quorum; refusal is wrong")
	}
	if updates["status"] != MemberStatusApproved {
		t.Fatalf("expected APPROVED, got %v", updates["status"])
	}
	if v := updates["approval_treasurer"]; v != true {
		t.Fatalf("bundled vote missing from updates: %v", updates)
	}
}

func TestBuildStatusUpdates_RevoteIsIdempotent(t *testing.T) {
	// Re-casting a vote already on record writes the same value again and
	// changes nothing about the effective state.
	m := &Member{ApprovalPresident: true}
	votes := []ApprovalVote{PresidentVote{Approve: true}}

	updates, quorumRefused := buildStatusUpdates(m, votes, nil)
	if quorumRefused {
		t.Fatal("no status change requested; refusal is impossible")
	}
	if len(updates) != 1 || updates["approval_president"] != true {
		t.Fatalf("expected only the re-cast vote, got %v", updates)
	}
	if got := effectiveApprovalCount(m, votes); got != 1 {
		t.Fatalf("re-vote must not inflate the count: got %d", got)
	}
}

func TestBuildStatusUpdates_RejectionUnconditional(t *testing.T) {
	m := &Member{}
	status := MemberStatusRejected
	updates, quorumRefused := buildStatusUpdates(m, nil, &status)
	if quorumRefused {
		t.Fatal("rejection never needs quorum")
	}
	if updates["status"] != MemberStatusRejected {
		t.Fatalf("expected REJECTED, got %v", updates["status"])
	}
}

func TestMemberStatus_SettableByAdmin(t *testing.T) {
	settable := []MemberStatus{MemberStatusPending, MemberStatusApproved, MemberStatusRejected}
	for _, s := range settable {
		if !s.SettableByAdmin() {
			t.Fatalf("expected %s to be settable", s)
		}
	}
	for _, s := range []MemberStatus{MemberStatusPaymentPending, MemberStatusActive, MemberStatus("BOGUS")} {
		if s.SettableByAdmin() {
			t.Fatalf("expected %s to be rejected", s)
		}
	}
}

func TestMemberStatus_LoginGates(t *testing.T) {
	cases := []struct {
		status     MemberStatus
		canRequest bool
		canVerify  bool
	}{
		{MemberStatusPending, false, false},
		{MemberStatusRejected, false, false},
		{MemberStatusApproved, true, true},
		{MemberStatusActive, true, true},
		{MemberStatusPaymentPending, false, true},
		{MemberStatus("BOGUS"), false, false},
	}
	for _, tc := range cases {
		if got := tc.status.OtpRequestable(); got != tc.canRequest {
			t.Fatalf("%s OtpRequestable: got %v, want %v", tc.status, got, tc.canRequest)
		}
		if got := tc.status.SessionEligible(); got != tc.canVerify {
			t.Fatalf("%s SessionEligible: got %v, want %v", tc.status, got, tc.canVerify)
		}
	}
}
