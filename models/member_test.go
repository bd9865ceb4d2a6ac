package models

import (
	"testing"

	"bitbucket.org/akitdaekm/membership_backend/utils"
)

func validApplication() *NewMember {
	return &NewMember{
		CompanyName:   "Kerala IT Traders",
		CompanyType:   "Partnership",
		PrimaryMobile: "9847012345",
		PrimaryEmail:  "owner@example.com",
		GstNumber:     "32AAAAA0000A1Z5",
		GstFile:       "/uploads/members/gst/doc.pdf",
		Partners:      []NewPartner{{Name: "Anil"}},
	}
}

func TestNewMemberValidate_OK(t *testing.T) {
	in := validApplication()
	if err := in.validate(); err != nil {
		t.Fatalf("expected valid application, got %v", err)
	}
	if in.MemberType != MemberTypeNew {
		t.Fatalf("expected member type to default to NEW, got %s", in.MemberType)
	}
}

func TestNewMemberValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*NewMember)
	}{
		{"missing gst file", func(m *NewMember) { m.GstFile = "" }},
		{"no partners", func(m *NewMember) { m.Partners = nil }},
		{"bad email", func(m *NewMember) { m.PrimaryEmail = "not-an-email" }},
		{"bad phone", func(m *NewMember) { m.PrimaryMobile = "12" }},
		{"bad member type", func(m *NewMember) { m.MemberType = "LIFETIME" }},
	}
	for _, tc := range cases {
		in := validApplication()
		tc.mutate(in)
		err := in.validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !utils.IsValidationError(err) {
			t.Fatalf("%s: expected ValidationError, got %T", tc.name, err)
		}
	}
}

func TestNewMemberValidate_ExistingKeepsType(t *testing.T) {
	in := validApplication()
	in.MemberType = MemberTypeExisting
	in.MembershipId = "AKEKM042"
	if err := in.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.MemberType != MemberTypeExisting {
		t.Fatalf("expected EXISTING to be preserved, got %s", in.MemberType)
	}
}
