package utils

import "testing"

func TestJwtRoundtrip(t *testing.T) {
	token, err := JwtGenerate("admin-1", "TREASURER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	validated, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !validated.Valid {
		t.Fatal("expected token to be valid")
	}
	claims, ok := validated.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("unexpected claims type %T", validated.Claims)
	}
	if claims.ID != "admin-1" || claims.Role != "TREASURER" {
		t.Fatalf("claims roundtrip: got id=%q role=%q", claims.ID, claims.Role)
	}
}

func TestJwtValidate_Garbage(t *testing.T) {
	if _, err := JwtValidate("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
