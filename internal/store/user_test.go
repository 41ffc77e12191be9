package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestUserStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	email := "create-find@test.deckpress.local"
	u := testUser(t, db, email)

	if u.ID == uuid.Nil {
		t.Error("created user should have a generated id")
	}
	if u.PasswordHash == "test-password-123" {
		t.Error("password must be stored hashed")
	}
	if u.TOTPEnabled {
		t.Error("new users should not have 2FA enabled")
	}

	byEmail, err := us.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Fatalf("FindByEmail: got %+v", byEmail)
	}

	byID, err := us.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Email != email {
		t.Fatalf("FindByID: got %+v", byID)
	}
}

func TestUserStoreFindMissing(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	u, err := us.FindByEmail("nobody@test.deckpress.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for unknown email, got %+v", u)
	}

	u, err = us.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for unknown id, got %+v", u)
	}
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	email := "duplicate@test.deckpress.local"
	testUser(t, db, email)

	if _, err := us.Create(email, "other-password", "Other"); err == nil {
		t.Error("duplicate email should violate the unique constraint")
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	u := testUser(t, db, "password@test.deckpress.local")

	if !us.CheckPassword(u, "test-password-123") {
		t.Error("correct password should verify")
	}
	if us.CheckPassword(u, "wrong-password") {
		t.Error("wrong password should not verify")
	}
}

func TestUserStoreAPIKeyEnvelope(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	u := testUser(t, db, "envelope@test.deckpress.local")
	if u.HasCredential() {
		t.Error("new users should have no credential")
	}

	envelope := "v1:c29tZS1zZWFsZWQtYnl0ZXM="
	if err := us.SetAPIKeyEnvelope(u.ID, &envelope); err != nil {
		t.Fatalf("SetAPIKeyEnvelope: %v", err)
	}

	got, err := us.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.HasCredential() || *got.APIKeyEnvelope != envelope {
		t.Errorf("envelope: got %+v", got.APIKeyEnvelope)
	}

	if err := us.SetAPIKeyEnvelope(u.ID, nil); err != nil {
		t.Fatalf("clear envelope: %v", err)
	}
	got, _ = us.FindByID(u.ID)
	if got.HasCredential() {
		t.Error("cleared envelope should read back nil")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	u := testUser(t, db, "totp@test.deckpress.local")

	if err := us.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := us.EnableTOTP(u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	got, _ := us.FindByID(u.ID)
	if !got.TOTPEnabled || got.TOTPSecret == nil {
		t.Errorf("after enable: %+v", got)
	}

	if err := us.ResetTOTP(u.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	got, _ = us.FindByID(u.ID)
	if got.TOTPEnabled || got.TOTPSecret != nil {
		t.Errorf("after reset: %+v", got)
	}
}
