package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/portfolio/internal/app/store/users"
	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/indexes"
	"github.com/dalemusser/portfolio/internal/domain/models"
	"github.com/dalemusser/portfolio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_Create_DefaultsAndNormalizes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Name:     "  Ada Lovelace ",
		Email:    "  Ada@Example.COM ",
		Password: "$2a$hash",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "ada@example.com" {
		t.Errorf("Email = %q, want normalized", created.Email)
	}
	if created.Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want trimmed", created.Name)
	}
	if created.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin default", created.Role)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_RejectsBadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Name: "X", Email: "x@example.com", Role: "root"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{Name: "A", Email: "a@example.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Name: "B", Email: "A@example.com"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByID_HidesPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateAdmin(ctx, "Ada", "ada@example.com", "secret1")

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Password != "" {
		t.Error("GetByID must not return the password hash")
	}
	if got.Email != "ada@example.com" {
		t.Errorf("Email = %q", got.Email)
	}

	_, err = store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, apierr.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_GetByEmailWithPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateAdmin(ctx, "Ada", "ada@example.com", "secret1")

	got, err := store.GetByEmailWithPassword(ctx, "  ADA@example.com")
	if err != nil {
		t.Fatalf("GetByEmailWithPassword failed: %v", err)
	}
	if got.Password != u.Password {
		t.Error("expected the password hash on the verification path")
	}

	_, err = store.GetByEmailWithPassword(ctx, "nobody@example.com")
	if !apierr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	u := fixtures.CreateAdmin(ctx, "Ada", "ada@example.com", "secret1")
	fixtures.CreateAdmin(ctx, "Grace", "grace@example.com", "secret1")

	got, err := store.UpdateProfile(ctx, u.ID, userstore.ProfileUpdate{
		Name:  "Ada King",
		Email: "ADA.KING@example.com",
		Phone: "5551234567",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if got.Name != "Ada King" || got.Email != "ada.king@example.com" || got.Phone != "5551234567" {
		t.Errorf("unexpected updated user: %+v", got)
	}
	if got.Password != "" {
		t.Error("UpdateProfile must not return the password hash")
	}

	// Clearing the phone removes it.
	got, err = store.UpdateProfile(ctx, u.ID, userstore.ProfileUpdate{Name: "Ada King", Email: "ada.king@example.com"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if got.Phone != "" {
		t.Errorf("Phone = %q, want empty", got.Phone)
	}

	_, err = store.UpdateProfile(ctx, u.ID, userstore.ProfileUpdate{Name: "Ada", Email: "grace@example.com"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	_, err = store.UpdateProfile(ctx, primitive.NewObjectID(), userstore.ProfileUpdate{Name: "X", Email: "x@example.com"})
	if !errors.Is(err, apierr.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_UpdatePassword_BumpsTokenVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateAdmin(ctx, "Ada", "ada@example.com", "secret1")

	before, err := store.CurrentTokenVersion(ctx, u.ID.Hex())
	if err != nil {
		t.Fatalf("CurrentTokenVersion failed: %v", err)
	}
	if err := store.UpdatePassword(ctx, u.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	after, err := store.CurrentTokenVersion(ctx, u.ID.Hex())
	if err != nil {
		t.Fatalf("CurrentTokenVersion failed: %v", err)
	}
	if after != before+1 {
		t.Errorf("token version = %d, want %d", after, before+1)
	}

	hash, err := store.GetPasswordHash(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetPasswordHash failed: %v", err)
	}
	if hash != "new-hash" {
		t.Errorf("hash = %q, want new-hash", hash)
	}

	if err := store.UpdatePassword(ctx, primitive.NewObjectID(), "x"); !errors.Is(err, apierr.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_CurrentTokenVersion_BadID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.CurrentTokenVersion(ctx, "not-hex"); !errors.Is(err, apierr.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
