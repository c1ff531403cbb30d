package postgres

import (
	"context"
	"testing"

	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/domain/user"
	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/testutil"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewUserRepository(db)
	ctx := context.Background()

	hash := "$2a$10$abcdefghijklmnopqrstuv"
	tz := "Europe/Berlin"
	u := &user.User{
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: &hash,
		Locale:       "de",
		Timezone:     &tz,
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID == 0 {
		t.Fatal("Create() did not set ID")
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != "alice@example.com" || got.Name != "Alice" {
		t.Errorf("GetByID() = %s/%s, want alice@example.com/Alice", got.Email, got.Name)
	}
	if got.PasswordHash == nil || *got.PasswordHash != hash {
		t.Error("GetByID() lost password hash")
	}
	if got.Timezone == nil || *got.Timezone != tz {
		t.Error("GetByID() lost timezone")
	}
	if got.IsAdmin {
		t.Error("GetByID() new user must not be admin")
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetByEmail() ID = %d, want %d", byEmail.ID, u.ID)
	}
}

func TestUserRepository_CreateWithPersonalTeam(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewUserRepository(db)
	teams := NewTeamRepository(db)
	ctx := context.Background()

	hash := "$2a$10$abcdefghijklmnopqrstuv"
	u := &user.User{
		Email:        "carol@example.com",
		Name:         "Carol",
		PasswordHash: &hash,
		Locale:       "en",
	}
	personal := &team.Team{Name: "Carol"}
	if err := repo.CreateWithPersonalTeam(ctx, u, personal); err != nil {
		t.Fatalf("CreateWithPersonalTeam() error = %v", err)
	}
	if u.ID == 0 || personal.ID == 0 {
		t.Fatalf("CreateWithPersonalTeam() ids = %d/%d, want both set", u.ID, personal.ID)
	}

	got, err := teams.GetPersonal(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetPersonal() error = %v", err)
	}
	if got.ID != personal.ID || !got.IsPersonal || got.Name != "Carol" {
		t.Errorf("GetPersonal() = %+v, want personal team %d", got, personal.ID)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewUserRepository(db)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.IsNotFound(err) {
		t.Errorf("GetByEmail() error = %v, want not found", err)
	}
}

func TestUserRepository_NullableColumns(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "sso@example.com", Name: "SSO User", Locale: "en"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.PasswordHash != nil {
		t.Error("GetByID() expected nil password hash")
	}
	if got.Timezone != nil {
		t.Error("GetByID() expected nil timezone")
	}
}

func TestUserRepository_SetAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "admin@example.com", Name: "Admin", Locale: "en"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.SetAdmin(ctx, u.ID, true); err != nil {
		t.Fatalf("SetAdmin() error = %v", err)
	}
	got, _ := repo.GetByID(ctx, u.ID)
	if !got.IsAdmin {
		t.Error("SetAdmin(true) did not stick")
	}

	if err := repo.SetAdmin(ctx, 999, true); !errors.IsNotFound(err) {
		t.Errorf("SetAdmin(999) error = %v, want not found", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "bob@example.com", Name: "Bob", Locale: "en"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	u.Name = "Robert"
	u.Locale = "fr"
	u.EmailVerified = true
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := repo.GetByID(ctx, u.ID)
	if got.Name != "Robert" || got.Locale != "fr" || !got.EmailVerified {
		t.Errorf("Update() not persisted: %s/%s/%v", got.Name, got.Locale, got.EmailVerified)
	}

	ghost := &user.User{ID: 999, Email: "ghost@example.com", Name: "Ghost", Locale: "en"}
	if err := repo.Update(ctx, ghost); !errors.IsNotFound(err) {
		t.Errorf("Update(999) error = %v, want not found", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := repo.Create(ctx, &user.User{Email: email, Name: "User", Locale: "en"}); err != nil {
			t.Fatalf("Create(%s) error = %v", email, err)
		}
	}

	users, total, err := repo.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 {
		t.Errorf("List() total = %d, want 3", total)
	}
	if len(users) != 2 {
		t.Errorf("List() page size = %d, want 2", len(users))
	}

	users, _, err = repo.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 1 {
		t.Errorf("List() second page size = %d, want 1", len(users))
	}
}
