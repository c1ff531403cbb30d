package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/domain/user"
	apperrors "github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/testutil"
)

func seedUser(t *testing.T, repo user.Repository, email string) *user.User {
	t.Helper()
	u := &user.User{Email: email, Name: "Owner", Locale: "en"}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func TestTeamRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "owner@example.com")

	tm := &team.Team{Name: "Acme", UserID: owner.ID}
	if err := repo.Create(ctx, tm); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tm.ID == 0 {
		t.Fatal("Create() did not set ID")
	}

	got, err := repo.GetByID(ctx, tm.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Acme" || got.UserID != owner.ID || got.IsPersonal {
		t.Errorf("GetByID() = %+v, want Acme owned by %d, not personal", got, owner.ID)
	}

	if _, err := repo.GetByID(ctx, 999); !apperrors.IsNotFound(err) {
		t.Errorf("GetByID(999) error = %v, want not found", err)
	}
}

func TestTeamRepository_GetPersonal(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "owner@example.com")

	if _, err := repo.GetPersonal(ctx, owner.ID); !apperrors.IsNotFound(err) {
		t.Errorf("GetPersonal() before create error = %v, want not found", err)
	}

	personal := &team.Team{Name: "Owner", IsPersonal: true, UserID: owner.ID}
	extra := &team.Team{Name: "Side Project", UserID: owner.ID}
	for _, tm := range []*team.Team{personal, extra} {
		if err := repo.Create(ctx, tm); err != nil {
			t.Fatalf("Create(%s) error = %v", tm.Name, err)
		}
	}

	got, err := repo.GetPersonal(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetPersonal() error = %v", err)
	}
	if got.ID != personal.ID {
		t.Errorf("GetPersonal() = %d, want %d", got.ID, personal.ID)
	}

	teams, err := repo.ListByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(teams) != 2 {
		t.Errorf("ListByUser() = %d teams, want 2", len(teams))
	}
}

func TestTeamRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "owner@example.com")

	tm := &team.Team{Name: "Doomed", UserID: owner.ID}
	if err := repo.Create(ctx, tm); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, tm.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, tm.ID); !apperrors.IsNotFound(err) {
		t.Errorf("GetByID() after delete error = %v, want not found", err)
	}

	if err := repo.Delete(ctx, tm.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Delete() twice error = %v, want not found", err)
	}
}

func TestTeamRepository_DeleteReferenced(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	teamID, planID := seedTeamAndPlan(t, db)
	repo := NewTeamRepository(db)
	subs := NewSubscriptionRepository(db)
	ctx := context.Background()

	if _, err := subs.Activate(ctx, teamID, planID); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	if err := repo.Delete(ctx, teamID); err == nil {
		t.Fatal("Delete() expected error for referenced team")
	}

	// The restrict foreign key must keep the team in place.
	if _, err := repo.GetByID(ctx, teamID); err != nil {
		t.Errorf("GetByID() after rejected delete error = %v", err)
	}
}

func TestTeamRepository_Delete_ErrorMapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewTeamRepository(db)
	ctx := context.Background()

	// A foreign key rejection means the team is still referenced.
	mock.ExpectExec("DELETE FROM teams").WillReturnError(&pq.Error{Code: "23503"})
	err = repo.Delete(ctx, 1)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrCodeConflict {
		t.Errorf("Delete() foreign key error = %v, want conflict", err)
	}

	// Any other failure is a database error, not a conflict.
	mock.ExpectExec("DELETE FROM teams").WillReturnError(context.DeadlineExceeded)
	err = repo.Delete(ctx, 1)
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrCodeDatabase {
		t.Errorf("Delete() connection error = %v, want database error", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
