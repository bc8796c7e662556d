package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos/testutil"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	u := &types.User{Username: "ana", Email: "ana@example.com", Password: "hash"}
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}

	got, err := repo.GetByID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Username != "ana" || got.Points != 0 || got.IsAdmin {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	byName, err := repo.GetByUsername(dbc, "ana")
	if err != nil || byName == nil || byName.ID != u.ID {
		t.Fatalf("GetByUsername: got=%+v err=%v", byName, err)
	}
	missing, err := repo.GetByUsername(dbc, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("GetByUsername (missing): got=%+v err=%v", missing, err)
	}

	for _, tc := range []struct {
		username, email string
		want            bool
	}{
		{"ana", "other@example.com", true},
		{"other", "ana@example.com", true},
		{"other", "other@example.com", false},
	} {
		exists, err := repo.UsernameOrEmailExists(dbc, tc.username, tc.email)
		if err != nil {
			t.Fatalf("UsernameOrEmailExists: %v", err)
		}
		if exists != tc.want {
			t.Fatalf("UsernameOrEmailExists(%q,%q): want=%v got=%v", tc.username, tc.email, tc.want, exists)
		}
	}

	dup := &types.User{Username: "ana", Email: "second@example.com", Password: "hash"}
	if err := repo.Create(dbc, dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Create duplicate: want ErrDuplicatedKey, got %v", err)
	}
}

func TestUserRepoPointsAndLogin(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	u := testutil.SeedUser(t, ctx, tx, "ben")

	if err := repo.AddPoints(dbc, u.ID, 20); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if err := repo.AddPoints(dbc, u.ID, -5); err != nil {
		t.Fatalf("AddPoints (negative): %v", err)
	}
	at := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := repo.RecordLogin(dbc, u.ID, 4, at); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}

	got, err := repo.GetByID(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if got.Points != 20 {
		t.Fatalf("points: want=20 got=%d", got.Points)
	}
	if got.Streak != 4 || got.LastLogin == nil || !got.LastLogin.Equal(at) {
		t.Fatalf("login fields: streak=%d last_login=%v", got.Streak, got.LastLogin)
	}

	recent, err := repo.ListRecent(dbc, 5)
	if err != nil || len(recent) != 1 {
		t.Fatalf("ListRecent: got=%d err=%v", len(recent), err)
	}
}
