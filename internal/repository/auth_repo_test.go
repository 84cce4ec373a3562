package repository

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewUserRepository(db), mock
}

func TestUserRepository_Create(t *testing.T) {
	cases := []struct {
		name    string
		execErr error
		wantID  int
		wantErr bool
	}{
		{name: "ok", wantID: 7},
		{name: "exec error", execErr: errors.New("UNIQUE constraint failed"), wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockUserRepo(t)

			exp := mock.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
				WithArgs("alice", "hashed")
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(int64(tc.wantID), 1))
			}

			id, err := repo.Create("alice", "hashed")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if id != tc.wantID {
				t.Fatalf("id = %d, want %d", id, tc.wantID)
			}
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash"}).
		AddRow(7, "alice", "hashed")
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("alice").
		WillReturnRows(rows)

	u, err := repo.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u == nil || u.ID != 7 || u.Username != "alice" || u.PasswordHash != "hashed" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))

	u, err := repo.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user for missing row, got %+v", u)
	}
}

func TestUserRepository_GetByUsername_QueryError(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("alice").
		WillReturnError(errors.New("db closed"))

	if _, err := repo.GetByUsername("alice"); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
