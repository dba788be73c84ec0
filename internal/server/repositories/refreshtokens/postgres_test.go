package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/esaveliev/walletgate/internal/common"
	"github.com/esaveliev/walletgate/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func tokenColumns() []string {
	return []string{"id", "user_id", "token", "expires_at", "created_at"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+refresh_tokens\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\).*RETURNING\s+created_at\s*$`
	now := time.Now()
	expires := now.Add(7 * 24 * time.Hour)

	mock.ExpectQuery(q).
		WithArgs("rt1", "u1", "tok123", expires).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	token := &models.RefreshToken{ID: "rt1", UserID: "u1", Token: "tok123", ExpiresAt: expires}
	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !token.CreatedAt.Equal(now) {
		t.Fatalf("created_at not populated: %+v", token)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+refresh_tokens\b`
	mock.ExpectQuery(q).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.RefreshToken{ID: "rt1", UserID: "u1", Token: "t", ExpiresAt: time.Now()})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*token,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	now := time.Now()
	expires := now.Add(time.Hour)

	mock.ExpectQuery(q).
		WithArgs("tok123").
		WillReturnRows(sqlmock.NewRows(tokenColumns()).AddRow("rt1", "u1", "tok123", expires, now))

	got, err := repo.FindByToken(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "rt1" || got.UserID != "u1" || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindByToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*token,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByToken(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*token,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+id\s*=\s*\$1\s*$`
	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("rt1").
		WillReturnRows(sqlmock.NewRows(tokenColumns()).AddRow("rt1", "u1", "tok123", now.Add(time.Hour), now))

	got, err := repo.FindByID(context.Background(), "rt1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Token != "tok123" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindByUserID_ReturnsAllRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*token,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s*$`
	now := time.Now()
	rows := sqlmock.NewRows(tokenColumns()).
		AddRow("rt1", "u1", "tokA", now.Add(time.Hour), now).
		AddRow("rt2", "u1", "tokB", now.Add(2*time.Hour), now)

	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(rows)

	got, err := repo.FindByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Token != "tokA" || got[1].Token != "tokB" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestDeleteByToken_ReportsAffectedRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs("tok123").WillReturnResult(sqlmock.NewResult(0, 1))
	n, err := repo.DeleteByToken(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d affected, want 1", n)
	}

	// Deleting a token that is already gone reports zero rows, not an error.
	mock.ExpectExec(q).WithArgs("tok123").WillReturnResult(sqlmock.NewResult(0, 0))
	n, err = repo.DeleteByToken(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d affected, want 0", n)
	}
}

func TestDeleteByUserID_RevokesAllSessions(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+user_id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("got %d affected, want 3", n)
	}
}

func TestDeleteExpired_ReturnsCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+expires_at\s*<\s*now\(\)\s*$`
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Fatalf("got %d purged, want 7", n)
	}
}

func TestDeleteByToken_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("tok123").WillReturnError(errors.New("db err"))

	_, err := repo.DeleteByToken(context.Background(), "tok123")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
