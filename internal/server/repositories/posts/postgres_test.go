package posts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_ReturnsAssignedID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+posts\s*\(author,\s*content,\s*media,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))
	mock.ExpectQuery(q).
		WithArgs("u-1", "hello", "", int64(1000)).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Post{Author: "u-1", Content: "hello", CreatedAt: 1000})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected id: %d", got.ID)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*author,\s*content,\s*media,\s*created_at\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestList_ScansRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*author,\s*content,\s*media,\s*created_at\s+FROM\s+posts\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	rows := sqlmock.NewRows([]string{"id", "author", "content", "media", "created_at"}).
		AddRow(int64(2), "u-2", "second", "", int64(2000)).
		AddRow(int64(1), "u-1", "first", "users/x", int64(1000))
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].Media != "users/x" {
		t.Fatalf("unexpected posts: %+v", got)
	}
}

func TestLike_SecondLikeRejected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+likes\s*\(post_id,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(post_id,\s*user_id\)\s*DO\s+NOTHING\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(7), "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).
		WithArgs(int64(7), "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Like(context.Background(), 7, "u-1"); err != nil {
		t.Fatalf("first Like error: %v", err)
	}
	err := repo.Like(context.Background(), 7, "u-1")
	if !errors.Is(err, common.ErrAlreadyLiked) {
		t.Fatalf("want common.ErrAlreadyLiked, got %v", err)
	}
}

func TestDelete_MissingPost(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestCommentsByPost_GroupsByPost(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+post_id,\s*author,\s*content,\s*created_at\s+FROM\s+comments\s+ORDER\s+BY\s+created_at\s*$`

	rows := sqlmock.NewRows([]string{"post_id", "author", "content", "created_at"}).
		AddRow(int64(1), "u-1", "nice", int64(1000)).
		AddRow(int64(1), "u-2", "agreed", int64(2000)).
		AddRow(int64(3), "u-1", "hm", int64(3000))
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.CommentsByPost(context.Background())
	if err != nil {
		t.Fatalf("CommentsByPost error: %v", err)
	}
	if len(got[1]) != 2 || len(got[3]) != 1 {
		t.Fatalf("unexpected grouping: %+v", got)
	}
}
