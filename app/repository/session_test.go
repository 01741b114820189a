package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
	"github.com/vibast-solutions/ms-go-adminpanel/app/repository"
)

const (
	insertSessionQuery       = `(?s)INSERT INTO sessions \(user_id, token, created_at, expires_at\)\s+VALUES \(\?, \?, \?, \?\)`
	findSessionByTokenQuery  = `(?s)SELECT id, user_id, token, created_at, expires_at\s+FROM sessions WHERE token = \?`
	deleteSessionQuery       = `DELETE FROM sessions WHERE token = \?`
	deleteUserSessionsQuery  = `DELETE FROM sessions WHERE user_id = \?`
	deleteExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at < \?`
)

var sessionColumns = []string{
	"id",
	"user_id",
	"token",
	"created_at",
	"expires_at",
}

func TestSessionRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSessionRepository(db)
	now := time.Now()
	session := &entity.Session{
		UserID:    1,
		Token:     "session-token",
		CreatedAt: now,
		ExpiresAt: now.Add(12 * time.Hour),
	}

	mock.ExpectExec(insertSessionQuery).
		WithArgs(session.UserID, session.Token, session.CreatedAt, session.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(7, 1))

	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if session.ID != 7 {
		t.Fatalf("expected ID 7, got %d", session.ID)
	}
}

func TestSessionRepository_FindByToken(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSessionRepository(db)
	now := time.Now()

	mock.ExpectQuery(findSessionByTokenQuery).
		WithArgs("session-token").
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(
			uint64(7), uint64(1), "session-token", now, now.Add(12*time.Hour),
		))

	session, err := repo.FindByToken(context.Background(), "session-token")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if session == nil || session.UserID != 1 {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestSessionRepository_FindByToken_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSessionRepository(db)

	mock.ExpectQuery(findSessionByTokenQuery).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	session, err := repo.FindByToken(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error for missing row, got %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session, got %+v", session)
	}
}

func TestSessionRepository_Deletes(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSessionRepository(db)

	mock.ExpectExec(deleteSessionQuery).
		WithArgs("session-token").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteUserSessionsQuery).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(deleteExpiredSessionsSQL).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteByToken(context.Background(), "session-token"); err != nil {
		t.Fatalf("delete by token failed: %v", err)
	}
	if err := repo.DeleteByUserID(context.Background(), 1); err != nil {
		t.Fatalf("delete by user failed: %v", err)
	}
	if err := repo.DeleteExpired(context.Background()); err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
