package repository

import (
	"context"
	"regexp"
	"testing"

	"uniconnect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartupRepository_ToggleVote(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStartupRepository(db)
	ctx := context.Background()

	student := createUser(t, db, "student")
	investor := createUser(t, db, "investor")

	s := &models.StartupRecord{UserID: student.ID, Name: "EduAI", StudentName: "student"}
	require.NoError(t, repo.Create(ctx, s))

	voted, err := repo.ToggleVote(ctx, investor.ID, s.ID)
	require.NoError(t, err)
	assert.True(t, voted)

	got, err := repo.GetByID(ctx, s.ID, investor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)
	assert.True(t, got.Voted)

	list, err := repo.List(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Votes)
	assert.False(t, list[0].Voted)

	voted, err = repo.ToggleVote(ctx, investor.ID, s.ID)
	require.NoError(t, err)
	assert.False(t, voted)

	got, err = repo.GetByID(ctx, s.ID, investor.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Votes)

	_, err = repo.GetByID(ctx, 404, investor.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestConnectionRepository_Request(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := createUser(t, db, "a")
	b := createUser(t, db, "b")

	require.NoError(t, repo.Request(ctx, a.ID, b.ID))
	require.NoError(t, repo.Request(ctx, a.ID, b.ID))

	n, err := repo.Count(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	targets, err := repo.Targets(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{b.ID: true}, targets)

	err = repo.Request(ctx, a.ID, a.ID)
	assert.True(t, models.IsValidation(err))
}

func TestConnectionRepository_RequestSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewConnectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "connections"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, repo.Request(context.Background(), 1, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
