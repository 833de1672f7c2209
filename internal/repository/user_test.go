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

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		wantName     string
		wantNotFound bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(1, "john", "john@example.com"))
			},
			wantName: "john",
		},
		{
			name:   "Not Found",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(2, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)
			if tt.wantNotFound {
				require.Error(t, err)
				assert.True(t, models.IsNotFound(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CreateAndGetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.UserRecord{Username: "Jane", Email: "  Jane@Example.com ", Password: "hash", UserType: "professor"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := repo.GetByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	dup := &models.UserRecord{Username: "Jane 2", Email: "jane@example.com", Password: "hash"}
	err = repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeDuplicateID))

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, models.IsNotFound(err))
}

func TestUserRepository_ListOthers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	me := createUser(t, db, "me")
	createUser(t, db, "ann")
	createUser(t, db, "bob")

	others, err := repo.ListOthers(t.Context(), me.ID, 5)
	require.NoError(t, err)
	require.Len(t, others, 2)
	for _, u := range others {
		assert.NotEqual(t, me.ID, u.ID)
	}

	limited, err := repo.ListOthers(t.Context(), me.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
