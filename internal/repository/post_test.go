package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"uniconnect/internal/cache"
	"uniconnect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_IsLiked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	liked, err := repo.IsLiked(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Unlike(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Unlike(context.Background(), 1, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_DetailsAndLikes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	viewer := createUser(t, db, "viewer")

	post := &models.PostRecord{
		Content: "Hello",
		Hashtag: "ai,education",
		UserID:  author.ID,
		Media:   []models.MediaRecord{{FileURL: "/media/a.png", FileType: "image/png", Name: "a.png", Size: 3}},
	}
	require.NoError(t, repo.Create(ctx, post))

	comment := &models.CommentRecord{PostID: post.ID, UserID: viewer.ID, Content: "Nice"}
	require.NoError(t, repo.AddComment(ctx, comment))
	assert.Equal(t, "viewer", comment.User.Username)

	reply := &models.ReplyRecord{CommentID: comment.ID, UserID: author.ID, Content: "Thanks"}
	require.NoError(t, repo.AddReply(ctx, reply))

	require.NoError(t, repo.Like(ctx, viewer.ID, post.ID))
	// A repeated like is absorbed by the unique index
	require.NoError(t, repo.Like(ctx, viewer.ID, post.ID))

	got, err := repo.GetByID(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.True(t, got.Liked)
	assert.Equal(t, "author", got.User.Username)
	require.Len(t, got.Media, 1)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "viewer", got.Comments[0].User.Username)
	require.Len(t, got.Comments[0].Replies, 1)
	assert.Equal(t, "author", got.Comments[0].Replies[0].User.Username)

	asAuthor, err := repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, asAuthor.Liked)

	require.NoError(t, repo.Unlike(ctx, viewer.ID, post.ID))
	got, err = repo.GetByID(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikesCount)
	assert.False(t, got.Liked)

	_, err = repo.GetByID(ctx, 999, viewer.ID)
	assert.True(t, models.IsNotFound(err))
	_, err = repo.GetComment(ctx, 999)
	assert.True(t, models.IsNotFound(err))
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		p := &models.PostRecord{Content: content, UserID: author.ID, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, p))
	}

	posts, err := repo.List(ctx, 10, 0, author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Content)
	assert.Equal(t, "first", posts[2].Content)

	page, err := repo.List(ctx, 1, 1, author.ID)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Content)
}

func TestPostRepository_ListCacheInvalidatedOnWrite(t *testing.T) {
	mr := setupRedis(t)
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")

	p := &models.PostRecord{Content: "cached", UserID: author.ID}
	require.NoError(t, repo.Create(ctx, p))

	posts, err := repo.List(ctx, 10, 0, author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	key := cache.PostListKey(ctx, author.ID)
	assert.True(t, mr.Exists(key))

	// Bypass the repository so only the cache can answer
	require.NoError(t, db.Exec("UPDATE posts SET content = ?", "changed").Error)
	posts, err = repo.List(ctx, 10, 0, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", posts[0].Content)

	require.NoError(t, repo.Like(ctx, author.ID, p.ID))
	assert.NotEqual(t, key, cache.PostListKey(ctx, author.ID))

	posts, err = repo.List(ctx, 10, 0, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", posts[0].Content)
	assert.Equal(t, 1, posts[0].LikesCount)
	assert.True(t, posts[0].Liked)
}
