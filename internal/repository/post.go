package repository

import (
	"context"

	"uniconnect/internal/cache"
	"uniconnect/internal/models"
	"uniconnect/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.PostRecord) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.PostRecord, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]models.PostRecord, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	AddComment(ctx context.Context, comment *models.CommentRecord) error
	GetComment(ctx context.Context, id uint) (*models.CommentRecord, error)
	AddReply(ctx context.Context, reply *models.ReplyRecord) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.PostRecord) error {
	defer observability.TrackQuery("create", "posts")()
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePostLists(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.PostRecord, error) {
	defer observability.TrackQuery("get_by_id", "posts")()
	var post models.PostRecord
	err := r.withDetails(r.db.WithContext(ctx), currentUserID).First(&post, id).Error
	if err != nil {
		return nil, notFound(err, "post", id)
	}
	return &post, nil
}

// List returns posts newest first. Each user's view is cached separately
// because Liked depends on the viewer.
func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]models.PostRecord, error) {
	var posts []models.PostRecord
	fetch := func() error {
		defer observability.TrackQuery("list", "posts")()
		return r.withDetails(r.db.WithContext(ctx), currentUserID).
			Order("posts.created_at DESC").
			Order("posts.id DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	}
	if offset != 0 {
		return posts, fetch()
	}
	err := cache.CacheAside(ctx, cache.PostListKey(ctx, currentUserID), &posts, cache.PostListTTL, fetch)
	return posts, err
}

// withDetails selects the like count and the viewer's like state in the
// same query and preloads authors, media and the comment tree.
func (r *postRepository) withDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"
	if currentUserID != 0 {
		db = db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	} else {
		db = db.Select(selectQuery + ", false as liked")
	}
	return db.
		Preload("User").
		Preload("Media").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at ASC, comments.id ASC") }).
		Preload("Comments.User").
		Preload("Comments.Replies", func(db *gorm.DB) *gorm.DB { return db.Order("replies.created_at ASC, replies.id ASC") }).
		Preload("Comments.Replies.User")
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("is_liked", "likes")()
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LikeRecord{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	defer observability.TrackQuery("like", "likes")()
	// ON CONFLICT DO NOTHING keeps concurrent likes from failing on the unique index
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.LikeRecord{UserID: userID, PostID: postID}).Error
	if err == nil {
		cache.InvalidatePostLists(ctx)
	}
	return err
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	defer observability.TrackQuery("unlike", "likes")()
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.LikeRecord{}).Error
	if err == nil {
		cache.InvalidatePostLists(ctx)
	}
	return err
}

func (r *postRepository) AddComment(ctx context.Context, comment *models.CommentRecord) error {
	defer observability.TrackQuery("create", "comments")()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	cache.InvalidatePostLists(ctx)
	return r.db.WithContext(ctx).Preload("User").First(comment, comment.ID).Error
}

func (r *postRepository) GetComment(ctx context.Context, id uint) (*models.CommentRecord, error) {
	defer observability.TrackQuery("get_by_id", "comments")()
	var comment models.CommentRecord
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &comment, nil
}

func (r *postRepository) AddReply(ctx context.Context, reply *models.ReplyRecord) error {
	defer observability.TrackQuery("create", "replies")()
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return err
	}
	cache.InvalidatePostLists(ctx)
	return r.db.WithContext(ctx).Preload("User").First(reply, reply.ID).Error
}
