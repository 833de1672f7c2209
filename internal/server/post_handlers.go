package server

import (
	"fmt"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"

	"uniconnect/internal/cache"
	"uniconnect/internal/middleware"
	"uniconnect/internal/models"
	"uniconnect/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultPostLimit = 50

// ListPosts handles GET /api/posts/list
func (s *Server) ListPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultPostLimit)
	if limit <= 0 || limit > 100 {
		limit = defaultPostLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	posts, err := s.postRepo.List(c.UserContext(), limit, offset, middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(toPosts(posts))
}

// uploadedFiles returns the file0..N parts of a multipart body in index order.
func uploadedFiles(form *multipart.Form) []*multipart.FileHeader {
	type indexed struct {
		i int
		h *multipart.FileHeader
	}
	var parts []indexed
	for key, headers := range form.File {
		if !strings.HasPrefix(key, "file") || len(headers) == 0 {
			continue
		}
		i, err := strconv.Atoi(strings.TrimPrefix(key, "file"))
		if err != nil {
			continue
		}
		parts = append(parts, indexed{i: i, h: headers[0]})
	}
	sort.Slice(parts, func(a, b int) bool { return parts[a].i < parts[b].i })

	out := make([]*multipart.FileHeader, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.h)
	}
	return out
}

// CreatePost handles POST /api/posts/create
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var files []*multipart.FileHeader
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid multipart body"))
		}
		files = uploadedFiles(form)
	}

	content := strings.TrimSpace(c.FormValue("content"))
	hashtags := validation.ParseHashtags(c.FormValue("hashtag"))
	if err := validation.ValidatePost(content, hashtags, len(files)); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}

	post := &models.PostRecord{
		Content: content,
		Hashtag: joinHashtags(hashtags),
		UserID:  userID,
	}
	// Only file metadata is kept; the development backend serves no media
	for _, f := range files {
		post.Media = append(post.Media, models.MediaRecord{
			FileURL:  fmt.Sprintf("/media/%s/%s", uuid.NewString(), f.Filename),
			FileType: f.Header.Get(fiber.HeaderContentType),
			Name:     f.Filename,
			Size:     int(f.Size),
		})
	}

	if err := s.postRepo.Create(c.UserContext(), post); err != nil {
		return respondErr(c, err)
	}

	created, err := s.postRepo.GetByID(c.UserContext(), post.ID, userID)
	if err != nil {
		return respondErr(c, err)
	}

	s.publish(c, cache.FeedEvent{Type: cache.EventPostCreated, PostID: post.ID, ActorID: userID})
	return c.Status(fiber.StatusCreated).JSON(toPost(created))
}

// ToggleLike handles POST /api/posts/like. It likes the post when the user
// has not liked it yet and removes the like otherwise.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	postID, err := parseID(c.FormValue("post_id"), "post_id")
	if err != nil {
		return respondErr(c, err)
	}

	ctx := c.UserContext()
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return respondErr(c, err)
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return respondErr(c, err)
	}

	event := cache.EventPostLiked
	if liked {
		event = cache.EventPostUnliked
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return respondErr(c, err)
	}

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return respondErr(c, err)
	}

	s.publish(c, cache.FeedEvent{Type: event, PostID: postID, ActorID: userID})
	return c.JSON(fiber.Map{
		"success": true,
		"post":    toPost(post),
	})
}

// AddComment handles POST /api/posts/comment
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	postID, err := parseID(c.FormValue("post_id"), "post_id")
	if err != nil {
		return respondErr(c, err)
	}
	content, err := validation.ValidateMessage(c.FormValue("content"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}

	ctx := c.UserContext()
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return respondErr(c, err)
	}

	comment := &models.CommentRecord{PostID: postID, UserID: userID, Content: content}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return respondErr(c, err)
	}

	s.publish(c, cache.FeedEvent{Type: cache.EventCommentAdded, PostID: postID, ActorID: userID, CommentID: comment.ID})
	return c.Status(fiber.StatusCreated).JSON(toComment(*comment))
}

// ReplyToComment handles POST /api/posts/reply
func (s *Server) ReplyToComment(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	postID, err := parseID(c.FormValue("post_id"), "post_id")
	if err != nil {
		return respondErr(c, err)
	}
	commentID, err := parseID(c.FormValue("comment_id"), "comment_id")
	if err != nil {
		return respondErr(c, err)
	}
	content, err := validation.ValidateMessage(c.FormValue("content"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}

	ctx := c.UserContext()
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return respondErr(c, err)
	}
	if comment.PostID != postID {
		return respondErr(c, models.NewNotFoundError("comment", commentID))
	}

	reply := &models.ReplyRecord{CommentID: commentID, UserID: userID, Content: content}
	if err := s.postRepo.AddReply(ctx, reply); err != nil {
		return respondErr(c, err)
	}

	s.publish(c, cache.FeedEvent{Type: cache.EventReplyAdded, PostID: postID, ActorID: userID, CommentID: commentID})
	return c.Status(fiber.StatusCreated).JSON(toReply(*reply))
}
