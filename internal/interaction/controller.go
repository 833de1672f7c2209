// Package interaction applies user actions to the local feed. Likes are
// shown optimistically and rolled back on failure; comments, replies and
// new posts appear once the backend has acknowledged them.
package interaction

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"uniconnect/internal/feed"
	"uniconnect/internal/gateway"
	"uniconnect/internal/models"
	"uniconnect/internal/observability"
	"uniconnect/internal/session"
	"uniconnect/internal/validation"

	"github.com/google/uuid"
)

// ErrClosed is returned by operations on a closed controller, including
// operations whose response arrived after Close.
var ErrClosed = errors.New("interaction: controller closed")

// Action names used in notices, logs and metrics.
const (
	ActionFetchPosts    = "fetch_posts"
	ActionToggleLike    = "toggle_like"
	ActionAddComment    = "add_comment"
	ActionReply         = "reply_comment"
	ActionCreatePost    = "create_post"
	ActionConnect       = "connect_user"
	ActionDashboard     = "dashboard"
	ActionCreateStartup = "create_startup"
	ActionListStartups  = "list_startups"
	ActionVoteStartup   = "vote_startup"
)

// SessionSource is the identity the controller acts as.
type SessionSource interface {
	Current() session.Session
	Logout(ctx context.Context) error
}

// BackendRouter picks the backend serving an actor.
type BackendRouter interface {
	For(role models.Role, actorID string) gateway.Backend
}

// Controller is the only writer of the feed cache.
type Controller struct {
	cache    *feed.Cache
	router   BackendRouter
	sessions SessionSource
	notifier Notifier
	log      *observability.ActionLogger
	lanes    *lanes
	now      func() time.Time

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the time source used to stamp local records.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger routes action logs to l.
func WithLogger(l *observability.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = c.log.WithLogger(l)
		}
	}
}

// NewController wires a controller. A nil notifier discards notices.
func NewController(cache *feed.Cache, router BackendRouter, sessions SessionSource, notifier Notifier, opts ...Option) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, Notice) {})
	}
	c := &Controller{
		cache:    cache,
		router:   router,
		sessions: sessions,
		notifier: notifier,
		log:      observability.NewActionLogger("interaction"),
		lanes:    newLanes(),
		now:      func() time.Time { return time.Now().UTC() },
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the feed for reading.
func (c *Controller) Cache() *feed.Cache { return c.cache }

// Close stops the controller. Responses that arrive afterwards are dropped
// without touching the cache, and waiting toggles give up.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
	})
}

func (c *Controller) backend() gateway.Backend {
	s := c.sessions.Current()
	return c.router.For(s.Role, s.ActorID)
}

func (c *Controller) succeed(ctx context.Context, action, message string, fields map[string]interface{}) {
	observability.ActionOutcomes.WithLabelValues(action, observability.OutcomeSuccess).Inc()
	c.log.LogAction(ctx, action, fields)
	if message != "" {
		c.notifier.Notify(ctx, Notice{Level: LevelSuccess, Action: action, Message: message})
	}
}

// fail records err, tells the user, and signs out on rejected credentials.
func (c *Controller) fail(ctx context.Context, action, message string, err error, fields map[string]interface{}) error {
	if errors.Is(err, ErrClosed) {
		observability.ActionOutcomes.WithLabelValues(action, observability.OutcomeSkipped).Inc()
		return err
	}
	observability.ActionOutcomes.WithLabelValues(action, observability.OutcomeFailure).Inc()
	c.log.LogError(ctx, action, err, fields)

	if models.IsAuth(err) {
		message = "Your session has expired. Please sign in again."
		if logoutErr := c.sessions.Logout(ctx); logoutErr != nil {
			c.log.LogError(ctx, action, logoutErr, map[string]interface{}{"step": "logout"})
		}
	} else if models.IsValidation(err) {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	}
	c.notifier.Notify(ctx, Notice{Level: LevelError, Action: action, Message: message})
	return err
}

// FetchPosts loads the feed from the backend and replaces the cache.
func (c *Controller) FetchPosts(ctx context.Context) ([]models.Post, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	posts, err := c.backend().ListPosts(ctx)
	if c.closed.Load() {
		return nil, c.fail(ctx, ActionFetchPosts, "", ErrClosed, nil)
	}
	if err != nil {
		return nil, c.fail(ctx, ActionFetchPosts, "Failed to load posts", err, nil)
	}
	c.cache.Reset(posts)
	c.succeed(ctx, ActionFetchPosts, "", map[string]interface{}{"count": len(posts)})
	return c.cache.Snapshot(), nil
}

// ToggleLike flips the like state of a post right away and then asks the
// backend to do the same. Toggles of one post run one at a time in call
// order. On failure the post's previous like state is restored.
func (c *Controller) ToggleLike(ctx context.Context, postID string) (models.Post, error) {
	if c.closed.Load() {
		return models.Post{}, ErrClosed
	}
	fields := map[string]interface{}{"post_id": postID}
	if _, ok := c.cache.Get(postID); !ok {
		return models.Post{}, c.fail(ctx, ActionToggleLike, "Post not found", models.NewNotFoundError("post", postID), fields)
	}

	done, stopWaiting := mergeDone(ctx, c.done)
	release, ok := c.lanes.acquire(done, postID)
	stopWaiting()
	if !ok {
		if c.closed.Load() {
			return models.Post{}, ErrClosed
		}
		return models.Post{}, ctx.Err()
	}
	defer release()

	if c.closed.Load() {
		return models.Post{}, ErrClosed
	}

	var preLiked bool
	var preCount int
	err := c.cache.Update(postID, func(p *models.Post) {
		preLiked, preCount = p.Liked, p.LikeCount
		flipLike(p)
	})
	if err != nil {
		return models.Post{}, c.fail(ctx, ActionToggleLike, "Post not found", err, fields)
	}
	observability.OptimisticApplied.WithLabelValues(ActionToggleLike).Inc()

	ack, err := c.backend().ToggleLike(ctx, postID)
	if c.closed.Load() {
		return models.Post{}, c.fail(ctx, ActionToggleLike, "", ErrClosed, fields)
	}
	if err == nil && !ack.Success {
		err = models.NewTransportError("toggle like", 0, errors.New("backend did not accept the change"))
	}
	if err != nil {
		if restoreErr := c.cache.Update(postID, func(p *models.Post) {
			p.Liked, p.LikeCount = preLiked, preCount
		}); restoreErr != nil {
			c.log.LogSkipped(ctx, ActionToggleLike, restoreErr, fields)
		}
		observability.OptimisticRollbacks.WithLabelValues(ActionToggleLike).Inc()
		c.log.LogRollback(ctx, ActionToggleLike, err, fields)
		return models.Post{}, c.fail(ctx, ActionToggleLike, "Failed to update like", err, fields)
	}

	if ack.Post != nil {
		server := *ack.Post
		if reconcileErr := c.cache.Update(postID, func(p *models.Post) {
			p.Liked = server.Liked
			p.LikeCount = max(server.LikeCount, 0)
		}); reconcileErr != nil {
			c.log.LogSkipped(ctx, ActionToggleLike, reconcileErr, fields)
		}
	}

	post, _ := c.cache.Get(postID)
	fields["liked"] = post.Liked
	fields["likes"] = post.LikeCount
	c.succeed(ctx, ActionToggleLike, "", fields)
	return post, nil
}

func flipLike(p *models.Post) {
	if p.Liked {
		p.Liked = false
		if p.LikeCount > 0 {
			p.LikeCount--
		}
		return
	}
	p.Liked = true
	p.LikeCount++
}

// mergeDone returns a channel closed when either ctx or stop is done. The
// returned func releases the watcher and must be called once waiting ends.
func mergeDone(ctx context.Context, stop <-chan struct{}) (<-chan struct{}, func()) {
	if ctx.Done() == nil {
		return stop, func() {}
	}
	out := make(chan struct{})
	quit := make(chan struct{})
	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
		case <-stop:
		case <-quit:
		}
	}()
	return out, func() { close(quit) }
}

// stampComment fills what the backend left out of an acknowledged comment.
func (c *Controller) stampComment(in models.Comment, content string) models.Comment {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Author == (models.Author{}) {
		in.Author = c.sessions.Current().Author()
	}
	if in.Content == "" {
		in.Content = content
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = c.now()
	}
	if in.Replies == nil {
		in.Replies = []models.Reply{}
	}
	return in
}

func (c *Controller) stampReply(in models.Reply, content string) models.Reply {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Author == (models.Author{}) {
		in.Author = c.sessions.Current().Author()
	}
	if in.Content == "" {
		in.Content = content
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = c.now()
	}
	return in
}

// AddComment posts a comment and appends it once the backend accepts it.
func (c *Controller) AddComment(ctx context.Context, postID, content string) (models.Comment, error) {
	if c.closed.Load() {
		return models.Comment{}, ErrClosed
	}
	fields := map[string]interface{}{"post_id": postID}
	text, err := validation.ValidateMessage(content)
	if err != nil {
		return models.Comment{}, c.fail(ctx, ActionAddComment, "", models.NewValidationError(err.Error()), fields)
	}
	if _, ok := c.cache.Get(postID); !ok {
		return models.Comment{}, c.fail(ctx, ActionAddComment, "Post not found", models.NewNotFoundError("post", postID), fields)
	}

	acked, err := c.backend().AddComment(ctx, postID, text)
	if c.closed.Load() {
		return models.Comment{}, c.fail(ctx, ActionAddComment, "", ErrClosed, fields)
	}
	if err != nil {
		return models.Comment{}, c.fail(ctx, ActionAddComment, "Failed to add comment", err, fields)
	}

	comment := c.stampComment(acked, text)
	if err := c.cache.MutateComments(postID, func(in []models.Comment) ([]models.Comment, error) {
		return append(in, comment), nil
	}); err != nil {
		c.log.LogSkipped(ctx, ActionAddComment, err, fields)
	}
	fields["comment_id"] = comment.ID
	c.succeed(ctx, ActionAddComment, "Comment added", fields)
	return comment, nil
}

// ReplyToComment answers a comment. Unknown posts or comments are rejected
// before anything is sent.
func (c *Controller) ReplyToComment(ctx context.Context, postID, commentID, content string) (models.Reply, error) {
	if c.closed.Load() {
		return models.Reply{}, ErrClosed
	}
	fields := map[string]interface{}{"post_id": postID, "comment_id": commentID}
	text, err := validation.ValidateMessage(content)
	if err != nil {
		return models.Reply{}, c.fail(ctx, ActionReply, "", models.NewValidationError(err.Error()), fields)
	}
	post, ok := c.cache.Get(postID)
	if !ok {
		return models.Reply{}, c.fail(ctx, ActionReply, "Post not found", models.NewNotFoundError("post", postID), fields)
	}
	if post.FindComment(commentID) < 0 {
		return models.Reply{}, c.fail(ctx, ActionReply, "Comment not found", models.NewNotFoundError("comment", commentID), fields)
	}

	acked, err := c.backend().ReplyToComment(ctx, postID, commentID, text)
	if c.closed.Load() {
		return models.Reply{}, c.fail(ctx, ActionReply, "", ErrClosed, fields)
	}
	if err != nil {
		return models.Reply{}, c.fail(ctx, ActionReply, "Failed to add reply", err, fields)
	}

	reply := c.stampReply(acked, text)
	if err := c.cache.MutateComments(postID, func(in []models.Comment) ([]models.Comment, error) {
		for i := range in {
			if in[i].ID == commentID {
				in[i].Replies = append(in[i].Replies, reply)
				return in, nil
			}
		}
		return nil, models.NewNotFoundError("comment", commentID)
	}); err != nil {
		c.log.LogSkipped(ctx, ActionReply, err, fields)
	}
	fields["reply_id"] = reply.ID
	c.succeed(ctx, ActionReply, "Reply added", fields)
	return reply, nil
}

// CreatePost publishes a post and puts it at the head of the feed.
func (c *Controller) CreatePost(ctx context.Context, content, hashtags string, files []models.Upload) (models.Post, error) {
	if c.closed.Load() {
		return models.Post{}, ErrClosed
	}
	tags := validation.ParseHashtags(hashtags)
	if err := validation.ValidatePost(content, tags, len(files)); err != nil {
		return models.Post{}, c.fail(ctx, ActionCreatePost, "", models.NewValidationError(err.Error()), nil)
	}

	created, err := c.backend().CreatePost(ctx, gateway.NewPost{
		Content:  strings.TrimSpace(content),
		Hashtags: tags,
		Files:    files,
	})
	if c.closed.Load() {
		return models.Post{}, c.fail(ctx, ActionCreatePost, "", ErrClosed, nil)
	}
	if err != nil {
		return models.Post{}, c.fail(ctx, ActionCreatePost, "Failed to create post", err, nil)
	}

	post := created.Clone()
	post.LikeCount = 0
	post.Liked = false
	post.Comments = []models.Comment{}
	if post.Author == (models.Author{}) {
		post.Author = c.sessions.Current().Author()
	}
	if post.Content == "" {
		post.Content = strings.TrimSpace(content)
	}
	if len(post.Hashtags) == 0 {
		post.Hashtags = append([]string{}, tags...)
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = c.now()
	}
	if post.Media == nil {
		post.Media = []models.Media{}
	}

	fields := map[string]interface{}{"post_id": post.ID, "files": len(files)}
	if err := c.cache.InsertAtHead(post); err != nil {
		// The backend echoed an id the feed already shows
		c.log.LogSkipped(ctx, ActionCreatePost, err, fields)
		if replaceErr := c.cache.Replace(post.ID, post); replaceErr != nil {
			c.log.LogSkipped(ctx, ActionCreatePost, replaceErr, fields)
		}
	}
	c.succeed(ctx, ActionCreatePost, "Post created successfully", fields)
	return post, nil
}

// ConnectWithUser sends a connection request.
func (c *Controller) ConnectWithUser(ctx context.Context, userID string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	fields := map[string]interface{}{"target_id": userID}
	if strings.TrimSpace(userID) == "" {
		return c.fail(ctx, ActionConnect, "", models.NewValidationError("user id is required"), fields)
	}
	err := c.backend().ConnectWithUser(ctx, userID)
	if c.closed.Load() {
		return c.fail(ctx, ActionConnect, "", ErrClosed, fields)
	}
	if err != nil {
		return c.fail(ctx, ActionConnect, "Failed to send connection request", err, fields)
	}
	c.succeed(ctx, ActionConnect, "Connection request sent successfully", fields)
	return nil
}

// FetchDashboard loads the dashboard. A payload that carries posts also
// replaces the feed.
func (c *Controller) FetchDashboard(ctx context.Context) (models.DashboardData, error) {
	if c.closed.Load() {
		return models.DashboardData{}, ErrClosed
	}
	d, err := c.backend().Dashboard(ctx)
	if c.closed.Load() {
		return models.DashboardData{}, c.fail(ctx, ActionDashboard, "", ErrClosed, nil)
	}
	if err != nil {
		return models.DashboardData{}, c.fail(ctx, ActionDashboard, "Failed to load dashboard", err, nil)
	}
	if d.HasPostsPayload {
		c.cache.Reset(d.Posts)
	}
	c.succeed(ctx, ActionDashboard, "", map[string]interface{}{"posts": len(d.Posts)})
	return d, nil
}

// CreateStartup submits a startup for investors to review.
func (c *Controller) CreateStartup(ctx context.Context, in gateway.NewStartup) (models.Startup, error) {
	if c.closed.Load() {
		return models.Startup{}, ErrClosed
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return models.Startup{}, c.fail(ctx, ActionCreateStartup, "", models.NewValidationError("startup name is required"), nil)
	}
	s, err := c.backend().CreateStartup(ctx, in)
	if c.closed.Load() {
		return models.Startup{}, c.fail(ctx, ActionCreateStartup, "", ErrClosed, nil)
	}
	if err != nil {
		return models.Startup{}, c.fail(ctx, ActionCreateStartup, "Failed to submit startup", err, nil)
	}
	c.succeed(ctx, ActionCreateStartup, "Startup submitted successfully", map[string]interface{}{"startup_id": s.ID})
	return s, nil
}

func (c *Controller) ListStartups(ctx context.Context) ([]models.Startup, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	list, err := c.backend().ListStartups(ctx)
	if c.closed.Load() {
		return nil, c.fail(ctx, ActionListStartups, "", ErrClosed, nil)
	}
	if err != nil {
		return nil, c.fail(ctx, ActionListStartups, "Failed to load startups", err, nil)
	}
	c.succeed(ctx, ActionListStartups, "", map[string]interface{}{"count": len(list)})
	return list, nil
}

func (c *Controller) VoteStartup(ctx context.Context, startupID string) (models.Startup, error) {
	if c.closed.Load() {
		return models.Startup{}, ErrClosed
	}
	fields := map[string]interface{}{"startup_id": startupID}
	s, err := c.backend().VoteStartup(ctx, startupID)
	if c.closed.Load() {
		return models.Startup{}, c.fail(ctx, ActionVoteStartup, "", ErrClosed, fields)
	}
	if err != nil {
		return models.Startup{}, c.fail(ctx, ActionVoteStartup, "Failed to record vote", err, fields)
	}
	c.succeed(ctx, ActionVoteStartup, "", fields)
	return s, nil
}
