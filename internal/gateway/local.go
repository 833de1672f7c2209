package gateway

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"uniconnect/internal/models"
	"uniconnect/internal/seed"

	"github.com/google/uuid"
)

// AuthorFunc reports who is acting on the local backend.
type AuthorFunc func() models.Author

// Local is an in-process Backend. It keeps its own copy of the feed, stamps
// ids locally and acknowledges every well-formed request.
type Local struct {
	mu       sync.Mutex
	posts    []models.Post
	startups []models.Startup
	votes    map[string]bool
	nextID   int
	author   AuthorFunc
	latency  time.Duration
	now      func() time.Time
}

// LocalOption configures a Local backend.
type LocalOption func(*Local)

// WithLatency delays every call by d, honouring context cancellation.
func WithLatency(d time.Duration) LocalOption {
	return func(l *Local) { l.latency = d }
}

// WithPosts replaces the demo feed.
func WithPosts(posts []models.Post) LocalOption {
	return func(l *Local) {
		l.posts = make([]models.Post, len(posts))
		for i := range posts {
			l.posts[i] = posts[i].Clone()
		}
	}
}

// NewLocal creates a local backend seeded with the demo feed.
func NewLocal(author AuthorFunc, opts ...LocalOption) *Local {
	if author == nil {
		author = func() models.Author { return models.Author{ID: "local", Name: "CurrentUser"} }
	}
	l := &Local{
		posts:  seed.DemoPosts(time.Now().UTC()),
		votes:  make(map[string]bool),
		author: author,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	l.nextID = len(l.posts)
	for _, p := range l.posts {
		if n, err := strconv.Atoi(p.ID); err == nil && n > l.nextID {
			l.nextID = n
		}
	}
	return l
}

func (l *Local) wait(ctx context.Context) error {
	if l.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return models.NewTransportError("local", 0, err)
		}
		return nil
	}
	timer := time.NewTimer(l.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return models.NewTransportError("local", 0, ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (l *Local) indexOf(postID string) int {
	for i := range l.posts {
		if l.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

func (l *Local) ListPosts(ctx context.Context) ([]models.Post, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Post, len(l.posts))
	for i := range l.posts {
		out[i] = l.posts[i].Clone()
	}
	return out, nil
}

func (l *Local) CreatePost(ctx context.Context, in NewPost) (models.Post, error) {
	if err := l.wait(ctx); err != nil {
		return models.Post{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	p := models.Post{
		ID:        strconv.Itoa(l.nextID),
		Author:    l.author(),
		Content:   in.Content,
		Hashtags:  append([]string{}, in.Hashtags...),
		Media:     make([]models.Media, 0, len(in.Files)),
		CreatedAt: l.now(),
		Comments:  []models.Comment{},
	}
	for _, f := range in.Files {
		p.Media = append(p.Media, models.Media{
			URL:      "local://media/" + uuid.NewString() + "/" + f.Name,
			MIMEKind: f.MIMEKind,
			Name:     f.Name,
		})
	}
	l.posts = append([]models.Post{p}, l.posts...)
	return p.Clone(), nil
}

func (l *Local) ToggleLike(ctx context.Context, postID string) (models.LikeAck, error) {
	if err := l.wait(ctx); err != nil {
		return models.LikeAck{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(postID)
	if i < 0 {
		return models.LikeAck{}, models.NewNotFoundError("post", postID)
	}
	p := &l.posts[i]
	p.Liked = !p.Liked
	if p.Liked {
		p.LikeCount++
	} else if p.LikeCount > 0 {
		p.LikeCount--
	}
	out := p.Clone()
	return models.LikeAck{Success: true, Post: &out}, nil
}

func (l *Local) AddComment(ctx context.Context, postID, content string) (models.Comment, error) {
	if err := l.wait(ctx); err != nil {
		return models.Comment{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(postID)
	if i < 0 {
		return models.Comment{}, models.NewNotFoundError("post", postID)
	}
	c := models.Comment{
		ID:        uuid.NewString(),
		Author:    l.author(),
		Content:   content,
		CreatedAt: l.now(),
		Replies:   []models.Reply{},
	}
	l.posts[i].Comments = append(l.posts[i].Comments, c)
	return c, nil
}

func (l *Local) ReplyToComment(ctx context.Context, postID, commentID, content string) (models.Reply, error) {
	if err := l.wait(ctx); err != nil {
		return models.Reply{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(postID)
	if i < 0 {
		return models.Reply{}, models.NewNotFoundError("post", postID)
	}
	j := l.posts[i].FindComment(commentID)
	if j < 0 {
		return models.Reply{}, models.NewNotFoundError("comment", commentID)
	}
	r := models.Reply{
		ID:        uuid.NewString(),
		Author:    l.author(),
		Content:   content,
		CreatedAt: l.now(),
	}
	l.posts[i].Comments[j].Replies = append(l.posts[i].Comments[j].Replies, r)
	return r, nil
}

// Dashboard returns the static widgets. The local feed is not included.
func (l *Local) Dashboard(ctx context.Context) (models.DashboardData, error) {
	if err := l.wait(ctx); err != nil {
		return models.DashboardData{}, err
	}
	return seed.Dashboard(), nil
}

func (l *Local) ConnectWithUser(ctx context.Context, userID string) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	if userID == "" {
		return models.NewValidationError("user id is required")
	}
	return nil
}

func (l *Local) CreateStartup(ctx context.Context, in NewStartup) (models.Startup, error) {
	if err := l.wait(ctx); err != nil {
		return models.Startup{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	s := models.Startup{
		ID:               fmt.Sprintf("startup-%d", len(l.startups)+1),
		Name:             in.Name,
		ProblemStatement: in.ProblemStatement,
		SolutionApproach: in.SolutionApproach,
		BusinessModel:    in.BusinessModel,
		MarketAudience:   in.MarketAudience,
		FundingRequired:  in.FundingRequired,
		Category:         in.Category,
		StudentName:      l.author().Name,
	}
	l.startups = append(l.startups, s)
	return s, nil
}

func (l *Local) ListStartups(ctx context.Context) ([]models.Startup, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	actor := l.author().ID
	out := make([]models.Startup, len(l.startups))
	for i, s := range l.startups {
		s.Voted = l.votes[actor+":"+s.ID]
		out[i] = s
	}
	return out, nil
}

// VoteStartup toggles the current actor's vote.
func (l *Local) VoteStartup(ctx context.Context, startupID string) (models.Startup, error) {
	if err := l.wait(ctx); err != nil {
		return models.Startup{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.startups {
		if l.startups[i].ID != startupID {
			continue
		}
		key := l.author().ID + ":" + startupID
		s := &l.startups[i]
		if l.votes[key] {
			delete(l.votes, key)
			s.Votes--
			s.Voted = false
		} else {
			l.votes[key] = true
			s.Votes++
			s.Voted = true
		}
		return *s, nil
	}
	return models.Startup{}, models.NewNotFoundError("startup", startupID)
}
