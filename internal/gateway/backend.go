// Package gateway talks to the posts backend: the remote REST service and
// an in-process simulation used for roles that are not routed remotely.
package gateway

import (
	"context"

	"uniconnect/internal/models"
)

// NewPost is the input of a post creation.
type NewPost struct {
	Content  string
	Hashtags []string
	Files    []models.Upload
}

// NewStartup is the input of a startup submission.
type NewStartup struct {
	Name             string
	ProblemStatement string
	SolutionApproach string
	BusinessModel    string
	MarketAudience   string
	FundingRequired  string
	Category         string
}

// Backend is the set of remote operations the feed depends on.
type Backend interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, in NewPost) (models.Post, error)
	ToggleLike(ctx context.Context, postID string) (models.LikeAck, error)
	AddComment(ctx context.Context, postID, content string) (models.Comment, error)
	ReplyToComment(ctx context.Context, postID, commentID, content string) (models.Reply, error)
	Dashboard(ctx context.Context) (models.DashboardData, error)
	ConnectWithUser(ctx context.Context, userID string) error
	CreateStartup(ctx context.Context, in NewStartup) (models.Startup, error)
	ListStartups(ctx context.Context) ([]models.Startup, error)
	VoteStartup(ctx context.Context, startupID string) (models.Startup, error)
}

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed token, used by tools and tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }
