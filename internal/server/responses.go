package server

import (
	"strings"
	"time"

	"uniconnect/internal/models"
)

type userResponse struct {
	ID             uint   `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	UserType       string `json:"user_type"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type authorResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type mediaResponse struct {
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
	Name     string `json:"name"`
}

type replyResponse struct {
	ID        uint           `json:"id"`
	User      authorResponse `json:"user"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

type commentResponse struct {
	ID        uint            `json:"id"`
	User      authorResponse  `json:"user"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	Replies   []replyResponse `json:"replies"`
}

type postResponse struct {
	ID         uint              `json:"id"`
	User       authorResponse    `json:"user"`
	Content    string            `json:"content"`
	Hashtag    string            `json:"hashtag"`
	MediaFiles []mediaResponse   `json:"media_files"`
	CreatedAt  time.Time         `json:"created_at"`
	LikesCount int               `json:"likes_count"`
	IsLiked    bool              `json:"is_liked"`
	Comments   []commentResponse `json:"comments"`
}

type startupResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	ProblemStatement string `json:"problem_statement"`
	SolutionApproach string `json:"solution_approach"`
	BusinessModel    string `json:"business_model"`
	MarketAudience   string `json:"market_audience"`
	FundingRequired  string `json:"funding_required"`
	Category         string `json:"category"`
	StudentName      string `json:"student_name"`
	Votes            int    `json:"votes"`
	Voted            bool   `json:"voted"`
}

type dashboardResponse struct {
	models.DashboardData
	PostsData []postResponse `json:"posts_data"`
}

func toUser(u *models.UserRecord) userResponse {
	return userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		UserType:       u.UserType,
		ProfilePicture: u.ProfilePicture,
	}
}

func toAuthor(u models.UserRecord) authorResponse {
	return authorResponse{ID: u.ID, Username: u.Username}
}

func toReply(r models.ReplyRecord) replyResponse {
	return replyResponse{ID: r.ID, User: toAuthor(r.User), Content: r.Content, CreatedAt: r.CreatedAt}
}

func toComment(c models.CommentRecord) commentResponse {
	out := commentResponse{
		ID:        c.ID,
		User:      toAuthor(c.User),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Replies:   make([]replyResponse, 0, len(c.Replies)),
	}
	for _, r := range c.Replies {
		out.Replies = append(out.Replies, toReply(r))
	}
	return out
}

func toPost(p *models.PostRecord) postResponse {
	out := postResponse{
		ID:         p.ID,
		User:       toAuthor(p.User),
		Content:    p.Content,
		Hashtag:    p.Hashtag,
		MediaFiles: make([]mediaResponse, 0, len(p.Media)),
		CreatedAt:  p.CreatedAt,
		LikesCount: p.LikesCount,
		IsLiked:    p.Liked,
		Comments:   make([]commentResponse, 0, len(p.Comments)),
	}
	for _, m := range p.Media {
		out.MediaFiles = append(out.MediaFiles, mediaResponse{FileURL: m.FileURL, FileType: m.FileType, Name: m.Name})
	}
	for _, c := range p.Comments {
		out.Comments = append(out.Comments, toComment(c))
	}
	return out
}

func toPosts(posts []models.PostRecord) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPost(&posts[i]))
	}
	return out
}

func toStartup(s *models.StartupRecord) startupResponse {
	return startupResponse{
		ID:               s.ID,
		Name:             s.Name,
		ProblemStatement: s.ProblemStatement,
		SolutionApproach: s.SolutionApproach,
		BusinessModel:    s.BusinessModel,
		MarketAudience:   s.MarketAudience,
		FundingRequired:  s.FundingRequired,
		Category:         s.Category,
		StudentName:      s.StudentName,
		Votes:            s.Votes,
		Voted:            s.Voted,
	}
}

// joinHashtags stores hashtags in the comma form the feed client sends.
func joinHashtags(tags []string) string {
	return strings.Join(tags, ",")
}
