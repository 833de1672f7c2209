package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRecord is a registered account on the development backend.
type UserRecord struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"not null" json:"username"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	UserType       string         `gorm:"size:16" json:"user_type"`
	ProfilePicture string         `json:"profile_picture,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserRecord) TableName() string { return "users" }

// PostRecord is a stored post. Hashtags are kept as the raw comma list.
type PostRecord struct {
	ID       uint            `gorm:"primaryKey"`
	Content  string          `gorm:"type:text"`
	Hashtag  string          `gorm:"type:text"`
	UserID   uint            `gorm:"not null;index"`
	User     UserRecord      `gorm:"foreignKey:UserID"`
	Media    []MediaRecord   `gorm:"foreignKey:PostID"`
	Comments []CommentRecord `gorm:"foreignKey:PostID"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool `gorm:"->;-:migration"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PostRecord) TableName() string { return "posts" }

// MediaRecord is the metadata of an uploaded attachment.
type MediaRecord struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;index"`
	FileURL   string `gorm:"not null"`
	FileType  string
	Name      string
	Size      int
	CreatedAt time.Time
}

func (MediaRecord) TableName() string { return "post_media" }

type CommentRecord struct {
	ID        uint          `gorm:"primaryKey"`
	PostID    uint          `gorm:"not null;index"`
	UserID    uint          `gorm:"not null;index"`
	User      UserRecord    `gorm:"foreignKey:UserID"`
	Content   string        `gorm:"type:text;not null"`
	Replies   []ReplyRecord `gorm:"foreignKey:CommentID"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CommentRecord) TableName() string { return "comments" }

type ReplyRecord struct {
	ID        uint       `gorm:"primaryKey"`
	CommentID uint       `gorm:"not null;index"`
	UserID    uint       `gorm:"not null;index"`
	User      UserRecord `gorm:"foreignKey:UserID"`
	Content   string     `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (ReplyRecord) TableName() string { return "replies" }

type LikeRecord struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_like_user_post"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_like_user_post"`
	CreatedAt time.Time
}

func (LikeRecord) TableName() string { return "likes" }

type StartupRecord struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           uint   `gorm:"not null;index"`
	Name             string `gorm:"not null"`
	ProblemStatement string `gorm:"type:text"`
	SolutionApproach string `gorm:"type:text"`
	BusinessModel    string
	MarketAudience   string
	FundingRequired  string
	Category         string
	StudentName      string
	// Votes is not persisted; computed at query time
	Votes int `gorm:"->;-:migration"`
	// Voted indicates whether the current requesting user voted (computed)
	Voted     bool `gorm:"->;-:migration"`
	CreatedAt time.Time
}

func (StartupRecord) TableName() string { return "startups" }

type StartupVoteRecord struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_vote_user_startup"`
	StartupID uint `gorm:"not null;uniqueIndex:idx_vote_user_startup"`
	CreatedAt time.Time
}

func (StartupVoteRecord) TableName() string { return "startup_votes" }

// ConnectionRecord is a pending connection request between two users.
type ConnectionRecord struct {
	ID          uint `gorm:"primaryKey"`
	RequesterID uint `gorm:"not null;uniqueIndex:idx_conn_pair"`
	TargetID    uint `gorm:"not null;uniqueIndex:idx_conn_pair"`
	CreatedAt   time.Time
}

func (ConnectionRecord) TableName() string { return "connections" }

// AllRecords lists every table the development backend migrates.
func AllRecords() []any {
	return []any{
		&UserRecord{},
		&PostRecord{},
		&MediaRecord{},
		&CommentRecord{},
		&ReplyRecord{},
		&LikeRecord{},
		&StartupRecord{},
		&StartupVoteRecord{},
		&ConnectionRecord{},
	}
}
