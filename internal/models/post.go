// Package models contains data structures for the dashboard's domain records.
package models

import "time"

// Author identifies who wrote a post, comment or reply.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Media is an attachment on a post.
type Media struct {
	URL      string `json:"url"`
	MIMEKind string `json:"mimeKind"`
	Name     string `json:"name"`
}

// Reply is the second and last level of discussion under a post.
type Reply struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a top-level response to a post.
type Comment struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Replies   []Reply   `json:"replies"`
}

// Post is the canonical feed record. LikeCount is never negative and Liked
// only changes together with a one-step change of LikeCount.
type Post struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	Hashtags  []string  `json:"hashtags"`
	Media     []Media   `json:"media"`
	CreatedAt time.Time `json:"createdAt"`
	LikeCount int       `json:"likes"`
	Liked     bool      `json:"liked"`
	Comments  []Comment `json:"comments"`
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	out := p
	if p.Hashtags != nil {
		out.Hashtags = append([]string(nil), p.Hashtags...)
	}
	if p.Media != nil {
		out.Media = append([]Media(nil), p.Media...)
	}
	out.Comments = CloneComments(p.Comments)
	return out
}

// FindComment returns the index of the comment with the given id, or -1.
func (p Post) FindComment(commentID string) int {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return i
		}
	}
	return -1
}

// CloneComments deep-copies a comment sequence including replies.
func CloneComments(in []Comment) []Comment {
	if in == nil {
		return nil
	}
	out := make([]Comment, len(in))
	for i, c := range in {
		out[i] = c
		if c.Replies != nil {
			out[i].Replies = append([]Reply(nil), c.Replies...)
		}
	}
	return out
}

// Upload is a file attached to a new post. Content is read once when the
// post is sent.
type Upload struct {
	Name     string
	MIMEKind string
	Content  []byte
}

// LikeAck is a backend acknowledgement of a like toggle. Post is set when
// the backend returned the authoritative record.
type LikeAck struct {
	Success bool
	Post    *Post
}
