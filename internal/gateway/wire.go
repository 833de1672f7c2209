package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"uniconnect/internal/models"
	"uniconnect/internal/validation"
)

// object is a decoded JSON object whose fields may arrive under several names.
type object map[string]json.RawMessage

func decodeObject(raw []byte) (object, error) {
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return o, nil
}

// raw returns the first present, non-null field among keys.
func (o object) raw(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		v, ok := o[k]
		if !ok {
			continue
		}
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, []byte("null")) {
			continue
		}
		return v, true
	}
	return nil, false
}

func (o object) has(keys ...string) bool {
	_, ok := o.raw(keys...)
	return ok
}

func (o object) str(keys ...string) string {
	v, ok := o.raw(keys...)
	if !ok {
		return ""
	}
	return scalarString(v)
}

func (o object) integer(keys ...string) int {
	v, ok := o.raw(keys...)
	if !ok {
		return 0
	}
	if v[0] == '[' {
		var arr []json.RawMessage
		if json.Unmarshal(v, &arr) == nil {
			return len(arr)
		}
	}
	n, err := strconv.ParseFloat(scalarString(v), 64)
	if err != nil {
		return 0
	}
	return int(n)
}

func (o object) boolean(keys ...string) bool {
	v, ok := o.raw(keys...)
	if !ok {
		return false
	}
	var b bool
	if json.Unmarshal(v, &b) == nil {
		return b
	}
	switch strings.ToLower(scalarString(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// scalarString renders a JSON string, number or bool as plain text.
func scalarString(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if json.Unmarshal(v, &n) == nil {
		return n.String()
	}
	var b bool
	if json.Unmarshal(v, &b) == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (o object) timestamp(keys ...string) time.Time {
	v, ok := o.raw(keys...)
	if !ok {
		return time.Time{}
	}
	return parseTime(v)
}

func parseTime(v json.RawMessage) time.Time {
	var n float64
	if json.Unmarshal(v, &n) == nil {
		// Numeric values above 1e12 are milliseconds
		if n > 1e12 {
			return time.UnixMilli(int64(n)).UTC()
		}
		return time.Unix(int64(n), 0).UTC()
	}
	s := scalarString(v)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func decodeAuthor(o object) models.Author {
	if v, ok := o.raw("author", "user"); ok {
		if v[0] == '{' {
			if inner, err := decodeObject(v); err == nil {
				return models.Author{
					ID:   inner.str("id", "user_id"),
					Name: firstNonEmpty(inner.str("name", "username", "full_name"), inner.str("email")),
				}
			}
		}
		if name := scalarString(v); name != "" {
			return models.Author{Name: name, ID: o.str("user_id", "author_id")}
		}
	}
	return models.Author{
		ID:   o.str("user_id", "author_id"),
		Name: o.str("user_name", "username", "author_name"),
	}
}

func decodeHashtags(o object) []string {
	v, ok := o.raw("hashtags", "hashtag", "tags")
	if !ok {
		return []string{}
	}
	if v[0] == '[' {
		var tags []string
		if json.Unmarshal(v, &tags) == nil {
			out := make([]string, 0, len(tags))
			for _, t := range tags {
				if t = strings.TrimSpace(t); t != "" {
					out = append(out, t)
				}
			}
			return out
		}
	}
	return validation.ParseHashtags(scalarString(v))
}

func decodeMedia(o object) []models.Media {
	out := []models.Media{}
	v, ok := o.raw("media_files", "files", "media")
	if !ok {
		return out
	}
	var entries []json.RawMessage
	if json.Unmarshal(v, &entries) != nil {
		return out
	}
	for _, e := range entries {
		e = bytes.TrimSpace(e)
		if len(e) == 0 {
			continue
		}
		if e[0] != '{' {
			if u := scalarString(e); u != "" {
				out = append(out, models.Media{URL: u})
			}
			continue
		}
		m, err := decodeObject(e)
		if err != nil {
			continue
		}
		out = append(out, models.Media{
			URL:      m.str("file_url", "url", "file"),
			MIMEKind: m.str("type", "file_type", "mime_type", "mimeKind"),
			Name:     m.str("name", "file_name", "filename"),
		})
	}
	return out
}

func decodeReply(raw json.RawMessage, fallbackID string) models.Reply {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] != '{' {
		return models.Reply{ID: fallbackID, Content: scalarString(raw)}
	}
	o, err := decodeObject(raw)
	if err != nil {
		return models.Reply{ID: fallbackID}
	}
	return models.Reply{
		ID:        firstNonEmpty(o.str("id", "reply_id"), fallbackID),
		Author:    decodeAuthor(o),
		Content:   o.str("content", "text", "reply"),
		CreatedAt: o.timestamp("createdAt", "created_at", "timestamp"),
	}
}

func decodeComment(raw json.RawMessage, fallbackID string) models.Comment {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] != '{' {
		return models.Comment{ID: fallbackID, Content: scalarString(raw), Replies: []models.Reply{}}
	}
	o, err := decodeObject(raw)
	if err != nil {
		return models.Comment{ID: fallbackID, Replies: []models.Reply{}}
	}
	c := models.Comment{
		ID:        firstNonEmpty(o.str("id", "comment_id"), fallbackID),
		Author:    decodeAuthor(o),
		Content:   o.str("content", "text", "comment"),
		CreatedAt: o.timestamp("createdAt", "created_at", "timestamp"),
		Replies:   []models.Reply{},
	}
	if v, ok := o.raw("replies"); ok {
		var replies []json.RawMessage
		if json.Unmarshal(v, &replies) == nil {
			for i, r := range replies {
				c.Replies = append(c.Replies, decodeReply(r, fmt.Sprintf("%s-r%d", c.ID, i)))
			}
		}
	}
	return c
}

var (
	likeCountKeys = []string{"likes", "likes_count", "like_count"}
	likedKeys     = []string{"liked", "is_liked", "isLiked"}
)

// decodePost maps any backend post shape onto the canonical record.
func decodePost(raw []byte) (models.Post, error) {
	o, err := decodeObject(raw)
	if err != nil {
		return models.Post{}, fmt.Errorf("decode post: %w", err)
	}
	id := o.str("id", "post_id")
	if id == "" {
		return models.Post{}, fmt.Errorf("decode post: missing id")
	}

	p := models.Post{
		ID:        id,
		Author:    decodeAuthor(o),
		Content:   o.str("content", "text"),
		Hashtags:  decodeHashtags(o),
		Media:     decodeMedia(o),
		CreatedAt: o.timestamp("createdAt", "created_at", "timestamp"),
		LikeCount: o.integer(likeCountKeys...),
		Liked:     o.boolean(likedKeys...),
		Comments:  []models.Comment{},
	}
	if p.LikeCount < 0 {
		p.LikeCount = 0
	}
	if v, ok := o.raw("comments"); ok && v[0] == '[' {
		var comments []json.RawMessage
		if json.Unmarshal(v, &comments) == nil {
			for i, c := range comments {
				p.Comments = append(p.Comments, decodeComment(c, fmt.Sprintf("%s-c%d", id, i)))
			}
		}
	}
	return p, nil
}

// decodePostList accepts a bare array or an object wrapping one.
func decodePostList(raw []byte) ([]models.Post, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		o, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("decode post list: %w", err)
		}
		inner, ok := o.raw("posts", "results", "data", "posts_data")
		if !ok {
			return []models.Post{}, nil
		}
		raw = inner
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode post list: %w", err)
	}
	posts := make([]models.Post, 0, len(items))
	for _, item := range items {
		p, err := decodePost(item)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// decodeLikeAck reads either {success: bool} or the updated post.
func decodeLikeAck(raw []byte) (models.LikeAck, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.LikeAck{Success: true}, nil
	}
	o, err := decodeObject(raw)
	if err != nil {
		return models.LikeAck{}, fmt.Errorf("decode like ack: %w", err)
	}
	ack := models.LikeAck{Success: true}
	if o.has("success") {
		ack.Success = o.boolean("success")
	}
	postRaw, nested := o.raw("post")
	if !nested && o.has("id", "post_id") {
		postRaw = raw
	}
	if len(postRaw) == 0 {
		return ack, nil
	}
	// A post only reconciles the cache when it carries the like state
	if po, err := decodeObject(postRaw); err != nil || !po.has(likeCountKeys...) || !po.has(likedKeys...) {
		if nested && err != nil {
			return models.LikeAck{}, fmt.Errorf("decode like ack: %w", err)
		}
		return ack, nil
	}
	p, err := decodePost(postRaw)
	if err != nil {
		return models.LikeAck{}, err
	}
	ack.Post = &p
	return ack, nil
}

// unwrap returns the value under key when the backend nests the record.
func unwrap(raw []byte, keys ...string) []byte {
	o, err := decodeObject(raw)
	if err != nil {
		return raw
	}
	if v, ok := o.raw(keys...); ok && v[0] == '{' {
		return v
	}
	return raw
}

func decodeStartup(raw json.RawMessage) (models.Startup, error) {
	o, err := decodeObject(raw)
	if err != nil {
		return models.Startup{}, fmt.Errorf("decode startup: %w", err)
	}
	return models.Startup{
		ID:               o.str("id", "startup_id"),
		Name:             o.str("name", "startup_name"),
		ProblemStatement: o.str("problem_statement", "problemStatement"),
		SolutionApproach: o.str("solution_approach", "solutionApproach"),
		BusinessModel:    o.str("business_model", "businessModel"),
		MarketAudience:   o.str("market_audience", "marketAudience"),
		FundingRequired:  o.str("funding_required", "fundingRequired"),
		Category:         o.str("category"),
		StudentName:      firstNonEmpty(o.str("student_name", "studentName"), decodeAuthor(o).Name),
		Votes:            o.integer("votes", "vote_count", "votes_count"),
		Voted:            o.boolean("voted", "has_voted", "is_voted"),
	}, nil
}

func decodeStartupList(raw []byte) ([]models.Startup, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		o, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("decode startups: %w", err)
		}
		inner, ok := o.raw("startups", "results", "data")
		if !ok {
			return []models.Startup{}, nil
		}
		raw = inner
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode startups: %w", err)
	}
	out := make([]models.Startup, 0, len(items))
	for _, item := range items {
		s, err := decodeStartup(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// decodeDashboard reads the widget payload. posts_data is carried separately
// so callers can tell an empty list from an absent one.
func decodeDashboard(raw []byte) (models.DashboardData, error) {
	var d models.DashboardData
	if err := json.Unmarshal(raw, &d); err != nil {
		return models.DashboardData{}, fmt.Errorf("decode dashboard: %w", err)
	}
	o, err := decodeObject(raw)
	if err != nil {
		return models.DashboardData{}, fmt.Errorf("decode dashboard: %w", err)
	}
	if v, ok := o.raw("posts_data"); ok {
		posts, err := decodePostList(v)
		if err != nil {
			return models.DashboardData{}, err
		}
		d.Posts = posts
		d.HasPostsPayload = true
	}
	return d, nil
}

// AuthResult is a decoded login or signup response.
type AuthResult struct {
	Token string
	User  json.RawMessage
}

func decodeAuth(raw []byte) (AuthResult, error) {
	o, err := decodeObject(raw)
	if err != nil {
		return AuthResult{}, fmt.Errorf("decode auth response: %w", err)
	}
	res := AuthResult{Token: o.str("token", "access", "access_token", "key")}
	if v, ok := o.raw("user"); ok && v[0] == '{' {
		res.User = v
	} else {
		res.User = json.RawMessage(raw)
	}
	return res, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
