package gateway

import (
	"testing"
	"time"

	"uniconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePost_Variants(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, p models.Post)
	}{
		{
			name: "Backend snake case",
			raw: `{"id": 41, "content": "hello", "hashtag": "ai, , education", "likes_count": 3, "is_liked": true,
				"created_at": "2024-05-01T10:00:00Z", "user": {"id": 7, "username": "john"},
				"media_files": [{"file_url": "/m/a.png", "file_type": "image/png", "name": "a.png"}]}`,
			check: func(t *testing.T, p models.Post) {
				assert.Equal(t, "41", p.ID)
				assert.Equal(t, []string{"ai", "education"}, p.Hashtags)
				assert.Equal(t, 3, p.LikeCount)
				assert.True(t, p.Liked)
				assert.Equal(t, models.Author{ID: "7", Name: "john"}, p.Author)
				require.Len(t, p.Media, 1)
				assert.Equal(t, models.Media{URL: "/m/a.png", MIMEKind: "image/png", Name: "a.png"}, p.Media[0])
				assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), p.CreatedAt)
			},
		},
		{
			name: "Mock shape with string comments",
			raw:  `{"id": 1, "content": "x", "hashtags": ["#student", "#library"], "likes": 3, "liked": false, "comments": ["Great resource!", "Thanks!"], "user": "CurrentUser", "timestamp": "2024-01-02T03:04:05.123Z"}`,
			check: func(t *testing.T, p models.Post) {
				assert.Equal(t, []string{"#student", "#library"}, p.Hashtags)
				require.Len(t, p.Comments, 2)
				assert.Equal(t, "1-c0", p.Comments[0].ID)
				assert.Equal(t, "1-c1", p.Comments[1].ID)
				assert.Equal(t, "Thanks!", p.Comments[1].Content)
				assert.Equal(t, "CurrentUser", p.Author.Name)
				assert.False(t, p.CreatedAt.IsZero())
			},
		},
		{
			name: "Files with url and mime_type",
			raw:  `{"id": "p9", "like_count": -4, "files": [{"url": "u", "mime_type": "video/mp4"}, "plain-url"]}`,
			check: func(t *testing.T, p models.Post) {
				assert.Equal(t, 0, p.LikeCount)
				require.Len(t, p.Media, 2)
				assert.Equal(t, "video/mp4", p.Media[0].MIMEKind)
				assert.Equal(t, "plain-url", p.Media[1].URL)
				assert.Equal(t, []string{}, p.Hashtags)
				assert.Equal(t, []models.Comment{}, p.Comments)
			},
		},
		{
			name: "Nested comments with replies",
			raw:  `{"id": 5, "user_name": "Ann", "comments": [{"id": 10, "content": "c", "user": {"id": 2, "name": "Bo"}, "replies": [{"content": "r"}]}]}`,
			check: func(t *testing.T, p models.Post) {
				assert.Equal(t, "Ann", p.Author.Name)
				require.Len(t, p.Comments, 1)
				assert.Equal(t, "10", p.Comments[0].ID)
				assert.Equal(t, "Bo", p.Comments[0].Author.Name)
				require.Len(t, p.Comments[0].Replies, 1)
				assert.Equal(t, "10-r0", p.Comments[0].Replies[0].ID)
			},
		},
		{
			name: "Likes as array of users and unix time",
			raw:  `{"id": 6, "likes": [1, 2, 3], "createdAt": 1700000000}`,
			check: func(t *testing.T, p models.Post) {
				assert.Equal(t, 3, p.LikeCount)
				assert.Equal(t, time.Unix(1700000000, 0).UTC(), p.CreatedAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := decodePost([]byte(tt.raw))
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestDecodePost_MissingID(t *testing.T) {
	_, err := decodePost([]byte(`{"content": "no id"}`))
	assert.Error(t, err)
	_, err = decodePost([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestDecodePostList(t *testing.T) {
	posts, err := decodePostList([]byte(`[{"id": 1}, {"id": 2}]`))
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = decodePostList([]byte(`{"posts": [{"id": 3}]}`))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "3", posts[0].ID)

	posts, err = decodePostList([]byte(`{"detail": "nothing"}`))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDecodeLikeAck(t *testing.T) {
	ack, err := decodeLikeAck([]byte(`{"success": false}`))
	require.NoError(t, err)
	assert.False(t, ack.Success)
	assert.Nil(t, ack.Post)

	ack, err = decodeLikeAck([]byte(`{"success": true, "post": {"id": 2, "likes_count": 8, "is_liked": true}}`))
	require.NoError(t, err)
	assert.True(t, ack.Success)
	require.NotNil(t, ack.Post)
	assert.Equal(t, 8, ack.Post.LikeCount)

	ack, err = decodeLikeAck([]byte(`{"id": 2, "likes": 1, "liked": true}`))
	require.NoError(t, err)
	assert.True(t, ack.Success)
	require.NotNil(t, ack.Post)
	assert.True(t, ack.Post.Liked)

	ack, err = decodeLikeAck(nil)
	require.NoError(t, err)
	assert.True(t, ack.Success)
}

func TestDecodeDashboard(t *testing.T) {
	d, err := decodeDashboard([]byte(`{
		"notifications": [{"id": "n1", "title": "t", "read": false}],
		"recent_activity": [{"id": "a1", "person": {"name": "Jane Smith"}, "activity": "shared"}],
		"posts_data": [{"id": 1}]
	}`))
	require.NoError(t, err)
	assert.True(t, d.HasPostsPayload)
	require.Len(t, d.Posts, 1)
	require.Len(t, d.Activity, 1)
	assert.Equal(t, "Jane Smith", d.Activity[0].Person)

	d, err = decodeDashboard([]byte(`{"courses": []}`))
	require.NoError(t, err)
	assert.False(t, d.HasPostsPayload)
}

func TestDecodeAuth(t *testing.T) {
	res, err := decodeAuth([]byte(`{"token": "abc", "user": {"id": 1}}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)
	assert.JSONEq(t, `{"id": 1}`, string(res.User))

	res, err = decodeAuth([]byte(`{"access": "xyz", "user_id": 4, "username": "kim"}`))
	require.NoError(t, err)
	assert.Equal(t, "xyz", res.Token)
	assert.Contains(t, string(res.User), `"user_id"`)
}

func TestDecodeStartup(t *testing.T) {
	s, err := decodeStartup([]byte(`{"id": 3, "name": "Solar", "vote_count": 2, "has_voted": true, "user": {"username": "ann"}}`))
	require.NoError(t, err)
	assert.Equal(t, "3", s.ID)
	assert.Equal(t, 2, s.Votes)
	assert.True(t, s.Voted)
	assert.Equal(t, "ann", s.StudentName)
}

func TestDecodeLikeAck_WithoutLikeState(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		success bool
	}{
		{"Bare post id", `{"success": true, "post_id": "1"}`, true},
		{"Bare id", `{"id": 4}`, true},
		{"Count without liked", `{"success": true, "id": 4, "likes_count": 9}`, true},
		{"Nested post missing like state", `{"success": true, "post": {"id": 4, "content": "x"}}`, true},
		{"Refused with id", `{"success": false, "post_id": "1"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack, err := decodeLikeAck([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.success, ack.Success)
			assert.Nil(t, ack.Post)
		})
	}
}
