package interaction

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"uniconnect/internal/feed"
	"uniconnect/internal/gateway"
	"uniconnect/internal/models"
	"uniconnect/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRemoteHarness wires the controller to a REST client talking to app.
func newRemoteHarness(t *testing.T, app *fiber.App, posts ...models.Post) (*Controller, *feed.Cache, *Recorder) {
	t.Helper()
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	cache := feed.NewCache()
	cache.Reset(posts)
	sessions := &fakeSessions{current: session.Session{ActorID: "1", ActorName: "John Student", Role: models.RoleStudent, Token: "token-1"}}
	notices := &Recorder{}
	ctrl := NewController(cache, fixedRouter{gateway.NewClient(srv.URL)}, sessions, notices, WithClock(func() time.Time { return testNow }))
	t.Cleanup(ctrl.Close)
	return ctrl, cache, notices
}

func TestRemoteRefusedCommentLeavesCache(t *testing.T) {
	app := fiber.New()
	refuse := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": false, "error": "comments disabled"})
	}
	app.Post(gateway.PathComment, refuse)
	app.Post(gateway.PathReply, refuse)
	ctrl, cache, notices := newRemoteHarness(t, app, testPost("1", 0, false))

	_, err := ctrl.AddComment(context.Background(), "1", "hello")
	require.Error(t, err)
	assert.True(t, models.IsTransport(err))

	_, err = ctrl.ReplyToComment(context.Background(), "1", "1-c0", "thanks")
	require.Error(t, err)
	assert.True(t, models.IsTransport(err))

	p, ok := cache.Get("1")
	require.True(t, ok)
	require.Len(t, p.Comments, 1)
	assert.Empty(t, p.Comments[0].Replies)
	assert.Len(t, notices.Notices(), 2)
}

func TestRemoteLikeAckShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      fiber.Map
		wantLiked bool
		wantLikes int
		wantErr   bool
	}{
		{"Bare ack keeps optimistic state", fiber.Map{"success": true, "post_id": "1"}, true, 4, false},
		{"Count only keeps optimistic state", fiber.Map{"success": true, "id": 1, "likes_count": 0}, true, 4, false},
		{"Full post reconciles", fiber.Map{"success": true, "post": fiber.Map{"id": 1, "likes_count": 10, "is_liked": true}}, true, 10, false},
		{"Refusal rolls back", fiber.Map{"success": false, "post_id": "1"}, false, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post(gateway.PathLikePost, func(c *fiber.Ctx) error { return c.JSON(tt.body) })
			ctrl, cache, _ := newRemoteHarness(t, app, testPost("1", 3, false))

			_, err := ctrl.ToggleLike(context.Background(), "1")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			p, ok := cache.Get("1")
			require.True(t, ok)
			assert.Equal(t, tt.wantLiked, p.Liked)
			assert.Equal(t, tt.wantLikes, p.LikeCount)
		})
	}
}
