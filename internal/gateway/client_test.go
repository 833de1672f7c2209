package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"uniconnect/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newApp returns a fiber app whose request values outlive the handler.
func newApp() *fiber.App {
	return fiber.New(fiber.Config{Immutable: true})
}

// newTestServer serves app over a real HTTP listener.
func newTestServer(t *testing.T, app *fiber.App) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ListPostsSendsBearer(t *testing.T) {
	app := newApp()
	var gotAuth string
	app.Get(PathListPosts, func(c *fiber.Ctx) error {
		gotAuth = c.Get("Authorization")
		return c.JSON([]fiber.Map{
			{"id": 1, "content": "a", "likes_count": 2, "user": fiber.Map{"id": 3, "username": "ann"}},
			{"id": 2, "content": "b", "hashtag": "go,fiber"},
		})
	})
	srv := newTestServer(t, app)

	c := NewClient(srv.URL, WithTokenSource(StaticToken("tok-123")))
	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	require.Len(t, posts, 2)
	assert.Equal(t, "1", posts[0].ID)
	assert.Equal(t, "ann", posts[0].Author.Name)
	assert.Equal(t, []string{"go", "fiber"}, posts[1].Hashtags)
}

func TestClient_CreatePostMultipart(t *testing.T) {
	app := newApp()
	type seenFile struct{ name, kind, body string }
	var (
		content, hashtag string
		files            []seenFile
	)
	app.Post(PathCreatePost, func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		content = form.Value["content"][0]
		hashtag = form.Value["hashtag"][0]
		for _, key := range []string{"file0", "file1"} {
			for _, fh := range form.File[key] {
				f, err := fh.Open()
				if err != nil {
					return err
				}
				b, _ := io.ReadAll(f)
				_ = f.Close()
				files = append(files, seenFile{fh.Filename, fh.Header.Get("Content-Type"), string(b)})
			}
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": 77, "content": content, "hashtag": hashtag})
	})
	srv := newTestServer(t, app)

	c := NewClient(srv.URL)
	p, err := c.CreatePost(context.Background(), NewPost{
		Content:  "launch day",
		Hashtags: []string{"ai", "education", "ai"},
		Files: []models.Upload{
			{Name: "a.png", MIMEKind: "image/png", Content: []byte("png-bytes")},
			{Name: "notes.pdf", MIMEKind: "application/pdf", Content: []byte("pdf-bytes")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "77", p.ID)
	assert.Equal(t, "launch day", content)
	assert.Equal(t, "ai,education,ai", hashtag)
	require.Len(t, files, 2)
	assert.Equal(t, seenFile{"a.png", "image/png", "png-bytes"}, files[0])
	assert.Equal(t, seenFile{"notes.pdf", "application/pdf", "pdf-bytes"}, files[1])
}

func TestClient_LikeSendsFormField(t *testing.T) {
	app := newApp()
	var postID string
	app.Post(PathLikePost, func(c *fiber.Ctx) error {
		postID = c.FormValue("post_id")
		return c.JSON(fiber.Map{"success": false})
	})
	srv := newTestServer(t, app)

	ack, err := NewClient(srv.URL).ToggleLike(context.Background(), "12")
	require.NoError(t, err)
	assert.Equal(t, "12", postID)
	assert.False(t, ack.Success)
}

func TestClient_CommentAndReply(t *testing.T) {
	app := newApp()
	app.Post(PathComment, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": 9, "content": c.FormValue("content"), "user": fiber.Map{"id": 1, "username": "me"}})
	})
	app.Post(PathReply, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"reply": fiber.Map{"id": 4, "content": c.FormValue("content") + "@" + c.FormValue("comment_id")}})
	})
	srv := newTestServer(t, app)
	c := NewClient(srv.URL)

	comment, err := c.AddComment(context.Background(), "1", "nice")
	require.NoError(t, err)
	assert.Equal(t, "9", comment.ID)
	assert.Equal(t, "nice", comment.Content)
	assert.Equal(t, "me", comment.Author.Name)

	reply, err := c.ReplyToComment(context.Background(), "1", "9", "thanks")
	require.NoError(t, err)
	assert.Equal(t, "4", reply.ID)
	assert.Equal(t, "thanks@9", reply.Content)
}

func TestClient_RefusedAcks(t *testing.T) {
	app := newApp()
	refuse := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": false, "error": "comments disabled"})
	}
	app.Post(PathComment, refuse)
	app.Post(PathReply, refuse)
	app.Post(PathConnections, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": false})
	})
	srv := newTestServer(t, app)
	c := NewClient(srv.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{"Comment", func() error { _, err := c.AddComment(ctx, "1", "nice"); return err }, "comments disabled"},
		{"Reply", func() error { _, err := c.ReplyToComment(ctx, "1", "9", "thanks"); return err }, "comments disabled"},
		{"Connect", func() error { return c.ConnectWithUser(ctx, "5") }, "backend refused the request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, models.IsTransport(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	app := newApp()
	app.Get(PathListPosts, func(c *fiber.Ctx) error {
		switch c.Get("Authorization") {
		case "Bearer expired":
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "token expired"})
		case "Bearer banned":
			return c.Status(fiber.StatusForbidden).SendString("forbidden")
		}
		return c.Status(fiber.StatusInternalServerError).SendString("database unavailable")
	})
	app.Get(PathDashboard, func(c *fiber.Ctx) error {
		return c.SendString("not json")
	})
	srv := newTestServer(t, app)

	_, err := NewClient(srv.URL, WithTokenSource(StaticToken("expired"))).ListPosts(context.Background())
	assert.True(t, models.IsAuth(err))

	_, err = NewClient(srv.URL, WithTokenSource(StaticToken("banned"))).ListPosts(context.Background())
	assert.True(t, models.IsAuth(err))

	_, err = NewClient(srv.URL).ListPosts(context.Background())
	require.True(t, models.IsTransport(err))
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "database unavailable")

	_, err = NewClient(srv.URL).Dashboard(context.Background())
	assert.True(t, models.IsTransport(err))
}

func TestClient_NetworkFailureIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, WithTimeout(time.Second)).ListPosts(context.Background())
	assert.True(t, models.IsTransport(err))
}

func TestClient_NoRetry(t *testing.T) {
	app := newApp()
	calls := 0
	app.Post(PathLikePost, func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusBadGateway).SendString("upstream")
	})
	srv := newTestServer(t, app)

	_, err := NewClient(srv.URL).ToggleLike(context.Background(), "1")
	assert.True(t, models.IsTransport(err))
	assert.Equal(t, 1, calls)
}

func TestClient_LoginAndSignup(t *testing.T) {
	app := newApp()
	app.Post(PathLogin, func(c *fiber.Ctx) error {
		if c.FormValue("password") != "campus2024" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return c.JSON(fiber.Map{"token": "jwt", "user": fiber.Map{"id": 1, "username": "john", "user_type": "student"}})
	})
	app.Post(PathSignup, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": "new", "user_id": 2, "username": c.FormValue("username"), "user_type": c.FormValue("user_type")})
	})
	srv := newTestServer(t, app)
	c := NewClient(srv.URL)

	res, err := c.Login(context.Background(), Credentials{Email: "john@example.com", Password: "campus2024"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Contains(t, string(res.User), `"john"`)

	_, err = c.Login(context.Background(), Credentials{Email: "john@example.com", Password: "wrong"})
	assert.True(t, models.IsAuth(err))

	_, err = c.Login(context.Background(), Credentials{Email: "bad", Password: "x"})
	assert.True(t, models.IsValidation(err))

	res, err = c.Signup(context.Background(), Credentials{Email: "kim@example.com", Password: "campus2024", Name: "Kim", Role: models.RoleInvestor})
	require.NoError(t, err)
	assert.Equal(t, "new", res.Token)
	assert.True(t, strings.Contains(string(res.User), `"investor"`))

	_, err = c.Signup(context.Background(), Credentials{Email: "kim@example.com", Password: "short", Name: "Kim"})
	assert.True(t, models.IsValidation(err))
}

func TestClient_Startups(t *testing.T) {
	app := newApp()
	app.Post(PathCreateStartup, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": 1, "name": c.FormValue("name"), "category": c.FormValue("category")})
	})
	app.Get(PathListStartups, func(c *fiber.Ctx) error {
		return c.JSON([]fiber.Map{{"id": 1, "name": "Solar", "votes": 2}})
	})
	app.Post(PathVoteStartup, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.FormValue("startup_id"), "votes": 3, "voted": true})
	})
	app.Post(PathConnections, func(c *fiber.Ctx) error {
		if c.FormValue("user_id") == "" {
			return c.JSON(fiber.Map{"success": false, "error": "user_id required"})
		}
		return c.JSON(fiber.Map{"success": true})
	})
	srv := newTestServer(t, app)
	c := NewClient(srv.URL)
	ctx := context.Background()

	s, err := c.CreateStartup(ctx, NewStartup{Name: "Solar", Category: "Energy"})
	require.NoError(t, err)
	assert.Equal(t, "Energy", s.Category)

	list, err := c.ListStartups(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Votes)

	s, err = c.VoteStartup(ctx, "1")
	require.NoError(t, err)
	assert.True(t, s.Voted)

	assert.NoError(t, c.ConnectWithUser(ctx, "rec1"))
	assert.True(t, models.IsTransport(c.ConnectWithUser(ctx, "")))
}
