package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"uniconnect/internal/cache"
	"uniconnect/internal/compose"
	"uniconnect/internal/config"
	"uniconnect/internal/dashboard"
	"uniconnect/internal/featureflags"
	"uniconnect/internal/feed"
	"uniconnect/internal/gateway"
	"uniconnect/internal/interaction"
	"uniconnect/internal/models"
	"uniconnect/internal/observability"
	"uniconnect/internal/seed"
	"uniconnect/internal/session"

	"github.com/redis/go-redis/v9"
)

var errUsage = errors.New("usage")

type app struct {
	out        io.Writer
	store      *session.Store
	client     *gateway.Client
	router     *gateway.Router
	controller *interaction.Controller
	dashboard  *dashboard.Service
	rdb        *redis.Client
}

func newPersister(cfg *config.Config) (session.Persister, *redis.Client, error) {
	switch cfg.SessionStore {
	case "file":
		return session.NewFilePersister(cfg.SessionFile), nil, nil
	case "redis":
		rdb, err := cache.NewClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis session store: %w", err)
		}
		return session.NewRedisPersister(rdb, "uniconnect:session"), rdb, nil
	default:
		return session.NewMemoryPersister(), nil, nil
	}
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	logger := observability.GlobalLogger

	persister, rdb, err := newPersister(cfg)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(persister, logger)
	if _, err := store.Restore(ctx); err != nil {
		logger.WarnContext(ctx, "session restore failed", "error", err.Error())
	}

	client := gateway.NewClient(cfg.APIBaseURL,
		gateway.WithTokenSource(store),
		gateway.WithTimeout(cfg.HTTPTimeout()),
		gateway.WithLogger(logger),
	)
	local := gateway.NewLocal(func() models.Author { return store.Current().Author() },
		gateway.WithPosts(seed.DemoPosts(time.Now())))
	router := gateway.NewRouter(client, local, featureflags.NewManager(cfg.FeatureFlags))

	notices := interaction.NotifierFunc(func(_ context.Context, n interaction.Notice) {
		mark := "✅"
		if n.Level == interaction.LevelError {
			mark = "⚠️"
		}
		fmt.Fprintf(out, "%s %s\n", mark, n.Message)
	})

	return &app{
		out:        out,
		store:      store,
		client:     client,
		router:     router,
		controller: interaction.NewController(feed.NewCache(), router, store, notices, interaction.WithLogger(logger)),
		dashboard:  dashboard.NewService(router),
		rdb:        rdb,
	}, nil
}

func (a *app) Close() {
	a.controller.Close()
	if a.rdb != nil {
		_ = a.rdb.Close()
		a.rdb = nil
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "signup":
		if len(args) < 3 {
			return errUsage
		}
		cred := gateway.Credentials{Email: args[0], Password: args[1], Name: args[2]}
		if len(args) > 3 {
			cred.Role = models.Role(strings.ToLower(args[3]))
		}
		res, err := a.client.Signup(ctx, cred)
		if err != nil {
			return err
		}
		sess, err := a.store.Signup(ctx, res.Token, res.User)
		if err != nil {
			return err
		}
		return a.printSession(sess)

	case "login":
		if len(args) < 2 {
			return errUsage
		}
		res, err := a.client.Login(ctx, gateway.Credentials{Email: args[0], Password: args[1]})
		if err != nil {
			return err
		}
		sess, err := a.store.Login(ctx, res.Token, res.User)
		if err != nil {
			return err
		}
		return a.printSession(sess)

	case "logout":
		if err := a.store.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Signed out")
		return nil

	case "whoami":
		return a.printSession(a.store.Current())

	case "role":
		if len(args) < 1 {
			return errUsage
		}
		sess, err := a.store.SelectRole(ctx, models.Role(strings.ToLower(args[0])))
		if err != nil {
			return err
		}
		return a.printSession(sess)

	case "list":
		posts, err := a.controller.FetchPosts(ctx)
		if err != nil {
			return err
		}
		a.printPosts(posts)
		return nil

	case "post":
		if len(args) < 1 {
			return errUsage
		}
		hashtags := ""
		if len(args) > 1 {
			hashtags = args[1]
		}
		return a.createPost(ctx, args[0], hashtags, args[min(2, len(args)):])

	case "like":
		if len(args) < 1 {
			return errUsage
		}
		if _, err := a.controller.FetchPosts(ctx); err != nil {
			return err
		}
		post, err := a.controller.ToggleLike(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Post %s: %d likes (liked: %v)\n", post.ID, post.LikeCount, post.Liked)
		return nil

	case "comment":
		if len(args) < 2 {
			return errUsage
		}
		if _, err := a.controller.FetchPosts(ctx); err != nil {
			return err
		}
		_, err := a.controller.AddComment(ctx, args[0], strings.Join(args[1:], " "))
		return err

	case "reply":
		if len(args) < 3 {
			return errUsage
		}
		if _, err := a.controller.FetchPosts(ctx); err != nil {
			return err
		}
		_, err := a.controller.ReplyToComment(ctx, args[0], args[1], strings.Join(args[2:], " "))
		return err

	case "dashboard":
		view, err := a.dashboard.Load(ctx, a.store.Current())
		if err != nil {
			return err
		}
		a.printDashboard(view)
		return nil

	case "connect":
		if len(args) < 1 {
			return errUsage
		}
		return a.controller.ConnectWithUser(ctx, args[0])

	case "startup":
		if len(args) < 1 {
			return errUsage
		}
		in := gateway.NewStartup{Name: args[0]}
		if len(args) > 1 {
			in.Category = args[1]
		}
		s, err := a.controller.CreateStartup(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Startup %s: %s\n", s.ID, s.Name)
		return nil

	case "vote":
		if len(args) < 1 {
			return errUsage
		}
		s, err := a.controller.VoteStartup(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Startup %s: %d votes (voted: %v)\n", s.ID, s.Votes, s.Voted)
		return nil
	}
	return errUsage
}

// createPost attaches files through a draft so every preview handle is
// released whether or not the upload succeeds.
func (a *app) createPost(ctx context.Context, content, hashtags string, paths []string) (err error) {
	draft := compose.NewDraft(compose.NewMemoryAllocator())
	defer func() {
		if cerr := draft.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	draft.SetContent(content)
	draft.SetHashtags(hashtags)
	for _, p := range paths {
		data, rerr := os.ReadFile(p)
		if rerr != nil {
			return fmt.Errorf("read %s: %w", p, rerr)
		}
		kind := mime.TypeByExtension(filepath.Ext(p))
		if i := strings.Index(kind, ";"); i >= 0 {
			kind = kind[:i]
		}
		if _, err := draft.AddFile(models.Upload{Name: filepath.Base(p), MIMEKind: kind, Content: data}); err != nil {
			return err
		}
	}

	post, err := draft.Submit(ctx, a.controller)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Post %s created with %d file(s)\n", post.ID, len(post.Media))
	return nil
}

func (a *app) printSession(s session.Session) error {
	if !s.Authenticated() {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	role := string(s.Role)
	if role == "" {
		role = "(no role selected)"
	}
	fmt.Fprintf(a.out, "%s <%s> id=%s role=%s remote=%v\n",
		s.ActorName, s.Email, s.ActorID, role, a.router.Remote(s.Role, s.ActorID))
	return nil
}

func (a *app) printPosts(posts []models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet")
		return
	}
	for _, p := range posts {
		liked := " "
		if p.Liked {
			liked = "♥"
		}
		fmt.Fprintf(a.out, "[%s] %s %s: %s\n", p.ID, liked, p.Author.Name, p.Content)
		if len(p.Hashtags) > 0 {
			fmt.Fprintf(a.out, "      tags: %s\n", strings.Join(p.Hashtags, " "))
		}
		for _, m := range p.Media {
			fmt.Fprintf(a.out, "      file: %s (%s)\n", m.Name, m.MIMEKind)
		}
		fmt.Fprintf(a.out, "      %d likes, %d comments\n", p.LikeCount, len(p.Comments))
		for _, c := range p.Comments {
			fmt.Fprintf(a.out, "      └ [%s] %s: %s\n", c.ID, c.Author.Name, c.Content)
			for _, r := range c.Replies {
				fmt.Fprintf(a.out, "          └ %s: %s\n", r.Author.Name, r.Content)
			}
		}
	}
}

func (a *app) printDashboard(v dashboard.View) {
	fmt.Fprintf(a.out, "Dashboard for %s (%d unread notifications)\n", v.Role, v.Unread)
	for _, w := range v.Widgets {
		switch w {
		case dashboard.WidgetAnalytics:
			fmt.Fprintf(a.out, "• analytics: %d months\n", len(v.Data.Analytics))
		case dashboard.WidgetNotifications:
			for _, n := range v.Data.Notifications {
				fmt.Fprintf(a.out, "• notification: %s (%s)\n", n.Title, n.Time)
			}
		case dashboard.WidgetPeople:
			for _, u := range v.Data.Recommended {
				fmt.Fprintf(a.out, "• person [%s] %s, %s\n", u.ID, u.Name, u.Role)
			}
		case dashboard.WidgetCourses, dashboard.WidgetManagedCourses:
			for _, c := range v.Data.Courses {
				fmt.Fprintf(a.out, "• course: %s %d%%\n", c.Title, c.Progress)
			}
		case dashboard.WidgetProjects:
			for _, p := range v.Data.Projects {
				fmt.Fprintf(a.out, "• project: %s %d%%\n", p.Title, p.Progress)
			}
		case dashboard.WidgetPortfolio:
			for _, s := range v.Startups {
				fmt.Fprintf(a.out, "• startup [%s] %s, %d votes\n", s.ID, s.Name, s.Votes)
			}
		default:
			fmt.Fprintf(a.out, "• %s\n", w)
		}
	}
}
