package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"uniconnect/internal/models"
	"uniconnect/internal/observability"
	"uniconnect/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// REST paths relative to the base URL.
const (
	PathListPosts     = "/api/posts/list/"
	PathCreatePost    = "/api/posts/create/"
	PathLikePost      = "/api/posts/like/"
	PathComment       = "/api/posts/comment/"
	PathReply         = "/api/posts/reply/"
	PathDashboard     = "/api/dashboard/"
	PathCreateStartup = "/api/startups/create/"
	PathListStartups  = "/api/startups/list/"
	PathVoteStartup   = "/api/startups/vote/"
	PathConnections   = "/api/connections/"
	PathLogin         = "/api/auth/login/"
	PathSignup        = "/api/auth/signup/"
)

const maxErrorBody = 512

// Client is the REST implementation of Backend. It never retries; one
// failed attempt is reported to the caller.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *observability.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l *observability.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  observability.GlobalLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request is one REST call.
type request struct {
	op          string
	method      string
	path        string
	body        []byte
	contentType string
	auth        bool
}

func formBody(values url.Values) ([]byte, string) {
	return []byte(values.Encode()), "application/x-www-form-urlencoded"
}

// do executes req and returns the raw 2xx response body.
func (c *Client) do(ctx context.Context, req request) (body []byte, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "gateway."+req.op, trace.SpanKindClient,
		attribute.String("http.method", req.method),
		attribute.String("http.path", req.path),
	)
	defer func() {
		span.SetError(err)
		span.End()
		observability.ObserveGateway(req.op, start, err)
	}()

	var reader io.Reader
	if req.body != nil {
		reader = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return nil, models.NewTransportError(req.op, 0, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.auth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	observability.InjectHeaders(ctx, httpReq.Header)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, models.NewTransportError(req.op, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewTransportError(req.op, resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, models.NewAuthError(req.op, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, models.NewTransportError(req.op, resp.StatusCode, errors.New(snippet))
	}
	c.logger.DebugContext(ctx, "backend request completed",
		"operation", req.op, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return body, nil
}

// decodeErr wraps a malformed 2xx payload as a transport failure.
func decodeErr(op string, err error) error {
	return models.NewTransportError(op, 0, fmt.Errorf("malformed response: %w", err))
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	body, err := c.do(ctx, request{op: "list_posts", method: http.MethodGet, path: PathListPosts, auth: true})
	if err != nil {
		return nil, err
	}
	posts, err := decodePostList(body)
	if err != nil {
		return nil, decodeErr("list_posts", err)
	}
	return posts, nil
}

// CreatePost uploads content, the comma-joined hashtags and each file as
// its own multipart part named file0..N.
func (c *Client) CreatePost(ctx context.Context, in NewPost) (models.Post, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("content", in.Content); err != nil {
		return models.Post{}, models.NewInternalError(err)
	}
	if err := w.WriteField("hashtag", strings.Join(in.Hashtags, ",")); err != nil {
		return models.Post{}, models.NewInternalError(err)
	}
	for i, f := range in.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file%d"; filename="%s"`, i, escapeQuotes(f.Name)))
		kind := f.MIMEKind
		if kind == "" {
			kind = "application/octet-stream"
		}
		h.Set("Content-Type", kind)
		part, err := w.CreatePart(h)
		if err != nil {
			return models.Post{}, models.NewInternalError(err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return models.Post{}, models.NewInternalError(err)
		}
	}
	if err := w.Close(); err != nil {
		return models.Post{}, models.NewInternalError(err)
	}

	body, err := c.do(ctx, request{
		op: "create_post", method: http.MethodPost, path: PathCreatePost,
		body: buf.Bytes(), contentType: w.FormDataContentType(), auth: true,
	})
	if err != nil {
		return models.Post{}, err
	}
	p, err := decodePost(unwrap(body, "post", "data"))
	if err != nil {
		return models.Post{}, decodeErr("create_post", err)
	}
	return p, nil
}

func (c *Client) ToggleLike(ctx context.Context, postID string) (models.LikeAck, error) {
	payload, ct := formBody(url.Values{"post_id": {postID}})
	body, err := c.do(ctx, request{op: "like_post", method: http.MethodPost, path: PathLikePost, body: payload, contentType: ct, auth: true})
	if err != nil {
		return models.LikeAck{}, err
	}
	ack, err := decodeLikeAck(body)
	if err != nil {
		return models.LikeAck{}, decodeErr("like_post", err)
	}
	return ack, nil
}

func (c *Client) AddComment(ctx context.Context, postID, content string) (models.Comment, error) {
	payload, ct := formBody(url.Values{"post_id": {postID}, "content": {content}})
	body, err := c.do(ctx, request{op: "add_comment", method: http.MethodPost, path: PathComment, body: payload, contentType: ct, auth: true})
	if err != nil {
		return models.Comment{}, err
	}
	if err := refused("add_comment", body); err != nil {
		return models.Comment{}, err
	}
	return decodeComment(unwrap(body, "comment", "data"), ""), nil
}

func (c *Client) ReplyToComment(ctx context.Context, postID, commentID, content string) (models.Reply, error) {
	payload, ct := formBody(url.Values{"post_id": {postID}, "comment_id": {commentID}, "content": {content}})
	body, err := c.do(ctx, request{op: "reply_comment", method: http.MethodPost, path: PathReply, body: payload, contentType: ct, auth: true})
	if err != nil {
		return models.Reply{}, err
	}
	if err := refused("reply_comment", body); err != nil {
		return models.Reply{}, err
	}
	return decodeReply(unwrap(body, "reply", "data"), ""), nil
}

func (c *Client) Dashboard(ctx context.Context) (models.DashboardData, error) {
	body, err := c.do(ctx, request{op: "dashboard", method: http.MethodGet, path: PathDashboard, auth: true})
	if err != nil {
		return models.DashboardData{}, err
	}
	d, err := decodeDashboard(body)
	if err != nil {
		return models.DashboardData{}, decodeErr("dashboard", err)
	}
	return d, nil
}

func (c *Client) ConnectWithUser(ctx context.Context, userID string) error {
	payload, ct := formBody(url.Values{"user_id": {userID}})
	body, err := c.do(ctx, request{op: "connect_user", method: http.MethodPost, path: PathConnections, body: payload, contentType: ct, auth: true})
	if err != nil {
		return err
	}
	return refused("connect_user", body)
}

// refused reports a 2xx body that carries an explicit {success:false}.
func refused(op string, body []byte) error {
	o, err := decodeObject(body)
	if err != nil || !o.has("success") || o.boolean("success") {
		return nil
	}
	return models.NewTransportError(op, 0, errors.New(firstNonEmpty(o.str("error", "message"), "backend refused the request")))
}

func (c *Client) CreateStartup(ctx context.Context, in NewStartup) (models.Startup, error) {
	payload, ct := formBody(url.Values{
		"name":              {in.Name},
		"problem_statement": {in.ProblemStatement},
		"solution_approach": {in.SolutionApproach},
		"business_model":    {in.BusinessModel},
		"market_audience":   {in.MarketAudience},
		"funding_required":  {in.FundingRequired},
		"category":          {in.Category},
	})
	body, err := c.do(ctx, request{op: "create_startup", method: http.MethodPost, path: PathCreateStartup, body: payload, contentType: ct, auth: true})
	if err != nil {
		return models.Startup{}, err
	}
	s, err := decodeStartup(unwrap(body, "startup", "data"))
	if err != nil {
		return models.Startup{}, decodeErr("create_startup", err)
	}
	return s, nil
}

func (c *Client) ListStartups(ctx context.Context) ([]models.Startup, error) {
	body, err := c.do(ctx, request{op: "list_startups", method: http.MethodGet, path: PathListStartups, auth: true})
	if err != nil {
		return nil, err
	}
	out, err := decodeStartupList(body)
	if err != nil {
		return nil, decodeErr("list_startups", err)
	}
	return out, nil
}

func (c *Client) VoteStartup(ctx context.Context, startupID string) (models.Startup, error) {
	payload, ct := formBody(url.Values{"startup_id": {startupID}})
	body, err := c.do(ctx, request{op: "vote_startup", method: http.MethodPost, path: PathVoteStartup, body: payload, contentType: ct, auth: true})
	if err != nil {
		return models.Startup{}, err
	}
	s, err := decodeStartup(unwrap(body, "startup", "data"))
	if err != nil {
		return models.Startup{}, decodeErr("vote_startup", err)
	}
	return s, nil
}

// Credentials is the input of Login and Signup.
type Credentials struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, cred Credentials) (AuthResult, error) {
	if err := validation.ValidateEmail(cred.Email); err != nil {
		return AuthResult{}, models.NewValidationError(err.Error())
	}
	if cred.Password == "" {
		return AuthResult{}, models.NewValidationError("password is required")
	}
	payload, ct := formBody(url.Values{"email": {cred.Email}, "password": {cred.Password}})
	return c.auth(ctx, "login", PathLogin, payload, ct)
}

// Signup registers an account and returns its token and user record.
func (c *Client) Signup(ctx context.Context, cred Credentials) (AuthResult, error) {
	if err := validation.ValidateEmail(cred.Email); err != nil {
		return AuthResult{}, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(cred.Password); err != nil {
		return AuthResult{}, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDisplayName(cred.Name); err != nil {
		return AuthResult{}, models.NewValidationError(err.Error())
	}
	values := url.Values{"email": {cred.Email}, "password": {cred.Password}, "username": {strings.TrimSpace(cred.Name)}}
	if cred.Role != models.RoleNone {
		values.Set("user_type", string(cred.Role))
	}
	payload, ct := formBody(values)
	return c.auth(ctx, "signup", PathSignup, payload, ct)
}

func (c *Client) auth(ctx context.Context, op, path string, payload []byte, ct string) (AuthResult, error) {
	body, err := c.do(ctx, request{op: op, method: http.MethodPost, path: path, body: payload, contentType: ct})
	if err != nil {
		return AuthResult{}, err
	}
	res, err := decodeAuth(body)
	if err != nil {
		return AuthResult{}, decodeErr(op, err)
	}
	return res, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
