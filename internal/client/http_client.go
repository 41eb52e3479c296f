package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ZzaizZ/goblog/api/rest"
)

// HTTPClient talks to the blog REST API under /api/v1. It shares the token
// manager protocol with the gRPC shell: every authenticated call first
// ensures the access token is fresh, refreshing through the REST refresh
// endpoint when needed.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenManager
	log        *slog.Logger
}

var _ BlogClient = (*HTTPClient)(nil)

// NewHTTPClient creates a REST client for the given base URL, e.g.
// "http://localhost:8080".
func NewHTTPClient(baseURL string, opts ...TokenManagerOption) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     NewTokenManager(opts...),
		log:        slog.Default().With(slog.String("component", "http_client")),
	}
}

// TokenManager exposes the underlying token manager
func (c *HTTPClient) TokenManager() *TokenManager {
	return c.tokens
}

// Register creates a new account
func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*User, error) {
	req := rest.RegisterRequest{Username: username, Email: email, Password: password}
	var resp rest.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp, false); err != nil {
		return nil, err
	}
	return &User{ID: resp.ID, Username: resp.Username, Email: resp.Email}, nil
}

// Login authenticates and stores the returned pair
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*User, error) {
	req := rest.LoginRequest{Username: username, Password: password}
	var resp rest.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp, false); err != nil {
		return nil, err
	}

	c.tokens.Set(AuthData{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})

	claims, err := DecodeToken(resp.AccessToken)
	if err != nil {
		return nil, err
	}
	return &User{ID: claims.Subject, Username: claims.Username}, nil
}

// SetupToken injects a bare access token
func (c *HTTPClient) SetupToken(token string) {
	c.tokens.Set(AuthData{AccessToken: token})
}

// Token returns the current access token
func (c *HTTPClient) Token() string {
	return c.tokens.AccessToken()
}

// SetupAuthData injects a full token pair
func (c *HTTPClient) SetupAuthData(data AuthData) {
	c.tokens.Set(data)
}

// AuthData returns a copy of the current pair, or nil
func (c *HTTPClient) AuthData() *AuthData {
	return c.tokens.Get()
}

// CurrentUser decodes the stored access token
func (c *HTTPClient) CurrentUser() *User {
	token := c.tokens.AccessToken()
	if token == "" {
		return nil
	}
	claims, err := DecodeToken(token)
	if err != nil {
		return nil
	}
	return &User{ID: claims.Subject, Username: claims.Username}
}

// CreatePost creates a post owned by the authenticated user
func (c *HTTPClient) CreatePost(ctx context.Context, title, content string) (*Post, error) {
	req := rest.CreatePostRequest{Title: title, Content: content}
	var resp rest.PostResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts", req, &resp, true); err != nil {
		return nil, err
	}
	return postFromResponse(&resp)
}

// GetPost fetches a single post
func (c *HTTPClient) GetPost(ctx context.Context, id string) (*Post, error) {
	var resp rest.PostResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+id, nil, &resp, true); err != nil {
		return nil, err
	}
	return postFromResponse(&resp)
}

// UpdatePost replaces a post's title and content
func (c *HTTPClient) UpdatePost(ctx context.Context, id, title, content string) (*Post, error) {
	req := rest.UpdatePostRequest{Title: title, Content: content}
	var resp rest.PostResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/posts/"+id, req, &resp, true); err != nil {
		return nil, err
	}
	return postFromResponse(&resp)
}

// DeletePost removes a post
func (c *HTTPClient) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/posts/"+id, nil, nil, true)
}

// ListPosts returns a page of posts, newest first
func (c *HTTPClient) ListPosts(ctx context.Context, page, pageSize int) ([]*Post, error) {
	path := fmt.Sprintf("/api/v1/posts?page=%d&page_size=%d", page, pageSize)
	var resp []rest.PostResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	posts := make([]*Post, len(resp))
	for i := range resp {
		post, err := postFromResponse(&resp[i])
		if err != nil {
			return nil, err
		}
		posts[i] = post
	}
	return posts, nil
}

// Close is a no-op for the HTTP shell
func (c *HTTPClient) Close() error {
	return nil
}

// refresh exchanges the refresh token through the REST refresh endpoint
func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) (AuthData, error) {
	req := rest.RefreshTokenRequest{RefreshToken: refreshToken}
	var resp rest.TokenResponse
	if err := c.request(ctx, http.MethodPost, "/api/v1/auth/refresh", req, &resp, ""); err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.code == http.StatusUnauthorized {
			return AuthData{}, &RefreshError{Err: err}
		}
		return AuthData{}, err
	}
	return AuthData{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// do runs one API call, refreshing the access token first when required
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, authenticated bool) error {
	token := ""
	if authenticated {
		if err := c.tokens.EnsureValidToken(ctx, c.refresh); err != nil {
			return err
		}
		token = c.tokens.AccessToken()
	}

	err := c.request(ctx, method, path, body, out, token)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			return statusToError(he.code, he.message)
		}
		return err
	}
	return nil
}

// httpStatusError carries a non-2xx response before it is mapped to the
// client error set
type httpStatusError struct {
	code    int
	message string
}

func (e *httpStatusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("http %d: %s", e.code, e.message)
	}
	return "http " + strconv.Itoa(e.code)
}

// statusToError maps an HTTP status to the shared client error set
func statusToError(code int, message string) error {
	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case code >= 400 && code < 500:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, message)
	default:
		return &TransportError{Err: fmt.Errorf("server error (http %d): %s", code, message)}
	}
}

// request performs a single HTTP round trip with JSON bodies
func (c *HTTPClient) request(ctx context.Context, method, path string, body, out any, bearer string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr rest.ErrorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(data, &apiErr) != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(data))
		}
		return &httpStatusError{code: resp.StatusCode, message: apiErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

// postFromResponse converts a REST payload to the client post type
func postFromResponse(resp *rest.PostResponse) (*Post, error) {
	createdAt, err := time.Parse(time.RFC3339, resp.CreatedAt)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("bad created_at %q: %w", resp.CreatedAt, err)}
	}
	updatedAt, err := time.Parse(time.RFC3339, resp.UpdatedAt)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("bad updated_at %q: %w", resp.UpdatedAt, err)}
	}
	return &Post{
		ID:        resp.ID,
		Title:     resp.Title,
		Slug:      resp.Slug,
		Content:   resp.Content,
		AuthorID:  resp.AuthorID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
