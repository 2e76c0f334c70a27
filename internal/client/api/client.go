// Package api is a typed client for the linkshare HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx reply carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Session is the result of a successful login.
type Session struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Identity is the caller as the server sees it.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// Register creates an account and returns its id.
func (c *Client) Register(ctx context.Context, username, password string) (int64, error) {
	var out struct {
		UserID int64 `json:"userId"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials(username, password), &out)
	if err != nil {
		return 0, err
	}
	return out.UserID, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials(username, password), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var out struct {
		User Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListArticles(ctx context.Context) ([]models.ArticleView, error) {
	var list []models.ArticleView
	if err := c.do(ctx, http.MethodGet, "/api/articles", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateArticle shares rawURL. An empty title is sent as absent.
func (c *Client) CreateArticle(ctx context.Context, rawURL, title string) (*models.ArticleView, error) {
	body := map[string]string{"url": rawURL}
	if title != "" {
		body["title"] = title
	}
	var v models.ArticleView
	if err := c.do(ctx, http.MethodPost, "/api/articles", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/articles/"+url.PathEscape(strconv.FormatInt(id, 10)), nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	var list []models.UserSummary
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func credentials(username, password string) map[string]string {
	return map[string]string{"username": username, "password": password}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(b, &e); err != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(b))
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
	}
	return &APIError{Status: resp.StatusCode, Message: e.Error}
}
