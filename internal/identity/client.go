// AngelaMos | 2026
// client.go

package identity

import (
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

	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
)

// MaxPageSize is the largest page the provider's admin listing accepts.
const MaxPageSize = 1000

type Store interface {
	CurrentPrincipal(ctx context.Context, accessToken string) (*Principal, error)
	GetPrincipal(ctx context.Context, id string) (*Principal, error)
	ListPrincipals(ctx context.Context, pageSize int) ([]Principal, error)
}

// Client talks to a GoTrue compatible auth API. Admin endpoints are called
// with the service-role key, the "who am I" endpoint with the caller's own
// access token.
type Client struct {
	baseURL    *url.URL
	serviceKey string
	anonKey    string
	http       *http.Client
}

func NewClient(cfg config.SupabaseConfig) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse identity url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse identity url: %q is not absolute", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    u,
		serviceKey: cfg.ServiceRoleKey,
		anonKey:    cfg.AnonKey,
		http:       &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) CurrentPrincipal(
	ctx context.Context,
	accessToken string,
) (*Principal, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("current principal: %w", core.ErrUnauthorized)
	}

	var p Principal
	if err := c.do(ctx, "/auth/v1/user", nil, c.anonKey, accessToken, &p); err != nil {
		return nil, fmt.Errorf("current principal: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("current principal: %w", core.ErrNotFound)
	}

	return &p, nil
}

func (c *Client) GetPrincipal(ctx context.Context, id string) (*Principal, error) {
	if id == "" {
		return nil, fmt.Errorf("get principal: %w", core.ErrInvalidInput)
	}

	var p Principal
	path := "/auth/v1/admin/users/" + url.PathEscape(id)
	if err := c.do(ctx, path, nil, c.serviceKey, c.serviceKey, &p); err != nil {
		return nil, fmt.Errorf("get principal: %w", err)
	}

	return &p, nil
}

// ListPrincipals returns the first page of principals. pageSize is clamped
// to [1, MaxPageSize].
func (c *Client) ListPrincipals(ctx context.Context, pageSize int) ([]Principal, error) {
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	q := url.Values{}
	q.Set("page", "1")
	q.Set("per_page", strconv.Itoa(pageSize))

	var list principalList
	if err := c.do(ctx, "/auth/v1/admin/users", q, c.serviceKey, c.serviceKey, &list); err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}

	return list.Users, nil
}

func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.do(pingCtx, "/auth/v1/health", nil, c.anonKey, "", nil); err != nil {
		return fmt.Errorf("identity ping failed: %w", err)
	}
	return nil
}

// do issues a GET. escapedPath must already be percent-encoded.
func (c *Client) do(
	ctx context.Context,
	escapedPath string,
	query url.Values,
	apiKey, bearer string,
	out any,
) error {
	u := *c.baseURL
	u.RawPath = strings.TrimRight(u.EscapedPath(), "/") + escapedPath
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("build request path: %w", err)
	}
	u.Path = unescaped
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrIdentityLookupFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", core.ErrIdentityLookupFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode body: %w", core.ErrIdentityLookupFailed, err)
	}

	return nil
}

func statusError(status int, body []byte) error {
	msg := http.StatusText(status)

	var pe providerError
	if json.Unmarshal(body, &pe) == nil {
		switch {
		case pe.Message != "":
			msg = pe.Message
		case pe.Error != "":
			msg = pe.Error
		}
	}

	var sentinel error
	switch status {
	case http.StatusNotFound:
		sentinel = core.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = core.ErrUnauthorized
	default:
		sentinel = core.ErrIdentityLookupFailed
	}

	return errors.Join(sentinel, fmt.Errorf("identity provider returned %d: %s", status, msg))
}

var _ Store = (*Client)(nil)
