package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"console/internal/metrics"
)

const maxBodyBytes = 4 << 20

// User is the user object embedded in the login response.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Tenant carries the tenant's enabled entity slugs.
type Tenant struct {
	EnabledEntities []string `json:"enabledEntities"`
}

// LoginResult is the body of a successful POST /auth/login.
type LoginResult struct {
	Token  string `json:"token"`
	User   User   `json:"user"`
	Tenant Tenant `json:"tenant"`
}

// Client talks to the HR backend. A Client without a token can only log in;
// use WithToken for everything under /api/v1.
type Client struct {
	base    *url.URL
	http    *http.Client
	log     *logrus.Logger
	metrics *metrics.Backend
}

// New builds an anonymous client. A nil httpClient gets a client with timeout.
func New(baseURL string, httpClient *http.Client, timeout time.Duration, log *logrus.Logger, m *metrics.Backend) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse backend url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("backend url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	hc := *httpClient
	if timeout > 0 {
		hc.Timeout = timeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{base: u, http: &hc, log: log, metrics: m}, nil
}

// WithToken returns a client whose transport attaches the bearer token to every request.
func (c *Client) WithToken(token string) *Client {
	hc := *c.http
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base,
	}
	cp := *c
	cp.http = &hc
	return &cp
}

// Login exchanges credentials for a token, the user and the tenant's enabled entities.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResult
	if err := c.do(ctx, "login", "", http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	if res.Token == "" || res.User.Username == "" {
		return nil, errors.Wrap(ErrMalformedResponse, "login response without token or user")
	}
	return &res, nil
}

// List fetches every record of slug. A null body is an empty list.
func (c *Client) List(ctx context.Context, slug string) ([]Record, error) {
	var out []Record
	if err := c.do(ctx, "list", slug, http.MethodGet, collectionPath(slug), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, slug string, rec Record) (Record, error) {
	var out Record
	if err := c.do(ctx, "create", slug, http.MethodPost, collectionPath(slug), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, slug, id string, rec Record) (Record, error) {
	var out Record
	if err := c.do(ctx, "update", slug, http.MethodPut, itemPath(slug, id), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, slug, id string) error {
	return c.do(ctx, "delete", slug, http.MethodDelete, itemPath(slug, id), nil, nil)
}

func collectionPath(slug string) string {
	return "/api/v1/" + url.PathEscape(slug)
}

func itemPath(slug, id string) string {
	return collectionPath(slug) + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, slug, method, path string, in, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, in, out)
	c.metrics.Observe(op, slug, resultLabel(err), time.Since(start))
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"operation": op,
			"entity":    slug,
			"method":    method,
		}).Warn("backend call failed")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrapf(err, "read %s %s", method, path)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "%s %s: %v", method, path, err)
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}
