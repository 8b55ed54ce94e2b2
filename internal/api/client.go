// Package api is the HTTP client for a Coto server. It only moves JSON; what
// happens to results (including silently dropping failures on the timeline) is
// the caller's policy.
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
	"strings"
	"time"

	"coto-cli/internal/model"
)

// ErrNotSignedIn maps 401 responses so callers can hint at `coto session`.
var ErrNotSignedIn = errors.New("not signed in")

// StatusError is any non-2xx response that isn't an auth failure.
type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string {
	b := strings.TrimSpace(e.Body)
	if b == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Code)
	}
	if len(b) > 200 {
		b = b[:200] + "…"
	}
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, b)
}

type Client struct {
	BaseURL string
	Token   string

	// HTTPClient may be replaced in tests. The default carries the adapter's
	// own timeout policy; the timeline core deliberately adds none.
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:      strings.TrimSpace(token),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCotos loads the timeline for a cotonoma (or the root timeline when key
// is empty), newest first as the server orders it.
func (c *Client) FetchCotos(ctx context.Context, cotonomaKey string) ([]model.Coto, error) {
	var cotos []model.Coto
	if err := c.get(ctx, c.cotosPath(cotonomaKey), &cotos); err != nil {
		return nil, err
	}
	return cotos, nil
}

// postPayload is the submit wire shape: the coto goes under a "coto" envelope
// and carries only its client identity and content (the server assigns id).
type postPayload struct {
	Coto postedCoto `json:"coto"`
}

type postedCoto struct {
	PostID  *int64 `json:"postId"`
	Content string `json:"content"`
}

// PostCoto submits one coto and returns the server-confirmed version, which is
// expected to carry an id and echo the post id for correlation.
func (c *Client) PostCoto(ctx context.Context, cotonomaKey string, coto model.Coto) (model.Coto, error) {
	body := postPayload{Coto: postedCoto{PostID: coto.PostID, Content: coto.Content}}
	var confirmed model.Coto
	if err := c.post(ctx, c.cotosPath(cotonomaKey), body, &confirmed); err != nil {
		return model.Coto{}, err
	}
	return confirmed, nil
}

func (c *Client) FetchCotonomas(ctx context.Context) ([]model.Cotonoma, error) {
	var rooms []model.Cotonoma
	if err := c.get(ctx, "/api/cotonomas", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// PostCotonoma creates a new room and returns it (with its server-assigned key).
func (c *Client) PostCotonoma(ctx context.Context, name string) (model.Cotonoma, error) {
	body := map[string]any{"cotonoma": map[string]any{"name": name}}
	var room model.Cotonoma
	if err := c.post(ctx, "/api/cotonomas", body, &room); err != nil {
		return model.Cotonoma{}, err
	}
	return room, nil
}

// FetchSession validates the configured token and returns the signed-in
// identity. A 401 comes back as ErrNotSignedIn.
func (c *Client) FetchSession(ctx context.Context) (*model.Session, error) {
	var s model.Session
	if err := c.get(ctx, "/api/session", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) cotosPath(cotonomaKey string) string {
	cotonomaKey = strings.TrimSpace(cotonomaKey)
	if cotonomaKey == "" {
		return "/api/cotos"
	}
	return "/api/cotonomas/" + url.PathEscape(cotonomaKey) + "/cotos"
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrNotSignedIn
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the error message; servers tend to put
		// the reason on the first line.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s: %w", req.URL.Path, err)
	}
	return nil
}
