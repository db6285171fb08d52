package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/clipstream/internal/credstore"
)

// Client consumes the ClipStream REST API. Every outbound request carries the
// stored bearer token when one is present, public endpoints included; a 401
// on any response evicts the stored token so the next session derivation
// observes the logout.
type Client struct {
	baseURL    string
	creds      *credstore.Store
	httpClient *http.Client
}

func New(baseURL string, creds *credstore.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ListVideos(ctx context.Context) ([]Video, error) {
	var out []Video
	if err := c.do(ctx, http.MethodGet, "/videos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetVideo(ctx context.Context, id int64) (*Video, error) {
	var out Video
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/videos/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterView asks the service to count one view. Idempotency is not
// guaranteed and not required.
func (c *Client) RegisterView(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/videos/%d/view", id), nil, nil)
}

func (c *Client) ListComments(ctx context.Context, videoID int64, page, size int) (*CommentPage, error) {
	var out CommentPage
	path := fmt.Sprintf("/videos/%d/comments?page=%d&size=%d", videoID, page, size)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func (c *Client) AddComment(ctx context.Context, videoID int64, content string) (*Comment, error) {
	var out Comment
	path := fmt.Sprintf("/videos/%d/comments", videoID)
	if err := c.do(ctx, http.MethodPost, path, addCommentRequest{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, videoID, commentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/videos/%d/comments/%d", videoID, commentID), nil, nil)
}

func (c *Client) ToggleLike(ctx context.Context, videoID int64) (*LikeState, error) {
	var out LikeState
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/videos/%d/likes", videoID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LikeStatus(ctx context.Context, videoID int64) (bool, error) {
	var out struct {
		Liked bool `json:"liked"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/videos/%d/likes/status", videoID), nil, &out); err != nil {
		return false, err
	}
	return out.Liked, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	if tok := c.creds.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrTransient, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// the session expired server-side; drop the stale token so dependent
		// components observe the transition
		if err := c.creds.Evict(); err != nil {
			slog.Warn("token eviction failed", "error", err)
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return NewError(resp.StatusCode, errorMessage(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func errorMessage(body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
