package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/booru-prompt/booru-prompt/internal/config"
	"github.com/booru-prompt/booru-prompt/internal/constants"
	"github.com/booru-prompt/booru-prompt/internal/http"
	"github.com/booru-prompt/booru-prompt/internal/logging"
	"github.com/booru-prompt/booru-prompt/internal/models"
	"github.com/booru-prompt/booru-prompt/internal/ratelimit"
	"github.com/booru-prompt/booru-prompt/internal/tags"
)

// maxErrorBody caps how much of an error response we read for the message.
const maxErrorBody = 4096

// Client is a read-only Danbooru API client.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	login      string
	apiKey     string
	limiter    *ratelimit.RateLimiter
	logger     *logging.Logger
}

// NewClient creates a new API client. A nil logger uses the default CLI logger.
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("API base URL is empty - set base_url in config or pass --api-url")
	}
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}

	httpClient, err := http.ConfigureHTTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = constants.RetryMax
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = logging.RetryLogger{L: logger}
	// Hand the last response back after retries so callers see the real status.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		login:   cfg.Login,
		apiKey:  cfg.APIKey,
		limiter: ratelimit.NewDanbooruRateLimiter(cfg.RequestsPerSecond),
		logger:  logger,
	}

	// 429 feedback: every throttled attempt pauses the shared limiter.
	retryClient.CheckRetry = func(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
		if resp != nil && resp.StatusCode == nethttp.StatusTooManyRequests {
			c.throttled(resp)
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	c.httpClient = retryClient.StandardClient()
	return c, nil
}

// ValidatePostID checks that id is a positive decimal post ID.
func ValidatePostID(id string) error {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// doRequest performs a rate-limited, authenticated GET.
func (c *Client) doRequest(ctx context.Context, path string) (*nethttp.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter cancelled: %w", err)
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.UserAgent)
	if c.login != "" && c.apiKey != "" {
		req.SetBasicAuth(c.login, c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("API call failed")
		return nil, fmt.Errorf("%w: request failed: %w", ErrNetwork, err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API call")

	return resp, nil
}

// throttled pauses the limiter for the server's Retry-After, if any.
func (c *Client) throttled(resp *nethttp.Response) {
	retryAfter := resp.Header.Get("Retry-After")
	c.logger.Warn().Str("retry_after", retryAfter).Msg("THROTTLED: Danbooru rate limit exceeded")
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		c.limiter.SetCooldown(time.Duration(secs) * time.Second)
	}
}

// GetPost fetches a single post's JSON payload.
func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if err := ValidatePostID(id); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, fmt.Sprintf(constants.PostPathFormat, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, fmt.Errorf("get post %s failed: %w", id, newHTTPError(resp))
	}

	var post models.Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", id, err)
	}

	return &post, nil
}

// FetchRecord fetches a post and returns its tag groups.
func (c *Client) FetchRecord(ctx context.Context, id string) (tags.Record, error) {
	post, err := c.GetPost(ctx, id)
	if err != nil {
		return tags.Record{}, err
	}
	return post.Record(), nil
}

func newHTTPError(resp *nethttp.Response) *HTTPError {
	herr := &HTTPError{StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var apiErr models.APIError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		herr.Message = apiErr.Message
	} else {
		herr.Message = strings.TrimSpace(string(body))
	}
	return herr
}
