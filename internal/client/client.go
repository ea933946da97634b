// Package client は Petoo バックエンドの REST API を呼び出す認証付きHTTPクライアントです
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
)

const maxLoggedBody = 200

// TokenSource はリクエストに付与するBearerトークンを返します
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// APIError は2xx以外のレスポンスを表します
type APIError struct {
	Status  int
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus は err が指定したステータスの APIError かを返します
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// RequestOptions はリクエストごとの追加設定です
type RequestOptions struct {
	// SkipAuth が true の場合は Authorization ヘッダーを付与しません
	SkipAuth bool
	// IdempotencyKey は再送時の重複作成をサーバー側で防ぐためのキーです
	IdempotencyKey string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

type Option func(*Client)

// WithHTTPClient は利用する http.Client を差し替えます。nil の場合は何もしません
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout はリクエスト全体のタイムアウトを設定します
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTracing は http.Client を X-Ray で計装します
func WithTracing() Option {
	return func(c *Client) {
		c.httpClient = xray.Client(c.httpClient)
	}
}

// New は新しい Client を作成します。tokens が nil の場合は認証ヘッダーを付与しません
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do はAPIリクエストを送信し、レスポンスを out にデコードします
// body は POST と PUT の場合だけ送信されます。out が nil の場合はレスポンスを読み捨てます
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, opts RequestOptions, out any) error {
	raw, err := c.DoRaw(ctx, method, endpoint, body, opts)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("Failed to decode API response")
		return fmt.Errorf("failed to decode response of %s %s: %w", method, endpoint, err)
	}
	return nil
}

// DoRaw はAPIリクエストを送信し、レスポンスボディをそのまま返します
func (c *Client) DoRaw(ctx context.Context, method, endpoint string, body any, opts RequestOptions) ([]byte, error) {
	req, err := c.newRequest(ctx, method, endpoint, body, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("API request failed")
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("Failed to read API response")
		return nil, fmt.Errorf("failed to read response of %s %s: %w", method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, data)
		log.Error().
			Int("status", apiErr.Status).
			Str("method", method).
			Str("endpoint", endpoint).
			Str("message", apiErr.Message).
			Msg("API request returned an error")
		return nil, apiErr
	}

	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any, opts RequestOptions) (*http.Request, error) {
	var reader io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut) {
		serialized, err := json.Marshal(body)
		if err != nil {
			log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("Error serializing body")
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		log.Debug().Str("method", method).Str("endpoint", endpoint).Str("body", utils.TruncateBytes(string(serialized), maxLoggedBody)).Msg("API request")
		reader = bytes.NewReader(serialized)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, endpoint, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if opts.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", opts.IdempotencyKey)
	}

	if !opts.SkipAuth && c.tokens != nil {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			// トークンを読めない場合は未認証として送信し、サーバーの判断に任せる
			log.Warn().Err(err).Msg("Error getting token")
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func newAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status, Message: "Request failed"}

	trimmed := bytes.TrimSpace(data)
	if json.Valid(trimmed) && len(trimmed) > 0 {
		apiErr.Data = json.RawMessage(trimmed)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &body); err == nil {
		for _, key := range []string{"message", "error"} {
			if msg := messageText(body[key]); msg != "" {
				apiErr.Message = msg
				break
			}
		}
	}
	return apiErr
}

// messageText は文字列ならその値を、それ以外は JSON のまま返します
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return ""
	}
	switch msg := compact.String(); msg {
	case "null", "false", "{}", "[]":
		return ""
	default:
		return msg
	}
}
