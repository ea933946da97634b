package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/model"
)

// ListEnterprises は公開中の事業者一覧を取得します(認証不要)
func (c *Client) ListEnterprises(ctx context.Context) ([]model.Enterprise, error) {
	raw, err := c.DoRaw(ctx, http.MethodGet, "/enterprises", nil, RequestOptions{SkipAuth: true})
	if err != nil {
		return nil, err
	}
	return model.DecodeList[model.Enterprise](raw, "enterprises")
}

// GetEnterpriseServices は事業者のサービス一覧を取得します
func (c *Client) GetEnterpriseServices(ctx context.Context, enterpriseID string) ([]model.Service, error) {
	endpoint := "/client/enterprises/" + url.PathEscape(enterpriseID) + "/services"
	raw, err := c.DoRaw(ctx, http.MethodGet, endpoint, nil, RequestOptions{})
	if err != nil {
		return nil, err
	}
	return model.DecodeList[model.Service](raw, "services")
}

// HealthCheck はバックエンドの稼働状況を返します。失敗時も {"status": "error"} を返します
func (c *Client) HealthCheck(ctx context.Context) map[string]any {
	healthURL := strings.TrimSuffix(c.baseURL, "/api/v1") + "/health"
	failed := map[string]any{"status": "error"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return failed
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Health check failed")
		return failed
	}
	defer resp.Body.Close()

	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		log.Error().Err(err).Msg("Health check returned an invalid body")
		return failed
	}
	return status
}
