package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"
)

// Client 实现了 port.MarketWatcher 接口
// CoinGecko 免费档不需要 API key，限流 30次/分钟
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient 创建 CoinGecko 客户端，baseURL 和 key 从配置传入
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// trendingResponse /search/trending 的响应结构
type trendingResponse struct {
	Coins []struct {
		Item struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Symbol        string `json:"symbol"`
			MarketCapRank int    `json:"market_cap_rank"`
		} `json:"item"`
	} `json:"coins"`
}

// TrendingCoins 当前热搜币种
func (c *Client) TrendingCoins(ctx context.Context) ([]*domain.Coin, error) {
	var data trendingResponse
	if err := c.get(ctx, "/search/trending", nil, &data); err != nil {
		return nil, err
	}

	var coins []*domain.Coin
	for _, item := range data.Coins {
		coins = append(coins, &domain.Coin{
			ID:     item.Item.ID,
			Name:   item.Item.Name,
			Symbol: strings.ToUpper(item.Item.Symbol),
			Rank:   item.Item.MarketCapRank,
		})
	}

	return coins, nil
}

// marketCoin /coins/markets 的响应结构
type marketCoin struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	CurrentPrice  float64 `json:"current_price"`
	MarketCap     float64 `json:"market_cap"`
	Change1h      float64 `json:"price_change_percentage_1h_in_currency"`
	Change24h     float64 `json:"price_change_percentage_24h_in_currency"`
	Change7d      float64 `json:"price_change_percentage_7d_in_currency"`
}

// MarketData 按市值排序的行情数据，带 1h/24h/7d 涨跌幅
func (c *Client) MarketData(ctx context.Context, limit int) ([]*domain.Coin, error) {
	if limit <= 0 || limit > 250 {
		limit = 50 // API 单页上限 250
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", fmt.Sprintf("%d", limit))
	params.Set("page", "1")
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "1h,24h,7d")

	var data []marketCoin
	if err := c.get(ctx, "/coins/markets", params, &data); err != nil {
		return nil, err
	}

	var coins []*domain.Coin
	for _, item := range data {
		coins = append(coins, &domain.Coin{
			ID:        item.ID,
			Name:      item.Name,
			Symbol:    strings.ToUpper(item.Symbol),
			Rank:      item.MarketCapRank,
			PriceUSD:  item.CurrentPrice,
			MarketCap: item.MarketCap,
			Change1h:  item.Change1h,
			Change24h: item.Change24h,
			Change7d:  item.Change7d,
		})
	}

	return coins, nil
}

// get 发起一次 GET 请求并解析 JSON 响应
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return common.WrapError(common.ErrCodeUpstreamUnavailable, "构造 CoinGecko 请求失败", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return common.WrapError(common.ErrCodeUpstreamUnavailable, "CoinGecko 调用失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return common.WrapError(common.ErrCodeRateLimited, "CoinGecko 限流", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return common.WrapError(common.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("CoinGecko 返回异常状态码 %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.WrapError(common.ErrCodeUpstreamUnavailable, "CoinGecko 响应解析失败", err)
	}

	return nil
}
