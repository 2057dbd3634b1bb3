package defillama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"
)

// Client 实现了 port.ChainAnalyst 接口
// DeFiLlama 的公开 API 不需要认证
type Client struct {
	baseURL string
	client  *http.Client
}

// minTVL 低于 10 万美元 TVL 的协议噪音太大，直接过滤
const minTVL = 100_000

// NewClient 创建 DeFiLlama 客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// protocolRecord /protocols 的响应结构
// 变化率字段可能缺失，用指针区分 "没有数据" 和 "0"
type protocolRecord struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	TVL      *float64 `json:"tvl"`
	Change1h *float64 `json:"change_1h"`
	Change1d *float64 `json:"change_1d"`
	Change7d *float64 `json:"change_7d"`
}

// TrendingProtocols 按指定时间窗的 TVL 涨幅排序的协议列表
// timeframe 只认 "1d" 和 "7d"，其它值按 "1d" 处理
func (c *Client) TrendingProtocols(ctx context.Context, timeframe string, limit int) ([]*domain.Protocol, error) {
	if limit <= 0 {
		limit = 10
	}

	records, err := c.fetchProtocols(ctx)
	if err != nil {
		return nil, err
	}

	var protocols []*domain.Protocol
	for _, r := range records {
		if r.TVL == nil || *r.TVL < minTVL {
			continue
		}
		change := r.Change1d
		if timeframe == "7d" {
			change = r.Change7d
		}
		if change == nil {
			continue // 没有变化率数据的协议排不了序
		}
		protocols = append(protocols, &domain.Protocol{
			Name:     r.Name,
			Category: r.Category,
			TVL:      *r.TVL,
			Change1h: deref(r.Change1h),
			Change1d: deref(r.Change1d),
			Change7d: deref(r.Change7d),
		})
	}

	// 按对应时间窗的涨幅降序
	sort.SliceStable(protocols, func(i, j int) bool {
		if timeframe == "7d" {
			return protocols[i].Change7d > protocols[j].Change7d
		}
		return protocols[i].Change1d > protocols[j].Change1d
	})

	if len(protocols) > limit {
		protocols = protocols[:limit]
	}

	return protocols, nil
}

// fetchProtocols 拉全量协议列表
func (c *Client) fetchProtocols(ctx context.Context) ([]protocolRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/protocols", nil)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable, "构造 DeFiLlama 请求失败", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable, "DeFiLlama 调用失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, common.WrapError(common.ErrCodeRateLimited, "DeFiLlama 限流", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("DeFiLlama 返回异常状态码 %d", resp.StatusCode), nil)
	}

	var records []protocolRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable, "DeFiLlama 响应解析失败", err)
	}

	return records, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
