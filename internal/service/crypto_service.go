package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"
	"daily-alpha/internal/port"

	"go.uber.org/zap"
)

// CryptoService 聚合 CoinGecko 行情和 DeFiLlama TVL，产出加密市场报告
type CryptoService struct {
	market  port.MarketWatcher
	analyst port.ChainAnalyst
	logger  *zap.Logger
}

const (
	trendingCoinLimit = 7
	marketMoverLimit  = 5
	protocolLimit     = 5
)

const (
	noteMarketDown  = "⚠️ CoinGecko 本次不可用，行情部分缺失"
	noteAnalystDown = "⚠️ DeFiLlama 本次不可用，DeFi 部分缺失"
)

// NewCryptoService 创建加密行情聚合服务
func NewCryptoService(market port.MarketWatcher, analyst port.ChainAnalyst, logger *zap.Logger) *CryptoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CryptoService{market: market, analyst: analyst, logger: logger}
}

// GetCryptoTrends 生成加密市场趋势报告
// daily 看 24h 涨跌，weekly 看 7d 涨跌；每个数据源独立降级
func (s *CryptoService) GetCryptoTrends(ctx context.Context, timeframeRaw string) (string, error) {
	timeframe, err := domain.ParseTimeframe(timeframeRaw)
	if err != nil {
		return "", common.WrapError(common.ErrCodeInvalidInput, "timeframe 参数非法", err)
	}

	protocolWindow := "1d"
	if timeframe == domain.TimeframeWeekly {
		protocolWindow = "7d"
	}

	var (
		trending  []*domain.Coin
		market    []*domain.Coin
		protocols []*domain.Protocol
		notes     []string
		mu        sync.Mutex
		wg        sync.WaitGroup
	)

	addNote := func(n string) {
		mu.Lock()
		defer mu.Unlock()
		for _, existing := range notes {
			if existing == n {
				return
			}
		}
		notes = append(notes, n)
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		c, err := s.market.TrendingCoins(ctx)
		if err != nil {
			s.logger.Warn("⚠️ 热搜币种获取失败", zap.Error(err))
			addNote(noteMarketDown)
			return
		}
		trending = c
	}()
	go func() {
		defer wg.Done()
		c, err := s.market.MarketData(ctx, 50)
		if err != nil {
			s.logger.Warn("⚠️ 行情数据获取失败", zap.Error(err))
			addNote(noteMarketDown)
			return
		}
		market = c
	}()
	go func() {
		defer wg.Done()
		p, err := s.analyst.TrendingProtocols(ctx, protocolWindow, protocolLimit)
		if err != nil {
			s.logger.Warn("⚠️ DeFi 协议数据获取失败", zap.Error(err))
			addNote(noteAnalystDown)
			return
		}
		protocols = p
	}()
	wg.Wait()

	movers := topMovers(market, timeframe, marketMoverLimit)

	var b strings.Builder
	fmt.Fprintf(&b, "# 💰 加密市场趋势 - %s\n\n", timeframe)
	writeNotes(&b, notes)

	if len(trending) == 0 && len(movers) == 0 && len(protocols) == 0 {
		b.WriteString(noResultsLine + "\n")
		return b.String(), nil
	}

	if len(trending) > 0 {
		b.WriteString("## 🔥 热搜币种\n\n")
		limit := len(trending)
		if limit > trendingCoinLimit {
			limit = trendingCoinLimit
		}
		for i, c := range trending[:limit] {
			fmt.Fprintf(&b, "%d. **%s** (%s)", i+1, c.Name, c.Symbol)
			if c.Rank > 0 {
				fmt.Fprintf(&b, " · 市值排名 #%d", c.Rank)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(movers) > 0 {
		b.WriteString("## 📊 涨幅榜\n\n")
		for i, c := range movers {
			change := c.Change24h
			if timeframe == domain.TimeframeWeekly {
				change = c.Change7d
			}
			fmt.Fprintf(&b, "%d. **%s** (%s) %+.1f%% · %s\n", i+1, c.Name, c.Symbol, change, c.Momentum())
		}
		b.WriteString("\n")
	}

	if len(protocols) > 0 {
		b.WriteString("## 🏦 DeFi 协议动向\n\n")
		for i, p := range protocols {
			change := p.Change1d
			if protocolWindow == "7d" {
				change = p.Change7d
			}
			fmt.Fprintf(&b, "%d. **%s** (%s) TVL $%s · %+.1f%% · %s\n",
				i+1, p.Name, p.Category, formatAmount(p.TVL), change, p.Momentum())
		}
	}

	return b.String(), nil
}

// topMovers 从行情数据里挑出对应时间窗涨幅最大的几个
func topMovers(coins []*domain.Coin, timeframe domain.Timeframe, limit int) []*domain.Coin {
	if len(coins) == 0 {
		return nil
	}
	sorted := make([]*domain.Coin, len(coins))
	copy(sorted, coins)
	sort.SliceStable(sorted, func(i, j int) bool {
		if timeframe == domain.TimeframeWeekly {
			return sorted[i].Change7d > sorted[j].Change7d
		}
		return sorted[i].Change24h > sorted[j].Change24h
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// formatAmount 大数字缩写，报告里没人想数零
func formatAmount(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
