package port

import (
	"context"

	"daily-alpha/internal/domain"
)

// Scouter (侦察兵): 负责去 GitHub 搜索项目
// 所有方法一次调用对应一次(或每个 topic 一次)出站请求
type Scouter interface {
	// SearchTrending 按 topic 搜索窗口期内有提交的热门项目
	SearchTrending(ctx context.Context, topics []string, days, minStars, limit int) ([]*domain.Repo, error)

	// SearchNew 按 topic 搜索窗口期内新建的项目
	SearchNew(ctx context.Context, topics []string, days, limit int) ([]*domain.Repo, error)

	// SearchKeyword 用调用方给的关键词直接搜索（search_tech_topic 用）
	SearchKeyword(ctx context.Context, keyword string, days, limit int) ([]*domain.Repo, error)
}

// Curator (策展人): 负责抓取并解析社区维护的 awesome 清单
// 清单是人肉编辑的 Markdown，解析是尽力而为，不保证完整
type Curator interface {
	FetchEntries(ctx context.Context) ([]*domain.CuratedEntry, error)
}

// MarketWatcher (盯盘员): 负责加密货币行情数据 (CoinGecko)
type MarketWatcher interface {
	// TrendingCoins 当前热搜币种
	TrendingCoins(ctx context.Context) ([]*domain.Coin, error)

	// MarketData 按市值排序的行情数据，带 1h/24h/7d 涨跌幅
	MarketData(ctx context.Context, limit int) ([]*domain.Coin, error)
}

// ChainAnalyst (链上分析师): 负责 DeFi 协议 TVL 数据 (DeFiLlama)
type ChainAnalyst interface {
	// TrendingProtocols 按指定时间窗的 TVL 涨幅排序的协议列表
	// timeframe: "1d" 或 "7d"
	TrendingProtocols(ctx context.Context, timeframe string, limit int) ([]*domain.Protocol, error)
}
