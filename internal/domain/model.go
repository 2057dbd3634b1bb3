package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Repo 代表一次 GitHub 搜索返回的项目快照
// 只在单次请求内使用，不做持久化
type Repo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"` // 例如 "punkpeye/awesome-mcp-servers"
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"created_at"`
	PushedAt    time.Time `json:"pushed_at"`
}

// CuratedEntry 代表 awesome 清单里解析出来的一条链接
type CuratedEntry struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Coin CoinGecko 的币种行情快照
type Coin struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Rank      int     `json:"rank"`
	PriceUSD  float64 `json:"price_usd"`
	MarketCap float64 `json:"market_cap"`
	Change1h  float64 `json:"change_1h"`
	Change24h float64 `json:"change_24h"`
	Change7d  float64 `json:"change_7d"`
}

// Momentum 根据短期涨跌幅给出走势标签（粗粒度启发式）
func (c *Coin) Momentum() string {
	return momentumLabel(c.Change1h, c.Change24h)
}

// Protocol DeFiLlama 的协议 TVL 快照
type Protocol struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	TVL      float64 `json:"tvl"`
	Change1h float64 `json:"change_1h"`
	Change1d float64 `json:"change_1d"`
	Change7d float64 `json:"change_7d"`
}

// Momentum 根据 TVL 变化给出走势标签
func (p *Protocol) Momentum() string {
	return momentumLabel(p.Change1h, p.Change1d)
}

func momentumLabel(short, mid float64) string {
	switch {
	case short > 2 && mid > 5:
		return "🚀 加速上涨"
	case short > 0 && mid > 2:
		return "📈 上涨"
	case short < -2 && mid < -5:
		return "📉 下跌"
	case mid > -1 && mid < 1:
		return "➡️ 横盘"
	default:
		return "🔄 震荡"
	}
}

// Focus 话题过滤维度
type Focus string

const (
	FocusAll    Focus = "all"
	FocusMCP    Focus = "mcp"
	FocusAgents Focus = "agents"
	FocusLLM    Focus = "llm"
)

// ParseFocus 校验 focus 参数，必须在发起任何网络请求之前调用
func ParseFocus(s string) (Focus, error) {
	switch Focus(s) {
	case FocusAll, FocusMCP, FocusAgents, FocusLLM:
		return Focus(s), nil
	case "":
		return FocusAll, nil
	default:
		return "", fmt.Errorf("未知的 focus 参数: %q (可选值: all/mcp/agents/llm)", s)
	}
}

// Topics 返回该 focus 对应的 GitHub topic 集合
func (f Focus) Topics() []string {
	switch f {
	case FocusMCP:
		return []string{"mcp", "model-context-protocol"}
	case FocusAgents:
		return []string{"ai-agent", "autonomous-agent"}
	case FocusLLM:
		return []string{"llm", "large-language-model"}
	default:
		// all = 三个维度的并集
		return []string{
			"mcp", "model-context-protocol",
			"ai-agent", "autonomous-agent",
			"llm", "large-language-model",
		}
	}
}

// Keywords 用于 awesome 清单条目的关键词匹配
func (f Focus) Keywords() []string {
	switch f {
	case FocusAgents:
		return []string{"agent"}
	case FocusLLM:
		return []string{"llm", "language model"}
	default:
		return nil // all/mcp 不过滤（清单本身就是 MCP 生态）
	}
}

// Timeframe 回看窗口
type Timeframe string

const (
	TimeframeDaily  Timeframe = "daily"  // 最近 7 天
	TimeframeWeekly Timeframe = "weekly" // 最近 30 天
)

// ParseTimeframe 校验 timeframe 参数
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeDaily, TimeframeWeekly:
		return Timeframe(s), nil
	case "":
		return TimeframeDaily, nil
	default:
		return "", fmt.Errorf("未知的 timeframe 参数: %q (可选值: daily/weekly)", s)
	}
}

// Days 把窗口换算成天数
func (t Timeframe) Days() int {
	if t == TimeframeWeekly {
		return 30
	}
	return 7
}

// CanonicalURL 归一化 URL 作为去重键
// GitHub 的路径不区分大小写，这里统一转小写并去掉末尾斜杠
func CanonicalURL(raw string) string {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimRight(s, "/"))
	}
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return strings.ToLower(u.String())
}
