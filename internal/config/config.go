package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config 汇总进程级配置
// 在入口处加载一次，显式传给各组件，业务代码里不读环境变量
type Config struct {
	// GitHubToken 为空时匿名访问，配额只有 60次/小时（带 token 是 5000次/小时）
	GitHubToken string

	// AwesomeListURL 社区维护的 MCP 清单原始文件地址
	AwesomeListURL string

	CoinGeckoBaseURL string
	// CoinGeckoAPIKey 免费档可以不填
	CoinGeckoAPIKey string

	DeFiLlamaBaseURL string

	// HTTPTimeout 单次出站请求的超时时间
	HTTPTimeout time.Duration
}

const (
	defaultAwesomeListURL   = "https://raw.githubusercontent.com/punkpeye/awesome-mcp-servers/main/README.md"
	defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	defaultDeFiLlamaBaseURL = "https://api.llama.fi"
	defaultHTTPTimeout      = 30 * time.Second
)

// Load 读取 .env（如果存在）和环境变量，缺省值兜底
func Load() *Config {
	// .env 不存在时静默忽略，和直接 export 环境变量等价
	_ = godotenv.Load()

	timeout := defaultHTTPTimeout
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}

	return &Config{
		GitHubToken:      os.Getenv("GITHUB_TOKEN"),
		AwesomeListURL:   getenvDefault("AWESOME_LIST_URL", defaultAwesomeListURL),
		CoinGeckoBaseURL: getenvDefault("COINGECKO_BASE_URL", defaultCoinGeckoBaseURL),
		CoinGeckoAPIKey:  os.Getenv("COINGECKO_API_KEY"),
		DeFiLlamaBaseURL: getenvDefault("DEFILLAMA_BASE_URL", defaultDeFiLlamaBaseURL),
		HTTPTimeout:      timeout,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
