package port_test

import (
	"daily-alpha/internal/adapter/awesome"
	"daily-alpha/internal/adapter/coingecko"
	"daily-alpha/internal/adapter/defillama"
	"daily-alpha/internal/adapter/github"
	"daily-alpha/internal/port"
)

// 编译期断言：所有适配器都实现了各自的端口
var (
	_ port.Scouter       = (*github.Fetcher)(nil)
	_ port.Curator       = (*awesome.Parser)(nil)
	_ port.MarketWatcher = (*coingecko.Client)(nil)
	_ port.ChainAnalyst  = (*defillama.Client)(nil)
)
