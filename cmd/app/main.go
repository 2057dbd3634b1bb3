package main

import (
	"context"
	"fmt"
	"os"

	"daily-alpha/internal/adapter/awesome"
	"daily-alpha/internal/adapter/coingecko"
	"daily-alpha/internal/adapter/defillama"
	"daily-alpha/internal/adapter/github"
	"daily-alpha/internal/config"
	"daily-alpha/internal/server"
	"daily-alpha/internal/service"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "daily-alpha",
		Short:         "AI/科技趋势 + 加密行情聚合 MCP 服务器",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newReportCmd())
	return root
}

// services 一次请求链路上用到的全部聚合服务
type services struct {
	trends   *service.TrendsService
	crypto   *service.CryptoService
	briefing *service.BriefingService
}

// buildServices 按配置组装整条依赖链
// 所有外部地址和凭证都在这里注入，业务代码不碰环境变量
func buildServices(cfg *config.Config, logger *zap.Logger) *services {
	scouter := github.NewFetcher(cfg.GitHubToken)
	curator := awesome.NewParser(cfg.AwesomeListURL, cfg.HTTPTimeout)
	market := coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, cfg.HTTPTimeout)
	analyst := defillama.NewClient(cfg.DeFiLlamaBaseURL, cfg.HTTPTimeout)

	trends := service.NewTrendsService(scouter, curator, logger)
	crypto := service.NewCryptoService(market, analyst, logger)
	briefing := service.NewBriefingService(trends, crypto, logger)
	return &services{trends: trends, crypto: crypto, briefing: briefing}
}

// newLogger stdout 留给 MCP 协议，日志只能走 stderr
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "以 stdio 方式启动 MCP 服务器",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("日志初始化失败: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			svcs := buildServices(cfg, logger)
			srv := server.New(svcs.trends, svcs.crypto, svcs.briefing, logger)

			logger.Info("🚀 daily-alpha MCP 服务器启动",
				zap.String("version", server.Version),
				zap.Bool("github_token", cfg.GitHubToken != ""),
			)
			return mcpserver.ServeStdio(srv)
		},
	}
}

// newReportCmd 不起服务器，直接跑一次报告打到 stdout，调试用
func newReportCmd() *cobra.Command {
	var (
		kind      string
		focus     string
		timeframe string
		topic     string
		days      int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "单次生成一份报告并输出到 stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("日志初始化失败: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			svcs := buildServices(cfg, logger)
			ctx := context.Background()

			var report string
			switch kind {
			case "trends":
				report, err = svcs.trends.GetAITrends(ctx, focus, timeframe)
			case "releases":
				report, err = svcs.trends.GetNewReleases(ctx, days)
			case "search":
				report, err = svcs.trends.SearchTechTopic(ctx, topic, days)
			case "crypto":
				report, err = svcs.crypto.GetCryptoTrends(ctx, timeframe)
			case "briefing":
				report, err = svcs.briefing.GetDailyBriefing(ctx, timeframe)
			default:
				return fmt.Errorf("未知的报告类型: %q (可选值: trends/releases/search/crypto/briefing)", kind)
			}
			if err != nil {
				return err
			}

			fmt.Println(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "trends", "报告类型: trends/releases/search/crypto/briefing")
	cmd.Flags().StringVar(&focus, "focus", "all", "关注领域: all/mcp/agents/llm")
	cmd.Flags().StringVar(&timeframe, "timeframe", "daily", "时间窗口: daily/weekly")
	cmd.Flags().StringVar(&topic, "topic", "", "专项搜索关键词 (kind=search 时必填)")
	cmd.Flags().IntVar(&days, "days", 7, "回看天数 (kind=releases/search 时有效)")
	return cmd
}
