package server

import (
	"context"

	"daily-alpha/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version 随版本发布更新
const Version = "0.4.0"

// handlers 把 MCP 工具调用转发给各个聚合服务
// 执行失败一律转成文本型错误结果返回，MCP 客户端处理文本比处理协议错误友好
type handlers struct {
	trends   *service.TrendsService
	crypto   *service.CryptoService
	briefing *service.BriefingService
	logger   *zap.Logger
}

// New 构造 MCP 服务器并注册全部工具
func New(trends *service.TrendsService, crypto *service.CryptoService, briefing *service.BriefingService, logger *zap.Logger) *mcpserver.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{trends: trends, crypto: crypto, briefing: briefing, logger: logger}

	s := mcpserver.NewMCPServer(
		"daily-alpha",
		Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("get_ai_trends",
		mcp.WithDescription("获取 GitHub 和 MCP 生态的 AI/科技趋势报告，含热门项目和社区清单条目"),
		mcp.WithString("focus",
			mcp.Description("关注领域: all=全部, mcp=Model Context Protocol, agents=AI Agent 框架, llm=LLM 工具"),
			mcp.Enum("all", "mcp", "agents", "llm"),
			mcp.DefaultString("all"),
		),
		mcp.WithString("timeframe",
			mcp.Description("daily=最近 7 天, weekly=最近 30 天"),
			mcp.Enum("daily", "weekly"),
			mcp.DefaultString("daily"),
		),
	), h.getAITrends)

	s.AddTool(mcp.NewTool("search_tech_topic",
		mcp.WithDescription("对指定技术话题做专项搜索，覆盖 GitHub 项目和 MCP 清单（例如 langchain、autogen、cursor）"),
		mcp.WithString("topic",
			mcp.Description("要搜索的话题关键词"),
			mcp.Required(),
		),
		mcp.WithNumber("days",
			mcp.Description("回看天数"),
			mcp.DefaultNumber(7),
		),
	), h.searchTechTopic)

	s.AddTool(mcp.NewTool("get_new_releases",
		mcp.WithDescription("获取窗口期内新建的 AI/科技项目，适合发现还没火起来的新工具"),
		mcp.WithNumber("days",
			mcp.Description("看最近 N 天新建的项目"),
			mcp.DefaultNumber(7),
		),
	), h.getNewReleases)

	s.AddTool(mcp.NewTool("get_crypto_trends",
		mcp.WithDescription("获取加密市场趋势：热搜币种、涨幅榜和 DeFi 协议 TVL 动向"),
		mcp.WithString("timeframe",
			mcp.Description("daily=24h 视角, weekly=7d 视角"),
			mcp.Enum("daily", "weekly"),
			mcp.DefaultString("daily"),
		),
	), h.getCryptoTrends)

	s.AddTool(mcp.NewTool("get_daily_briefing",
		mcp.WithDescription("生成综合简报：科技趋势 + 新项目 + 加密行情一次拿齐"),
		mcp.WithString("timeframe",
			mcp.Enum("daily", "weekly"),
			mcp.DefaultString("daily"),
		),
	), h.getDailyBriefing)

	return s
}

func (h *handlers) getAITrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	focus := req.GetString("focus", "all")
	timeframe := req.GetString("timeframe", "daily")

	report, err := h.trends.GetAITrends(ctx, focus, timeframe)
	if err != nil {
		h.logger.Warn("❌ get_ai_trends 执行失败", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (h *handlers) searchTechTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := req.GetString("topic", "")
	days := req.GetInt("days", 7)

	report, err := h.trends.SearchTechTopic(ctx, topic, days)
	if err != nil {
		h.logger.Warn("❌ search_tech_topic 执行失败", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (h *handlers) getNewReleases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 7)

	report, err := h.trends.GetNewReleases(ctx, days)
	if err != nil {
		h.logger.Warn("❌ get_new_releases 执行失败", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (h *handlers) getCryptoTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timeframe := req.GetString("timeframe", "daily")

	report, err := h.crypto.GetCryptoTrends(ctx, timeframe)
	if err != nil {
		h.logger.Warn("❌ get_crypto_trends 执行失败", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (h *handlers) getDailyBriefing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timeframe := req.GetString("timeframe", "daily")

	report, err := h.briefing.GetDailyBriefing(ctx, timeframe)
	if err != nil {
		h.logger.Warn("❌ get_daily_briefing 执行失败", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}
