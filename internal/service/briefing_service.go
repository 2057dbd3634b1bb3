package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"

	"go.uber.org/zap"
)

// BriefingService 把科技趋势和加密行情拼成一份每日简报
// 各个板块独立生成，哪个失败就跳过哪个并留一行说明
type BriefingService struct {
	trends  *TrendsService
	crypto  *CryptoService
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewBriefingService 创建简报服务
func NewBriefingService(trends *TrendsService, crypto *CryptoService, logger *zap.Logger) *BriefingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BriefingService{
		trends:  trends,
		crypto:  crypto,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// GetDailyBriefing 生成综合简报
func (s *BriefingService) GetDailyBriefing(ctx context.Context, timeframeRaw string) (string, error) {
	timeframe, err := domain.ParseTimeframe(timeframeRaw)
	if err != nil {
		return "", common.WrapError(common.ErrCodeInvalidInput, "timeframe 参数非法", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 🚀 Daily Alpha 简报 - %s\n\n", timeframe)
	fmt.Fprintf(&b, "📅 生成时间: %s\n\n---\n\n", s.nowFunc().UTC().Format("2006-01-02 15:04 UTC"))

	sections := 0

	if tech, err := s.trends.GetAITrends(ctx, string(domain.FocusAll), string(timeframe)); err != nil {
		s.logger.Warn("⚠️ 科技趋势板块生成失败，跳过", zap.Error(err))
		b.WriteString("> ⚠️ 科技趋势板块本次不可用\n\n")
	} else {
		b.WriteString(tech)
		b.WriteString("\n---\n\n")
		sections++
	}

	if releases, err := s.trends.GetNewReleases(ctx, timeframe.Days()); err != nil {
		s.logger.Warn("⚠️ 新项目板块生成失败，跳过", zap.Error(err))
		b.WriteString("> ⚠️ 新项目板块本次不可用\n\n")
	} else {
		b.WriteString(releases)
		b.WriteString("\n---\n\n")
		sections++
	}

	if crypto, err := s.crypto.GetCryptoTrends(ctx, string(timeframe)); err != nil {
		s.logger.Warn("⚠️ 加密行情板块生成失败，跳过", zap.Error(err))
		b.WriteString("> ⚠️ 加密行情板块本次不可用\n\n")
	} else {
		b.WriteString(crypto)
		b.WriteString("\n---\n\n")
		sections++
	}

	if sections == 0 {
		b.WriteString(noResultsLine + "\n\n")
	}

	b.WriteString("*Daily Alpha - 科技数据来自 GitHub/awesome 清单 · 行情数据来自 CoinGecko/DeFiLlama*\n")
	return b.String(), nil
}
