package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"
	"daily-alpha/internal/port"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// TrendsService 聚合 GitHub 搜索和 awesome 清单，产出趋势报告
// 整条链路是纯请求-响应：抓取 → 合并去重 → 排序 → 渲染，不留任何状态
type TrendsService struct {
	scouter port.Scouter
	curator port.Curator
	logger  *zap.Logger
	nowFunc func() time.Time
}

const (
	// perTopicLimit 每个 topic 最多取多少个项目
	perTopicLimit = 10
	// trendingMinStars MCP 生态还年轻，阈值放低一点
	trendingMinStars = 10
	// maxReportEntries 报告最多渲染多少条，再多 LLM 也读不过来
	maxReportEntries = 20
)

// 数据源降级时插入报告的提示行
const (
	noteGitHubDown  = "⚠️ GitHub 数据源本次不可用，以下结果仅来自社区清单"
	noteCuratedDown = "⚠️ 社区清单本次不可用，以下结果仅来自 GitHub"
)

// noResultsLine 两个源都为空时的占位行，保证报告永远不是空字符串
const noResultsLine = "*时间窗口内没有符合条件的结果*"

// NewTrendsService 创建趋势聚合服务
func NewTrendsService(scouter port.Scouter, curator port.Curator, logger *zap.Logger) *TrendsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrendsService{
		scouter: scouter,
		curator: curator,
		logger:  logger,
		nowFunc: time.Now, // 便于测试注入当前时间
	}
}

// reportEntry 两个数据源合并后的统一条目
type reportEntry struct {
	Name        string
	URL         string
	Description string
	Stars       int
	CreatedAt   time.Time
	PushedAt    time.Time
}

// GetAITrends 生成 AI/科技趋势报告
// 参数校验在最前面，不合法的 focus/timeframe 不会触发任何网络请求
func (s *TrendsService) GetAITrends(ctx context.Context, focusRaw, timeframeRaw string) (string, error) {
	focus, err := domain.ParseFocus(focusRaw)
	if err != nil {
		return "", common.WrapError(common.ErrCodeInvalidInput, "focus 参数非法", err)
	}
	timeframe, err := domain.ParseTimeframe(timeframeRaw)
	if err != nil {
		return "", common.WrapError(common.ErrCodeInvalidInput, "timeframe 参数非法", err)
	}
	days := timeframe.Days()

	// 两个数据源相互独立，并发抓取省点延迟
	// 任何一个挂了都降级为空列表 + 报告里加一行提示，绝不把错误抛给调用方
	var (
		repos   []*domain.Repo
		entries []*domain.CuratedEntry
		notes   []string
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		r, err := s.scouter.SearchTrending(ctx, focus.Topics(), days, trendingMinStars, perTopicLimit)
		if err != nil {
			s.logger.Warn("⚠️ GitHub 数据源不可用，本次降级", zap.Error(err))
			mu.Lock()
			notes = append(notes, noteGitHubDown)
			mu.Unlock()
			return
		}
		repos = r
	}()
	go func() {
		defer wg.Done()
		e, err := s.curator.FetchEntries(ctx)
		if err != nil {
			s.logger.Warn("⚠️ awesome 清单不可用，本次降级", zap.Error(err))
			mu.Lock()
			notes = append(notes, noteCuratedDown)
			mu.Unlock()
			return
		}
		entries = e
	}()
	wg.Wait()

	merged := mergeAndRank(repos, filterByFocus(entries, focus))

	var b strings.Builder
	fmt.Fprintf(&b, "# AI/Tech 趋势报告 - %s / %s\n\n", focus, timeframe)
	fmt.Fprintf(&b, "*数据范围：最近 %d 天*\n\n", days)
	writeNotes(&b, notes)
	writeEntries(&b, merged)
	return b.String(), nil
}

// GetNewReleases 生成新项目报告
// 只看 GitHub 的创建时间，清单没有时间维度，不参与
func (s *TrendsService) GetNewReleases(ctx context.Context, days int) (string, error) {
	if days <= 0 {
		days = 7
	}

	var notes []string
	repos, err := s.scouter.SearchNew(ctx, domain.FocusAll.Topics(), days, perTopicLimit)
	if err != nil {
		s.logger.Warn("⚠️ GitHub 数据源不可用，本次降级", zap.Error(err))
		notes = append(notes, noteGitHubDown)
	}

	entries := lo.Map(repos, func(r *domain.Repo, _ int) reportEntry { return fromRepo(r) })
	entries = lo.UniqBy(entries, func(e reportEntry) string { return domain.CanonicalURL(e.URL) })
	// 新项目按创建时间倒序，最新的最上面
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Name < entries[j].Name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# 🆕 新项目 (最近 %d 天)\n\n", days)
	writeNotes(&b, notes)
	if len(entries) == 0 {
		b.WriteString(noResultsLine + "\n")
		return b.String(), nil
	}
	if len(entries) > maxReportEntries {
		entries = entries[:maxReportEntries]
	}
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. **%s** ⭐ %d\n", i+1, e.Name, e.Stars)
		if e.Description != "" {
			fmt.Fprintf(&b, "   %s\n", e.Description)
		}
		fmt.Fprintf(&b, "   创建于: %s\n", e.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(&b, "   %s\n", e.URL)
	}
	return b.String(), nil
}

// SearchTechTopic 对指定话题做专项搜索
// 关键词原样传给 GitHub，清单按名称/描述做子串匹配
func (s *TrendsService) SearchTechTopic(ctx context.Context, topic string, days int) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", common.NewError(common.ErrCodeInvalidInput, "topic 参数不能为空")
	}
	if days <= 0 {
		days = 7
	}

	var (
		repos   []*domain.Repo
		entries []*domain.CuratedEntry
		notes   []string
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		r, err := s.scouter.SearchKeyword(ctx, topic, days, perTopicLimit)
		if err != nil {
			s.logger.Warn("⚠️ GitHub 数据源不可用，本次降级", zap.Error(err))
			mu.Lock()
			notes = append(notes, noteGitHubDown)
			mu.Unlock()
			return
		}
		repos = r
	}()
	go func() {
		defer wg.Done()
		e, err := s.curator.FetchEntries(ctx)
		if err != nil {
			s.logger.Warn("⚠️ awesome 清单不可用，本次降级", zap.Error(err))
			mu.Lock()
			notes = append(notes, noteCuratedDown)
			mu.Unlock()
			return
		}
		entries = e
	}()
	wg.Wait()

	keyword := strings.ToLower(topic)
	matched := lo.Filter(entries, func(e *domain.CuratedEntry, _ int) bool {
		return strings.Contains(strings.ToLower(e.Name), keyword) ||
			strings.Contains(strings.ToLower(e.Description), keyword)
	})

	merged := mergeAndRank(repos, matched)

	var b strings.Builder
	fmt.Fprintf(&b, "# 专项搜索: %s\n\n", topic)
	fmt.Fprintf(&b, "*数据范围：最近 %d 天*\n\n", days)
	writeNotes(&b, notes)
	writeEntries(&b, merged)
	return b.String(), nil
}

// mergeAndRank 合并、去重、排序
// GitHub 条目排在清单条目前面：去重时先出现的赢，等价于 GitHub 优先
func mergeAndRank(repos []*domain.Repo, entries []*domain.CuratedEntry) []reportEntry {
	all := make([]reportEntry, 0, len(repos)+len(entries))
	for _, r := range repos {
		all = append(all, fromRepo(r))
	}
	for _, e := range entries {
		all = append(all, reportEntry{
			Name:        e.Name,
			URL:         e.URL,
			Description: e.Description,
		})
	}

	unique := lo.UniqBy(all, func(e reportEntry) string { return domain.CanonicalURL(e.URL) })

	// Star 降序 → 最近提交降序 → 名称升序
	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Stars != unique[j].Stars {
			return unique[i].Stars > unique[j].Stars
		}
		if !unique[i].PushedAt.Equal(unique[j].PushedAt) {
			return unique[i].PushedAt.After(unique[j].PushedAt)
		}
		return unique[i].Name < unique[j].Name
	})

	return unique
}

// filterByFocus agents/llm 维度下用关键词过滤清单条目
// 清单本身就是 MCP 生态，all/mcp 不过滤
func filterByFocus(entries []*domain.CuratedEntry, focus domain.Focus) []*domain.CuratedEntry {
	keywords := focus.Keywords()
	if len(keywords) == 0 {
		return entries
	}
	return lo.Filter(entries, func(e *domain.CuratedEntry, _ int) bool {
		text := strings.ToLower(e.Name + " " + e.Description)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	})
}

func fromRepo(r *domain.Repo) reportEntry {
	return reportEntry{
		Name:        r.Name,
		URL:         r.URL,
		Description: r.Description,
		Stars:       r.Stars,
		CreatedAt:   r.CreatedAt,
		PushedAt:    r.PushedAt,
	}
}

func writeNotes(b *strings.Builder, notes []string) {
	for _, n := range notes {
		fmt.Fprintf(b, "> %s\n\n", n)
	}
}

func writeEntries(b *strings.Builder, entries []reportEntry) {
	if len(entries) == 0 {
		b.WriteString(noResultsLine + "\n")
		return
	}
	if len(entries) > maxReportEntries {
		entries = entries[:maxReportEntries]
	}
	for i, e := range entries {
		fmt.Fprintf(b, "%d. **%s** ⭐ %d\n", i+1, e.Name, e.Stars)
		if e.Description != "" {
			fmt.Fprintf(b, "   %s\n", e.Description)
		}
		fmt.Fprintf(b, "   %s\n", e.URL)
	}
}
