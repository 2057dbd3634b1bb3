package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScouter 模拟 GitHub 数据源，带调用计数
type fakeScouter struct {
	trendingRepos []*domain.Repo
	newRepos      []*domain.Repo
	keywordRepos  []*domain.Repo
	err           error

	trendingCalls int
	newCalls      int
	keywordCalls  int
	lastTopics    []string
	lastKeyword   string
	lastDays      int
}

func (f *fakeScouter) SearchTrending(_ context.Context, topics []string, days, _, _ int) ([]*domain.Repo, error) {
	f.trendingCalls++
	f.lastTopics = topics
	f.lastDays = days
	if f.err != nil {
		return nil, f.err
	}
	return f.trendingRepos, nil
}

func (f *fakeScouter) SearchNew(_ context.Context, topics []string, days, _ int) ([]*domain.Repo, error) {
	f.newCalls++
	f.lastTopics = topics
	f.lastDays = days
	if f.err != nil {
		return nil, f.err
	}
	return f.newRepos, nil
}

func (f *fakeScouter) SearchKeyword(_ context.Context, keyword string, days, _ int) ([]*domain.Repo, error) {
	f.keywordCalls++
	f.lastKeyword = keyword
	f.lastDays = days
	if f.err != nil {
		return nil, f.err
	}
	return f.keywordRepos, nil
}

// fakeCurator 模拟 awesome 清单，带调用计数
type fakeCurator struct {
	entries []*domain.CuratedEntry
	err     error
	calls   int
}

func (f *fakeCurator) FetchEntries(_ context.Context) ([]*domain.CuratedEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func repoWithStars(name string, stars int) *domain.Repo {
	return &domain.Repo{
		ID:          "github-" + name,
		Name:        name,
		URL:         "https://github.com/" + name,
		Description: "repo " + name,
		Stars:       stars,
		PushedAt:    time.Now(),
	}
}

func TestGetAITrends_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		focus     string
		timeframe string
	}{
		{name: "非法focus", focus: "bogus", timeframe: "daily"},
		{name: "非法timeframe", focus: "all", timeframe: "monthly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scouter := &fakeScouter{}
			curator := &fakeCurator{}
			svc := NewTrendsService(scouter, curator, nil)

			_, err := svc.GetAITrends(context.Background(), tt.focus, tt.timeframe)

			require.Error(t, err)
			assert.True(t, common.IsCode(err, common.ErrCodeInvalidInput))
			// 参数校验失败时不能发起任何网络请求
			assert.Equal(t, 0, scouter.trendingCalls)
			assert.Equal(t, 0, curator.calls)
		})
	}
}

func TestGetAITrends_AllValidCombinations(t *testing.T) {
	for _, focus := range []string{"all", "mcp", "agents", "llm"} {
		for _, timeframe := range []string{"daily", "weekly"} {
			t.Run(focus+"/"+timeframe, func(t *testing.T) {
				svc := NewTrendsService(&fakeScouter{}, &fakeCurator{}, nil)

				report, err := svc.GetAITrends(context.Background(), focus, timeframe)

				require.NoError(t, err)
				// 报告永远不能是空字符串
				assert.NotEmpty(t, report)
			})
		}
	}
}

func TestGetAITrends_TimeframeMapping(t *testing.T) {
	tests := []struct {
		timeframe string
		wantDays  int
	}{
		{timeframe: "daily", wantDays: 7},
		{timeframe: "weekly", wantDays: 30},
	}

	for _, tt := range tests {
		t.Run(tt.timeframe, func(t *testing.T) {
			scouter := &fakeScouter{}
			svc := NewTrendsService(scouter, &fakeCurator{}, nil)

			_, err := svc.GetAITrends(context.Background(), "all", tt.timeframe)

			require.NoError(t, err)
			assert.Equal(t, tt.wantDays, scouter.lastDays)
		})
	}
}

func TestGetAITrends_FocusTopicMapping(t *testing.T) {
	scouter := &fakeScouter{}
	svc := NewTrendsService(scouter, &fakeCurator{}, nil)

	_, err := svc.GetAITrends(context.Background(), "mcp", "daily")

	require.NoError(t, err)
	assert.Equal(t, []string{"mcp", "model-context-protocol"}, scouter.lastTopics)
}

func TestGetAITrends_DedupeByCanonicalURL(t *testing.T) {
	// 同一个 URL 大小写/末尾斜杠不同，合并后只剩一条，GitHub 来源优先
	scouter := &fakeScouter{
		trendingRepos: []*domain.Repo{
			{
				Name:        "Example/Tool",
				URL:         "https://github.com/Example/Tool",
				Description: "来自 GitHub 的描述",
				Stars:       42,
			},
		},
	}
	curator := &fakeCurator{
		entries: []*domain.CuratedEntry{
			{
				Name:        "example-tool",
				URL:         "https://github.com/example/tool/",
				Description: "来自清单的描述",
			},
		},
	}
	svc := NewTrendsService(scouter, curator, nil)

	report, err := svc.GetAITrends(context.Background(), "all", "daily")

	require.NoError(t, err)
	assert.Contains(t, report, "来自 GitHub 的描述")
	assert.NotContains(t, report, "来自清单的描述")
	assert.Contains(t, report, "1. ")
	assert.NotContains(t, report, "2. ")
}

func TestGetAITrends_SortByStarsDesc(t *testing.T) {
	scouter := &fakeScouter{
		trendingRepos: []*domain.Repo{
			repoWithStars("a/ten", 10),
			repoWithStars("b/fifty", 50),
			repoWithStars("c/thirty", 30),
		},
	}
	svc := NewTrendsService(scouter, &fakeCurator{}, nil)

	report, err := svc.GetAITrends(context.Background(), "all", "daily")

	require.NoError(t, err)
	idx50 := strings.Index(report, "b/fifty")
	idx30 := strings.Index(report, "c/thirty")
	idx10 := strings.Index(report, "a/ten")
	require.True(t, idx50 >= 0 && idx30 >= 0 && idx10 >= 0)
	assert.Less(t, idx50, idx30)
	assert.Less(t, idx30, idx10)
}

func TestGetAITrends_SortTieBreakers(t *testing.T) {
	now := time.Now()
	scouter := &fakeScouter{
		trendingRepos: []*domain.Repo{
			{Name: "a/old", URL: "https://github.com/a/old", Stars: 10, PushedAt: now.AddDate(0, 0, -5)},
			{Name: "b/fresh", URL: "https://github.com/b/fresh", Stars: 10, PushedAt: now},
			{Name: "c/alpha", URL: "https://github.com/c/alpha", Stars: 10, PushedAt: now.AddDate(0, 0, -5)},
		},
	}
	svc := NewTrendsService(scouter, &fakeCurator{}, nil)

	report, err := svc.GetAITrends(context.Background(), "all", "daily")

	require.NoError(t, err)
	// Star 相同按最近提交，再相同按名称
	idxFresh := strings.Index(report, "b/fresh")
	idxOld := strings.Index(report, "a/old")
	idxAlpha := strings.Index(report, "c/alpha")
	assert.Less(t, idxFresh, idxOld)
	assert.Less(t, idxOld, idxAlpha)
}

func TestGetAITrends_CuratedSourceDown(t *testing.T) {
	// 清单挂了不影响报告生成，只加一行提示
	scouter := &fakeScouter{
		trendingRepos: []*domain.Repo{repoWithStars("x/survivor", 99)},
	}
	curator := &fakeCurator{err: errors.New("fetch failed")}
	svc := NewTrendsService(scouter, curator, nil)

	report, err := svc.GetAITrends(context.Background(), "all", "daily")

	require.NoError(t, err)
	assert.Contains(t, report, "x/survivor")
	assert.Contains(t, report, noteCuratedDown)
}

func TestGetAITrends_GitHubSourceDown(t *testing.T) {
	scouter := &fakeScouter{err: common.NewError(common.ErrCodeRateLimited, "配额耗尽")}
	curator := &fakeCurator{
		entries: []*domain.CuratedEntry{
			{Name: "list-only", URL: "https://example.com/list-only", Description: "还活着"},
		},
	}
	svc := NewTrendsService(scouter, curator, nil)

	report, err := svc.GetAITrends(context.Background(), "all", "daily")

	require.NoError(t, err)
	assert.Contains(t, report, "list-only")
	assert.Contains(t, report, noteGitHubDown)
}

func TestGetAITrends_BothSourcesEmpty(t *testing.T) {
	svc := NewTrendsService(&fakeScouter{}, &fakeCurator{}, nil)

	report, err := svc.GetAITrends(context.Background(), "all", "daily")

	require.NoError(t, err)
	assert.NotEmpty(t, report)
	assert.Contains(t, report, noResultsLine)
}

func TestGetAITrends_FocusFiltersCuratedEntries(t *testing.T) {
	curator := &fakeCurator{
		entries: []*domain.CuratedEntry{
			{Name: "llm-toolkit", URL: "https://example.com/llm-toolkit", Description: "LLM helpers"},
			{Name: "weather-server", URL: "https://example.com/weather", Description: "weather data"},
		},
	}
	svc := NewTrendsService(&fakeScouter{}, curator, nil)

	report, err := svc.GetAITrends(context.Background(), "llm", "daily")

	require.NoError(t, err)
	assert.Contains(t, report, "llm-toolkit")
	assert.NotContains(t, report, "weather-server")
}

func TestSearchTechTopic_EmptyTopic(t *testing.T) {
	scouter := &fakeScouter{}
	curator := &fakeCurator{}
	svc := NewTrendsService(scouter, curator, nil)

	_, err := svc.SearchTechTopic(context.Background(), "   ", 7)

	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeInvalidInput))
	assert.Equal(t, 0, scouter.keywordCalls)
	assert.Equal(t, 0, curator.calls)
}

func TestSearchTechTopic_KeywordPassthrough(t *testing.T) {
	scouter := &fakeScouter{
		keywordRepos: []*domain.Repo{repoWithStars("lang/chain", 1000)},
	}
	curator := &fakeCurator{
		entries: []*domain.CuratedEntry{
			{Name: "langchain-server", URL: "https://example.com/lc", Description: "bridge"},
			{Name: "other-server", URL: "https://example.com/other", Description: "unrelated"},
		},
	}
	svc := NewTrendsService(scouter, curator, nil)

	report, err := svc.SearchTechTopic(context.Background(), "LangChain", 7)

	require.NoError(t, err)
	// 关键词原样传给 GitHub，不走 focus 映射
	assert.Equal(t, "LangChain", scouter.lastKeyword)
	assert.Contains(t, report, "lang/chain")
	// 清单按名称/描述子串匹配（大小写不敏感）
	assert.Contains(t, report, "langchain-server")
	assert.NotContains(t, report, "other-server")
}

func TestSearchTechTopic_DefaultDays(t *testing.T) {
	scouter := &fakeScouter{}
	svc := NewTrendsService(scouter, &fakeCurator{}, nil)

	_, err := svc.SearchTechTopic(context.Background(), "mcp", 0)

	require.NoError(t, err)
	assert.Equal(t, 7, scouter.lastDays)
}

func TestGetNewReleases_SortByCreatedDesc(t *testing.T) {
	now := time.Now()
	scouter := &fakeScouter{
		newRepos: []*domain.Repo{
			{Name: "a/older", URL: "https://github.com/a/older", CreatedAt: now.AddDate(0, 0, -6)},
			{Name: "b/newest", URL: "https://github.com/b/newest", CreatedAt: now.AddDate(0, 0, -1)},
			{Name: "c/middle", URL: "https://github.com/c/middle", CreatedAt: now.AddDate(0, 0, -3)},
		},
	}
	svc := NewTrendsService(scouter, &fakeCurator{}, nil)

	report, err := svc.GetNewReleases(context.Background(), 7)

	require.NoError(t, err)
	idxNewest := strings.Index(report, "b/newest")
	idxMiddle := strings.Index(report, "c/middle")
	idxOlder := strings.Index(report, "a/older")
	assert.Less(t, idxNewest, idxMiddle)
	assert.Less(t, idxMiddle, idxOlder)
}

func TestGetNewReleases_DefaultDays(t *testing.T) {
	scouter := &fakeScouter{}
	svc := NewTrendsService(scouter, &fakeCurator{}, nil)

	report, err := svc.GetNewReleases(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 7, scouter.lastDays)
	assert.Contains(t, report, "7 天")
}

func TestGetNewReleases_SourceDown(t *testing.T) {
	scouter := &fakeScouter{err: errors.New("boom")}
	svc := NewTrendsService(scouter, &fakeCurator{}, nil)

	report, err := svc.GetNewReleases(context.Background(), 7)

	require.NoError(t, err)
	assert.Contains(t, report, noResultsLine)
	assert.Contains(t, report, noteGitHubDown)
}
