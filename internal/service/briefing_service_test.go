package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBriefingForTest(scouter *fakeScouter, curator *fakeCurator, market *fakeMarketWatcher, analyst *fakeChainAnalyst) *BriefingService {
	trends := NewTrendsService(scouter, curator, nil)
	crypto := NewCryptoService(market, analyst, nil)
	svc := NewBriefingService(trends, crypto, nil)
	svc.nowFunc = func() time.Time {
		return time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestGetDailyBriefing_InvalidTimeframe(t *testing.T) {
	scouter := &fakeScouter{}
	curator := &fakeCurator{}
	svc := newBriefingForTest(scouter, curator, &fakeMarketWatcher{}, &fakeChainAnalyst{})

	_, err := svc.GetDailyBriefing(context.Background(), "yearly")

	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.ErrCodeInvalidInput))
	// 校验失败时一个板块都不该跑
	assert.Equal(t, 0, scouter.trendingCalls)
	assert.Equal(t, 0, curator.calls)
}

func TestGetDailyBriefing_AllSections(t *testing.T) {
	now := time.Now()
	scouter := &fakeScouter{
		trendingRepos: []*domain.Repo{repoWithStars("hot/project", 500)},
		newRepos: []*domain.Repo{
			{Name: "new/thing", URL: "https://github.com/new/thing", CreatedAt: now},
		},
	}
	market := &fakeMarketWatcher{
		trending: []*domain.Coin{{Name: "Bitcoin", Symbol: "BTC", Rank: 1}},
	}
	svc := newBriefingForTest(scouter, &fakeCurator{}, market, &fakeChainAnalyst{})

	report, err := svc.GetDailyBriefing(context.Background(), "daily")

	require.NoError(t, err)
	assert.Contains(t, report, "2026-08-25 09:00 UTC")
	assert.Contains(t, report, "hot/project")
	assert.Contains(t, report, "new/thing")
	assert.Contains(t, report, "Bitcoin")
}

func TestGetDailyBriefing_SurvivesAllSourcesDown(t *testing.T) {
	scouter := &fakeScouter{err: errors.New("github down")}
	curator := &fakeCurator{err: errors.New("list down")}
	market := &fakeMarketWatcher{err: errors.New("gecko down")}
	analyst := &fakeChainAnalyst{err: errors.New("llama down")}
	svc := newBriefingForTest(scouter, curator, market, analyst)

	report, err := svc.GetDailyBriefing(context.Background(), "weekly")

	// 所有数据源都挂了也要产出一份降级简报，不能报错
	require.NoError(t, err)
	assert.NotEmpty(t, report)
	assert.Contains(t, report, noteGitHubDown)
}

func TestGetDailyBriefing_WeeklyPropagatesWindow(t *testing.T) {
	scouter := &fakeScouter{}
	svc := newBriefingForTest(scouter, &fakeCurator{}, &fakeMarketWatcher{}, &fakeChainAnalyst{})

	_, err := svc.GetDailyBriefing(context.Background(), "weekly")

	require.NoError(t, err)
	// weekly → 30 天窗口透传到底层
	assert.Equal(t, 30, scouter.lastDays)
}
