package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// Fetcher 实现了 port.Scouter 接口
type Fetcher struct {
	client  *github.Client
	nowFunc func() time.Time
}

// NewFetcher 初始化 GitHub 客户端
// token 为空时匿名访问（60次/小时），带 token 可以到 5000次/小时
func NewFetcher(token string) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Fetcher{client: client, nowFunc: time.Now}
}

// SearchTrending 按 topic 搜索窗口期内有提交的热门项目
// 用 pushed 过滤：最近有提交说明项目还活着，比单纯看 Star 数更像 "trending"
func (f *Fetcher) SearchTrending(ctx context.Context, topics []string, days, minStars, limit int) ([]*domain.Repo, error) {
	cutoff := f.cutoff(days)

	var all []*domain.Repo
	for _, topic := range topics {
		query := fmt.Sprintf("topic:%s stars:>%d pushed:>%s", topic, minStars, cutoff)
		repos, err := f.search(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)
	}

	return all, nil
}

// SearchNew 按 topic 搜索窗口期内新建的项目
// 新项目 = 还没火起来的趋势，去重和按创建时间排序交给上层
func (f *Fetcher) SearchNew(ctx context.Context, topics []string, days, limit int) ([]*domain.Repo, error) {
	cutoff := f.cutoff(days)

	var all []*domain.Repo
	for _, topic := range topics {
		query := fmt.Sprintf("topic:%s created:>%s", topic, cutoff)
		repos, err := f.search(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)
	}

	return all, nil
}

// SearchKeyword 用调用方给的关键词直接搜索，不走 focus 映射
func (f *Fetcher) SearchKeyword(ctx context.Context, keyword string, days, limit int) ([]*domain.Repo, error) {
	query := fmt.Sprintf("%s pushed:>%s", keyword, f.cutoff(days))
	return f.search(ctx, query, limit)
}

// search 调用 Search API 并把结果转成 Domain 实体
func (f *Fetcher) search(ctx context.Context, query string, limit int) ([]*domain.Repo, error) {
	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: limit,
		},
	}

	var result *github.RepositoriesSearchResult
	err := common.Do(ctx, func() error {
		var apiErr error
		result, _, apiErr = f.client.Search.Repositories(ctx, query, opts)
		return apiErr
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(time.Second),
		// 配额耗尽时重试只会继续吃配额，直接放弃
		common.WithRetryIf(func(err error) bool { return !isRateLimit(err) }),
	)
	if err != nil {
		if isRateLimit(err) {
			return nil, common.WrapError(common.ErrCodeRateLimited, "GitHub API 配额耗尽", err)
		}
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable, "GitHub API 调用失败", err)
	}

	var repos []*domain.Repo
	for _, item := range result.Repositories {
		repos = append(repos, convert(item))
	}
	if len(repos) > limit {
		repos = repos[:limit]
	}

	return repos, nil
}

func (f *Fetcher) cutoff(days int) string {
	return f.nowFunc().AddDate(0, 0, -days).Format("2006-01-02")
}

// convert GitHub 的数据结构转换为 Domain 实体 (DTO 转换)
func convert(item *github.Repository) *domain.Repo {
	return &domain.Repo{
		ID:          fmt.Sprintf("github-%d", item.GetID()),
		Name:        item.GetFullName(),
		URL:         item.GetHTMLURL(),
		Description: item.GetDescription(),
		Stars:       item.GetStargazersCount(),
		Language:    item.GetLanguage(),
		Topics:      item.Topics,
		CreatedAt:   item.GetCreatedAt().Time,
		PushedAt:    item.GetPushedAt().Time,
	}
}

func isRateLimit(err error) bool {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &rateErr) || errors.As(err, &abuseErr)
}
