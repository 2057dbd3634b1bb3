package awesome

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"daily-alpha/internal/common"
	"daily-alpha/internal/domain"
)

// Parser 实现了 port.Curator 接口
// 解析社区维护的 awesome-mcp-servers 清单
// 清单是人肉编辑的 Markdown，格式随时可能变，解析是尽力而为：
// 不符合格式的行直接跳过，不算错误
type Parser struct {
	listURL string
	client  *http.Client
}

// NewParser 创建清单解析器，listURL 从配置传入
func NewParser(listURL string, timeout time.Duration) *Parser {
	return &Parser{
		listURL: listURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// linkPattern 匹配 "- [Name](url) - Description" 或 "- [Name](url): Description"
var linkPattern = regexp.MustCompile(`^\s*[-*]\s+\[([^\]]+)\]\(([^)]+)\)\s*[-:–]\s*(.+)$`)

// headingPattern 匹配 "## xxx" 小节标题，用于分类
var headingPattern = regexp.MustCompile(`^#{2,4}\s+(.+)$`)

// categoryRules 小节标题关键词 → 分类
// 粗粒度启发式，不追求精确，分不出来的都归 other
var categoryRules = []struct {
	category string
	keywords []string
}{
	{"databases", []string{"database", "sql", "postgres", "sqlite", "mongo"}},
	{"dev_tools", []string{"developer", "git", "docker", "kubernetes", "coding", "command line"}},
	{"file_systems", []string{"file system", "filesystem", "storage"}},
	{"web", []string{"browser", "web", "search", "scraping"}},
	{"ai_ml", []string{"ai", "llm", "machine learning", "agent", "model"}},
	{"apis", []string{"api", "cloud", "communication", "finance"}},
}

// FetchEntries 抓取并解析整份清单
// 拉 raw.githubusercontent.com 的原始文件，不需要认证
func (p *Parser) FetchEntries(ctx context.Context) ([]*domain.CuratedEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.listURL, nil)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable, "构造清单请求失败", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable, "清单抓取失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("清单返回异常状态码 %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeUpstreamUnavailable, "清单读取失败", err)
	}

	return p.parse(string(body)), nil
}

// parse 逐行扫描，跟踪当前小节标题用于分类
func (p *Parser) parse(markdown string) []*domain.CuratedEntry {
	var entries []*domain.CuratedEntry
	category := "other"

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	for scanner.Scan() {
		line := scanner.Text()

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			category = classifyHeading(m[1])
			continue
		}

		m := linkPattern.FindStringSubmatch(line)
		if m == nil {
			continue // ParseMismatch: 不符合链接格式的行一律跳过
		}

		rawURL := strings.TrimSpace(m[2])
		if !strings.HasPrefix(rawURL, "http") {
			continue // 站内锚点、徽章之类的
		}

		entries = append(entries, &domain.CuratedEntry{
			Name:        strings.TrimSpace(m[1]),
			URL:         rawURL,
			Description: strings.TrimSpace(m[3]),
			Category:    category,
		})
	}

	return entries
}

// classifyHeading 按小节标题里的关键词分类
func classifyHeading(heading string) string {
	h := strings.ToLower(heading)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(h, kw) {
				return rule.category
			}
		}
	}
	return "other"
}
