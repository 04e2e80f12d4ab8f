package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang-finance-agent/internal/agent/config"
	"golang-finance-agent/internal/agent/dto"
	"golang-finance-agent/pkg/logger"
	"golang-finance-agent/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	searchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// Per-source excerpt cap in the consolidated text.
	contentExcerptLimit = 1500

	// Full page text is fetched for this many top results only.
	fullTextSources = 3

	noResultsMessage = "no search results found"
)

var quotedEntityRe = regexp.MustCompile(`"([^"]*)"`)

// duckDuckGoRepository implements SearchRepository against the DuckDuckGo
// HTML endpoint, with a Google News RSS fallback when the page yields
// nothing.
type duckDuckGoRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
	pageCache      *cache.Cache
	feedParser     *gofeed.Parser
}

// NewDuckDuckGoRepository creates a new instance of duckDuckGoRepository.
func NewDuckDuckGoRepository(cfg *config.Config, log *logger.Logger) SearchRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Search.MaxRequestPerMinute)
	ttl := cfg.Search.PageCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &duckDuckGoRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		pageCache:      cache.New(ttl, 2*ttl),
		feedParser:     gofeed.NewParser(),
	}
}

// Search queries the DuckDuckGo HTML endpoint and returns up to maxResults
// title/snippet/url tuples. An empty result set falls back to Google News
// RSS before giving up.
func (r *duckDuckGoRepository) Search(ctx context.Context, query string, maxResults int) ([]dto.SearchResult, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	searchURL := fmt.Sprintf("%s/html/?q=%s", r.cfg.Search.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Error("Failed to reach search endpoint", logger.ErrorField(err), logger.StringField("query", query))
		return r.searchNewsFeed(ctx, query, maxResults)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Warn("Search endpoint returned non-OK status", logger.IntField("status", resp.StatusCode), logger.StringField("query", query))
		return r.searchNewsFeed(ctx, query, maxResults)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results page: %w", err)
	}

	var results []dto.SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}
		anchor := sel.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}
		results = append(results, dto.SearchResult{
			Title:   strings.TrimSpace(anchor.Text()),
			Snippet: strings.TrimSpace(sel.Find("a.result__snippet").First().Text()),
			URL:     resolveRedirectURL(href),
		})
		return true
	})

	if len(results) == 0 {
		r.log.Info("Search returned no results, falling back to news feed", logger.StringField("query", query))
		return r.searchNewsFeed(ctx, query, maxResults)
	}

	return results, nil
}

// searchNewsFeed queries Google News RSS as a fallback search source.
func (r *duckDuckGoRepository) searchNewsFeed(ctx context.Context, query string, maxResults int) ([]dto.SearchResult, error) {
	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en", url.QueryEscape(query))
	feed, err := r.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	var results []dto.SearchResult
	for _, item := range feed.Items {
		if len(results) >= maxResults {
			break
		}
		results = append(results, dto.SearchResult{
			Title:   utils.SafeText(item.Title),
			Snippet: utils.SafeText(item.Description),
			URL:     item.Link,
		})
	}
	return results, nil
}

// FetchPageText downloads a page and extracts its readable text content.
// Results are cached per URL.
func (r *duckDuckGoRepository) FetchPageText(ctx context.Context, pageURL string) (string, error) {
	if cached, found := r.pageCache.Get(pageURL); found {
		return cached.(string), nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("User-Agent", searchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch page content, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse page content: %w", err)
	}

	flat, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content()))
	if err != nil {
		return "", fmt.Errorf("failed to flatten page content: %w", err)
	}

	text := utils.SafeText(utils.CleanToValidUTF8(flat.Text()))
	r.pageCache.Set(pageURL, text, cache.DefaultExpiration)
	return text, nil
}

// SearchAndConsolidate runs a formulated search and merges the results into
// a single text block: full page excerpts for the top results, title and
// snippet only for the rest.
func (r *duckDuckGoRepository) SearchAndConsolidate(ctx context.Context, userQuery string) (string, error) {
	maxResults := r.cfg.Search.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	searchQuery := FormulateSearchQuery(userQuery)
	results, err := r.Search(ctx, searchQuery, maxResults)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf(noResultsMessage)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("SEARCH QUERY: %s\n\n", searchQuery))

	top := len(results)
	if top > fullTextSources {
		top = fullTextSources
	}

	for i, result := range results[:top] {
		domain := utils.ExtractDomain(result.URL)

		excerpt := "Content extraction failed."
		if text, err := r.FetchPageText(ctx, result.URL); err == nil && text != "" {
			excerpt = utils.TruncateString(text, contentExcerptLimit)
		} else if err != nil {
			r.log.Debug("Page text extraction failed", logger.ErrorField(err), logger.StringField("url", result.URL))
		}

		builder.WriteString(fmt.Sprintf("SOURCE %d: %s (%s)\n", i+1, result.Title, domain))
		builder.WriteString(fmt.Sprintf("URL: %s\n", result.URL))
		builder.WriteString(fmt.Sprintf("SUMMARY: %s\n", result.Snippet))
		builder.WriteString(fmt.Sprintf("CONTENT EXCERPT: %s...\n\n", excerpt))
	}

	if len(results) > fullTextSources {
		builder.WriteString("ADDITIONAL SOURCES:\n")
		for i, result := range results[fullTextSources:] {
			domain := utils.ExtractDomain(result.URL)
			builder.WriteString(fmt.Sprintf("SOURCE %d: %s (%s)\n", i+fullTextSources+1, result.Title, domain))
			builder.WriteString(fmt.Sprintf("SUMMARY: %s\n\n", result.Snippet))
		}
	}

	return builder.String(), nil
}

// FormulateSearchQuery enhances a user query for better search recall.
// Quoted entities take precedence; otherwise the query is suffixed by topic.
func FormulateSearchQuery(userQuery string) string {
	var entities []string
	for _, match := range quotedEntityRe.FindAllStringSubmatch(userQuery, -1) {
		if match[1] != "" {
			entities = append(entities, match[1])
		}
	}

	lower := strings.ToLower(userQuery)

	if strings.Contains(lower, "annual report") || strings.Contains(lower, "yearly report") {
		if len(entities) > 0 {
			return fmt.Sprintf("%s latest annual report financial analysis", entities[0])
		}
		return userQuery + " latest financial analysis"
	}

	if strings.Contains(lower, "news") {
		if len(entities) > 0 {
			return fmt.Sprintf("%s latest financial news market impact", entities[0])
		}
		return userQuery + " financial market impact"
	}

	if strings.Contains(lower, "tweet") || strings.Contains(lower, "statement") {
		if len(entities) > 0 {
			return fmt.Sprintf("%s recent statements tweets financial market", entities[0])
		}
		return userQuery + " recent financial statements market impact"
	}

	return userQuery + " financial market analysis"
}

// resolveRedirectURL unwraps DuckDuckGo redirect links (uddg parameter) to
// the destination URL.
func resolveRedirectURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		if target, err := url.QueryUnescape(uddg); err == nil {
			return target
		}
	}
	return href
}
