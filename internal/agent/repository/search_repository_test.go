package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-finance-agent/internal/agent/config"
	"golang-finance-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulateSearchQueryAnnualReport(t *testing.T) {
	q := FormulateSearchQuery(`analyze "Apple" annual report`)
	assert.Equal(t, "Apple latest annual report financial analysis", q)
}

func TestFormulateSearchQueryNews(t *testing.T) {
	q := FormulateSearchQuery("latest news on semiconductors")
	assert.Equal(t, "latest news on semiconductors financial market impact", q)
}

func TestFormulateSearchQueryStatement(t *testing.T) {
	q := FormulateSearchQuery(`what did "Jerome Powell" say in his statement`)
	assert.Equal(t, "Jerome Powell recent statements tweets financial market", q)
}

func TestFormulateSearchQueryDefault(t *testing.T) {
	q := FormulateSearchQuery("impact of rate hikes")
	assert.Equal(t, "impact of rate hikes financial market analysis", q)
}

func TestResolveRedirectURLUnwrapsUddg(t *testing.T) {
	href := "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Farticle&rut=abc"
	assert.Equal(t, "https://example.com/article", resolveRedirectURL(href))
}

func TestResolveRedirectURLPassthrough(t *testing.T) {
	assert.Equal(t, "https://example.com/x", resolveRedirectURL("https://example.com/x"))
}

func newSearchTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Search: config.Search{
			BaseURL:             baseURL,
			MaxRequestPerMinute: 600,
			MaxResults:          5,
			PageCacheTTL:        time.Minute,
		},
	}
}

func TestSearchParsesResultsPage(t *testing.T) {
	page := `<html><body>
	<div class="result">
		<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fone">First Result</a>
		<a class="result__snippet">First snippet</a>
	</div>
	<div class="result">
		<a class="result__a" href="https://example.com/two">Second Result</a>
		<a class="result__snippet">Second snippet</a>
	</div>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/html/", r.URL.Path)
		assert.Equal(t, "market analysis", r.URL.Query().Get("q"))
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	repo := NewDuckDuckGoRepository(newSearchTestConfig(srv.URL), logger.NewNop())
	results, err := repo.Search(context.Background(), "market analysis", 5)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "First Result", results[0].Title)
	assert.Equal(t, "First snippet", results[0].Snippet)
	assert.Equal(t, "https://example.com/one", results[0].URL)
	assert.Equal(t, "https://example.com/two", results[1].URL)
}

func TestSearchRespectsMaxResults(t *testing.T) {
	var page string
	for i := 0; i < 6; i++ {
		page += fmt.Sprintf(`<div class="result"><a class="result__a" href="https://example.com/%d">R%d</a><a class="result__snippet">s</a></div>`, i, i)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>"+page+"</body></html>")
	}))
	defer srv.Close()

	repo := NewDuckDuckGoRepository(newSearchTestConfig(srv.URL), logger.NewNop())
	results, err := repo.Search(context.Background(), "q", 3)

	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestFetchPageTextCachesResult(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `<html><body><article><p>Quarterly   profits rose sharply.</p><p>Margins expanded across segments and analysts upgraded their forecasts for the year.</p></article></body></html>`)
	}))
	defer srv.Close()

	repo := NewDuckDuckGoRepository(newSearchTestConfig(srv.URL), logger.NewNop())

	first, err := repo.FetchPageText(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Contains(t, first, "Quarterly profits rose sharply.")

	second, err := repo.FetchPageText(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits)
}
