package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang-finance-agent/internal/agent/dto"
	"golang-finance-agent/internal/agent/service"
	"golang-finance-agent/internal/entity"
	"golang-finance-agent/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	result entity.QueryResult
}

func (f *fakeAgent) HandleQuery(_ context.Context, session *entity.Session, query string) entity.QueryResult {
	if _, ok := f.result.(entity.SentimentReport); ok {
		session.AppendHistory(entity.HistoryEntry{Query: query, Response: "summary", At: time.Now()})
	}
	return f.result
}

func newTestServer(result entity.QueryResult) (*echo.Echo, service.SessionManager) {
	sessions := service.NewSessionManager(time.Minute)
	handler := NewQueryHandler(&fakeAgent{result: result}, sessions, logger.NewNop())

	e := echo.New()
	handler.RegisterRoutes(e.Group("/api/v1"))
	return e, sessions
}

func TestQueryEndpointSimpleAnswer(t *testing.T) {
	e, _ := newTestServer(entity.SimpleAnswer{Text: "Tesla Inc.'s stock ticker is TSLA."})

	body := `{"query": "what is the ticker for tesla"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "simple", resp.Type)
	assert.NotEmpty(t, resp.SessionID)
	assert.Contains(t, resp.Response, "TSLA")
	assert.Empty(t, resp.Image)
}

func TestQueryEndpointChartIncludesImage(t *testing.T) {
	e, _ := newTestServer(entity.StockChart{Ticker: "AAPL", Image: []byte("png"), Period: "1y", LatestPrice: 187.33})

	body := `{"query": "chart for AAPL", "session_id": "fixed"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chart", resp.Type)
	assert.Equal(t, "fixed", resp.SessionID)
	assert.Equal(t, "cG5n", resp.Image)
}

func TestQueryEndpointRejectsEmptyQuery(t *testing.T) {
	e, _ := newTestServer(entity.SimpleAnswer{Text: "x"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	e, _ := newTestServer(entity.SentimentReport{Summary: "summary"})

	body := `{"query": "analyze apple", "session_id": "s1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/history", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.History, 1)
	assert.Equal(t, "analyze apple", resp.History[0].Query)
}

func TestHistoryEndpointUnknownSession(t *testing.T) {
	e, _ := newTestServer(entity.SimpleAnswer{Text: "x"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing/history", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
