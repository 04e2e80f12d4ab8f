package http

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"net/http"

	"golang-finance-agent/internal/agent/dto"
	"golang-finance-agent/internal/agent/formatter"
	"golang-finance-agent/internal/agent/service"
	"golang-finance-agent/internal/entity"
	"golang-finance-agent/pkg/logger"
	"golang-finance-agent/pkg/utils"

	"github.com/labstack/echo/v4"
)

// QueryHandler handles HTTP requests for the query agent.
type QueryHandler struct {
	agent    service.QueryAgent
	sessions service.SessionManager
	logger   *logger.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(agent service.QueryAgent, sessions service.SessionManager, logger *logger.Logger) *QueryHandler {
	return &QueryHandler{agent: agent, sessions: sessions, logger: logger}
}

// RegisterRoutes registers the query routes to the Echo group.
func (h *QueryHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/query", h.Query)
	g.GET("/sessions/:session_id/history", h.History)
}

// Query godoc
// @Summary Answer a finance question
// @Description Routes a natural-language question through the agent and returns the rendered answer
// @Tags query
// @Accept  json
// @Produce  json
// @Param   query  body    dto.QueryRequest   true    "Question to answer"
// @Success 200 {object} dto.QueryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /query [post]
func (h *QueryHandler) Query(c echo.Context) error {
	var req dto.QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query is required"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}
	session := h.sessions.GetOrCreate(sessionID)

	result := h.agent.HandleQuery(c.Request().Context(), session, req.Query)

	resp := dto.QueryResponse{
		SessionID: sessionID,
		Type:      resultType(result),
		Response:  formatter.RenderHTML(result),
	}
	switch r := result.(type) {
	case entity.StockChart:
		resp.Image = base64.StdEncoding.EncodeToString(r.Image)
	case entity.StockComparison:
		resp.Image = base64.StdEncoding.EncodeToString(r.Image)
	case entity.SentimentReport:
		resp.Sentiment = r.Sentiment
	}

	return c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Get conversation history
// @Description Returns the logged exchanges of a session, oldest first
// @Tags query
// @Produce  json
// @Param   session_id  path    string true    "Session ID"
// @Success 200 {object} dto.HistoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{session_id}/history [get]
func (h *QueryHandler) History(c echo.Context) error {
	sessionID := c.Param("session_id")
	session, found := h.sessions.Get(sessionID)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}

	session.Lock()
	entries := session.HistorySnapshot()
	session.Unlock()

	resp := dto.HistoryResponse{SessionID: sessionID, History: []dto.HistoryEntryResponse{}}
	for _, e := range entries {
		resp.History = append(resp.History, dto.HistoryEntryResponse{
			Query:    e.Query,
			Response: e.Response,
			Entities: e.Entities,
			At:       utils.PrettyDate(e.At),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func resultType(result entity.QueryResult) string {
	switch result.(type) {
	case entity.Unrelated:
		return "unrelated"
	case entity.SimpleAnswer:
		return "simple"
	case entity.StockPrice:
		return "price"
	case entity.StockChart:
		return "chart"
	case entity.StockComparison:
		return "comparison"
	case entity.SentimentReport:
		return "report"
	case entity.ErrorResult:
		return "error"
	}
	return "unknown"
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "session-fallback"
	}
	return hex.EncodeToString(buf)
}
