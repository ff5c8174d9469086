package backendsim

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theCampel/lightspeed/internal/model"
)

// Server is the simulated advisor backend: the REST API the dashboard
// queries plus the WebSocket hub the scripted feed broadcasts through.
type Server struct {
	addr      string
	hub       *Hub
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	cardSeq   atomic.Uint64
}

// NewServer creates a simulator server.
func NewServer(addr string, hub *Hub) *Server {
	if addr == "" {
		addr = "0.0.0.0:8000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		hub:    hub,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.registerRoutes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.POST("/api/queries/process", s.handleProcessQuery)
	r.GET("/api/summary", s.handleSummary)
	r.GET("/api/profile", s.handleProfile)
	r.GET("/api/portfolio", s.handlePortfolio)
	r.GET("/api/funds", s.handleFunds)
	r.GET("/ws", func(c *gin.Context) {
		s.hub.Serve(c.Writer, c.Request)
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"clients": s.hub.ClientCount(),
	})
}

type processRequest struct {
	QueryText string `json:"query_text" binding:"required"`
	QueryType string `json:"query_type"`
}

type responseCard struct {
	ID        string                  `json:"id"`
	Type      string                  `json:"type"`
	Title     string                  `json:"title"`
	Content   string                  `json:"content,omitempty"`
	Stock     *model.StockPayload     `json:"stock_data,omitempty"`
	Funds     []model.FundPayload     `json:"fund_suggestions,omitempty"`
	News      []model.NewsItem        `json:"news,omitempty"`
	Portfolio *model.PortfolioPayload `json:"portfolio_data,omitempty"`
	Summary   *model.SummaryPayload   `json:"summary,omitempty"`
}

func (s *Server) handleProcessQuery(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing query_text field"})
		return
	}

	card := s.answerQuery(req.QueryText)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cards":   []responseCard{card},
	})
}

// answerQuery routes a free-form question to the canned dataset by
// keyword. Good enough for demos; the real backend runs this through a
// language model.
func (s *Server) answerQuery(text string) responseCard {
	q := strings.ToLower(text)
	switch {
	case strings.Contains(q, "nvda") || strings.Contains(q, "nvidia") || strings.Contains(q, "stock"):
		stock := demoStock()
		return responseCard{
			ID:    s.nextCardID(),
			Type:  string(model.KindStock),
			Title: fmt.Sprintf("%s Performance", stock.Symbol),
			Stock: &stock,
		}
	case strings.Contains(q, "fund") || strings.Contains(q, "esg") || strings.Contains(q, "sustainab"):
		return responseCard{
			ID:    s.nextCardID(),
			Type:  string(model.KindFund),
			Title: "Fund Suggestions",
			Funds: demoFunds(),
		}
	case strings.Contains(q, "portfolio") || strings.Contains(q, "allocation") || strings.Contains(q, "balance"):
		portfolio := demoPortfolio()
		return responseCard{
			ID:        s.nextCardID(),
			Type:      string(model.KindPortfolio),
			Title:     "Portfolio Performance",
			Portfolio: &portfolio,
		}
	case strings.Contains(q, "news") || strings.Contains(q, "market"):
		return responseCard{
			ID:   s.nextCardID(),
			Type: string(model.KindNews),
			News: demoNews(),
		}
	default:
		return responseCard{
			ID:      s.nextCardID(),
			Type:    string(model.KindClient),
			Title:   fmt.Sprintf("Response to: %s", text),
			Content: "I could not match that to client data. Try asking about the portfolio, a holding, or fund suggestions.",
		}
	}
}

func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, demoSummary())
}

func (s *Server) handleProfile(c *gin.Context) {
	c.JSON(http.StatusOK, demoProfile())
}

func (s *Server) handlePortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, demoPortfolio())
}

func (s *Server) handleFunds(c *gin.Context) {
	c.JSON(http.StatusOK, demoFunds())
}

// nextCardID mints ids on a millisecond base so the numeric token keeps
// growing across restarts and never collides with client-minted ids.
func (s *Server) nextCardID() string {
	return fmt.Sprintf("card-%d", time.Now().UnixMilli()+int64(s.cardSeq.Add(1)))
}
