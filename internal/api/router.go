package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashish-singh09/disasterwatch/internal/aggregator"
	"github.com/ashish-singh09/disasterwatch/internal/config"
)

// Aggregator 由 aggregator.Aggregator 实现，测试中可替换
type Aggregator interface {
	Aggregate(ctx context.Context) *aggregator.Result
}

type Server struct {
	agg  Aggregator
	path string
	mode config.ResponseMode
}

func NewServer(agg Aggregator, cfg *config.Config) *Server {
	return &Server{agg: agg, path: cfg.APIPath, mode: cfg.ResponseMode}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET(s.path, s.disasterNews)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// disasterNews 始终返回 200：失败的来源只会体现为空列表
func (s *Server) disasterNews(c *gin.Context) {
	res := s.agg.Aggregate(c.Request.Context())

	if s.mode == config.ResponseGrouped {
		c.JSON(http.StatusOK, res.Items)
		return
	}
	c.JSON(http.StatusOK, res.Flatten())
}
