package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/HotWatch/internal/metrics"
	"github.com/LJTian/HotWatch/internal/processor"
	"github.com/LJTian/HotWatch/internal/scheduler"
)

type Server struct {
	job     scheduler.Job
	metrics *metrics.Metrics
}

// NewServer job 应与定时任务共用同一个 scheduler.Exclusive，重复触发时返回 409
func NewServer(job scheduler.Job, m *metrics.Metrics) *Server {
	return &Server{job: job, metrics: m}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/run", s.run)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type sourceResult struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

type runResponse struct {
	ID        string            `json:"id"`
	Keywords  []string          `json:"keywords"`
	Sources   []sourceResult    `json:"sources"`
	Matches   []processor.Match `json:"matches"`
	Message   string            `json:"message"`
	Delivered bool              `json:"delivered"`
	ElapsedMS int64             `json:"elapsedMs"`
}

func (s *Server) run(c *gin.Context) {
	rep := s.job.Run(c.Request.Context())
	if rep.Skipped {
		c.JSON(http.StatusConflict, gin.H{
			"code":    "busy",
			"message": "a run is already in progress",
		})
		return
	}

	sources := make([]sourceResult, 0, len(rep.Results))
	for _, r := range rep.Results {
		sr := sourceResult{Source: r.Source, Status: r.Status.String(), Count: len(r.Items)}
		if r.Err != nil {
			sr.Error = r.Err.Error()
		}
		sources = append(sources, sr)
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": runResponse{
			ID:        rep.ID,
			Keywords:  rep.Keywords,
			Sources:   sources,
			Matches:   rep.Matches,
			Message:   rep.Message,
			Delivered: rep.Delivered,
			ElapsedMS: rep.Duration.Milliseconds(),
		},
	})
}
