package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"cellar-sync/internal/cellar_sync/model"
	"cellar-sync/internal/cellar_sync/processor"
)

// Store is the read-side slice of the store contract the HTTP surface needs.
type Store interface {
	Page(ctx context.Context, coll string, filter bson.M, skip, limit int64) ([]bson.M, error)
	Count(ctx context.Context, coll string, filter bson.M) (int64, error)
	RecentSyncRuns(ctx context.Context, limit int64) ([]model.SyncRun, error)
}

type Server struct {
	Log      *zap.Logger
	Stores   Store
	Pipeline *processor.Pipeline
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.POST("/sync", s.runSync)
	r.GET("/sync/runs", s.listSyncRuns)
	r.GET("/wines", s.listWines)     // ?country=&producer=&page=1&limit=20
	r.GET("/bottles", s.listBottles) // ?location=&bottle_state=&page=1&limit=20
	return r
}

// runSync executes one full pipeline run. The handler always answers with
// the structured summary; a fatal run maps to 500 with the error shape.
func (s *Server) runSync(c *gin.Context) {
	summary := s.Pipeline.Run(c.Request.Context())
	if !summary.Success {
		c.JSON(http.StatusInternalServerError, summary)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) listSyncRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	runs, err := s.Stores.RecentSyncRuns(c.Request.Context(), int64(limit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs})
}

func (s *Server) listWines(c *gin.Context) {
	filter := bson.M{}
	if v := c.Query("country"); v != "" {
		filter["country"] = v
	}
	if v := c.Query("producer"); v != "" {
		filter["producer"] = v
	}
	s.listCollection(c, model.CollWines, filter)
}

func (s *Server) listBottles(c *gin.Context) {
	filter := bson.M{}
	if v := c.Query("location"); v != "" {
		filter["location"] = v
	}
	if v := c.Query("bottle_state"); v != "" {
		if state, err := strconv.Atoi(v); err == nil {
			filter["bottle_state"] = state
		}
	}
	s.listCollection(c, model.CollBottles, filter)
}

func (s *Server) listCollection(c *gin.Context, coll string, filter bson.M) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	skip := int64((page - 1) * limit)

	total, err := s.Stores.Count(c.Request.Context(), coll, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rows, err := s.Stores.Page(c.Request.Context(), coll, filter, skip, int64(limit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"data":  rows,
		"page":  page,
		"limit": limit,
	})
}
