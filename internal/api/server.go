package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/safar/goldstock/internal/database"
	"github.com/safar/goldstock/internal/images"
	"github.com/safar/goldstock/internal/models"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	images *images.Store
	log    *zap.Logger
}

func NewServer(db *sqlx.DB, imgs *images.Store, log *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router: router,
		db:     db,
		images: imgs,
		log:    log,
	}

	router.Use(s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		api.GET("/products", s.listProducts)
		api.POST("/products", s.createProduct)
		api.GET("/products/:id", s.getProduct)
		api.PUT("/products/:id", s.replaceProduct)
		api.PATCH("/products/:id", s.patchProduct)
		api.DELETE("/products/:id", s.deleteProduct)
		api.POST("/products/:id/toggle_favorite", s.toggleFavorite)
		api.POST("/products/:id/sell", s.sellProduct)

		api.GET("/sales", s.listSales)
		api.POST("/sales", s.createSale)
		api.GET("/sales/:id", s.getSale)
		api.PUT("/sales/:id", s.replaceSale)
		api.PATCH("/sales/:id", s.patchSale)
		api.DELETE("/sales/:id", s.deleteSale)

		api.POST("/upload_image", s.uploadImage)

		// The desktop front end calls the collection routes with a trailing slash.
		api.GET("/products/", s.listProducts)
		api.POST("/products/", s.createProduct)
		api.GET("/sales/", s.listSales)
		api.POST("/sales/", s.createSale)
		api.POST("/upload_image/", s.uploadImage)
	}

	s.router.GET("/images/:name", s.serveImage)
}

const requestIDHeader = "X-Request-ID"

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			s.log.Error("request failed", fields...)
			return
		}
		s.log.Info("request", fields...)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondStoreError maps store errors onto HTTP statuses.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrProductNotFound), errors.Is(err, database.ErrSalesRecordNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case database.IsUndefinedTable(err):
		c.Error(err)
		respondError(c, http.StatusServiceUnavailable, "database schema is not initialized; run migrate")
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, models.ErrValidation) {
			respondError(c, http.StatusBadRequest, err.Error())
			return false
		}
		respondError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
