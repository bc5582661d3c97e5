package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.uber.org/zap"

	serverErrors "github.com/ownerchain/ownerchain/pkg/server/errors"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// requestID tags every request with a correlation id, honoring one supplied
// by the caller.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Handler builds the HTTP surface for the server: the chain endpoint and the
// health probe. Metrics are served on their own listener by the run command.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	router.GET("/healthz", s.handleHealthz)

	v1 := router.Group("/v1")
	v1.GET("/brands/:brand_id/chain", s.handleGetBrandChain)

	return cors.New(cors.Options{
		AllowedOrigins: s.config.HTTP.CORSAllowedOrigins,
		AllowedHeaders: s.config.HTTP.CORSAllowedHeaders,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler(router)
}

func (s *Server) handleHealthz(c *gin.Context) {
	ready, err := s.IsReady(c.Request.Context())
	if err != nil || !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetBrandChain(c *gin.Context) {
	ctx := c.Request.Context()

	brandID, err := strconv.ParseInt(c.Param("brand_id"), 10, 64)
	if err != nil || brandID <= 0 {
		s.writeError(c, serverErrors.ErrInvalidBrandID)
		return
	}

	maxDepth := -1
	if raw := c.Query("max_depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(c, serverErrors.ErrInvalidMaxDepth)
			return
		}
		maxDepth = parsed
	}

	resp, err := s.GetBrandChain(ctx, &ChainRequest{BrandID: brandID, MaxDepth: maxDepth})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := serverErrors.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorWithContext(c.Request.Context(), "request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
	}
	c.JSON(status, serverErrors.NewErrorResponse(err, s.config.Debug))
}
