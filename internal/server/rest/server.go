// Package rest exposes the marketplace over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/baibai/internal/logging"
	"github.com/dmitrijs2005/baibai/internal/server/config"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	addr         string
	maxImageSize int64
	auth         Authenticator
	users        UserManager
	products     ProductManager
	log          logging.Logger
	engine       *gin.Engine
}

func NewServer(cfg *config.Config, a Authenticator, u UserManager, p ProductManager, log logging.Logger) (*Server, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	s := &Server{
		addr:         cfg.HTTPAddr,
		maxImageSize: cfg.MaxImageSize,
		auth:         a,
		users:        u,
		products:     p,
		log:          log.With("module", "rest"),
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/products/preview/"})))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")
	authed := RequireAuth(s.auth)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", s.login)
		authGroup.POST("/refresh", s.refresh)
	}

	users := api.Group("/users")
	{
		users.POST("", s.register)
		users.GET("/profile", authed, s.profile)
		users.GET("", authed, RequireAdmin(s.users), s.listUsers)
	}

	products := api.Group("/products")
	{
		products.GET("", s.listProducts)
		products.GET("/locations", s.locations)
		products.GET("/preview/:filename", s.preview)
		products.GET("/:productId", s.getProduct)
		products.POST("", authed, s.createProduct)
		products.PUT("/:productId", authed, s.updateProduct)
		products.PUT("/:productId/multipart", authed, s.updateProductMultipart)
		products.DELETE("/:productId", authed, s.deleteProduct)
	}

	r.NoRoute(func(c *gin.Context) {
		abortWithStatus(c, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
