package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/certverify/internal/config"
	"github.com/turtacn/certverify/internal/domain/service"
	"github.com/turtacn/certverify/internal/infrastructure/monitoring"
	"github.com/turtacn/certverify/internal/interfaces/http/handlers"
	"github.com/turtacn/certverify/internal/interfaces/http/middleware"
	"github.com/turtacn/certverify/internal/web"
	"github.com/turtacn/certverify/pkg/constants"
	"github.com/turtacn/certverify/pkg/logger"
)

// Router HTTP 路由器
type Router struct {
	engine             *gin.Engine
	config             *config.Config
	logger             logger.Logger
	metrics            *monitoring.Metrics
	tracer             trace.Tracer
	rateLimiter        service.RateLimiter
	healthHandler      *handlers.HealthHandler
	authHandler        *handlers.AuthHandler
	certificateHandler *handlers.CertificateHandler
	verifyHandler      *handlers.VerifyHandler
	authMiddleware     gin.HandlerFunc
	server             *http.Server
}

// NewRouter 创建路由器
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	metrics *monitoring.Metrics,
	tracer trace.Tracer,
	rateLimiter service.RateLimiter,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	certificateHandler *handlers.CertificateHandler,
	verifyHandler *handlers.VerifyHandler,
	authMiddleware gin.HandlerFunc,
) *Router {
	// 设置 Gin 模式
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:             gin.New(),
		config:             cfg,
		logger:             log.WithComponent("http"),
		metrics:            metrics,
		tracer:             tracer,
		rateLimiter:        rateLimiter,
		healthHandler:      healthHandler,
		authHandler:        authHandler,
		certificateHandler: certificateHandler,
		verifyHandler:      verifyHandler,
		authMiddleware:     authMiddleware,
	}
	r.setupRoutes()
	r.server = &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        r.engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	return r
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 全局中间件
	r.engine.Use(
		middleware.RecoveryMiddleware(r.logger),
		middleware.RequestIDMiddleware(),
		middleware.ObservabilityMiddleware(r.tracer, r.metrics),
		middleware.LoggingMiddleware(r.logger),
	)
	r.engine.Use(cors.New(r.corsConfig()))

	// 健康检查路由（不需要认证）
	r.engine.GET("/health/live", r.healthHandler.LivenessCheck)
	r.engine.GET("/health/ready", r.healthHandler.ReadinessCheck)

	if r.config.Monitoring.MetricsEnabled {
		r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	// Pprof 性能分析（仅在非生产环境）
	if r.config.Monitoring.PprofEnabled {
		pprof.Register(r.engine)
	}

	// API 路由组
	api := r.engine.Group("/api")
	{
		api.POST("/register", r.authHandler.Register)
		api.POST("/login", r.rateLimit(constants.RateLimitScopeLogin), r.authHandler.Login)
		api.GET("/verify/:certificateId", r.rateLimit(constants.RateLimitScopeVerify), r.verifyHandler.Verify)
		api.GET("/certificates/:certificateId/pdf", r.certificateHandler.PDF)

		certs := api.Group("/certificates")
		certs.Use(r.authMiddleware)
		{
			certs.POST("", r.certificateHandler.Issue)
			certs.GET("", r.certificateHandler.List)
			certs.PUT("/:certificateId/revoke", r.certificateHandler.Revoke)
		}
	}

	// 前端页面
	r.engine.StaticFS("/static", http.FS(web.Assets()))
	r.engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/verify")
	})
	for _, path := range []string{"/login", "/dashboard", "/verify", "/verify/:certificateId"} {
		r.engine.GET(path, serveIndex)
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

func serveIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML())
}

// rateLimit returns the limiter for scope, or a pass-through when limiting is off.
func (r *Router) rateLimit(scope constants.RateLimitScope) gin.HandlerFunc {
	if !r.config.RateLimit.Enabled || r.rateLimiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimitMiddleware(r.rateLimiter, scope, r.metrics, r.logger)
}

func (r *Router) corsConfig() cors.Config {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", constants.RequestIDHeader},
		ExposeHeaders: []string{constants.RequestIDHeader, "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	origins := r.config.Server.AllowedOrigins
	for _, o := range origins {
		if o == "*" {
			corsConfig.AllowAllOrigins = true
			return corsConfig
		}
	}
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
		return corsConfig
	}
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	return corsConfig
}

// Start 启动 HTTP 服务器，阻塞直到服务器关闭
func (r *Router) Start() error {
	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))

	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info(ctx, "Stopping HTTP server...")
	if err := r.server.Shutdown(ctx); err != nil {
		r.logger.Error(ctx, "Server forced to shutdown", err)
		return err
	}
	r.logger.Info(ctx, "HTTP server stopped")
	return nil
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
