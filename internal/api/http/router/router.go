// Package router assembles the HTTP engine: route groups, CORS policy,
// request logging and the authentication boundary.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/filevault/filevault-server/internal/api/http/handler"
	"github.com/filevault/filevault-server/internal/api/http/middleware"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/service"
)

// Router manages HTTP route registration and middleware configuration.
type Router struct {
	authService    *service.Auth
	fileService    *service.File
	auditService   *service.Audit
	tokens         model.TokenManager
	logger         *logger.Logger
	allowedOrigins []string
	maxUploadSize  int64
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	fileService *service.File,
	auditService *service.Audit,
	tokens model.TokenManager,
	logger *logger.Logger,
	allowedOrigins []string,
	maxUploadSize int64,
) *Router {
	return &Router{
		authService:    authService,
		fileService:    fileService,
		auditService:   auditService,
		tokens:         tokens,
		logger:         logger,
		allowedOrigins: allowedOrigins,
		maxUploadSize:  maxUploadSize,
	}
}

// Register builds the engine with all routes and middleware. Auth routes are
// public; file and log routes require a valid session token.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.Handle())
	engine.Use(cors.New(r.corsConfig()))

	authHandler := handler.NewAuth(r.authService, r.logger)
	fileHandler := handler.NewFile(r.fileService, r.logger, r.maxUploadSize)
	auditHandler := handler.NewAudit(r.auditService, r.logger)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authenticate.Handle(handler.SessionCookieName))
	{
		protected.POST("/files/upload", fileHandler.Upload)
		protected.GET("/files", fileHandler.List)
		protected.GET("/files/download/:name", fileHandler.Download)
		protected.GET("/logs", auditHandler.List)
	}

	return engine
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = r.allowedOrigins
	cfg.AllowCredentials = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cfg
}
