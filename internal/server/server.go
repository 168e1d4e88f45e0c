package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"fbresponse/internal/config"
	"fbresponse/internal/handler"
	"fbresponse/internal/middleware"
	"fbresponse/internal/repository"
	"fbresponse/internal/service"
)

type Server struct {
	router    *gin.Engine
	http      *http.Server
	db        *sqlx.DB
	cfg       *config.Config
	responder service.ResponderService
	logger    *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, responder service.ResponderService, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:    router,
		db:        db,
		cfg:       cfg,
		responder: responder,
		logger:    logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	authService := service.NewAuthService(userRepo, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(authService, userRepo, s.logger)
	botHandler := handler.NewBotHandler(s.responder, s.cfg.Processing.OutputDir, s.cfg.Processing.MaxUploadMB, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.logger))
	{
		authRequired.POST("/auth/logout", authHandler.Logout)

		authRequired.GET("/users/profile", userHandler.GetProfile)
		authRequired.PUT("/users/password", userHandler.ChangePassword)

		admin := authRequired.Group("/users")
		admin.Use(middleware.RequireAdmin())
		admin.GET("", userHandler.ListUsers)
		admin.PUT("/:id/status", userHandler.UpdateStatus)

		bot := authRequired.Group("/bot")
		bot.POST("/upload-guide", botHandler.UploadGuide)
		bot.POST("/process-posts", botHandler.ProcessPosts)
		bot.GET("/download/:fileName", botHandler.Download)
		bot.GET("/runs", botHandler.ListRuns)
		bot.GET("/runs/:id", botHandler.GetRun)
	}
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	s.logger.Info("Server starting", zap.String("port", port))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
