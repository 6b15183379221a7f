// Package server contains the HTTP layer: routing, auth middleware and the
// handlers for the API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/notifications"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo     repository.UserRepository
	tokenRepo    repository.TokenRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository

	dispatcher *notifications.Dispatcher

	authService     *service.AuthService
	userService     *service.UserService
	postService     *service.PostService
	commentService  *service.CommentService
	taxonomyService *service.TaxonomyService
}

// NewServer creates a server instance, establishing database and Redis
// connections itself.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests and the bootstrap layer use this directly.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("quill-api"),
		userRepo:       repository.NewUserRepository(db),
		tokenRepo:      repository.NewTokenRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		categoryRepo:   repository.NewCategoryRepository(db),
		tagRepo:        repository.NewTagRepository(db),
		dispatcher:     notifications.NewDispatcher(redisClient),
	}

	server.authService = service.NewAuthService(server.userRepo, server.tokenRepo, server.dispatcher, cfg.JWTSecret)
	server.userService = service.NewUserService(server.userRepo)
	server.postService = service.NewPostService(server.postRepo, server.tagRepo, server.categoryRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo)
	server.taxonomyService = service.NewTaxonomyService(server.categoryRepo, server.tagRepo, server.postRepo)

	return server
}

// SetupMiddleware configures the global middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global per-IP rate limit; preflight requests are exempt.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later.",
				"success": false,
			})
		},
	}))
}

// SetupRoutes configures all routes. Specific /:id/:resource routes are
// registered before the generic /:id routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/", s.Home)

	api.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Post("/logout", s.AuthRequired(), s.Logout)
	api.Post("/forgot-password", middleware.RateLimit(s.redis, 3, 10*time.Minute, "forgot_password"), s.ForgotPassword)
	api.Post("/reset-password", s.ResetPassword)

	post := api.Group("/post")
	post.Get("/", s.GetPosts)
	post.Post("/", s.AuthRequired(), s.AdminRequired(), s.CreatePost)
	post.Get("/:id/comments", s.GetPostComments)
	post.Post("/:id/like", s.AuthRequired(), s.LikePost)
	post.Post("/:id/unlike", s.AuthRequired(), s.UnlikePost)
	post.Get("/:id", s.GetPost)
	post.Put("/:id", s.AuthRequired(), s.AdminRequired(), s.UpdatePost)
	post.Delete("/:id", s.AuthRequired(), s.AdminRequired(), s.DeletePost)

	category := api.Group("/category")
	category.Get("/", s.GetCategories)
	category.Post("/", s.AuthRequired(), s.AdminRequired(), s.CreateCategory)
	category.Get("/:id/posts", s.GetCategoryPosts)
	category.Put("/:id", s.AuthRequired(), s.AdminRequired(), s.UpdateCategory)
	category.Delete("/:id", s.AuthRequired(), s.AdminRequired(), s.DeleteCategory)

	tag := api.Group("/tag")
	tag.Get("/", s.GetTags)
	tag.Post("/", s.AuthRequired(), s.AdminRequired(), s.CreateTag)
	tag.Get("/:id/posts", s.GetTagPosts)
	tag.Get("/:id", s.GetTag)
	tag.Put("/:id", s.AuthRequired(), s.AdminRequired(), s.UpdateTag)
	tag.Delete("/:id", s.AuthRequired(), s.AdminRequired(), s.DeleteTag)

	comment := api.Group("/comment")
	comment.Get("/", s.AuthRequired(), s.AdminRequired(), s.GetComments)
	comment.Post("/", s.AuthRequired(), s.CreateComment)
	comment.Put("/:id", s.AuthRequired(), s.UpdateComment)
	comment.Delete("/:id", s.AuthRequired(), s.AdminRequired(), s.DeleteComment)

	user := api.Group("/user")
	user.Get("/", s.AuthRequired(), s.GetMe)
	user.Get("/list", s.AuthRequired(), s.AdminRequired(), s.GetUsers)
	user.Get("/adminsList", s.AuthRequired(), s.AdminRequired(), s.GetAdminsList)
	user.Get("/:id/posts", s.GetUserPosts)
	user.Get("/:id/comments", s.GetUserComments)
	user.Get("/:id/liked-posts", s.GetUserLikedPosts)
	user.Post("/:id/promote-to-admin", s.AuthRequired(), s.AdminRequired(), s.PromoteUser)
	user.Post("/:id/demote-to-user", s.AuthRequired(), s.AdminRequired(), s.DemoteUser)

	profile := api.Group("/profile", s.AuthRequired())
	profile.Post("/update", s.UpdateProfile)
	profile.Post("/change-password", s.ChangePassword)

	upload := api.Group("/upload")
	upload.Post("/upload-post-image", s.AuthRequired(), s.AdminRequired(), s.UploadPostImage)
	upload.Post("/upload-profile-image", s.AuthRequired(), s.UploadProfileImage)
}

// AuthRequired resolves the bearer token to a user and stores it in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, models.NewAuthenticationError("Authorization header required"))
		}

		user, err := s.authService.Authenticate(c.Context(), parts[1])
		if err != nil {
			return models.RespondWithError(c, err)
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID))
		return c.Next()
	}
}

// AdminRequired rejects non-admin users. The failure status is 401, not 403;
// clients treat both gates as a login problem. Must run after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.currentUser(c)
		if user == nil || !user.IsAdmin() {
			return models.RespondWithError(c, models.NewAuthorizationError("This action is unauthorized."))
		}
		return c.Next()
	}
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the fiber app and listens on the configured port.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Quill API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
